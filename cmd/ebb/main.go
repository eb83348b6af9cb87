// cmd/ebb/main.go
package main

import (
	"flag"
	stlog "log"
	"os"

	"github.com/bethropolis/ebb/internal/config"
	"github.com/bethropolis/ebb/internal/logger"
	"github.com/bethropolis/ebb/internal/shell"
)

var (
	configPath  string
	logFilePath string
	logLevel    string
	filePath    string
)

func main() {
	flag.StringVar(&configPath, "config", "", "Path to config file (default: user config dir)")
	flag.StringVar(&logFilePath, "logfile", "", "Path to write log file (default: stderr)")
	flag.StringVar(&logLevel, "loglevel", "", "Log level (debug, info, warn, error)")
	flag.Parse()
	if flag.NArg() > 0 {
		filePath = flag.Arg(0)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		stlog.Fatalf("Failed to load config: %v", err)
	}

	// Flags override the config file.
	if logLevel == "" {
		logLevel = cfg.Logger.Level
	}
	if logFilePath == "" {
		logFilePath = cfg.Logger.FilePath
	}

	logOutput := os.Stderr
	if logFilePath != "" && logFilePath != "-" {
		logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			stlog.Fatalf("Failed to open log file '%s': %v", logFilePath, err)
		}
		defer logFile.Close()
		logOutput = logFile
	}
	logger.Init(logger.ParseLevel(logLevel), logOutput)

	logger.Infof("Starting ebb...")
	if filePath != "" {
		logger.Debugf("File path specified: %s", filePath)
	}

	sh, err := shell.New(cfg, filePath)
	if err != nil {
		logger.Errorf("Error initializing shell: %v", err)
		os.Exit(1)
	}
	if err := sh.Run(os.Stdin, os.Stdout); err != nil {
		logger.Errorf("Shell exited with error: %v", err)
		os.Exit(1)
	}
	logger.Infof("ebb finished.")
}
