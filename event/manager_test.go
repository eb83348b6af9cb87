package event

import "testing"

func TestDispatchReachesSubscribers(t *testing.T) {
	m := NewManager()
	var got []Type
	m.Subscribe(TypeBufferModified, func(e Event) bool {
		got = append(got, e.Type)
		return false
	})
	m.Subscribe(TypeBufferModified, func(e Event) bool {
		got = append(got, e.Type)
		return false
	})
	m.Subscribe(TypeBufferSaved, func(e Event) bool {
		t.Error("handler for a different type was invoked")
		return false
	})

	m.Dispatch(TypeBufferModified, nil)
	if len(got) != 2 {
		t.Fatalf("dispatched to %d handlers, want 2", len(got))
	}
}

func TestDispatchCarriesData(t *testing.T) {
	m := NewManager()
	var token int
	m.Subscribe(TypeContainerAction, func(e Event) bool {
		token = e.Data.(ContainerActionData).Token
		return true
	})
	m.Dispatch(TypeContainerAction, ContainerActionData{Token: 7})
	if token != 7 {
		t.Errorf("token = %d, want 7", token)
	}
}

func TestDispatchWithoutSubscribers(t *testing.T) {
	m := NewManager()
	// Must not panic.
	m.Dispatch(TypeHistoryCleared, nil)
}

func TestSubscribeDuringDispatch(t *testing.T) {
	m := NewManager()
	fired := 0
	m.Subscribe(TypeBufferLoaded, func(e Event) bool {
		m.Subscribe(TypeBufferLoaded, func(Event) bool {
			fired++
			return false
		})
		return false
	})
	m.Dispatch(TypeBufferLoaded, nil)
	if fired != 0 {
		t.Errorf("late subscriber ran during the dispatch that added it")
	}
	m.Dispatch(TypeBufferLoaded, nil)
	if fired != 1 {
		t.Errorf("late subscriber fired %d times on the next dispatch, want 1", fired)
	}
}
