package history

import "testing"

func TestScaledVectorStartsNarrow(t *testing.T) {
	var sv ScaledVector
	if sv.Size() != 0 {
		t.Fatalf("empty vector Size() = %d, want 0", sv.Size())
	}
	for i := 0; i < 255; i++ {
		sv.PushBack()
		sv.SetValueAt(i, uint64(i))
	}
	if sv.Size() != 255 {
		t.Fatalf("Size() = %d, want 255", sv.Size())
	}
	if sv.SizeInBytes() != 255 {
		t.Errorf("SizeInBytes() = %d, want 255 (one byte per element)", sv.SizeInBytes())
	}
	for i := 0; i < 255; i++ {
		if got := sv.ValueAt(i); got != uint64(i) {
			t.Fatalf("ValueAt(%d) = %d, want %d", i, got, i)
		}
	}
}

func TestScaledVectorEscalatesWidth(t *testing.T) {
	var sv ScaledVector
	for i := 0; i < 10; i++ {
		sv.PushBack()
		sv.SetValueAt(i, uint64(i))
	}

	sv.SetValueAt(3, 300)
	if sv.SizeInBytes() != 20 {
		t.Errorf("after storing 300: SizeInBytes() = %d, want 20 (two bytes per element)", sv.SizeInBytes())
	}
	for i := 0; i < 10; i++ {
		want := uint64(i)
		if i == 3 {
			want = 300
		}
		if got := sv.ValueAt(i); got != want {
			t.Fatalf("after rescale: ValueAt(%d) = %d, want %d", i, got, want)
		}
	}

	sv.SetValueAt(0, 70000)
	if sv.SizeInBytes() != 40 {
		t.Errorf("after storing 70000: SizeInBytes() = %d, want 40 (four bytes per element)", sv.SizeInBytes())
	}
	if got := sv.ValueAt(0); got != 70000 {
		t.Errorf("ValueAt(0) = %d, want 70000", got)
	}
	if got := sv.ValueAt(3); got != 300 {
		t.Errorf("ValueAt(3) = %d, want 300", got)
	}

	// Widths never shrink while elements remain.
	sv.SetValueAt(0, 1)
	if sv.SizeInBytes() != 40 {
		t.Errorf("width shrank after storing a small value: SizeInBytes() = %d", sv.SizeInBytes())
	}
}

func TestScaledVectorSignedValueAt(t *testing.T) {
	var sv ScaledVector
	sv.PushBack()
	sv.SetValueAt(0, 0xFF)
	if got := sv.SignedValueAt(0); got != -1 {
		t.Errorf("SignedValueAt(0) = %d, want -1", got)
	}
	sv.SetValueAt(0, 200)
	if got := sv.SignedValueAt(0); got != -56 {
		t.Errorf("SignedValueAt(0) = %d, want -56", got)
	}
	sv.SetValueAt(0, 100)
	if got := sv.SignedValueAt(0); got != 100 {
		t.Errorf("SignedValueAt(0) = %d, want 100", got)
	}
}

func TestScaledVectorTruncateAndResize(t *testing.T) {
	var sv ScaledVector
	for i := 0; i < 8; i++ {
		sv.PushBack()
		sv.SetValueAt(i, uint64(i+1))
	}
	sv.Truncate(3)
	if sv.Size() != 3 {
		t.Fatalf("after Truncate(3): Size() = %d", sv.Size())
	}
	if got := sv.ValueAt(2); got != 3 {
		t.Errorf("ValueAt(2) = %d, want 3", got)
	}

	sv.ReSize(5)
	if sv.Size() != 5 {
		t.Fatalf("after ReSize(5): Size() = %d", sv.Size())
	}
	if got := sv.ValueAt(4); got != 0 {
		t.Errorf("grown element not zero: ValueAt(4) = %d", got)
	}

	sv.ClearValueAt(1)
	if got := sv.ValueAt(1); got != 0 {
		t.Errorf("after ClearValueAt(1): ValueAt(1) = %d", got)
	}
}

func TestScaledVectorClearResetsWidth(t *testing.T) {
	var sv ScaledVector
	sv.PushBack()
	sv.SetValueAt(0, 1 << 20)
	sv.Clear()
	if sv.Size() != 0 {
		t.Fatalf("after Clear: Size() = %d", sv.Size())
	}
	sv.PushBack()
	sv.SetValueAt(0, 7)
	if sv.SizeInBytes() != 1 {
		t.Errorf("width did not reset after Clear: SizeInBytes() = %d, want 1", sv.SizeInBytes())
	}
}
