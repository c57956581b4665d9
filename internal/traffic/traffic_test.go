package traffic

import (
	"testing"
	"time"
)

// TestTracker_RecordServed verifies served requests are counted in the window.
func TestTracker_RecordServed(t *testing.T) {
	var tr Tracker
	tr.RecordServed()
	tr.RecordServed()

	if got := tr.ServedCount(time.Minute); got != 2 {
		t.Errorf("ServedCount() = %d, want 2", got)
	}
	if got := tr.RequestCount(time.Minute); got != 2 {
		t.Errorf("RequestCount() = %d, want 2", got)
	}
}

// TestTracker_RecordServedN verifies batch recording for synthetic load.
func TestTracker_RecordServedN(t *testing.T) {
	var tr Tracker
	tr.RecordServedN(25)

	if got := tr.ServedCount(time.Minute); got != 25 {
		t.Errorf("ServedCount() = %d, want 25", got)
	}
}

// TestTracker_RecordDenied verifies denials count toward RequestCount but not
// ServedCount.
func TestTracker_RecordDenied(t *testing.T) {
	var tr Tracker
	tr.RecordServed()
	tr.RecordDenied()
	tr.RecordDenied()

	if got := tr.DenialCount(time.Minute); got != 2 {
		t.Errorf("DenialCount() = %d, want 2", got)
	}
	if got := tr.ServedCount(time.Minute); got != 1 {
		t.Errorf("ServedCount() = %d, want 1", got)
	}
	if got := tr.RequestCount(time.Minute); got != 3 {
		t.Errorf("RequestCount() = %d, want 3", got)
	}
}

// TestTracker_WindowExcludesOld verifies a tiny window excludes old entries.
func TestTracker_WindowExcludesOld(t *testing.T) {
	var tr Tracker
	tr.RecordServed()
	time.Sleep(20 * time.Millisecond)

	if got := tr.ServedCount(time.Millisecond); got != 0 {
		t.Errorf("ServedCount(1ms) = %d, want 0 for aged-out entry", got)
	}
	if got := tr.ServedCount(time.Minute); got != 1 {
		t.Errorf("ServedCount(1m) = %d, want 1", got)
	}
}

// TestTracker_Reset verifies Reset clears all windows.
func TestTracker_Reset(t *testing.T) {
	var tr Tracker
	tr.RecordServedN(5)
	tr.RecordDenied()
	tr.Reset()

	if got := tr.RequestCount(time.Minute); got != 0 {
		t.Errorf("RequestCount() after Reset = %d, want 0", got)
	}
}

// TestPackageLevelFuncs verifies the package-level wrappers hit the default
// tracker used by the health handler and gauges.
func TestPackageLevelFuncs(t *testing.T) {
	Reset()
	defer Reset()

	RecordServed()
	RecordDenied()

	if got := RequestCount(time.Minute); got != 2 {
		t.Errorf("RequestCount() = %d, want 2", got)
	}
	if got := DenialCount(time.Minute); got != 1 {
		t.Errorf("DenialCount() = %d, want 1", got)
	}
}
