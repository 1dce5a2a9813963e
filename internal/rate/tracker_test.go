package rate

import "testing"

func TestTracker_Delta_FirstObservationReportsValue(t *testing.T) {
	tr := New()
	if got := tr.Delta("a", 5, 1000); got != 5 {
		t.Errorf("first observation = %d, want 5", got)
	}
}

func TestTracker_Delta_Sequence(t *testing.T) {
	tr := New()

	cases := []struct {
		value uint64
		want  uint64
	}{
		{5, 5}, // first observation
		{8, 3}, // normal delta
		{2, 2}, // reset: new < prev, report new value
		{9, 7}, // normal delta resumes from the reset baseline
	}

	for i, tc := range cases {
		if got := tr.Delta("a", tc.value, uint64(i)*1000); got != tc.want {
			t.Errorf("step %d: Delta(%d) = %d, want %d", i, tc.value, got, tc.want)
		}
	}
}

func TestTracker_Delta_IndependentKeys(t *testing.T) {
	tr := New()
	tr.Delta("a", 100, 0)
	if got := tr.Delta("b", 10, 0); got != 10 {
		t.Errorf("Delta(b) first observation = %d, want 10", got)
	}
}

func TestTracker_Peek(t *testing.T) {
	tr := New()
	if _, ok := tr.Peek("a"); ok {
		t.Fatal("Peek on empty tracker should report not-ok")
	}
	tr.Delta("a", 5, 0)
	v, ok := tr.Peek("a")
	if !ok || v != 5 {
		t.Errorf("Peek(a) = (%d, %v), want (5, true)", v, ok)
	}
}
