package pose

import "testing"

func TestConfidenceUsable(t *testing.T) {
	cases := []struct {
		c    Confidence
		want bool
	}{
		{ConfidenceHigh, true},
		{ConfidenceMedium, true},
		{ConfidenceLow, false},
		{ConfidenceUnavailable, false},
	}
	for _, tc := range cases {
		if got := tc.c.Usable(); got != tc.want {
			t.Errorf("%s.Usable() = %v, want %v", tc.c, got, tc.want)
		}
	}
}

func TestConfidenceString(t *testing.T) {
	if ConfidenceHigh.String() != "high" || ConfidenceUnavailable.String() != "unavailable" {
		t.Errorf("unexpected confidence names: %s, %s", ConfidenceHigh, ConfidenceUnavailable)
	}
}

func TestGateDropsNewestWhenOccupied(t *testing.T) {
	g := NewGate()

	first := Frame{Sample: Sample{Timestamp: 1}}
	second := Frame{Sample: Sample{Timestamp: 2}}

	if !g.Offer(first) {
		t.Fatal("offer into empty gate rejected")
	}
	if g.Offer(second) {
		t.Fatal("offer into occupied gate accepted")
	}

	// The occupant is the first frame; the second was dropped, not queued.
	got := <-g.Frames()
	if got.Sample.Timestamp != 1 {
		t.Errorf("gated frame timestamp = %f, want 1", got.Sample.Timestamp)
	}

	// Draining frees the slot.
	if !g.Offer(second) {
		t.Error("offer after drain rejected")
	}
}
