package voice

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// recordingSynth captures utterances and signals each completion.
type recordingSynth struct {
	mu     sync.Mutex
	spoken []string
	errs   map[string]error
	done   chan struct{}
}

func newRecordingSynth() *recordingSynth {
	return &recordingSynth{done: make(chan struct{}, 16)}
}

func (s *recordingSynth) Speak(text string) error {
	s.mu.Lock()
	err := s.errs[text]
	if err == nil {
		s.spoken = append(s.spoken, text)
	}
	s.mu.Unlock()
	s.done <- struct{}{}
	return err
}

func (s *recordingSynth) wait(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-s.done:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for utterance %d of %d", i+1, n)
		}
	}
}

func (s *recordingSynth) all() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.spoken))
	copy(out, s.spoken)
	return out
}

func TestSayDrainsFIFO(t *testing.T) {
	synth := newRecordingSynth()
	q := NewQueue(synth)

	q.Say("one")
	q.Say("two")
	q.Say("three")
	synth.wait(t, 3)

	got := synth.all()
	want := []string{"one", "two", "three"}
	if len(got) != len(want) {
		t.Fatalf("spoke %d utterances, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("utterance %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSpeakErrorDoesNotStall(t *testing.T) {
	synth := newRecordingSynth()
	synth.errs = map[string]error{"bad": errors.New("engine busy")}
	q := NewQueue(synth)

	q.Say("bad")
	q.Say("good")
	synth.wait(t, 2)

	got := synth.all()
	if len(got) != 1 || got[0] != "good" {
		t.Errorf("spoken = %v, want [good]", got)
	}

	// The queue keeps accepting work after a failure.
	q.Say("after")
	synth.wait(t, 1)
	got = synth.all()
	if len(got) != 2 || got[1] != "after" {
		t.Errorf("spoken = %v, want [good after]", got)
	}
}
