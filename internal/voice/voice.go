// Package voice serializes spoken guidance through a single utterance queue
// so concurrent announcements never interleave their audio.
package voice

import (
	"sync"

	"github.com/banshee-data/wayfinder/internal/monitoring"
)

// Synthesizer speaks one utterance and blocks until it finishes. The real
// implementation wraps the platform speech engine; tests and dev mode use
// LogSynthesizer.
type Synthesizer interface {
	Speak(text string) error
}

// Queue appends utterances FIFO and drains them one at a time. A new
// utterance only affects ordering by being appended after queued items;
// nothing is ever cancelled mid-utterance.
type Queue struct {
	synth Synthesizer

	mu       sync.Mutex
	pending  []string
	speaking bool
}

// NewQueue returns a queue speaking through synth.
func NewQueue(synth Synthesizer) *Queue {
	return &Queue{synth: synth}
}

// Say enqueues an utterance. If nothing is currently speaking a drain
// goroutine starts; otherwise the running drain will pick it up.
func (q *Queue) Say(text string) {
	q.mu.Lock()
	q.pending = append(q.pending, text)
	if q.speaking {
		q.mu.Unlock()
		return
	}
	q.speaking = true
	q.mu.Unlock()

	go q.drain()
}

func (q *Queue) drain() {
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.speaking = false
			q.mu.Unlock()
			return
		}
		next := q.pending[0]
		q.pending = q.pending[1:]
		q.mu.Unlock()

		if err := q.synth.Speak(next); err != nil {
			monitoring.Logf("voice: failed to speak %q: %v", next, err)
		}
	}
}

// LogSynthesizer writes utterances to the diagnostic log instead of audio.
type LogSynthesizer struct{}

// Speak logs the utterance.
func (LogSynthesizer) Speak(text string) error {
	monitoring.Logf("voice: %s", text)
	return nil
}
