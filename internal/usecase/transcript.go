package usecase

import (
	"strings"
	"sync"

	"github.com/RealAndrewRen/postul/internal/domain"
	"github.com/RealAndrewRen/postul/internal/ports"
)

// transcriptBuffer tracks speech output across one capture session. Every
// event is a cumulative restatement, so "latest" is overwritten rather than
// appended; "final" is set only by final-kind events. The two cells are kept
// separate so the fallback from final to latest stays an explicit policy.
type transcriptBuffer struct {
	mu     sync.Mutex
	latest string
	final  string
}

func newTranscriptBuffer() *transcriptBuffer {
	return &transcriptBuffer{}
}

func (b *transcriptBuffer) Observe(event domain.TranscriptEvent) {
	text := strings.TrimSpace(event.Text)
	if text == "" {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.latest = text
	if event.Kind == domain.TranscriptKindFinal {
		b.final = text
	}
}

// Payload returns the text to submit for analysis: the finalized transcript,
// falling back to the last interim restatement when no final event carried
// text. Empty means nothing usable was captured.
func (b *transcriptBuffer) Payload() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.final != "" {
		return b.final
	}
	return b.latest
}

func (b *transcriptBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.latest = ""
	b.final = ""
}

// consumeTranscripts drains session events into the buffer and forwards
// interim restatements for live display.
func consumeTranscripts(
	session ports.SpeechSession,
	buffer *transcriptBuffer,
	events ports.EventSink,
	done chan struct{},
) {
	defer close(done)

	for event := range session.Events() {
		text := strings.TrimSpace(event.Text)
		if text == "" {
			continue
		}
		buffer.Observe(event)
		if event.Kind == domain.TranscriptKindInterim {
			events.InterimTranscript(text)
		}
	}
}
