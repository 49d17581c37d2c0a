package usecase

import (
	"context"

	"github.com/RealAndrewRen/postul/internal/ports"
)

// captureSession holds the live resources of one recording. parent is the
// context the session was started under; the analyze call after a
// platform-initiated session end runs against it.
type captureSession struct {
	id     string
	parent context.Context
	cancel func()

	audio  ports.AudioSession
	stream ports.SpeechSession

	buffer     *transcriptBuffer
	eventsDone chan struct{}
	audioDone  chan struct{}
}
