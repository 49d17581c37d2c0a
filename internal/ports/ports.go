package ports

import (
	"context"
	"io"

	"github.com/RealAndrewRen/postul/internal/domain"
)

// AudioConfig describes how the microphone should be captured.
type AudioConfig struct {
	SampleRate  int
	Channels    int
	InputFormat string
	InputDevice string
}

// AudioSession is a live raw-audio capture session.
type AudioSession interface {
	io.ReadCloser
	Stop() error
}

// AudioCapture creates microphone capture sessions.
type AudioCapture interface {
	Start(ctx context.Context, cfg AudioConfig) (AudioSession, error)
}

// SpeechConfig describes provider-agnostic recognition settings. Continuous
// capture with interim results is the canonical configuration.
type SpeechConfig struct {
	SampleRate     int
	Channels       int
	Encoding       string
	Continuous     bool
	InterimResults bool
}

// SpeechSession is an active speech-recognition session. Events carries
// cumulative transcript restatements; the channel closes when the session
// ends, after which Wait reports any terminal session error.
type SpeechSession interface {
	SendAudio(chunk []byte) error
	CloseSend() error
	Events() <-chan domain.TranscriptEvent
	Wait() error
	Close() error
}

// SpeechRecognizer starts speech-recognition sessions.
type SpeechRecognizer interface {
	StartSession(ctx context.Context, cfg SpeechConfig) (SpeechSession, error)
}

// IdeaService is the remote analysis surface the controller depends on.
type IdeaService interface {
	AnalyzeIdea(ctx context.Context, transcribedText string, projectID *int64) (*domain.Idea, error)
	ListProjects(ctx context.Context) ([]domain.Project, error)
}

// Normalizer cleans up a transcript before submission. Implementations must
// be deterministic; the default is identity.
type Normalizer interface {
	Apply(text string) (string, error)
}

// EventSink receives controller state and results for presentation.
type EventSink interface {
	StateChanged(state domain.CaptureState, reason domain.CaptureStateReason)
	InterimTranscript(text string)
	AnalysisComplete(idea *domain.Idea, projects []domain.Project)
	CaptureError(code domain.ErrorCode, detail string)
}
