package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/RealAndrewRen/postul/internal/domain"
	"github.com/RealAndrewRen/postul/internal/ports"
)

var ErrNoActiveCapture = errors.New("no active capture session")

// Config controls capture behavior.
type Config struct {
	Audio          ports.AudioConfig
	Speech         ports.SpeechConfig
	ProjectID      *int64
	ChunkSize      int
	StreamingGrace time.Duration
}

// CaptureController drives the idle → recording → analyzing lifecycle behind
// a single toggle affordance. Toggling while analyzing is a no-op; speech
// engine failures force the controller straight back to idle.
type CaptureController struct {
	audio      ports.AudioCapture
	speech     ports.SpeechRecognizer
	ideas      ports.IdeaService
	normalizer ports.Normalizer
	events     ports.EventSink
	cfg        Config

	mu      sync.Mutex
	state   domain.CaptureState
	current *captureSession
}

func NewCaptureController(
	audio ports.AudioCapture,
	speech ports.SpeechRecognizer,
	ideas ports.IdeaService,
	normalizer ports.Normalizer,
	events ports.EventSink,
	cfg Config,
) *CaptureController {
	if cfg.ChunkSize < 256 {
		cfg.ChunkSize = 4096
	}
	return &CaptureController{
		audio:      audio,
		speech:     speech,
		ideas:      ideas,
		normalizer: normalizer,
		events:     events,
		cfg:        cfg,
		state:      domain.CaptureStateIdle,
	}
}

// Toggle is the single user affordance: it starts recording from idle, stops
// and analyzes from recording, and does nothing while analyzing.
func (c *CaptureController) Toggle(ctx context.Context) (domain.Status, error) {
	c.mu.Lock()
	switch c.state {
	case domain.CaptureStateAnalyzing:
		c.mu.Unlock()
		return domain.Status{State: domain.CaptureStateAnalyzing, Active: true}, nil

	case domain.CaptureStateRecording:
		session := c.current
		c.current = nil
		c.state = domain.CaptureStateAnalyzing
		c.mu.Unlock()
		c.finishAndAnalyze(ctx, session)
		return c.Status(), nil

	default:
		c.mu.Unlock()
		if err := c.startRecording(ctx); err != nil {
			return domain.Status{State: domain.CaptureStateIdle}, err
		}
		return c.Status(), nil
	}
}

// Abort discards an in-progress recording without calling the API.
func (c *CaptureController) Abort() error {
	c.mu.Lock()
	if c.state != domain.CaptureStateRecording || c.current == nil {
		c.mu.Unlock()
		return ErrNoActiveCapture
	}
	session := c.current
	c.current = nil
	c.state = domain.CaptureStateIdle
	c.mu.Unlock()

	c.teardown(session)
	recordSessionOutcome(domain.ReasonCaptureDiscarded)
	c.events.StateChanged(domain.CaptureStateIdle, domain.ReasonCaptureDiscarded)
	return nil
}

// Status returns the current controller status.
func (c *CaptureController) Status() domain.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.Status{State: c.state, Active: c.state != domain.CaptureStateIdle}
}

func (c *CaptureController) startRecording(ctx context.Context) error {
	sessionCtx, cancel := context.WithCancel(ctx)

	stream, err := c.speech.StartSession(sessionCtx, c.cfg.Speech)
	if err != nil {
		cancel()
		c.events.CaptureError(domain.ErrorCodeSpeech, err.Error())
		return err
	}

	audioSession, err := c.audio.Start(sessionCtx, c.cfg.Audio)
	if err != nil {
		_ = stream.Close()
		cancel()
		c.events.CaptureError(domain.ErrorCodeAudio, err.Error())
		return err
	}

	session := &captureSession{
		id:         uuid.NewString(),
		parent:     ctx,
		cancel:     cancel,
		audio:      audioSession,
		stream:     stream,
		buffer:     newTranscriptBuffer(),
		eventsDone: make(chan struct{}),
		audioDone:  make(chan struct{}),
	}

	c.mu.Lock()
	c.current = session
	c.state = domain.CaptureStateRecording
	c.mu.Unlock()

	log.Debug().Str("session_id", session.id).Msg("capture session started")
	c.events.StateChanged(domain.CaptureStateRecording, domain.ReasonRecordingStarted)

	go consumeTranscripts(session.stream, session.buffer, c.events, session.eventsDone)
	go pumpAudioChunks(session.audio, session.stream, c.cfg.ChunkSize, c.events, session.audioDone)
	go c.watchSession(session)
	return nil
}

// watchSession handles platform-initiated session ends: when the event
// stream closes while we are still recording, the session either failed
// (forced back to idle) or ended cleanly (proceeds to analysis) without the
// user toggling.
func (c *CaptureController) watchSession(session *captureSession) {
	<-session.eventsDone

	c.mu.Lock()
	if c.current != session || c.state != domain.CaptureStateRecording {
		c.mu.Unlock()
		return
	}
	c.current = nil
	c.state = domain.CaptureStateAnalyzing
	c.mu.Unlock()

	if err := session.stream.Wait(); err != nil {
		log.Warn().Str("session_id", session.id).Err(err).Msg("speech session failed")
		c.teardown(session)
		c.events.CaptureError(domain.ErrorCodeSpeech, err.Error())
		c.setIdle(domain.ReasonSpeechFailed)
		return
	}

	c.finishAndAnalyze(session.parent, session)
}

// finishAndAnalyze runs the recording → analyzing → idle leg. The caller has
// already moved the controller into the analyzing state and detached the
// session.
func (c *CaptureController) finishAndAnalyze(ctx context.Context, session *captureSession) {
	c.events.StateChanged(domain.CaptureStateAnalyzing, domain.ReasonAnalyzing)

	if err := session.audio.Stop(); err != nil {
		c.events.CaptureError(domain.ErrorCodeAudio, "failed to stop audio capture cleanly")
	}

	if c.cfg.StreamingGrace > 0 {
		timer := time.NewTimer(c.cfg.StreamingGrace)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
		}
	}

	_ = session.stream.CloseSend()
	streamErr := waitForStream(session.stream, 4*time.Second)
	<-session.eventsDone
	<-session.audioDone
	session.cancel()

	payload := session.buffer.Payload()
	session.buffer.Reset()

	if payload == "" {
		if streamErr != nil {
			c.events.CaptureError(domain.ErrorCodeSpeech, streamErr.Error())
			c.setIdle(domain.ReasonSpeechFailed)
			return
		}
		c.setIdle(domain.ReasonNoTranscript)
		return
	}

	text, err := c.normalizer.Apply(payload)
	if err != nil {
		c.events.CaptureError(domain.ErrorCodeAnalysis, err.Error())
		c.setIdle(domain.ReasonAnalysisFailed)
		return
	}

	idea, err := c.ideas.AnalyzeIdea(ctx, text, c.cfg.ProjectID)
	if err != nil {
		c.events.CaptureError(domain.ErrorCodeAnalysis, err.Error())
		c.setIdle(domain.ReasonAnalysisFailed)
		return
	}

	projects, err := c.ideas.ListProjects(ctx)
	if err != nil {
		c.events.CaptureError(domain.ErrorCodeProjects, err.Error())
	}

	log.Debug().Str("session_id", session.id).Int64("idea_id", idea.ID).Msg("analysis complete")
	c.events.AnalysisComplete(idea, projects)
	c.setIdle(domain.ReasonAnalysisComplete)
}

func (c *CaptureController) setIdle(reason domain.CaptureStateReason) {
	c.mu.Lock()
	c.state = domain.CaptureStateIdle
	c.mu.Unlock()
	recordSessionOutcome(reason)
	c.events.StateChanged(domain.CaptureStateIdle, reason)
}

func (c *CaptureController) teardown(session *captureSession) {
	session.cancel()
	_ = session.audio.Stop()
	_ = session.stream.Close()
	<-session.eventsDone
	<-session.audioDone
	session.buffer.Reset()
}
