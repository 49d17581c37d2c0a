// Package deepgram implements ports.SpeechRecognizer over the Deepgram
// streaming websocket API. Sessions re-emit every recognition update as a
// cumulative restatement of the whole utterance so far, which is the
// contract the capture controller's transcript buffer expects.
package deepgram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/RealAndrewRen/postul/internal/domain"
	"github.com/RealAndrewRen/postul/internal/ports"
)

// Config controls Deepgram websocket settings.
type Config struct {
	APIKey      string
	APIBaseURL  string
	Model       string
	Language    string
	SmartFormat bool
}

// Recognizer implements ports.SpeechRecognizer for Deepgram.
type Recognizer struct {
	cfg Config
}

func NewRecognizer(cfg Config) *Recognizer {
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "https://api.deepgram.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "nova-2"
	}
	return &Recognizer{cfg: cfg}
}

func (r *Recognizer) StartSession(ctx context.Context, cfg ports.SpeechConfig) (ports.SpeechSession, error) {
	if strings.TrimSpace(r.cfg.APIKey) == "" {
		return nil, errors.New("POSTUL_DEEPGRAM_API_KEY is not configured")
	}

	wsURL, err := buildListenURL(r.cfg, cfg)
	if err != nil {
		return nil, err
	}

	headers := http.Header{}
	headers.Set("Authorization", "Token "+r.cfg.APIKey)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, headers)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Deepgram websocket: %w", err)
	}

	session := &speechSession{
		conn:       conn,
		events:     make(chan domain.TranscriptEvent, 64),
		audio:      make(chan []byte, 32),
		done:       make(chan struct{}),
		sendClosed: make(chan struct{}),
		writeDone:  make(chan struct{}),
	}

	session.wg.Add(2)
	go session.readLoop()
	go session.writeLoop()
	go func() {
		session.wg.Wait()
		close(session.events)
		close(session.done)
		_ = conn.Close()
	}()

	go func() {
		<-ctx.Done()
		_ = session.Close()
	}()

	return session, nil
}

type speechSession struct {
	conn *websocket.Conn

	events chan domain.TranscriptEvent
	audio  chan []byte
	done   chan struct{}

	// sendClosed signals CloseSend; the audio channel itself is never
	// closed, so a sender blocked mid-send cannot panic. writeDone unblocks
	// senders once writeLoop has stopped draining audio.
	sendClosed chan struct{}
	writeDone  chan struct{}

	wg sync.WaitGroup

	// utterance state owned by readLoop
	finals      []string
	lastInterim string

	errMu sync.Mutex
	err   error

	closeSendOnce sync.Once
	closeOnce     sync.Once
}

func (s *speechSession) SendAudio(chunk []byte) error {
	if len(chunk) == 0 {
		return nil
	}

	select {
	case <-s.sendClosed:
		return errors.New("audio stream is already closed")
	default:
	}

	copied := append([]byte(nil), chunk...)
	select {
	case s.audio <- copied:
		return nil
	case <-s.sendClosed:
		return errors.New("audio stream is already closed")
	case <-s.writeDone:
		if err := s.waitErr(); err != nil {
			return err
		}
		return errors.New("session closed")
	}
}

func (s *speechSession) CloseSend() error {
	s.closeSendOnce.Do(func() { close(s.sendClosed) })
	return nil
}

func (s *speechSession) Events() <-chan domain.TranscriptEvent {
	return s.events
}

func (s *speechSession) Wait() error {
	<-s.done
	return s.waitErr()
}

func (s *speechSession) Close() error {
	s.closeOnce.Do(func() {
		_ = s.CloseSend()
		_ = s.conn.Close()
	})
	<-s.done
	return s.waitErr()
}

func (s *speechSession) waitErr() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.err
}

func (s *speechSession) setErr(err error) {
	if err == nil {
		return
	}
	if websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
	) {
		return
	}

	s.errMu.Lock()
	defer s.errMu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

func (s *speechSession) writeLoop() {
	defer s.wg.Done()
	defer close(s.writeDone)

	for {
		select {
		case chunk := <-s.audio:
			if err := s.conn.WriteMessage(websocket.BinaryMessage, chunk); err != nil {
				s.setErr(fmt.Errorf("failed to send audio: %w", err))
				return
			}
		case <-s.sendClosed:
			// Flush whatever is already queued, then end the stream.
			for {
				select {
				case chunk := <-s.audio:
					if err := s.conn.WriteMessage(websocket.BinaryMessage, chunk); err != nil {
						s.setErr(fmt.Errorf("failed to send audio: %w", err))
						return
					}
				default:
					if err := s.conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"CloseStream"}`)); err != nil {
						s.setErr(fmt.Errorf("failed to close stream: %w", err))
					}
					return
				}
			}
		}
	}
}

func (s *speechSession) readLoop() {
	defer s.wg.Done()

	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			s.setErr(fmt.Errorf("failed to read recognition event: %w", err))
			return
		}

		var response listenResponse
		if err := json.Unmarshal(payload, &response); err != nil {
			continue
		}

		if strings.EqualFold(response.Type, "Error") {
			message := strings.TrimSpace(response.Message)
			if message == "" {
				message = "deepgram returned an unknown error"
			}
			s.setErr(errors.New(message))
			return
		}

		segment := extractTranscript(response)
		if segment == "" {
			continue
		}
		s.emit(s.restate(segment, response.IsFinal || response.SpeechFinal))
	}
}

// restate folds one recognized segment into the running utterance and
// returns the cumulative event to publish. Final segments are appended to
// the utterance; interim segments replace the trailing in-flight text.
func (s *speechSession) restate(segment string, isFinal bool) domain.TranscriptEvent {
	if isFinal {
		s.finals = append(s.finals, segment)
		s.lastInterim = ""
		return domain.TranscriptEvent{
			Kind: domain.TranscriptKindFinal,
			Text: strings.Join(s.finals, " "),
		}
	}

	s.lastInterim = segment
	parts := append(append([]string(nil), s.finals...), segment)
	return domain.TranscriptEvent{
		Kind: domain.TranscriptKindInterim,
		Text: strings.Join(parts, " "),
	}
}

// emit publishes an event. Final restatements carry transcript state the
// consumer must not lose, so they block until the consumer catches up;
// interims are droppable when the buffer is full.
func (s *speechSession) emit(event domain.TranscriptEvent) {
	if event.Kind == domain.TranscriptKindFinal {
		select {
		case s.events <- event:
		case <-s.done:
		}
		return
	}
	select {
	case s.events <- event:
	default:
	}
}

type listenResponse struct {
	Type        string `json:"type"`
	Message     string `json:"message"`
	IsFinal     bool   `json:"is_final"`
	SpeechFinal bool   `json:"speech_final"`

	Channel struct {
		Alternatives []struct {
			Transcript string `json:"transcript"`
		} `json:"alternatives"`
	} `json:"channel"`
}

func extractTranscript(response listenResponse) string {
	if len(response.Channel.Alternatives) == 0 {
		return ""
	}
	return strings.TrimSpace(response.Channel.Alternatives[0].Transcript)
}

func buildListenURL(recognizerCfg Config, speechCfg ports.SpeechConfig) (string, error) {
	base := strings.TrimSpace(recognizerCfg.APIBaseURL)
	if base == "" {
		base = "https://api.deepgram.com/v1"
	}

	if strings.HasPrefix(base, "https://") {
		base = "wss://" + strings.TrimPrefix(base, "https://")
	} else if strings.HasPrefix(base, "http://") {
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	base = strings.TrimRight(base, "/")

	listenURL, err := url.Parse(base + "/listen")
	if err != nil {
		return "", fmt.Errorf("invalid Deepgram API base URL: %w", err)
	}

	if speechCfg.Encoding == "" {
		speechCfg.Encoding = "linear16"
	}
	if speechCfg.SampleRate <= 0 {
		speechCfg.SampleRate = 16000
	}
	if speechCfg.Channels <= 0 {
		speechCfg.Channels = 1
	}

	query := listenURL.Query()
	query.Set("model", recognizerCfg.Model)
	query.Set("encoding", speechCfg.Encoding)
	query.Set("sample_rate", fmt.Sprintf("%d", speechCfg.SampleRate))
	query.Set("channels", fmt.Sprintf("%d", speechCfg.Channels))
	query.Set("interim_results", fmt.Sprintf("%t", speechCfg.InterimResults))
	query.Set("smart_format", fmt.Sprintf("%t", recognizerCfg.SmartFormat))
	if speechCfg.Continuous {
		query.Set("endpointing", "false")
	}
	if recognizerCfg.Language != "" {
		query.Set("language", recognizerCfg.Language)
	}
	listenURL.RawQuery = query.Encode()
	return listenURL.String(), nil
}
