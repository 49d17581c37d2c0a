package deepgram

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/RealAndrewRen/postul/internal/domain"
	"github.com/RealAndrewRen/postul/internal/ports"
)

func TestNewRecognizerDefaults(t *testing.T) {
	t.Parallel()

	r := NewRecognizer(Config{APIKey: "key"})
	if r.cfg.APIBaseURL != "https://api.deepgram.com/v1" {
		t.Fatalf("unexpected base url: %q", r.cfg.APIBaseURL)
	}
	if r.cfg.Model != "nova-2" {
		t.Fatalf("unexpected model: %q", r.cfg.Model)
	}
}

func TestStartSessionRequiresAPIKey(t *testing.T) {
	t.Parallel()

	r := NewRecognizer(Config{})
	if _, err := r.StartSession(context.Background(), ports.SpeechConfig{}); err == nil {
		t.Fatalf("expected missing key error")
	}
}

func TestBuildListenURL(t *testing.T) {
	t.Parallel()

	raw, err := buildListenURL(
		Config{APIBaseURL: "https://api.deepgram.com/v1", Model: "nova-2", Language: "en", SmartFormat: true},
		ports.SpeechConfig{SampleRate: 16000, Channels: 1, Encoding: "linear16", Continuous: true, InterimResults: true},
	)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if parsed.Scheme != "wss" || parsed.Path != "/v1/listen" {
		t.Fatalf("unexpected url: %q", raw)
	}

	query := parsed.Query()
	for key, want := range map[string]string{
		"model":           "nova-2",
		"encoding":        "linear16",
		"sample_rate":     "16000",
		"channels":        "1",
		"interim_results": "true",
		"smart_format":    "true",
		"endpointing":     "false",
		"language":        "en",
	} {
		if got := query.Get(key); got != want {
			t.Fatalf("query %s: got %q, want %q", key, got, want)
		}
	}
}

func TestBuildListenURLDefaultsAndHTTPBase(t *testing.T) {
	t.Parallel()

	raw, err := buildListenURL(Config{APIBaseURL: "http://127.0.0.1:9999/v1/", Model: "nova-2"}, ports.SpeechConfig{})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if parsed.Scheme != "ws" {
		t.Fatalf("unexpected scheme: %q", parsed.Scheme)
	}

	query := parsed.Query()
	if query.Get("encoding") != "linear16" || query.Get("sample_rate") != "16000" || query.Get("channels") != "1" {
		t.Fatalf("unexpected defaults: %q", raw)
	}
	if query.Has("endpointing") || query.Has("language") {
		t.Fatalf("unexpected optional parameters: %q", raw)
	}
}

func TestExtractTranscript(t *testing.T) {
	t.Parallel()

	var response listenResponse
	if got := extractTranscript(response); got != "" {
		t.Fatalf("expected empty transcript, got %q", got)
	}

	response.Channel.Alternatives = []struct {
		Transcript string `json:"transcript"`
	}{{Transcript: "  hello world  "}}
	if got := extractTranscript(response); got != "hello world" {
		t.Fatalf("unexpected transcript: %q", got)
	}
}

func TestRestateAccumulatesUtterance(t *testing.T) {
	t.Parallel()

	session := &speechSession{}

	event := session.restate("i want", false)
	if event.Kind != domain.TranscriptKindInterim || event.Text != "i want" {
		t.Fatalf("unexpected event: %+v", event)
	}

	event = session.restate("i want a kiosk", true)
	if event.Kind != domain.TranscriptKindFinal || event.Text != "i want a kiosk" {
		t.Fatalf("unexpected event: %+v", event)
	}

	event = session.restate("near the", false)
	if event.Kind != domain.TranscriptKindInterim || event.Text != "i want a kiosk near the" {
		t.Fatalf("unexpected event: %+v", event)
	}

	event = session.restate("near the station", true)
	if event.Kind != domain.TranscriptKindFinal || event.Text != "i want a kiosk near the station" {
		t.Fatalf("unexpected event: %+v", event)
	}
}

func newListenServer(t *testing.T, handler func(conn *websocket.Conn, r *http.Request)) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()
		handler(conn, r)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestSessionRoundTrip(t *testing.T) {
	t.Parallel()

	authCh := make(chan string, 1)
	server := newListenServer(t, func(conn *websocket.Conn, r *http.Request) {
		authCh <- r.Header.Get("Authorization")
		for {
			messageType, payload, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if messageType == websocket.BinaryMessage {
				result := `{"type":"Results","is_final":true,"channel":{"alternatives":[{"transcript":"hello world"}]}}`
				if err := conn.WriteMessage(websocket.TextMessage, []byte(result)); err != nil {
					return
				}
			}
			if messageType == websocket.TextMessage && strings.Contains(string(payload), "CloseStream") {
				deadline := time.Now().Add(time.Second)
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
				return
			}
		}
	})

	r := NewRecognizer(Config{APIKey: "key", APIBaseURL: server.URL + "/v1"})
	session, err := r.StartSession(context.Background(), ports.SpeechConfig{InterimResults: true})
	if err != nil {
		t.Fatalf("start session failed: %v", err)
	}
	defer session.Close()

	if err := session.SendAudio([]byte("pcm data")); err != nil {
		t.Fatalf("send audio failed: %v", err)
	}

	select {
	case event := <-session.Events():
		if event.Kind != domain.TranscriptKindFinal || event.Text != "hello world" {
			t.Fatalf("unexpected event: %+v", event)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for a transcript event")
	}

	if err := session.CloseSend(); err != nil {
		t.Fatalf("close send failed: %v", err)
	}
	if err := session.Wait(); err != nil {
		t.Fatalf("session ended with error: %v", err)
	}
	if got := <-authCh; got != "Token key" {
		t.Fatalf("unexpected authorization header: %q", got)
	}
}

func TestSessionSurfacesErrorEvents(t *testing.T) {
	t.Parallel()

	server := newListenServer(t, func(conn *websocket.Conn, r *http.Request) {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"Error","message":"bad model"}`))
		_, _, _ = conn.ReadMessage()
	})

	r := NewRecognizer(Config{APIKey: "key", APIBaseURL: server.URL + "/v1"})
	session, err := r.StartSession(context.Background(), ports.SpeechConfig{})
	if err != nil {
		t.Fatalf("start session failed: %v", err)
	}

	_ = session.CloseSend()
	err = session.Wait()
	if err == nil || !strings.Contains(err.Error(), "bad model") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCloseSendWithBlockedSenderDoesNotPanic(t *testing.T) {
	t.Parallel()

	stop := make(chan struct{})
	t.Cleanup(func() { close(stop) })
	server := newListenServer(t, func(conn *websocket.Conn, r *http.Request) {
		// Never read, so the client's write path backs up.
		<-stop
	})

	r := NewRecognizer(Config{APIKey: "key", APIBaseURL: server.URL + "/v1"})
	session, err := r.StartSession(context.Background(), ports.SpeechConfig{})
	if err != nil {
		t.Fatalf("start session failed: %v", err)
	}
	defer session.Close()

	senderDone := make(chan error, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				senderDone <- fmt.Errorf("send panicked: %v", p)
			}
		}()
		chunk := bytes.Repeat([]byte{0x01}, 1<<20)
		for {
			if err := session.SendAudio(chunk); err != nil {
				senderDone <- nil
				return
			}
		}
	}()

	// Let the sender fill the audio buffer and block mid-send.
	time.Sleep(100 * time.Millisecond)
	if err := session.CloseSend(); err != nil {
		t.Fatalf("close send failed: %v", err)
	}

	select {
	case err := <-senderDone:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("sender did not unblock after CloseSend")
	}
}

func TestEmitBlocksForFinalsDropsInterims(t *testing.T) {
	t.Parallel()

	session := &speechSession{
		events: make(chan domain.TranscriptEvent, 1),
		done:   make(chan struct{}),
	}
	session.events <- domain.TranscriptEvent{Kind: domain.TranscriptKindInterim, Text: "buffered"}

	// A full buffer drops interims without blocking.
	session.emit(domain.TranscriptEvent{Kind: domain.TranscriptKindInterim, Text: "dropped"})

	delivered := make(chan struct{})
	go func() {
		session.emit(domain.TranscriptEvent{Kind: domain.TranscriptKindFinal, Text: "kept"})
		close(delivered)
	}()

	select {
	case <-delivered:
		t.Fatalf("final event delivered before the consumer drained")
	case <-time.After(20 * time.Millisecond):
	}

	if got := <-session.events; got.Text != "buffered" {
		t.Fatalf("unexpected first event: %+v", got)
	}
	if got := <-session.events; got.Kind != domain.TranscriptKindFinal || got.Text != "kept" {
		t.Fatalf("unexpected second event: %+v", got)
	}
	<-delivered
}

func TestSendAudioAfterCloseSendFails(t *testing.T) {
	t.Parallel()

	server := newListenServer(t, func(conn *websocket.Conn, r *http.Request) {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	r := NewRecognizer(Config{APIKey: "key", APIBaseURL: server.URL + "/v1"})
	session, err := r.StartSession(context.Background(), ports.SpeechConfig{})
	if err != nil {
		t.Fatalf("start session failed: %v", err)
	}
	defer session.Close()

	if err := session.CloseSend(); err != nil {
		t.Fatalf("close send failed: %v", err)
	}
	if err := session.SendAudio([]byte("late")); err == nil {
		t.Fatalf("expected send after close to fail")
	}
}
