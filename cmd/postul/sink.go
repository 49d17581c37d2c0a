package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/RealAndrewRen/postul/internal/domain"
)

// consoleSink renders controller events on the terminal: live interim
// transcripts on one rewritten line, analysis results as pretty JSON.
// Settled closes once a capture has run to completion, so the CLI can stop
// waiting for input when the speech platform ends the session on its own.
type consoleSink struct {
	lastLineLen int

	settleOnce sync.Once
	settled    chan struct{}
}

func newConsoleSink() *consoleSink {
	return &consoleSink{settled: make(chan struct{})}
}

func (s *consoleSink) Settled() <-chan struct{} { return s.settled }

func (s *consoleSink) StateChanged(state domain.CaptureState, reason domain.CaptureStateReason) {
	s.clearLine()
	log.Info().Str("state", string(state)).Str("reason", string(reason)).Msg("capture state")

	if state == domain.CaptureStateIdle && reason != domain.ReasonReady {
		s.settleOnce.Do(func() { close(s.settled) })
	}
}

func (s *consoleSink) InterimTranscript(text string) {
	padding := ""
	if pad := s.lastLineLen - len(text); pad > 0 {
		padding = strings.Repeat(" ", pad)
	}
	fmt.Fprintf(os.Stdout, "\r%s%s", text, padding)
	s.lastLineLen = len(text)
}

func (s *consoleSink) AnalysisComplete(idea *domain.Idea, projects []domain.Project) {
	s.clearLine()
	printJSON(idea)
	if len(projects) > 0 {
		log.Info().Int("projects", len(projects)).Msg("project list refreshed")
	}
}

func (s *consoleSink) CaptureError(code domain.ErrorCode, detail string) {
	s.clearLine()
	log.Error().Str("code", string(code)).Msg(detail)
}

func (s *consoleSink) clearLine() {
	if s.lastLineLen == 0 {
		return
	}
	fmt.Fprintf(os.Stdout, "\r%s\r", strings.Repeat(" ", s.lastLineLen))
	s.lastLineLen = 0
}

func printJSON(v any) {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("failed to render output")
		return
	}
	fmt.Fprintln(os.Stdout, string(encoded))
}
