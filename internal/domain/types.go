package domain

// CaptureState models the record-and-analyze lifecycle.
type CaptureState string

const (
	CaptureStateIdle      CaptureState = "idle"
	CaptureStateRecording CaptureState = "recording"
	CaptureStateAnalyzing CaptureState = "analyzing"
)

// CaptureStateReason provides a structured reason for state transitions.
type CaptureStateReason string

const (
	ReasonReady            CaptureStateReason = "ready"
	ReasonRecordingStarted CaptureStateReason = "recording_started"
	ReasonAnalyzing        CaptureStateReason = "analyzing"
	ReasonAnalysisComplete CaptureStateReason = "analysis_complete"
	ReasonAnalysisFailed   CaptureStateReason = "analysis_failed"
	ReasonNoTranscript     CaptureStateReason = "no_transcript"
	ReasonSpeechFailed     CaptureStateReason = "speech_failed"
	ReasonCaptureDiscarded CaptureStateReason = "capture_discarded"
)

// ErrorCode identifies backend errors surfaced to the user.
type ErrorCode string

const (
	ErrorCodeStartup  ErrorCode = "startup"
	ErrorCodeSpeech   ErrorCode = "speech"
	ErrorCodeAudio    ErrorCode = "audio"
	ErrorCodeAnalysis ErrorCode = "analysis"
	ErrorCodeProjects ErrorCode = "projects"
)

// TranscriptKind identifies whether a speech event carries interim or final text.
type TranscriptKind string

const (
	TranscriptKindInterim TranscriptKind = "interim"
	TranscriptKindFinal   TranscriptKind = "final"
)

// TranscriptEvent is one update from a speech-recognition session. Text is a
// cumulative restatement of everything recognized so far in the session, not
// an increment.
type TranscriptEvent struct {
	Kind TranscriptKind `json:"kind"`
	Text string         `json:"text"`
}

// Status summarizes the current controller status.
type Status struct {
	State   CaptureState `json:"state"`
	Active  bool         `json:"active"`
	Message string       `json:"message,omitempty"`
}
