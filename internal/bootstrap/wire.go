package bootstrap

import (
	"github.com/RealAndrewRen/postul/internal/api"
	"github.com/RealAndrewRen/postul/internal/audio"
	"github.com/RealAndrewRen/postul/internal/config"
	"github.com/RealAndrewRen/postul/internal/ports"
	"github.com/RealAndrewRen/postul/internal/providers/deepgram"
	"github.com/RealAndrewRen/postul/internal/rules"
	"github.com/RealAndrewRen/postul/internal/usecase"
)

// Services is the assembled runtime graph.
type Services struct {
	Controller *usecase.CaptureController
	API        *api.Client
	Config     config.Config
}

// Build wires all backend dependencies for the current runtime. projectID
// scopes captured ideas to a project; nil leaves them unassigned.
func Build(events ports.EventSink, projectID *int64, debug bool) (Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return Services{}, err
	}

	normalizer, err := rules.NewEngine(cfg.Rules.Path, cfg.Rules.PassLimit)
	if err != nil {
		return Services{}, err
	}

	client := api.New(cfg.API.BaseURL,
		api.WithTimeouts(cfg.API.Timeout, cfg.API.AnalyzeTimeout),
		api.WithBearerToken(cfg.API.Token),
		api.WithDebugLogging(debug),
	)

	controller := usecase.NewCaptureController(
		audio.NewFFmpegCapture(cfg.Audio.RecorderCommand),
		deepgram.NewRecognizer(deepgram.Config{
			APIKey:      cfg.Deepgram.APIKey,
			APIBaseURL:  cfg.Deepgram.APIBaseURL,
			Model:       cfg.Deepgram.Model,
			Language:    cfg.Deepgram.Language,
			SmartFormat: cfg.Deepgram.SmartFormat,
		}),
		client,
		normalizer,
		events,
		usecase.Config{
			Audio: ports.AudioConfig{
				SampleRate:  cfg.Audio.SampleRate,
				Channels:    cfg.Audio.Channels,
				InputFormat: cfg.Audio.InputFormat,
				InputDevice: cfg.Audio.InputDevice,
			},
			Speech: ports.SpeechConfig{
				SampleRate:     cfg.Audio.SampleRate,
				Channels:       cfg.Audio.Channels,
				Encoding:       "linear16",
				Continuous:     true,
				InterimResults: true,
			},
			ProjectID:      projectID,
			ChunkSize:      cfg.Session.ChunkSize,
			StreamingGrace: cfg.Session.StreamingGrace,
		},
	)

	return Services{Controller: controller, API: client, Config: cfg}, nil
}
