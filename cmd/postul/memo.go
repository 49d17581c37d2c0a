package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/RealAndrewRen/postul/internal/audio"
	"github.com/RealAndrewRen/postul/internal/config"
	"github.com/RealAndrewRen/postul/internal/ports"
	"github.com/RealAndrewRen/postul/internal/usecase"
)

// memo records raw PCM with no transcription and no analysis call.
func newMemoCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "memo",
		Short: "Record a raw audio memo (no transcription, no analysis)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if outPath == "" {
				return fmt.Errorf("--out is required")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			out, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer func() { _ = out.Close() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintln(os.Stderr, "Recording memo. Press Ctrl-C to stop.")
			capture := audio.NewFFmpegCapture(cfg.Audio.RecorderCommand)
			written, err := usecase.RecordMemo(ctx, capture, ports.AudioConfig{
				SampleRate:  cfg.Audio.SampleRate,
				Channels:    cfg.Audio.Channels,
				InputFormat: cfg.Audio.InputFormat,
				InputDevice: cfg.Audio.InputDevice,
			}, cfg.Session.ChunkSize, out)
			if err != nil {
				return err
			}

			log.Info().Str("path", outPath).Int64("bytes", written).Msg("memo saved")
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "Output file for raw s16le PCM")
	return cmd
}
