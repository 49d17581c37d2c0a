package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/RealAndrewRen/postul/internal/bootstrap"
	"github.com/RealAndrewRen/postul/internal/domain"
)

func newCaptureCmd() *cobra.Command {
	var projectID int64

	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Record speech, then analyze the transcript as an idea",
		RunE: func(cmd *cobra.Command, args []string) error {
			sink := newConsoleSink()

			var scopedProject *int64
			if projectID > 0 {
				scopedProject = &projectID
			}

			services, err := bootstrap.Build(sink, scopedProject, debug)
			if err != nil {
				sink.CaptureError(domain.ErrorCodeStartup, err.Error())
				return err
			}
			cfg := services.Config
			log.Debug().
				Str("env", cfg.Env).
				Str("api_base_url", cfg.API.BaseURL).
				Str("speech_model", cfg.Deepgram.Model).
				Msg("capture client ready")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			controller := services.Controller
			status, err := controller.Toggle(ctx)
			if err != nil {
				return err
			}
			if status.State != domain.CaptureStateRecording {
				return fmt.Errorf("capture did not start (state %s)", status.State)
			}
			fmt.Fprintln(os.Stderr, "Recording. Press Enter to stop and analyze, Ctrl-C to discard.")

			pressed := make(chan struct{})
			go func() {
				reader := bufio.NewReader(os.Stdin)
				_, _ = reader.ReadString('\n')
				close(pressed)
			}()

			select {
			case <-pressed:
				_, err := controller.Toggle(ctx)
				return err
			case <-sink.Settled():
				// Platform-initiated session end; the controller already
				// finished the analyze leg.
				return nil
			case <-ctx.Done():
				fmt.Fprintln(os.Stderr, "\nDiscarding capture.")
				return controller.Abort()
			}
		},
	}

	cmd.Flags().Int64Var(&projectID, "project-id", 0, "Attach the captured idea to this project")
	return cmd
}
