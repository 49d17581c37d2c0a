package main

import (
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/RealAndrewRen/postul/internal/domain"
)

func newHealthCmd() *cobra.Command {
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check the analysis service",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, err := newAPIClient()
			if err != nil {
				return err
			}
			log.Debug().Str("api_base_url", cfg.API.BaseURL).Msg("checking service health")

			var health *domain.Health
			check := func() error {
				var checkErr error
				health, checkErr = client.Health(cmd.Context())
				return checkErr
			}

			if wait > 0 {
				bo := backoff.NewExponentialBackOff()
				bo.MaxElapsedTime = wait
				err = backoff.Retry(check, backoff.WithContext(bo, cmd.Context()))
			} else {
				err = check()
			}
			if err != nil {
				return err
			}

			printJSON(health)
			return nil
		},
	}

	cmd.Flags().DurationVar(&wait, "wait", 0, "Keep polling with backoff until the service is up or this duration elapses")
	return cmd
}
