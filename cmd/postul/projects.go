package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/RealAndrewRen/postul/internal/api"
)

func newProjectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Browse projects",
	}
	cmd.AddCommand(newProjectsListCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "get ID",
		Short: "Show one project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid project id %q", args[0])
			}
			client, _, err := newAPIClient()
			if err != nil {
				return err
			}
			project, err := client.GetProject(cmd.Context(), id)
			if err != nil {
				return err
			}
			printJSON(project)
			return nil
		},
	})
	return cmd
}

func newProjectsListCmd() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newAPIClient()
			if err != nil {
				return err
			}
			projects, err := client.ListProjectsPage(cmd.Context(), api.PageOptions{Limit: limit, Offset: offset})
			if err != nil {
				return err
			}
			printJSON(projects)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of projects to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of projects to skip")
	return cmd
}
