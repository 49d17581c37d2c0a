package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/RealAndrewRen/postul/internal/api"
)

func newIdeasCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ideas",
		Short: "Browse captured ideas",
	}
	cmd.AddCommand(newIdeasListCmd())
	cmd.AddCommand(newIdeasGetCmd())
	cmd.AddCommand(newIdeasAttachCmd())
	return cmd
}

func newIdeasListCmd() *cobra.Command {
	var projectID int64
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List ideas, optionally filtered by project",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newAPIClient()
			if err != nil {
				return err
			}

			var filter *int64
			if projectID > 0 {
				filter = &projectID
			}
			ideas, err := client.ListIdeas(cmd.Context(), filter, api.PageOptions{Limit: limit, Offset: offset})
			if err != nil {
				return err
			}
			printJSON(ideas)
			return nil
		},
	}

	cmd.Flags().Int64Var(&projectID, "project-id", 0, "Only ideas belonging to this project")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of ideas to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of ideas to skip")
	return cmd
}

func newIdeasGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one idea with its analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid idea id %q", args[0])
			}

			client, _, err := newAPIClient()
			if err != nil {
				return err
			}
			idea, err := client.GetIdea(cmd.Context(), id)
			if err != nil {
				return err
			}
			printJSON(idea)
			return nil
		},
	}
}

func newIdeasAttachCmd() *cobra.Command {
	var projectID int64

	cmd := &cobra.Command{
		Use:   "attach ID",
		Short: "Associate an existing idea with a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if projectID <= 0 {
				return fmt.Errorf("--project-id is required")
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid idea id %q", args[0])
			}

			client, _, err := newAPIClient()
			if err != nil {
				return err
			}
			idea, err := client.AttachProject(cmd.Context(), id, projectID)
			if err != nil {
				return err
			}
			printJSON(idea)
			return nil
		},
	}

	cmd.Flags().Int64Var(&projectID, "project-id", 0, "Project to attach the idea to")
	return cmd
}
