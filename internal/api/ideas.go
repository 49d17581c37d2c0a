package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/RealAndrewRen/postul/internal/domain"
)

// analyzeIdeaRequest is the analyze endpoint's request body. ProjectID is
// omitted entirely when the capture is not project-scoped.
type analyzeIdeaRequest struct {
	TranscribedText string `json:"transcribed_text"`
	ProjectID       *int64 `json:"project_id,omitempty"`
}

// AnalyzeIdea submits transcribed speech for analysis and returns the
// server-created idea. This is the one AI-backed call, so it runs on the
// long-timeout client.
func (c *Client) AnalyzeIdea(ctx context.Context, transcribedText string, projectID *int64) (*domain.Idea, error) {
	if strings.TrimSpace(transcribedText) == "" {
		return nil, fmt.Errorf("analyze idea: empty transcribed text")
	}

	var idea domain.Idea
	req := analyzeIdeaRequest{TranscribedText: transcribedText, ProjectID: projectID}
	if err := c.do(ctx, c.analyze, "analyze_idea", http.MethodPost, "/api/v1/ideas/analyze", req, &idea); err != nil {
		return nil, err
	}
	if err := idea.Validate(); err != nil {
		return nil, fmt.Errorf("analyze idea: %w: %w", ErrMalformedResponse, err)
	}
	return &idea, nil
}

// ListIdeas returns one page of the caller's ideas, optionally filtered by
// project.
func (c *Client) ListIdeas(ctx context.Context, projectID *int64, page PageOptions) ([]domain.Idea, error) {
	query := url.Values{}
	if projectID != nil {
		query.Set("project_id", strconv.FormatInt(*projectID, 10))
	}
	page.apply(query)

	path := "/api/v1/ideas"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var ideas []domain.Idea
	if err := c.do(ctx, c.http, "list_ideas", http.MethodGet, path, nil, &ideas); err != nil {
		return nil, err
	}
	for i := range ideas {
		if err := ideas[i].Validate(); err != nil {
			return nil, fmt.Errorf("list ideas: %w: %w", ErrMalformedResponse, err)
		}
	}
	return ideas, nil
}

// GetIdea retrieves a single idea by ID.
func (c *Client) GetIdea(ctx context.Context, id int64) (*domain.Idea, error) {
	var idea domain.Idea
	path := fmt.Sprintf("/api/v1/ideas/%d", id)
	if err := c.do(ctx, c.http, "get_idea", http.MethodGet, path, nil, &idea); err != nil {
		return nil, err
	}
	if err := idea.Validate(); err != nil {
		return nil, fmt.Errorf("get idea: %w: %w", ErrMalformedResponse, err)
	}
	return &idea, nil
}

// AttachProject associates an existing idea with a project and returns the
// updated idea.
func (c *Client) AttachProject(ctx context.Context, ideaID, projectID int64) (*domain.Idea, error) {
	var idea domain.Idea
	path := fmt.Sprintf("/api/v1/ideas/%d?project_id=%d", ideaID, projectID)
	if err := c.do(ctx, c.http, "attach_project", http.MethodPatch, path, nil, &idea); err != nil {
		return nil, err
	}
	if err := idea.Validate(); err != nil {
		return nil, fmt.Errorf("attach project: %w: %w", ErrMalformedResponse, err)
	}
	return &idea, nil
}
