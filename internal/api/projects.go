package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/RealAndrewRen/postul/internal/domain"
)

// ListProjects returns the default first page of the caller's projects.
// This is the refresh the capture flow uses; paged access is
// ListProjectsPage.
func (c *Client) ListProjects(ctx context.Context) ([]domain.Project, error) {
	return c.ListProjectsPage(ctx, PageOptions{})
}

// ListProjectsPage returns one page of the caller's projects.
func (c *Client) ListProjectsPage(ctx context.Context, page PageOptions) ([]domain.Project, error) {
	query := url.Values{}
	page.apply(query)

	path := "/api/v1/projects"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var projects []domain.Project
	if err := c.do(ctx, c.http, "list_projects", http.MethodGet, path, nil, &projects); err != nil {
		return nil, err
	}
	for i := range projects {
		if err := projects[i].Validate(); err != nil {
			return nil, fmt.Errorf("list projects: %w: %w", ErrMalformedResponse, err)
		}
	}
	return projects, nil
}

// GetProject retrieves a single project by ID.
func (c *Client) GetProject(ctx context.Context, id int64) (*domain.Project, error) {
	var project domain.Project
	path := fmt.Sprintf("/api/v1/projects/%d", id)
	if err := c.do(ctx, c.http, "get_project", http.MethodGet, path, nil, &project); err != nil {
		return nil, err
	}
	if err := project.Validate(); err != nil {
		return nil, fmt.Errorf("get project: %w: %w", ErrMalformedResponse, err)
	}
	return &project, nil
}
