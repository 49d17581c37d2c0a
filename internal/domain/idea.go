package domain

import (
	"errors"
	"time"
)

// ValidationPriority labels how urgently an idea should be validated.
type ValidationPriority string

const (
	PriorityHigh   ValidationPriority = "High"
	PriorityMedium ValidationPriority = "Medium"
	PriorityLow    ValidationPriority = "Low"
)

// Source is one research reference attached to an analysis.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// IdeaAnalysis is the server-computed breakdown of a captured idea. It is
// a display payload from the client's perspective and never mutated locally.
type IdeaAnalysis struct {
	ProblemStatement   string             `json:"problem_statement"`
	Summary            string             `json:"summary"`
	Strengths          string             `json:"strengths"`
	Weaknesses         string             `json:"weaknesses"`
	Opportunities      string             `json:"opportunities"`
	Threats            string             `json:"threats"`
	ActionableItems    []string           `json:"actionable_items"`
	ValidationPriority ValidationPriority `json:"validation_priority"`
	SaturationScore    float64            `json:"saturation_score"`
	JuicyScore         float64            `json:"juicy_score"`
	Sources            []Source           `json:"sources"`
}

// Idea pairs raw transcribed speech with its structured analysis. Created
// server-side in response to an analyze call.
type Idea struct {
	ID              int64        `json:"id"`
	UserID          string       `json:"user_id"`
	ProjectID       *int64       `json:"project_id"`
	TranscribedText string       `json:"transcribed_text"`
	Analysis        IdeaAnalysis `json:"analysis"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// Project groups ideas under a user-chosen name. Read-only for this client.
type Project struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Health is the service liveness report.
type Health struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

var (
	ErrInvalidIdea    = errors.New("idea payload failed validation")
	ErrInvalidProject = errors.New("project payload failed validation")
)

// Validate rejects structurally broken idea payloads so a malformed server
// response fails closed at decode time instead of at first field access.
func (i *Idea) Validate() error {
	if i.ID <= 0 {
		return ErrInvalidIdea
	}
	if i.TranscribedText == "" {
		return ErrInvalidIdea
	}
	return nil
}

// Validate rejects structurally broken project payloads.
func (p *Project) Validate() error {
	if p.ID <= 0 {
		return ErrInvalidProject
	}
	if p.Name == "" {
		return ErrInvalidProject
	}
	return nil
}
