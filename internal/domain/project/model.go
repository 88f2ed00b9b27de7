package project

import (
	"fmt"
	"time"
)

// Project mirrors a server-owned monitored endpoint. Count and Key are
// server-mutated only; the client never computes them.
type Project struct {
	ID        string    `json:"_id"`
	Name      string    `json:"projectName"`
	Email     string    `json:"email"`
	Count     int       `json:"count"`
	Limit     int       `json:"limit"`
	Key       string    `json:"key"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LimitExceeded reports whether the alert count has reached the configured limit.
func (p *Project) LimitExceeded() bool {
	return p.Count >= p.Limit
}

// SampleCommand renders the curl line a user pastes into their crash handler.
func (p *Project) SampleCommand(baseURL string) string {
	return fmt.Sprintf("curl -X POST %s/alerts/report/%s", baseURL, p.Key)
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	Name  string `json:"projectName"`
	Email string `json:"email"`
	Limit int    `json:"limit"`
}

// Update is a partial update; nil fields are left untouched by the server.
type Update struct {
	Name  *string `json:"projectName,omitempty"`
	Email *string `json:"email,omitempty"`
	Limit *int    `json:"limit,omitempty"`
}
