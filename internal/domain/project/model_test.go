package project_test

import (
	"encoding/json"
	"testing"

	"github.com/crashdash/crashdash/internal/domain/project"
	"github.com/stretchr/testify/require"
)

func TestProject_LimitExceeded(t *testing.T) {
	proj := &project.Project{Count: 9, Limit: 10}
	require.False(t, proj.LimitExceeded())

	proj.Count = 10
	require.True(t, proj.LimitExceeded())

	proj.Count = 11
	require.True(t, proj.LimitExceeded())
}

func TestProject_SampleCommand(t *testing.T) {
	proj := &project.Project{Key: "key-123"}
	require.Equal(t,
		"curl -X POST https://alerts.example.com/alerts/report/key-123",
		proj.SampleCommand("https://alerts.example.com"))
}

func TestProject_UnmarshalsBackendShape(t *testing.T) {
	raw := `{
		"_id": "67a1",
		"projectName": "Site A",
		"email": "ops@sitea.io",
		"count": 3,
		"limit": 10,
		"key": "key-123",
		"createdAt": "2026-03-01T12:00:00Z",
		"updatedAt": "2026-03-02T08:30:00Z"
	}`

	var proj project.Project
	require.NoError(t, json.Unmarshal([]byte(raw), &proj))
	require.Equal(t, "67a1", proj.ID)
	require.Equal(t, "Site A", proj.Name)
	require.Equal(t, 3, proj.Count)
	require.Equal(t, "key-123", proj.Key)
	require.Equal(t, 2026, proj.CreatedAt.Year())
}

func TestValidateCreate(t *testing.T) {
	valid := project.CreateRequest{Name: "Site A", Email: "ops@sitea.io", Limit: 10}
	require.NoError(t, project.ValidateCreate(valid))

	tests := []struct {
		name string
		req  project.CreateRequest
	}{
		{"empty name", project.CreateRequest{Email: "a@b.c", Limit: 1}},
		{"whitespace name", project.CreateRequest{Name: "   ", Email: "a@b.c", Limit: 1}},
		{"empty email", project.CreateRequest{Name: "Site", Limit: 1}},
		{"zero limit", project.CreateRequest{Name: "Site", Email: "a@b.c", Limit: 0}},
		{"negative limit", project.CreateRequest{Name: "Site", Email: "a@b.c", Limit: -5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, project.ValidateCreate(tt.req), project.ErrInvalidInput)
		})
	}
}
