// Package testserver is a fake crash-alerting backend for tests: the
// full REST contract over an in-memory store, one user, bearer auth.
package testserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/crashdash/crashdash/internal/domain/project"
	"github.com/crashdash/crashdash/internal/domain/user"
	"github.com/google/uuid"
)

type account struct {
	user     user.User
	password string
}

// TestServer serves the backend API contract from memory.
type TestServer struct {
	Server *httptest.Server
	// Token is issued on every successful login.
	Token string

	mu         sync.Mutex
	accounts   map[string]*account // identifier -> account
	projects   map[string]*project.Project
	tokenOwner string // identifier behind the current token
}

// New starts a fake backend seeded with one account. The returned token
// is what a successful login for that account issues.
func New(t *testing.T, identifier, password string) *TestServer {
	t.Helper()

	ts := &TestServer{
		Token:    "test-token-" + uuid.NewString(),
		accounts: make(map[string]*account),
		projects: make(map[string]*project.Project),
	}
	ts.accounts[identifier] = &account{
		user: user.User{
			ID:         uuid.NewString(),
			Identifier: identifier,
			Email:      identifier + "@example.com",
		},
		password: password,
	}
	ts.tokenOwner = identifier

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", ts.handleLogin)
	mux.HandleFunc("POST /auth/signup", ts.handleSignup)
	mux.HandleFunc("GET /auth/me", ts.handleMe)
	mux.HandleFunc("POST /alerts/create", ts.handleCreate)
	mux.HandleFunc("GET /alerts/get-all/{userId}", ts.handleList)
	mux.HandleFunc("GET /alerts/{id}", ts.handleGet)
	mux.HandleFunc("PUT /alerts/{id}", ts.handleUpdate)
	mux.HandleFunc("DELETE /alerts/{id}", ts.handleDelete)
	mux.HandleFunc("PUT /alerts/{id}/regenerate-key", ts.handleRegenerate)
	mux.HandleFunc("POST /alerts/report/{key}", ts.handleReport)

	ts.Server = httptest.NewServer(mux)
	t.Cleanup(ts.Server.Close)
	return ts
}

// UserID returns the seeded account's id.
func (ts *TestServer) UserID(identifier string) string {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if acct, ok := ts.accounts[identifier]; ok {
		return acct.user.ID
	}
	return ""
}

// SeedProject installs a project directly, bypassing the API.
func (ts *TestServer) SeedProject(proj project.Project) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.projects[proj.ID] = &proj
}

// ProjectCount returns the server-side count for a project.
func (ts *TestServer) ProjectCount(id string) int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if proj, ok := ts.projects[id]; ok {
		return proj.Count
	}
	return -1
}

func (ts *TestServer) authorized(r *http.Request) bool {
	return r.Header.Get("Authorization") == "Bearer "+ts.Token
}

func (ts *TestServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ts.mu.Lock()
	acct, ok := ts.accounts[req.Identifier]
	if ok && acct.password == req.Password {
		ts.tokenOwner = req.Identifier
	}
	ts.mu.Unlock()
	if !ok || acct.password != req.Password {
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": ts.Token, "user": acct.user})
}

func (ts *TestServer) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string `json:"name"`
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ts.mu.Lock()
	defer ts.mu.Unlock()
	if _, exists := ts.accounts[req.Identifier]; exists {
		writeMessage(w, http.StatusConflict, "User already exists")
		return
	}
	acct := &account{
		user: user.User{
			ID:         uuid.NewString(),
			Identifier: req.Identifier,
			Email:      req.Identifier + "@example.com",
		},
		password: req.Password,
	}
	ts.accounts[req.Identifier] = acct
	writeJSON(w, http.StatusCreated, map[string]any{"user": acct.user})
}

func (ts *TestServer) handleMe(w http.ResponseWriter, r *http.Request) {
	if !ts.authorized(r) {
		writeMessage(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	ts.mu.Lock()
	acct, ok := ts.accounts[ts.tokenOwner]
	ts.mu.Unlock()
	if !ok {
		writeMessage(w, http.StatusNotFound, "No user")
		return
	}
	writeJSON(w, http.StatusOK, acct.user)
}

func (ts *TestServer) handleCreate(w http.ResponseWriter, r *http.Request) {
	if !ts.authorized(r) {
		writeMessage(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	var req project.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Limit < 1 {
		writeMessage(w, http.StatusBadRequest, "limit must be positive")
		return
	}

	now := time.Now().UTC()
	proj := &project.Project{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Limit:     req.Limit,
		Key:       uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	ts.mu.Lock()
	ts.projects[proj.ID] = proj
	ts.mu.Unlock()
	writeJSON(w, http.StatusCreated, proj)
}

func (ts *TestServer) handleList(w http.ResponseWriter, r *http.Request) {
	if !ts.authorized(r) {
		writeMessage(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	ts.mu.Lock()
	defer ts.mu.Unlock()
	list := make([]project.Project, 0, len(ts.projects))
	for _, proj := range ts.projects {
		list = append(list, *proj)
	}
	writeJSON(w, http.StatusOK, list)
}

func (ts *TestServer) handleGet(w http.ResponseWriter, r *http.Request) {
	if !ts.authorized(r) {
		writeMessage(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	ts.mu.Lock()
	proj, ok := ts.projects[r.PathValue("id")]
	ts.mu.Unlock()
	if !ok {
		writeMessage(w, http.StatusNotFound, "Alert not found")
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

func (ts *TestServer) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if !ts.authorized(r) {
		writeMessage(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	var upd project.Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ts.mu.Lock()
	defer ts.mu.Unlock()
	proj, ok := ts.projects[r.PathValue("id")]
	if !ok {
		writeMessage(w, http.StatusNotFound, "Alert not found")
		return
	}
	if upd.Name != nil {
		proj.Name = *upd.Name
	}
	if upd.Email != nil {
		proj.Email = *upd.Email
	}
	if upd.Limit != nil {
		if *upd.Limit < 1 {
			writeMessage(w, http.StatusBadRequest, "limit must be positive")
			return
		}
		proj.Limit = *upd.Limit
	}
	proj.UpdatedAt = time.Now().UTC()
	writeJSON(w, http.StatusOK, map[string]any{"alert": proj})
}

func (ts *TestServer) handleDelete(w http.ResponseWriter, r *http.Request) {
	if !ts.authorized(r) {
		writeMessage(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	ts.mu.Lock()
	defer ts.mu.Unlock()
	id := r.PathValue("id")
	if _, ok := ts.projects[id]; !ok {
		writeMessage(w, http.StatusNotFound, "Alert not found")
		return
	}
	delete(ts.projects, id)
	writeMessage(w, http.StatusOK, "Alert deleted")
}

func (ts *TestServer) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	if !ts.authorized(r) {
		writeMessage(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	ts.mu.Lock()
	defer ts.mu.Unlock()
	proj, ok := ts.projects[r.PathValue("id")]
	if !ok {
		writeMessage(w, http.StatusNotFound, "Alert not found")
		return
	}
	proj.Key = uuid.NewString()
	proj.UpdatedAt = time.Now().UTC()
	writeJSON(w, http.StatusOK, map[string]any{"alert": proj})
}

// handleReport is keyed by project key, not id, and needs no bearer
// token: it is what monitored sites call from their crash handlers.
func (ts *TestServer) handleReport(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	ts.mu.Lock()
	defer ts.mu.Unlock()
	for _, proj := range ts.projects {
		if proj.Key == key {
			proj.Count++
			writeMessage(w, http.StatusOK, "Alert reported")
			return
		}
	}
	writeMessage(w, http.StatusNotFound, "Invalid key")
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
