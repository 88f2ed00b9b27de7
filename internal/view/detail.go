package view

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/crashdash/crashdash/internal/api"
	"github.com/crashdash/crashdash/internal/backend"
	"github.com/crashdash/crashdash/internal/clipboard"
	"github.com/crashdash/crashdash/internal/domain/project"
)

// Copy affordance labels.
const (
	CopyLabelKey     = "apiKey"
	CopyLabelCommand = "curlCommand"
)

const defaultCopyFlagTTL = 2 * time.Second

// ErrNoDeletePending means ConfirmDelete was called without an open
// confirmation.
var ErrNoDeletePending = errors.New("no delete confirmation pending")

// Draft is the edit buffer, held separately from the authoritative
// project until a save succeeds. Limit stays a string because it is
// user-typed input.
type Draft struct {
	Name  string
	Email string
	Limit string
}

// DetailView owns single-project state: the authoritative server copy,
// the edit buffer, the delete confirmation, and the transient copy flags.
type DetailView struct {
	backend   backend.Backend
	clip      clipboard.Writer
	logger    *slog.Logger
	onDeleted func()
	copyTTL   time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu            sync.Mutex
	project       *project.Project
	notFound      bool
	editing       bool
	draft         Draft
	inlineError   string
	notice        string
	noticeIsError bool
	deletePending bool
	busy          bool
	copied        map[string]bool
}

// DetailConfig defines detail view construction inputs.
type DetailConfig struct {
	Backend   backend.Backend
	Clipboard clipboard.Writer
	Logger    *slog.Logger
	// OnDeleted notifies the view's owner to navigate away after a
	// successful delete.
	OnDeleted func()
	// CopyFlagTTL overrides how long a "copied" flag stays set.
	CopyFlagTTL time.Duration
}

// NewDetailView creates an unmounted detail view.
func NewDetailView(cfg DetailConfig) *DetailView {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ttl := cfg.CopyFlagTTL
	if ttl == 0 {
		ttl = defaultCopyFlagTTL
	}
	onDeleted := cfg.OnDeleted
	if onDeleted == nil {
		onDeleted = func() {}
	}
	return &DetailView{
		backend:   cfg.Backend,
		clip:      cfg.Clipboard,
		logger:    logger,
		onDeleted: onDeleted,
		copyTTL:   ttl,
		copied:    make(map[string]bool),
	}
}

// Mount fetches the project. Any failure, missing resource or transport,
// renders the not-found state; a detail view never redirects, so a
// missing resource is never conflated with a missing session.
func (v *DetailView) Mount(ctx context.Context, id string) {
	v.ctx, v.cancel = context.WithCancel(ctx)

	proj, err := v.backend.GetProject(v.ctx, id)

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.logger.Info("project fetch failed", "id", id, "error", err)
		v.notFound = true
		return
	}
	v.project = proj
	v.draft = draftOf(proj)
}

// Unmount cancels any in-flight request scoped to this view.
func (v *DetailView) Unmount() {
	if v.cancel != nil {
		v.cancel()
	}
}

// Project returns a copy of the authoritative project, or nil.
func (v *DetailView) Project() *project.Project {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.project == nil {
		return nil
	}
	proj := *v.project
	return &proj
}

// NotFound reports whether the mount failed to resolve a project.
func (v *DetailView) NotFound() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.notFound
}

// BeginEdit snapshots the authoritative fields into the draft.
func (v *DetailView) BeginEdit() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.project == nil {
		return
	}
	v.draft = draftOf(v.project)
	v.editing = true
	v.inlineError = ""
}

// CancelEdit discards the draft.
func (v *DetailView) CancelEdit() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.editing = false
	v.draft = draftOf(v.project)
}

// Editing reports whether edit mode is open.
func (v *DetailView) Editing() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.editing
}

func (v *DetailView) SetDraftName(name string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.draft.Name = name
}

func (v *DetailView) SetDraftEmail(email string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.draft.Email = email
}

func (v *DetailView) SetDraftLimit(limit string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.draft.Limit = limit
}

// Draft returns the current edit buffer.
func (v *DetailView) Draft() Draft {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.draft
}

// Changed compares the draft to the authoritative project field by field.
// The limit is compared numerically after trimming whitespace, so "010"
// and " 10 " match a limit of 10; a draft that doesn't parse counts as
// changed so Save can surface the validation error.
func (v *DetailView) Changed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.changedLocked()
}

func (v *DetailView) changedLocked() bool {
	if v.project == nil {
		return false
	}
	if v.draft.Name != v.project.Name || v.draft.Email != v.project.Email {
		return true
	}
	limit, err := strconv.Atoi(strings.TrimSpace(v.draft.Limit))
	if err != nil {
		return true
	}
	return limit != v.project.Limit
}

// Save pushes the draft to the server. A no-op when nothing changed. On
// success the authoritative project is replaced by the server's returned
// representation and edit mode exits; on failure edit mode stays open and
// an inline error is set.
func (v *DetailView) Save() error {
	v.mu.Lock()
	if v.busy {
		v.mu.Unlock()
		return ErrBusy
	}
	if v.project == nil || !v.changedLocked() {
		v.mu.Unlock()
		return nil
	}

	limit, err := strconv.Atoi(strings.TrimSpace(v.draft.Limit))
	if err != nil || limit < 1 {
		v.inlineError = "Alert limit must be a positive integer."
		v.mu.Unlock()
		return fmt.Errorf("%w: alert limit must be a positive integer", project.ErrInvalidInput)
	}

	id := v.project.ID
	name, email := v.draft.Name, v.draft.Email
	upd := project.Update{
		Name:  &name,
		Email: &email,
		Limit: &limit,
	}
	v.busy = true
	v.mu.Unlock()

	updated, err := v.backend.UpdateProject(v.ctx, id, upd)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.busy = false
	if err != nil {
		v.inlineError = api.Message(err, "Failed to update project.")
		return err
	}
	v.project = updated
	v.draft = draftOf(updated)
	v.editing = false
	v.inlineError = ""
	return nil
}

// RequestDelete opens the delete confirmation. No network call fires
// until ConfirmDelete.
func (v *DetailView) RequestDelete() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.deletePending = true
}

// CancelDelete closes the confirmation without issuing any call.
func (v *DetailView) CancelDelete() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.deletePending = false
}

// DeletePending reports whether the confirmation is open.
func (v *DetailView) DeletePending() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.deletePending
}

// ConfirmDelete fires the irreversible delete. It requires an open
// confirmation. On success the owner is notified to navigate away; on
// failure an inline error is set and the view stays.
func (v *DetailView) ConfirmDelete() error {
	v.mu.Lock()
	if v.busy {
		v.mu.Unlock()
		return ErrBusy
	}
	if !v.deletePending {
		v.mu.Unlock()
		return ErrNoDeletePending
	}
	if v.project == nil {
		v.mu.Unlock()
		return ErrNoDeletePending
	}
	id := v.project.ID
	v.busy = true
	v.mu.Unlock()

	err := v.backend.DeleteProject(v.ctx, id)

	v.mu.Lock()
	v.busy = false
	if err != nil {
		v.inlineError = api.Message(err, "Failed to delete project.")
		v.mu.Unlock()
		return err
	}
	v.deletePending = false
	v.mu.Unlock()

	v.onDeleted()
	return nil
}

// RegenerateKey asks the server for a fresh key and patches the
// authoritative project from the server's echo. The old key is invalid
// from that point, enforced server-side.
func (v *DetailView) RegenerateKey() error {
	v.mu.Lock()
	if v.busy {
		v.mu.Unlock()
		return ErrBusy
	}
	if v.project == nil {
		v.mu.Unlock()
		return nil
	}
	id := v.project.ID
	v.busy = true
	v.mu.Unlock()

	updated, err := v.backend.RegenerateKey(v.ctx, id)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.busy = false
	if err != nil {
		v.inlineError = api.Message(err, "Failed to regenerate key.")
		return err
	}
	v.project = updated
	v.draft = draftOf(updated)
	v.inlineError = ""
	return nil
}

// SendTestAlert triggers the report endpoint, keyed by project key. On
// success the local count is incremented by one instead of refetching;
// lower-latency feedback for a low-stakes field, and the one place local
// state diverges from a fresh server read until the next full reload. On
// failure local state is untouched.
func (v *DetailView) SendTestAlert() error {
	v.mu.Lock()
	if v.busy {
		v.mu.Unlock()
		return ErrBusy
	}
	if v.project == nil {
		v.mu.Unlock()
		return nil
	}
	key := v.project.Key
	v.busy = true
	v.mu.Unlock()

	err := v.backend.ReportAlert(v.ctx, key)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.busy = false
	if err != nil {
		v.notice = "Failed to send test alert."
		v.noticeIsError = true
		return err
	}
	v.project.Count++
	v.notice = "Test alert sent!"
	v.noticeIsError = false
	return nil
}

// TakeNotice returns and clears the transient notice from the last test
// alert, with whether it was a failure.
func (v *DetailView) TakeNotice() (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	notice, isErr := v.notice, v.noticeIsError
	v.notice = ""
	v.noticeIsError = false
	return notice, isErr
}

// InlineError returns the error text shown near the triggering control.
func (v *DetailView) InlineError() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.inlineError
}

// Busy reports whether a mutating call is in flight.
func (v *DetailView) Busy() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.busy
}

// CopyKey copies the API key and sets a transient copied flag.
func (v *DetailView) CopyKey() error {
	v.mu.Lock()
	if v.project == nil {
		v.mu.Unlock()
		return nil
	}
	key := v.project.Key
	v.mu.Unlock()
	return v.copy(CopyLabelKey, key)
}

// CopyCommand copies the sample curl command.
func (v *DetailView) CopyCommand(baseURL string) error {
	v.mu.Lock()
	if v.project == nil {
		v.mu.Unlock()
		return nil
	}
	command := v.project.SampleCommand(baseURL)
	v.mu.Unlock()
	return v.copy(CopyLabelCommand, command)
}

// Copied reports whether the label's copied flag is still set.
func (v *DetailView) Copied(label string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.copied[label]
}

func (v *DetailView) copy(label, text string) error {
	if err := v.clip.Copy(text); err != nil {
		return err
	}
	v.mu.Lock()
	v.copied[label] = true
	v.mu.Unlock()

	time.AfterFunc(v.copyTTL, func() {
		v.mu.Lock()
		delete(v.copied, label)
		v.mu.Unlock()
	})
	return nil
}

func draftOf(proj *project.Project) Draft {
	if proj == nil {
		return Draft{}
	}
	return Draft{
		Name:  proj.Name,
		Email: proj.Email,
		Limit: strconv.Itoa(proj.Limit),
	}
}
