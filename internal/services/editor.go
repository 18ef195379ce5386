package services

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"uptrack/career-coach/internal/models"
)

// ViewMode is the tri-state view model of the resume editor.
type ViewMode string

const (
	ModeStructuredEdit  ViewMode = "structured-edit"
	ModeMarkdownPreview ViewMode = "markdown-preview"
	ModeMarkdownEdit    ViewMode = "markdown-edit"
)

// WarnManualEditLoss is surfaced when the user enters markdown-edit. It does
// not block the transition.
const WarnManualEditLoss = "You will lose edited markdown if you update the form data."

// WarnManualEditDiscarded is surfaced when re-entering structured-edit after
// manual markdown edits; the buffer is re-derived from the form.
const WarnManualEditDiscarded = "Manual markdown edits were discarded; the document now reflects the form again."

// EditorSession is the single owned mutable struct of one editing session:
// current view mode, the structured form, and the markdown buffer. While the
// mode is structured-edit the buffer is a pure function of the form; once the
// user edits markdown by hand the buffer is the independent source of truth
// until the form takes over again. Divergence is never auto-merged.
type EditorSession struct {
	UserID      uuid.UUID
	DisplayName string
	Mode        ViewMode
	Form        models.ResumeForm
	Content     string

	manualEdits bool
}

// EditorService owns the live editing sessions, one per user. Every method
// returns a copy of the session; the stored struct never leaves the lock.
type EditorService interface {
	Session(userID uuid.UUID, displayName, initialContent string) *EditorSession
	UpdateForm(userID uuid.UUID, form *models.ResumeForm) (*EditorSession, string, error)
	UpdateContent(userID uuid.UUID, content string) (*EditorSession, error)
	SetMode(userID uuid.UUID, mode ViewMode) (*EditorSession, string, error)
	Current(userID uuid.UUID) (*EditorSession, error)
	Drop(userID uuid.UUID)
}

type editorService struct {
	synchronizer *ContentSynchronizer

	mu       sync.Mutex
	sessions map[uuid.UUID]*EditorSession
}

func NewEditorService(synchronizer *ContentSynchronizer) EditorService {
	return &editorService{
		synchronizer: synchronizer,
		sessions:     map[uuid.UUID]*EditorSession{},
	}
}

// Session returns the user's session, creating one on first access. A user
// with a persisted document starts in markdown-preview seeded with it and a
// best-effort hydrated form; everyone else starts with an empty form in
// structured-edit.
func (e *editorService) Session(userID uuid.UUID, displayName, initialContent string) *EditorSession {
	e.mu.Lock()
	defer e.mu.Unlock()

	if session, ok := e.sessions[userID]; ok {
		return snapshot(session)
	}

	session := &EditorSession{
		UserID:      userID,
		DisplayName: displayName,
		Mode:        ModeStructuredEdit,
	}
	if initialContent != "" {
		session.Mode = ModeMarkdownPreview
		session.Content = initialContent
		session.Form = *e.synchronizer.ParseMarkdown(initialContent)
	}

	e.sessions[userID] = session
	return snapshot(session)
}

// UpdateForm stores the new form values. In structured-edit mode the markdown
// buffer is re-derived and overwritten; in the markdown modes the buffer is
// left untouched so manual edits survive until the user explicitly returns to
// the form.
func (e *editorService) UpdateForm(userID uuid.UUID, form *models.ResumeForm) (*EditorSession, string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	session, ok := e.sessions[userID]
	if !ok {
		return nil, "", fmt.Errorf("no editing session for user %s", userID)
	}

	session.Form = *form
	if session.Mode != ModeStructuredEdit {
		return snapshot(session), "", nil
	}

	warning := ""
	if session.manualEdits {
		warning = WarnManualEditDiscarded
	}
	session.Content = e.synchronizer.DeriveMarkdown(form, session.DisplayName)
	session.manualEdits = false
	return snapshot(session), warning, nil
}

// UpdateContent records a manual markdown edit. Only valid in markdown-edit
// mode; from here on the buffer no longer tracks the form.
func (e *editorService) UpdateContent(userID uuid.UUID, content string) (*EditorSession, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	session, ok := e.sessions[userID]
	if !ok {
		return nil, fmt.Errorf("no editing session for user %s", userID)
	}
	if session.Mode != ModeMarkdownEdit {
		return nil, fmt.Errorf("markdown can only be edited in %s mode", ModeMarkdownEdit)
	}

	session.Content = content
	session.manualEdits = true
	return snapshot(session), nil
}

// SetMode moves the session between views. Switching out of structured-edit
// never re-derives; switching into markdown-edit warns that later form edits
// can discard manual changes; switching back into structured-edit re-derives
// the buffer, warning once more if that drops manual edits.
func (e *editorService) SetMode(userID uuid.UUID, mode ViewMode) (*EditorSession, string, error) {
	switch mode {
	case ModeStructuredEdit, ModeMarkdownPreview, ModeMarkdownEdit:
	default:
		return nil, "", fmt.Errorf("unknown view mode %q", mode)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	session, ok := e.sessions[userID]
	if !ok {
		return nil, "", fmt.Errorf("no editing session for user %s", userID)
	}

	if session.Mode == mode {
		return snapshot(session), "", nil
	}

	warning := ""
	switch mode {
	case ModeMarkdownEdit:
		warning = WarnManualEditLoss
	case ModeStructuredEdit:
		if session.manualEdits {
			warning = WarnManualEditDiscarded
		}
		session.Content = e.synchronizer.DeriveMarkdown(&session.Form, session.DisplayName)
		session.manualEdits = false
	}

	session.Mode = mode
	return snapshot(session), warning, nil
}

func (e *editorService) Current(userID uuid.UUID) (*EditorSession, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	session, ok := e.sessions[userID]
	if !ok {
		return nil, fmt.Errorf("no editing session for user %s", userID)
	}
	return snapshot(session), nil
}

// Drop discards the in-memory session, e.g. after a save replaced the
// persisted document.
func (e *editorService) Drop(userID uuid.UUID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.sessions, userID)
}

// snapshot copies the session so callers read it without the lock. Form is
// copied shallowly: its slices are only ever replaced wholesale, never
// mutated element-wise.
func snapshot(session *EditorSession) *EditorSession {
	copied := *session
	return &copied
}
