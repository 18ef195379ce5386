package services

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uptrack/career-coach/internal/models"
)

func newEditor() EditorService {
	return NewEditorService(NewContentSynchronizer())
}

func TestSessionInitialModeWithoutDocument(t *testing.T) {
	editor := newEditor()
	userID := uuid.New()

	session := editor.Session(userID, "Jane Doe", "")

	assert.Equal(t, ModeStructuredEdit, session.Mode)
	assert.Equal(t, "", session.Content)
}

func TestSessionInitialModeWithDocument(t *testing.T) {
	editor := newEditor()
	userID := uuid.New()

	session := editor.Session(userID, "Jane Doe", "## Skills\n\nGo")

	assert.Equal(t, ModeMarkdownPreview, session.Mode)
	assert.Equal(t, "## Skills\n\nGo", session.Content)
	assert.Equal(t, "Go", session.Form.Skills)
}

func TestUpdateFormRederivesInStructuredEdit(t *testing.T) {
	editor := newEditor()
	userID := uuid.New()
	editor.Session(userID, "", "")

	session, warning, err := editor.UpdateForm(userID, &models.ResumeForm{Skills: "Go"})
	require.NoError(t, err)
	assert.Empty(t, warning)
	assert.Equal(t, "## Skills\n\nGo", session.Content)

	session, _, err = editor.UpdateForm(userID, &models.ResumeForm{Skills: "Go, SQL"})
	require.NoError(t, err)
	assert.Equal(t, "## Skills\n\nGo, SQL", session.Content)
}

func TestManualEditsSurviveFormUpdates(t *testing.T) {
	editor := newEditor()
	userID := uuid.New()
	editor.Session(userID, "", "## Skills\n\nGo")

	_, warning, err := editor.SetMode(userID, ModeMarkdownEdit)
	require.NoError(t, err)
	assert.Equal(t, WarnManualEditLoss, warning)

	_, err = editor.UpdateContent(userID, "# My hand-written resume")
	require.NoError(t, err)

	// Form changes must stop overwriting the buffer while it is the
	// independent source of truth.
	session, _, err := editor.UpdateForm(userID, &models.ResumeForm{Skills: "Rust"})
	require.NoError(t, err)
	assert.Equal(t, "# My hand-written resume", session.Content)
	assert.Equal(t, "Rust", session.Form.Skills)
}

func TestReturnToStructuredEditDiscardsManualEditsWithWarning(t *testing.T) {
	editor := newEditor()
	userID := uuid.New()
	editor.Session(userID, "", "## Skills\n\nGo")

	_, _, err := editor.SetMode(userID, ModeMarkdownEdit)
	require.NoError(t, err)
	_, err = editor.UpdateContent(userID, "# Manual")
	require.NoError(t, err)

	session, warning, err := editor.SetMode(userID, ModeStructuredEdit)
	require.NoError(t, err)
	assert.Equal(t, WarnManualEditDiscarded, warning)
	assert.Equal(t, "## Skills\n\nGo", session.Content)
}

func TestSwitchToPreviewDoesNotRederive(t *testing.T) {
	editor := newEditor()
	userID := uuid.New()
	editor.Session(userID, "", "")
	_, _, err := editor.UpdateForm(userID, &models.ResumeForm{Skills: "Go"})
	require.NoError(t, err)

	session, warning, err := editor.SetMode(userID, ModeMarkdownPreview)
	require.NoError(t, err)
	assert.Empty(t, warning)
	assert.Equal(t, "## Skills\n\nGo", session.Content)
}

func TestUpdateContentRequiresMarkdownEdit(t *testing.T) {
	editor := newEditor()
	userID := uuid.New()
	editor.Session(userID, "", "")

	_, err := editor.UpdateContent(userID, "# Manual")
	assert.Error(t, err)
}

func TestSetModeRejectsUnknownMode(t *testing.T) {
	editor := newEditor()
	userID := uuid.New()
	editor.Session(userID, "", "")

	_, _, err := editor.SetMode(userID, ViewMode("split-view"))
	assert.Error(t, err)
}

func TestReturnedSessionIsACopy(t *testing.T) {
	editor := newEditor()
	userID := uuid.New()
	before := editor.Session(userID, "Jane Doe", "")

	_, _, err := editor.UpdateForm(userID, &models.ResumeForm{Skills: "Go"})
	require.NoError(t, err)

	// The earlier return value is a snapshot, not the stored struct.
	assert.Empty(t, before.Content)
	assert.Empty(t, before.Form.Skills)

	after, err := editor.Current(userID)
	require.NoError(t, err)
	assert.Equal(t, "## Skills\n\nGo", after.Content)
	assert.Equal(t, "Go", after.Form.Skills)
}

func TestConcurrentSessionAccess(t *testing.T) {
	editor := newEditor()
	userID := uuid.New()
	editor.Session(userID, "Jane Doe", "")

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, _, _ = editor.UpdateForm(userID, &models.ResumeForm{Skills: "Go, SQL"})
				if session, err := editor.Current(userID); err == nil {
					_ = session.Content
					_ = session.Form.Skills
				}
				_, _, _ = editor.SetMode(userID, ModeMarkdownPreview)
				_, _, _ = editor.SetMode(userID, ModeStructuredEdit)
			}
		}()
	}
	wg.Wait()

	session, err := editor.Current(userID)
	require.NoError(t, err)
	assert.Equal(t, "## Skills\n\nGo, SQL", session.Content)
}

func TestDropDiscardsSession(t *testing.T) {
	editor := newEditor()
	userID := uuid.New()
	editor.Session(userID, "", "## Skills\n\nGo")

	editor.Drop(userID)

	_, err := editor.Current(userID)
	assert.Error(t, err)

	session := editor.Session(userID, "", "")
	assert.Equal(t, ModeStructuredEdit, session.Mode)
	assert.Empty(t, session.Content)
}

func TestPreviewEditToggleKeepsContent(t *testing.T) {
	editor := newEditor()
	userID := uuid.New()
	editor.Session(userID, "", "## Skills\n\nGo")

	_, _, err := editor.SetMode(userID, ModeMarkdownEdit)
	require.NoError(t, err)
	_, err = editor.UpdateContent(userID, "# Manual")
	require.NoError(t, err)

	session, warning, err := editor.SetMode(userID, ModeMarkdownPreview)
	require.NoError(t, err)
	assert.Empty(t, warning)
	assert.Equal(t, "# Manual", session.Content)

	session, warning, err = editor.SetMode(userID, ModeMarkdownEdit)
	require.NoError(t, err)
	assert.Equal(t, WarnManualEditLoss, warning)
	assert.Equal(t, "# Manual", session.Content)
}
