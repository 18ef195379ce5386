package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uptrack/career-coach/internal/models"
)

func TestDeriveMarkdownIdempotent(t *testing.T) {
	s := NewContentSynchronizer()
	form := &models.ResumeForm{
		ContactInfo: models.ContactInfo{Email: "jane@example.com", LinkedIn: "https://linkedin.com/in/jane"},
		Summary:     "Seasoned backend engineer.",
		Skills:      "Go, Postgres, Kubernetes",
		Experience: []models.Entry{
			{Title: "Engineer", Organization: "Acme", StartDate: "Jan 2020", Current: true, Description: "Built things."},
		},
	}

	first := s.DeriveMarkdown(form, "Jane Doe")
	second := s.DeriveMarkdown(form, "Jane Doe")
	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestDeriveMarkdownEmptyForm(t *testing.T) {
	s := NewContentSynchronizer()

	got := s.DeriveMarkdown(&models.ResumeForm{}, "")
	assert.Equal(t, "", got)
}

func TestDeriveMarkdownSkillsOnly(t *testing.T) {
	s := NewContentSynchronizer()
	form := &models.ResumeForm{Skills: "Go, SQL"}

	got := s.DeriveMarkdown(form, "")

	assert.Equal(t, "## Skills\n\nGo, SQL", got)
	assert.Equal(t, 1, strings.Count(got, "## "))
	assert.NotContains(t, got, "Professional Summary")
	assert.NotContains(t, got, "Work Experience")
}

func TestContactBlockSingleItem(t *testing.T) {
	s := NewContentSynchronizer()
	form := &models.ResumeForm{
		ContactInfo: models.ContactInfo{Email: "a@b.com"},
	}

	got := s.DeriveMarkdown(form, "Jane Doe")

	assert.Contains(t, got, `## <div align="center">Jane Doe</div>`)
	assert.Contains(t, got, "📧 a@b.com")
	assert.NotContains(t, got, " | ")
	assert.NotContains(t, got, "📱")
}

func TestContactBlockAllItems(t *testing.T) {
	s := NewContentSynchronizer()
	form := &models.ResumeForm{
		ContactInfo: models.ContactInfo{
			Email:    "a@b.com",
			Mobile:   "+1 234",
			LinkedIn: "https://linkedin.com/in/a",
			Twitter:  "https://twitter.com/a",
		},
	}

	got := s.DeriveMarkdown(form, "Jane Doe")

	assert.Equal(t, 3, strings.Count(got, " | "))
	assert.Contains(t, got, "💼 [LinkedIn](https://linkedin.com/in/a)")
	assert.Contains(t, got, "🐦 [Twitter](https://twitter.com/a)")
}

func TestContactBlockRequiresDisplayName(t *testing.T) {
	s := NewContentSynchronizer()
	form := &models.ResumeForm{
		ContactInfo: models.ContactInfo{Email: "a@b.com"},
	}

	got := s.DeriveMarkdown(form, "")
	assert.Equal(t, "", got)
}

func TestEntriesToMarkdown(t *testing.T) {
	entries := []models.Entry{
		{Title: "Engineer", Organization: "Acme", StartDate: "Jan 2020", EndDate: "Dec 2022", Description: "Shipped the platform."},
		{Title: "Senior Engineer", Organization: "Globex", StartDate: "Jan 2023", Current: true, Description: "Leading the team."},
	}

	got := EntriesToMarkdown(entries, "Work Experience")

	assert.True(t, strings.HasPrefix(got, "## Work Experience\n\n"))
	assert.Contains(t, got, "### Engineer @ Acme\nJan 2020 - Dec 2022\n\nShipped the platform.")
	assert.Contains(t, got, "### Senior Engineer @ Globex\nJan 2023 - Present")
}

func TestEntriesToMarkdownEmpty(t *testing.T) {
	assert.Equal(t, "", EntriesToMarkdown(nil, "Projects"))
}

func TestParseMarkdownRoundTrip(t *testing.T) {
	s := NewContentSynchronizer()
	form := &models.ResumeForm{
		Summary: "Backend engineer.",
		Skills:  "Go, SQL",
		Experience: []models.Entry{
			{Title: "Engineer", Organization: "Acme", StartDate: "Jan 2020", Current: true, Description: "Built APIs."},
		},
		Education: []models.Entry{
			{Title: "BSc CS", Organization: "State University", StartDate: "2014", EndDate: "2018", Description: "Graduated with honors."},
		},
	}

	content := s.DeriveMarkdown(form, "")
	parsed := s.ParseMarkdown(content)

	assert.Equal(t, form.Summary, parsed.Summary)
	assert.Equal(t, form.Skills, parsed.Skills)
	require.Len(t, parsed.Experience, 1)
	assert.Equal(t, "Engineer", parsed.Experience[0].Title)
	assert.Equal(t, "Acme", parsed.Experience[0].Organization)
	assert.True(t, parsed.Experience[0].Current)
	assert.Equal(t, "Built APIs.", parsed.Experience[0].Description)
	require.Len(t, parsed.Education, 1)
	assert.Equal(t, "2018", parsed.Education[0].EndDate)
}

func TestParseMarkdownDatelessEntry(t *testing.T) {
	s := NewContentSynchronizer()

	parsed := s.ParseMarkdown("## Work Experience\n\n### Engineer @ Acme\n\nBuilt things.")

	require.Len(t, parsed.Experience, 1)
	entry := parsed.Experience[0]
	assert.Equal(t, "Engineer", entry.Title)
	assert.Equal(t, "Acme", entry.Organization)
	// A short prose line is a description, never a date range.
	assert.Empty(t, entry.StartDate)
	assert.Equal(t, "Built things.", entry.Description)
}

func TestParseMarkdownEmpty(t *testing.T) {
	s := NewContentSynchronizer()
	form := s.ParseMarkdown("   \n ")
	assert.True(t, form.IsEmpty())
}
