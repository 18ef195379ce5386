package services

import (
	"fmt"
	"strings"

	"uptrack/career-coach/internal/models"
)

// ContentSynchronizer derives the single markdown document from the
// structured form. DeriveMarkdown is pure and deterministic: identical input
// always produces byte-identical output.
type ContentSynchronizer struct{}

func NewContentSynchronizer() *ContentSynchronizer {
	return &ContentSynchronizer{}
}

// DeriveMarkdown builds the ordered sequence of optional sections and joins
// the non-empty ones with a blank line. A fully empty form yields an empty
// string, not a heading-only document.
func (s *ContentSynchronizer) DeriveMarkdown(form *models.ResumeForm, displayName string) string {
	sections := []string{
		contactMarkdown(form.ContactInfo, displayName),
		sectionMarkdown("Professional Summary", form.Summary),
		sectionMarkdown("Skills", form.Skills),
		EntriesToMarkdown(form.Experience, "Work Experience"),
		EntriesToMarkdown(form.Education, "Education"),
		EntriesToMarkdown(form.Projects, "Projects"),
	}

	var nonEmpty []string
	for _, section := range sections {
		if section != "" {
			nonEmpty = append(nonEmpty, section)
		}
	}
	return strings.Join(nonEmpty, "\n\n")
}

// contactMarkdown renders the centered name header plus the emoji contact
// line. Without a display name the whole block is empty.
func contactMarkdown(info models.ContactInfo, displayName string) string {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return ""
	}

	var parts []string
	if info.Email != "" {
		parts = append(parts, "📧 "+info.Email)
	}
	if info.Mobile != "" {
		parts = append(parts, "📱 "+info.Mobile)
	}
	if info.LinkedIn != "" {
		parts = append(parts, fmt.Sprintf("💼 [LinkedIn](%s)", info.LinkedIn))
	}
	if info.Twitter != "" {
		parts = append(parts, fmt.Sprintf("🐦 [Twitter](%s)", info.Twitter))
	}

	header := fmt.Sprintf(`## <div align="center">%s</div>`, displayName)
	if len(parts) == 0 {
		return header
	}
	return header + "\n\n<div align=\"center\">\n\n" + strings.Join(parts, " | ") + "\n\n</div>"
}

func sectionMarkdown(heading, body string) string {
	body = strings.TrimSpace(body)
	if body == "" {
		return ""
	}
	return "## " + heading + "\n\n" + body
}

// EntriesToMarkdown renders one collection as a heading followed by a block
// per entry. Empty collections render nothing.
func EntriesToMarkdown(entries []models.Entry, label string) string {
	if len(entries) == 0 {
		return ""
	}

	blocks := make([]string, 0, len(entries))
	for _, entry := range entries {
		blocks = append(blocks, entryMarkdown(entry))
	}
	return "## " + label + "\n\n" + strings.Join(blocks, "\n\n")
}

func entryMarkdown(entry models.Entry) string {
	block := fmt.Sprintf("### %s @ %s", entry.Title, entry.Organization)
	if dateRange := entryDateRange(entry); dateRange != "" {
		block += "\n" + dateRange
	}
	if entry.Description != "" {
		block += "\n\n" + entry.Description
	}
	return block
}

func entryDateRange(entry models.Entry) string {
	if entry.StartDate == "" {
		return ""
	}
	if entry.Current {
		return entry.StartDate + " - Present"
	}
	if entry.EndDate == "" {
		return entry.StartDate
	}
	return entry.StartDate + " - " + entry.EndDate
}

// ParseMarkdown hydrates a form from an existing document. The inverse is
// best-effort and lossy: manual markdown outside the known section layout is
// dropped, which is acceptable because the parsed form only seeds the
// structured editor.
func (s *ContentSynchronizer) ParseMarkdown(content string) *models.ResumeForm {
	form := &models.ResumeForm{}
	if strings.TrimSpace(content) == "" {
		return form
	}

	var current string
	var body []string

	flush := func() {
		text := strings.TrimSpace(strings.Join(body, "\n"))
		switch current {
		case "Professional Summary":
			form.Summary = text
		case "Skills":
			form.Skills = text
		case "Work Experience":
			form.Experience = parseEntries(text)
		case "Education":
			form.Education = parseEntries(text)
		case "Projects":
			form.Projects = parseEntries(text)
		}
		body = body[:0]
	}

	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "## ") {
			flush()
			current = strings.TrimSpace(strings.TrimPrefix(line, "## "))
			continue
		}
		body = append(body, line)
	}
	flush()

	return form
}

func parseEntries(text string) []models.Entry {
	var entries []models.Entry
	for _, block := range strings.Split(text, "### ") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		lines := strings.SplitN(block, "\n", 2)
		entry := models.Entry{Title: lines[0]}
		if at := strings.LastIndex(lines[0], " @ "); at >= 0 {
			entry.Title = lines[0][:at]
			entry.Organization = lines[0][at+3:]
		}

		if len(lines) > 1 {
			rest := strings.TrimSpace(lines[1])
			restLines := strings.SplitN(rest, "\n", 2)
			if dates := strings.SplitN(restLines[0], " - ", 2); len(dates) > 0 && looksLikeDateRange(restLines[0]) {
				entry.StartDate = strings.TrimSpace(dates[0])
				if len(dates) == 2 {
					end := strings.TrimSpace(dates[1])
					if end == "Present" {
						entry.Current = true
					} else {
						entry.EndDate = end
					}
				}
				if len(restLines) > 1 {
					entry.Description = strings.TrimSpace(restLines[1])
				}
			} else {
				entry.Description = rest
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

// looksLikeDateRange is a heuristic: a short single line directly under the
// entry heading is treated as the date range. Requiring a digit keeps short
// prose descriptions out of the date fields.
func looksLikeDateRange(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" || len(line) > 40 || strings.Contains(line, "|") {
		return false
	}
	return strings.ContainsAny(line, "0123456789")
}
