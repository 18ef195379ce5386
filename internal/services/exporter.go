package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"uptrack/career-coach/internal/models"
)

// RenderTarget is the injectable paint surface of the export pipeline. It
// exposes readiness and artifact production so the pipeline logic is testable
// without a real rendering environment.
type RenderTarget interface {
	ContentReady(htmlDoc string) bool
	RenderPDF(ctx context.Context, htmlDoc string) ([]byte, error)
}

type ExportArtifact struct {
	Filename    string
	ContentType string
	Data        []byte
	// Fallback marks a print-ready HTML artifact produced because the
	// primary PDF renderer failed. The client opens it in a new window and
	// lets the browser's print dialog take over.
	Fallback bool
}

type ExportService interface {
	Export(ctx context.Context, userID uuid.UUID, markdown, displayName string) (*ExportArtifact, error)
	InFlight(userID uuid.UUID) bool
}

type exportService struct {
	target   RenderTarget
	markdown goldmark.Markdown

	mu       sync.Mutex
	inFlight map[uuid.UUID]bool
}

func NewExportService(target RenderTarget) ExportService {
	return &exportService{
		target: target,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
		inFlight: map[uuid.UUID]bool{},
	}
}

// Export renders the markdown onto the A4 surface and produces a
// downloadable artifact: a PDF from the primary renderer, or a print-ready
// HTML document when the renderer fails. A second export for the same user
// while one is pending is rejected, and the pending flag is cleared on every
// exit path.
func (s *exportService) Export(ctx context.Context, userID uuid.UUID, markdown, displayName string) (*ExportArtifact, error) {
	s.mu.Lock()
	if s.inFlight[userID] {
		s.mu.Unlock()
		return nil, models.ErrExportInFlight
	}
	s.inFlight[userID] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inFlight, userID)
		s.mu.Unlock()
	}()

	htmlDoc, err := s.renderSurface(markdown, displayName)
	if err != nil {
		return nil, fmt.Errorf("failed to render resume surface: %w", err)
	}
	if !s.target.ContentReady(htmlDoc) {
		// Recoverable: the caller tells the user to retry, not that the
		// export is broken.
		return nil, models.ErrContentNotReady
	}

	name := sanitizeFilename(displayName)

	pdfData, err := s.target.RenderPDF(ctx, htmlDoc)
	if err == nil {
		return &ExportArtifact{
			Filename:    name + ".pdf",
			ContentType: "application/pdf",
			Data:        pdfData,
		}, nil
	}

	log.Printf("⚠️  Primary PDF renderer failed, falling back to print document: %v", err)

	printDoc := printFallbackDocument(htmlDoc, displayName)
	return &ExportArtifact{
		Filename:    name + ".html",
		ContentType: "text/html; charset=utf-8",
		Data:        []byte(printDoc),
		Fallback:    true,
	}, nil
}

func (s *exportService) InFlight(userID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight[userID]
}

// renderSurface converts the markdown to the fixed-page-size HTML document
// the renderers consume: A4 portrait, 15mm margins, print background.
func (s *exportService) renderSurface(markdown, displayName string) (string, error) {
	var body bytes.Buffer
	if err := s.markdown.Convert([]byte(markdown), &body); err != nil {
		return "", fmt.Errorf("markdown conversion failed: %w", err)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
@page { size: A4 portrait; margin: 15mm; }
body {
  width: 210mm;
  min-height: 297mm;
  margin: 0 auto;
  padding: 15mm;
  box-sizing: border-box;
  background: white;
  color: black;
  font-family: Arial, sans-serif;
  line-height: 1.6;
}
h1, h2, h3 { color: #333; }
h2 { border-bottom: 1px solid #666; padding-bottom: 4px; }
a { color: #0066cc; text-decoration: none; }
</style>
</head>
<body>
%s</body>
</html>`, htmlTitle(displayName), body.String()), nil
}

// printFallbackDocument wraps the rendered markup in a minimal standalone
// page that opens the browser's native print dialog.
func printFallbackDocument(htmlDoc, displayName string) string {
	body := extractBody(htmlDoc)
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: Arial, sans-serif; margin: 20px; line-height: 1.6; color: #333; }
h1, h2, h3 { color: #333; margin-top: 1.5em; }
h1 { border-bottom: 2px solid #333; }
h2 { border-bottom: 1px solid #666; }
a { color: #0066cc; text-decoration: none; }
@media print {
  body { margin: 0.5in; }
  h1 { break-after: avoid; }
}
</style>
</head>
<body onload="window.print()">
%s</body>
</html>`, htmlTitle(displayName), body)
}

func htmlTitle(displayName string) string {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return "Resume"
	}
	return displayName
}

// sanitizeFilename replaces whitespace runs with underscores, defaulting to
// "resume" when no display name is available.
func sanitizeFilename(displayName string) string {
	fields := strings.Fields(displayName)
	if len(fields) == 0 {
		return "resume"
	}
	return strings.Join(fields, "_")
}

func extractBody(htmlDoc string) string {
	start := strings.Index(htmlDoc, "<body>")
	end := strings.LastIndex(htmlDoc, "</body>")
	if start < 0 || end < 0 || end <= start {
		return htmlDoc
	}
	return htmlDoc[start+len("<body>") : end]
}
