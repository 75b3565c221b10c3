// Package reports renders insight collections as markdown, HTML and PDF
// documents and writes them to the configured output directory.
package reports

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/models"
	"github.com/yuin/goldmark"
)

// Format names a report output format
type Format string

// Supported report formats
const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatPDF      Format = "pdf"
)

var formatExtensions = map[Format]string{
	FormatMarkdown: ".md",
	FormatHTML:     ".html",
	FormatPDF:      ".pdf",
}

// Service renders and persists reports
type Service struct {
	config common.ReportsConfig
	logger arbor.ILogger
}

// NewService creates a new report service
func NewService(config common.ReportsConfig, logger arbor.ILogger) *Service {
	return &Service{
		config: config,
		logger: logger,
	}
}

// Render produces the report document for a collection in the given format
func (s *Service) Render(collection *models.InsightCollection, format Format) ([]byte, error) {
	markdown := Markdown(collection)

	switch format {
	case FormatMarkdown:
		return []byte(markdown), nil
	case FormatHTML:
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
			return nil, fmt.Errorf("failed to render HTML: %w", err)
		}
		return buf.Bytes(), nil
	case FormatPDF:
		return markdownToPDF(markdown)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

// Write renders the report and writes it under the output directory,
// returning the file path
func (s *Service) Write(collection *models.InsightCollection, format Format) (string, error) {
	content, err := s.Render(collection, format)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.config.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	filename := fmt.Sprintf("%s%s", collection.ID, formatExtensions[format])
	path := filepath.Join(s.config.OutputDir, filename)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	s.logger.Info().
		Str("collection_id", collection.ID).
		Str("format", string(format)).
		Str("path", path).
		Msg("Report written")
	return path, nil
}
