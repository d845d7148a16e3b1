package infrastructure

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/wml/stypes"

	configdomain "event-planner/backend/internal/features/config/domain"
	"event-planner/backend/internal/features/planner/domain"
)

// GodocxRenderer writes the same title, metadata lines and 6x2 grid as
// DocxRenderer without requiring a unioffice license.
type GodocxRenderer struct {
	cfg configdomain.DocumentConfig
}

func NewGodocxRenderer(cfg configdomain.DocumentConfig) *GodocxRenderer {
	return &GodocxRenderer{cfg: cfg}
}

func (r *GodocxRenderer) Render(plan *domain.GeneratedPlan) ([]byte, error) {
	if plan == nil {
		return nil, domain.ErrNoPlan
	}

	doc, err := godocx.NewDocument()
	if err != nil {
		return nil, fmt.Errorf("failed to create docx: %w", err)
	}
	doc.AddHeading(r.cfg.Title, 1)
	doc.AddParagraph(r.cfg.DateLine)
	doc.AddParagraph(r.cfg.AuthorLine)

	table := doc.AddTable()
	table.Style("TableGrid")
	for _, pair := range TableRows(plan) {
		row := table.AddRow()
		for _, text := range pair {
			cell := row.AddCell()
			for _, line := range strings.Split(text, "\n") {
				cell.AddParagraph(line).Justification(stypes.JustificationCenter)
			}
		}
	}

	// godocx only serializes to a path.
	dir, err := os.MkdirTemp("", "event-plan-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, DocxFileName)
	if err := doc.SaveTo(path); err != nil {
		return nil, fmt.Errorf("failed to save docx: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read docx: %w", err)
	}
	return data, nil
}

// NewDocumentRenderer picks the unioffice renderer when a license has been
// activated and the godocx renderer otherwise.
func NewDocumentRenderer(cfg configdomain.DocumentConfig, licensed bool) DocumentRenderer {
	if licensed {
		return NewDocxRenderer(cfg)
	}
	return NewGodocxRenderer(cfg)
}
