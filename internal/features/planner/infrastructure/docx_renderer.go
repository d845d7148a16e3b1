package infrastructure

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/unidoc/unioffice/v2/color"
	"github.com/unidoc/unioffice/v2/common/license"
	"github.com/unidoc/unioffice/v2/document"
	"github.com/unidoc/unioffice/v2/measurement"
	"github.com/unidoc/unioffice/v2/schema/soo/wml"

	configdomain "event-planner/backend/internal/features/config/domain"
	"event-planner/backend/internal/features/planner/domain"
)

const (
	DocxFileName = "event_plan_with_table.docx"
	DocxMIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// DocumentRenderer turns a generated plan into a downloadable file.
type DocumentRenderer interface {
	Render(plan *domain.GeneratedPlan) ([]byte, error)
}

// SetLicenseKey activates the unioffice metered license.
func SetLicenseKey(key string) error {
	if key == "" {
		return errors.New("unioffice license key is empty")
	}
	return license.SetMeteredKey(key)
}

// TableRows returns the label/value pairs of the plan table, header first.
func TableRows(plan *domain.GeneratedPlan) [][2]string {
	return [][2]string{
		{"항목", "내용"},
		{"목표", plan.Goal},
		{"대상", plan.Audience},
		{"전략", plan.Strategy},
		{"예산", plan.Budget},
		{"이벤트 기획안", plan.EventPlan},
	}
}

// DocxRenderer writes the plan as a Word document with a 6x2 table.
type DocxRenderer struct {
	cfg configdomain.DocumentConfig
}

func NewDocxRenderer(cfg configdomain.DocumentConfig) *DocxRenderer {
	return &DocxRenderer{cfg: cfg}
}

// Build lays out the document without serializing it.
func (r *DocxRenderer) Build(plan *domain.GeneratedPlan) *document.Document {
	doc := document.New()

	heading := doc.AddParagraph()
	heading.SetStyle("Heading1")
	heading.AddRun().AddText(r.cfg.Title)

	doc.AddParagraph().AddRun().AddText(r.cfg.DateLine)
	doc.AddParagraph().AddRun().AddText(r.cfg.AuthorLine)

	table := doc.AddTable()
	tblProps := table.Properties()
	tblProps.SetWidthPercent(100)
	tblProps.Borders().SetAll(wml.ST_BorderSingle, color.Auto, measurement.Point)

	for i, pair := range TableRows(plan) {
		row := table.AddRow()
		for _, text := range pair {
			cell := row.AddCell()
			cell.Properties().SetVerticalAlignment(wml.ST_VerticalJcCenter)
			p := cell.AddParagraph()
			p.Properties().SetAlignment(wml.ST_JcCenter)
			run := p.AddRun()
			if i == 0 {
				run.Properties().SetBold(true)
			}
			addMultiline(run, text)
		}
	}
	return doc
}

// Render builds the document and saves it into memory.
func (r *DocxRenderer) Render(plan *domain.GeneratedPlan) ([]byte, error) {
	if plan == nil {
		return nil, domain.ErrNoPlan
	}
	doc := r.Build(plan)
	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, fmt.Errorf("failed to save docx: %w", err)
	}
	return buf.Bytes(), nil
}

func addMultiline(run document.Run, text string) {
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			run.AddBreak()
		}
		run.AddText(line)
	}
}
