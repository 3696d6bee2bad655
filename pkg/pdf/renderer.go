package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// Field is one label/value line in a document section.
type Field struct {
	Label string
	Value string
}

// Table is a simple bordered table.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Section groups fields and an optional table under a heading.
type Section struct {
	Heading string
	Fields  []Field
	Table   *Table
}

// Document describes a printable form.
type Document struct {
	Title    string
	Subtitle string
	Sections []Section
	Footer   string
}

// Renderer produces A4 portrait PDFs from documents.
type Renderer struct{}

// NewRenderer constructs a Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render lays out the document and returns the PDF bytes.
func (r *Renderer) Render(doc Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 15, 12)
	pdf.AddPage()

	if doc.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 9, doc.Title, "", 1, "C", false, 0, "")
	}
	if doc.Subtitle != "" {
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(0, 7, doc.Subtitle, "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	for _, section := range doc.Sections {
		if section.Heading != "" {
			pdf.SetFont("Arial", "B", 11)
			pdf.CellFormat(0, 8, section.Heading, "B", 1, "L", false, 0, "")
			pdf.Ln(1)
		}

		pdf.SetFont("Arial", "", 10)
		for _, field := range section.Fields {
			pdf.SetFont("Arial", "B", 10)
			pdf.CellFormat(60, 6, field.Label, "", 0, "L", false, 0, "")
			pdf.SetFont("Arial", "", 10)
			pdf.CellFormat(0, 6, field.Value, "", 1, "L", false, 0, "")
		}

		if section.Table != nil && len(section.Table.Headers) > 0 {
			pdf.Ln(2)
			colWidth := 186.0 / float64(len(section.Table.Headers))
			pdf.SetFont("Arial", "B", 9)
			for _, header := range section.Table.Headers {
				pdf.CellFormat(colWidth, 7, header, "1", 0, "C", false, 0, "")
			}
			pdf.Ln(-1)
			pdf.SetFont("Arial", "", 9)
			for _, row := range section.Table.Rows {
				for i := range section.Table.Headers {
					value := ""
					if i < len(row) {
						value = row[i]
					}
					pdf.CellFormat(colWidth, 6, value, "1", 0, "", false, 0, "")
				}
				pdf.Ln(-1)
			}
		}
		pdf.Ln(4)
	}

	if doc.Footer != "" {
		pdf.Ln(4)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 5, doc.Footer, "", 1, "C", false, 0, "")
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
