package pdfimport

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/rotisserie/eris"
)

// PdfToText opens PDFs by shelling out to the pdftotext CLI tool.
// Layout mode preserves column spacing, which the text strategy relies
// on to keep a name and its phone number on the same line. pdftotext
// exposes no table structure, so Documents it produces carry text only
// and extraction falls through to the text strategy.
type PdfToText struct {
	binPath string
}

// NewPdfToText creates a PdfToText opener. If binPath is empty,
// "pdftotext" is resolved from PATH.
func NewPdfToText(binPath string) *PdfToText {
	if binPath == "" {
		binPath = "pdftotext"
	}
	return &PdfToText{binPath: binPath}
}

// Open runs pdftotext -layout and splits the output into pages on the
// form-feed separators pdftotext emits.
func (p *PdfToText) Open(ctx context.Context, pdfPath string) (*Document, error) {
	cmd := exec.CommandContext(ctx, p.binPath, "-layout", pdfPath, "-")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, eris.Wrapf(err, "pdfimport: pdftotext failed for %s: %s", pdfPath, stderr.String())
	}

	doc := &Document{}
	for _, pageText := range strings.Split(stdout.String(), "\f") {
		if strings.TrimSpace(pageText) == "" {
			continue
		}
		doc.Pages = append(doc.Pages, Page{Text: pageText})
	}
	return doc, nil
}
