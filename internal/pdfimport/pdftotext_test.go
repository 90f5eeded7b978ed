package pdfimport

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPdfToText_DefaultBin(t *testing.T) {
	p := NewPdfToText("")
	assert.Equal(t, "pdftotext", p.binPath)

	p = NewPdfToText("/custom/pdftotext")
	assert.Equal(t, "/custom/pdftotext", p.binPath)
}

func TestPdfToText_SplitsPages(t *testing.T) {
	stub := filepath.Join(t.TempDir(), "pdftotext")
	script := "#!/bin/sh\nprintf 'page one\\fpage two\\f'\n"
	require.NoError(t, os.WriteFile(stub, []byte(script), 0o755))

	doc, err := NewPdfToText(stub).Open(context.Background(), "ignored.pdf")
	require.NoError(t, err)
	require.Len(t, doc.Pages, 2)
	assert.Equal(t, "page one", doc.Pages[0].Text)
	assert.Equal(t, "page two", doc.Pages[1].Text)
	assert.Empty(t, doc.Pages[0].Tables)
}

func TestPdfToText_CommandFailure(t *testing.T) {
	stub := filepath.Join(t.TempDir(), "pdftotext")
	script := "#!/bin/sh\necho 'Syntax Error: file damaged' >&2\nexit 1\n"
	require.NoError(t, os.WriteFile(stub, []byte(script), 0o755))

	_, err := NewPdfToText(stub).Open(context.Background(), "bad.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file damaged")
}
