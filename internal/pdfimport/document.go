// Package pdfimport extracts candidate leads from contact-list PDFs.
//
// Two strategies run in priority order per document: embedded tables
// with fuzzy header matching, then a regex sweep over the raw page
// text. A document that cannot be opened contributes zero candidates
// and never aborts the batch.
package pdfimport

import "context"

// Document is a parsed PDF: ordered pages, each exposing any embedded
// tables plus its extractable text.
type Document struct {
	Pages []Page
}

// Page holds the tables (rows of cells) and raw text of one PDF page.
type Page struct {
	Tables [][][]string
	Text   string
}

// Opener turns a PDF file into a Document.
type Opener interface {
	Open(ctx context.Context, path string) (*Document, error)
}
