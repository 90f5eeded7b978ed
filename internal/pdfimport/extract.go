package pdfimport

import (
	"regexp"
	"strings"

	"github.com/empire-sales/leadgen-cli/internal/model"
	"github.com/empire-sales/leadgen-cli/internal/normalize"
)

// Baseline scores reflect confidence in the extraction path. Contact
// lists carry no property signals, so both sit below scored bulk data.
const (
	tableLeadScore = 30
	textLeadScore  = 25
)

// headerSynonyms maps canonical fields to the header spellings seen in
// the wild. Matching is case-insensitive substring, so "Owner Name" and
// "PHONE #" both land.
var headerSynonyms = map[string][]string{
	"name":    {"name", "owner", "contact", "customer"},
	"phone":   {"phone", "tel", "mobile", "cell"},
	"email":   {"email", "e-mail"},
	"address": {"address", "street"},
	"city":    {"city"},
	"zip":     {"zip", "postal"},
}

var (
	phonePattern = regexp.MustCompile(`(?:\+?1[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	// Southwest Florida zips start with 33 or 34.
	zipPattern = regexp.MustCompile(`\b3[34]\d{3}\b`)
)

// ExtractLeads pulls candidate leads from a parsed document. Tables are
// tried first across every page; the text strategy runs only when no
// table anywhere produced a lead.
func ExtractLeads(doc *Document) []model.Lead {
	var leads []model.Lead
	for _, page := range doc.Pages {
		for _, table := range page.Tables {
			leads = append(leads, extractFromTable(table)...)
		}
	}
	if len(leads) > 0 {
		return leads
	}

	var sb strings.Builder
	for _, page := range doc.Pages {
		sb.WriteString(page.Text)
		sb.WriteString("\n")
	}
	return extractFromText(sb.String())
}

// extractFromTable maps header cells to canonical fields and builds one
// lead per data row. A table whose header maps to nothing is re-read
// row by row as free text rather than dropped.
func extractFromTable(table [][]string) []model.Lead {
	if len(table) == 0 {
		return nil
	}

	colField := map[int]string{}
	for i, cell := range table[0] {
		header := strings.ToLower(strings.TrimSpace(cell))
		if header == "" {
			continue
		}
		for field, synonyms := range headerSynonyms {
			if _, taken := colField[i]; taken {
				break
			}
			for _, syn := range synonyms {
				if strings.Contains(header, syn) {
					colField[i] = field
					break
				}
			}
		}
	}

	if len(colField) == 0 {
		var leads []model.Lead
		for _, row := range table {
			leads = append(leads, extractFromText(strings.Join(row, " "))...)
		}
		return leads
	}

	var leads []model.Lead
	for _, row := range table[1:] {
		if blankRow(row) {
			continue
		}
		lead := model.Lead{
			Source:          model.SourcePDF,
			Status:          model.LeadStatusNew,
			RenovationScore: tableLeadScore,
		}
		for i, cell := range row {
			field, ok := colField[i]
			if !ok {
				continue
			}
			value := strings.TrimSpace(cell)
			if value == "" {
				continue
			}
			switch field {
			case "name":
				lead.FullName = normalize.TitleCase(value)
			case "phone":
				if phone, ok := normalize.Phone(value); ok {
					lead.Phone = phone
				}
			case "email":
				lead.Email = strings.ToLower(value)
			case "address":
				lead.Address = normalize.TitleCase(value)
			case "city":
				lead.City = normalize.TitleCase(value)
			case "zip":
				lead.ZipCode = value
			}
		}
		lead.County = normalize.County(lead.City)
		if lead.Valid() {
			leads = append(leads, lead)
		}
	}
	return leads
}

// extractFromText emits one candidate per normalizable phone match.
// Name, email, and zip are only searched on the line containing the
// match, which keeps unrelated page text from bleeding into a lead.
func extractFromText(text string) []model.Lead {
	var leads []model.Lead
	for _, loc := range phonePattern.FindAllStringIndex(text, -1) {
		raw := text[loc[0]:loc[1]]
		phone, ok := normalize.Phone(raw)
		if !ok {
			continue
		}

		lineStart := strings.LastIndexByte(text[:loc[0]], '\n') + 1
		lineEnd := strings.IndexByte(text[loc[1]:], '\n')
		if lineEnd < 0 {
			lineEnd = len(text)
		} else {
			lineEnd += loc[1]
		}
		line := text[lineStart:lineEnd]

		lead := model.Lead{
			Phone:           phone,
			Source:          model.SourcePDF,
			Status:          model.LeadStatusNew,
			RenovationScore: textLeadScore,
		}

		before := strings.TrimSpace(text[lineStart:loc[0]])
		before = strings.TrimRight(before, ":-|, \t")
		if len(before) > 2 && !allDigits(before) {
			lead.FullName = normalize.TitleCase(before)
		}
		if email := emailPattern.FindString(line); email != "" {
			lead.Email = strings.ToLower(email)
		}
		if zip := zipPattern.FindString(line); zip != "" {
			lead.ZipCode = zip
		}
		lead.County = normalize.County(lead.City)

		leads = append(leads, lead)
	}
	return leads
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
