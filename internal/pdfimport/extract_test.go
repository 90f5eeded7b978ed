package pdfimport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/empire-sales/leadgen-cli/internal/model"
)

func TestExtractLeads_TableStrategy(t *testing.T) {
	doc := &Document{Pages: []Page{{
		Tables: [][][]string{{
			{"Name", "Phone"},
			{"John Smith", "239-555-0101"},
		}},
	}}}

	leads := ExtractLeads(doc)
	require.Len(t, leads, 1)
	assert.Equal(t, "John Smith", leads[0].FullName)
	assert.Equal(t, "+12395550101", leads[0].Phone)
	assert.Equal(t, model.SourcePDF, leads[0].Source)
	assert.Equal(t, model.LeadStatusNew, leads[0].Status)
	assert.Equal(t, 30, leads[0].RenovationScore)
}

func TestExtractLeads_TableHeaderSynonyms(t *testing.T) {
	doc := &Document{Pages: []Page{{
		Tables: [][][]string{{
			{"Owner Name", "PHONE #", "E-Mail", "Street Address", "City", "Zip Code"},
			{"jane doe", "(239) 555-0102", "Jane@Example.COM", "12 palm way", "naples", "34102"},
		}},
	}}}

	leads := ExtractLeads(doc)
	require.Len(t, leads, 1)
	l := leads[0]
	assert.Equal(t, "Jane Doe", l.FullName)
	assert.Equal(t, "+12395550102", l.Phone)
	assert.Equal(t, "jane@example.com", l.Email)
	assert.Equal(t, "12 Palm Way", l.Address)
	assert.Equal(t, "Naples", l.City)
	assert.Equal(t, "34102", l.ZipCode)
	assert.Equal(t, model.CountyCollier, l.County)
}

func TestExtractLeads_TableSkipsBlankAndInvalidRows(t *testing.T) {
	doc := &Document{Pages: []Page{{
		Tables: [][][]string{{
			{"Name", "Phone"},
			{"", ""},
			{"", "555-0101"}, // 7 digits, rejected; no name either
			{"Ann Able", "bad"},
		}},
	}}}

	leads := ExtractLeads(doc)
	require.Len(t, leads, 1)
	assert.Equal(t, "Ann Able", leads[0].FullName)
	assert.Empty(t, leads[0].Phone)
}

func TestExtractLeads_UnmappableTableFallsBackPerRow(t *testing.T) {
	doc := &Document{Pages: []Page{{
		Tables: [][][]string{{
			{"Col A", "Col B"},
			{"Bob Baker", "239-555-0103"},
		}},
	}}}

	leads := ExtractLeads(doc)
	require.Len(t, leads, 1)
	assert.Equal(t, "Bob Baker", leads[0].FullName)
	assert.Equal(t, "+12395550103", leads[0].Phone)
	assert.Equal(t, 25, leads[0].RenovationScore)
}

func TestExtractLeads_TextStrategy(t *testing.T) {
	doc := &Document{Pages: []Page{{
		Text: "Contact List\nJane Doe - (239) 555 0202 jane@x.com\nOffice: 555-0101\n",
	}}}

	leads := ExtractLeads(doc)
	require.Len(t, leads, 1)
	l := leads[0]
	assert.Equal(t, "Jane Doe", l.FullName)
	assert.Equal(t, "+12395550202", l.Phone)
	assert.Equal(t, "jane@x.com", l.Email)
	assert.Equal(t, 25, l.RenovationScore)
}

func TestExtractLeads_TextStrategyZipOnSameLine(t *testing.T) {
	doc := &Document{Pages: []Page{{
		Text: "Sam Marco 239.555.0404 Fort Myers 33901\nother zip 34110\n",
	}}}

	leads := ExtractLeads(doc)
	require.Len(t, leads, 1)
	assert.Equal(t, "33901", leads[0].ZipCode)
}

func TestExtractLeads_TextStrategyRejectsNumericName(t *testing.T) {
	doc := &Document{Pages: []Page{{
		Text: "40412 239-555-0303\n",
	}}}

	leads := ExtractLeads(doc)
	require.Len(t, leads, 1)
	assert.Empty(t, leads[0].FullName)
	assert.Equal(t, "+12395550303", leads[0].Phone)
}

func TestExtractLeads_TablesSuppressTextStrategy(t *testing.T) {
	doc := &Document{Pages: []Page{{
		Tables: [][][]string{{
			{"Name", "Phone"},
			{"John Smith", "239-555-0101"},
		}},
		Text: "Jane Doe - 239-555-0202\n",
	}}}

	leads := ExtractLeads(doc)
	require.Len(t, leads, 1)
	assert.Equal(t, "John Smith", leads[0].FullName)
}

func TestExtractLeads_DuplicatePhonesEmitDuplicateCandidates(t *testing.T) {
	doc := &Document{Pages: []Page{{
		Text: "A Person 239-555-0505\nB Person 239-555-0505\n",
	}}}

	leads := ExtractLeads(doc)
	require.Len(t, leads, 2)
	assert.Equal(t, leads[0].Phone, leads[1].Phone)
}
