package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/empire-sales/leadgen-cli/internal/model"
)

func TestWriteCallSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.xlsx")

	leads := []model.Lead{
		{
			FullName:        "John Smith",
			Phone:           "+12395550101",
			Email:           "john@example.com",
			Address:         "101 Palm Ave",
			City:            "Fort Myers",
			County:          model.CountyLee,
			ZipCode:         "33901",
			Source:          model.SourceNAL,
			RenovationScore: 55,
			ScoreReasons:    []string{"Home built 1950s or earlier", "Non-homestead (investment property)"},
		},
		{
			FullName:        "Jane Doe",
			Phone:           "",
			Source:          model.SourcePDF,
			RenovationScore: 30,
		},
	}

	require.NoError(t, writeCallSheet(path, leads))

	file, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)

	sheet := file.Sheets[0]
	assert.Equal(t, "Call Sheet", sheet.Name)
	require.Len(t, sheet.Rows, 3, "header plus two leads")

	header := sheet.Rows[0]
	assert.Equal(t, "Score", header.Cells[0].String())
	assert.Equal(t, "Phone", header.Cells[2].String())

	first := sheet.Rows[1]
	assert.Equal(t, "55", first.Cells[0].String())
	assert.Equal(t, "John Smith", first.Cells[1].String())
	assert.Equal(t, "(239) 555-0101", first.Cells[2].String())
	assert.Equal(t, "Lee", first.Cells[6].String())
	assert.Contains(t, first.Cells[9].String(), "Home built 1950s or earlier")

	second := sheet.Rows[2]
	assert.Equal(t, "Jane Doe", second.Cells[1].String())
	assert.Equal(t, "", second.Cells[2].String(), "missing phone renders blank")
}

func TestWriteCallSheet_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.xlsx")

	require.NoError(t, writeCallSheet(path, nil))

	file, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, file.Sheets[0].Rows, 1, "header only")
}
