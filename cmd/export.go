package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx/v2"

	"github.com/empire-sales/leadgen-cli/internal/model"
	"github.com/empire-sales/leadgen-cli/internal/normalize"
)

var (
	exportOut   string
	exportLimit int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the top-scored leads as an xlsx call sheet",
	Long:  "Writes the highest-scoring callable leads to a spreadsheet ordered by renovation score. Leads on the do-not-call list are never exported.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		limit := exportLimit
		if limit == 0 {
			limit = cfg.Export.Limit
		}

		leads, err := st.TopLeads(ctx, limit)
		if err != nil {
			return err
		}

		if err := writeCallSheet(exportOut, leads); err != nil {
			return err
		}

		fmt.Printf("Wrote %d leads to %s\n", len(leads), exportOut)
		return nil
	},
}

func writeCallSheet(path string, leads []model.Lead) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Call Sheet")
	if err != nil {
		return err
	}

	header := sheet.AddRow()
	for _, h := range []string{"Score", "Name", "Phone", "Email", "Address", "City", "County", "Zip", "Source", "Reasons"} {
		header.AddCell().SetString(h)
	}

	for _, lead := range leads {
		row := sheet.AddRow()
		row.AddCell().SetInt(lead.RenovationScore)
		row.AddCell().SetString(lead.FullName)
		row.AddCell().SetString(normalize.PhoneDisplay(lead.Phone))
		row.AddCell().SetString(lead.Email)
		row.AddCell().SetString(lead.Address)
		row.AddCell().SetString(lead.City)
		row.AddCell().SetString(string(lead.County))
		row.AddCell().SetString(lead.ZipCode)
		row.AddCell().SetString(string(lead.Source))
		row.AddCell().SetString(strings.Join(lead.ScoreReasons, "; "))
	}

	return file.Save(path)
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "call_sheet.xlsx", "output xlsx path")
	exportCmd.Flags().IntVar(&exportLimit, "limit", 0, "maximum leads to export (default from config)")
	rootCmd.AddCommand(exportCmd)
}
