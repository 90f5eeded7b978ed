package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/empire-sales/leadgen-cli/internal/pdfimport"
)

var importPath string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import leads from contact-list PDFs",
	Long:  "Extracts lead candidates from a PDF file or every PDF in a directory and stores the new ones. Duplicate phone numbers are skipped quietly.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		opener := pdfimport.NewPdfToText(cfg.PDF.PdfToTextPath)
		imp := pdfimport.NewImporter(st, opener, cfg.PDF.Concurrency)

		stats, err := imp.ProcessPath(ctx, importPath)
		if err != nil {
			return err
		}

		fmt.Printf("Processed %d PDF file(s): %d candidates, %d inserted, %d duplicates skipped, %d errors\n",
			stats.Files, stats.Found, stats.Inserted, stats.Skipped, stats.Errors)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importPath, "path", "", "PDF file or directory to import")
	_ = importCmd.MarkFlagRequired("path")
	rootCmd.AddCommand(importCmd)
}
