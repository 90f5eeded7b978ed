package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/empire-sales/leadgen-cli/internal/fetcher"
	"github.com/empire-sales/leadgen-cli/internal/nal"
)

var nalCounty string

var nalCmd = &cobra.Command{
	Use:   "nal",
	Short: "Work with Florida DOR NAL property tax rolls",
}

var nalImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Score and load a NAL CSV extract",
	Long:  "Streams a NAL roll CSV, keeps residential parcels, scores each as a renovation lead, and stores the ones that clear the minimum score.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		proc := nal.NewProcessor(st, cfg.NAL.MinScore)
		stats, err := proc.ProcessFile(ctx, args[0], nalCounty)
		if err != nil {
			return err
		}

		fmt.Printf("NAL import: %d residential candidates, %d inserted, %d skipped\n",
			stats.Found, stats.Inserted, stats.Skipped)
		return nil
	},
}

var nalFetchCmd = &cobra.Command{
	Use:   "fetch <url>",
	Short: "Download and unzip a NAL extract",
	Long:  "Downloads a NAL archive from the DOR over FTP or HTTP into the configured temp directory and extracts the CSV. Prints the extracted path, ready for nal import.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := fetchNAL(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

func fetchNAL(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", eris.Wrapf(err, "parse url %q", rawURL)
	}

	if err := os.MkdirAll(cfg.NAL.TempDir, 0o755); err != nil {
		return "", eris.Wrap(err, "create temp dir")
	}

	dest := filepath.Join(cfg.NAL.TempDir, filepath.Base(u.Path))
	switch u.Scheme {
	case "ftp":
		_, err = fetcher.NewFTPFetcher(fetcher.FTPOptions{}).DownloadToFile(ctx, rawURL, dest)
	case "http", "https":
		_, err = fetcher.NewHTTPFetcher(fetcher.HTTPOptions{}).DownloadToFile(ctx, rawURL, dest)
	default:
		return "", eris.Errorf("unsupported url scheme %q", u.Scheme)
	}
	if err != nil {
		return "", err
	}

	if !strings.EqualFold(filepath.Ext(dest), ".zip") {
		return dest, nil
	}
	return fetcher.ExtractZIPSingle(dest, cfg.NAL.TempDir)
}

func init() {
	nalImportCmd.Flags().StringVar(&nalCounty, "county", "", "county code (36=Lee, 11=Collier); detected from the filename when omitted")
	nalCmd.AddCommand(nalImportCmd)
	nalCmd.AddCommand(nalFetchCmd)
	rootCmd.AddCommand(nalCmd)
}
