package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/empire-sales/leadgen-cli/internal/permits"
)

var (
	scrapeDays     int
	scrapeMaxPages int
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape county permit portals for renovation permits",
}

var scrapeLeeCmd = &cobra.Command{
	Use:   "lee",
	Short: "Scrape the Lee County Accela portal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScrape(cmd.Context(), "lee_county_permits", permits.AccelaGrid,
			func(ctx context.Context) permits.Portal { return permits.NewAccelaPortal(ctx) })
	},
}

var scrapeCollierCmd = &cobra.Command{
	Use:   "collier",
	Short: "Scrape the Collier County CityView portal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScrape(cmd.Context(), "collier_county_permits", permits.CityViewGrid,
			func(ctx context.Context) permits.Portal { return permits.NewCityViewPortal(ctx) })
	},
}

func runScrape(ctx context.Context, source string, layout permits.GridLayout, newPortal func(context.Context) permits.Portal) error {
	if err := cfg.Validate("scrape"); err != nil {
		return err
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	days := scrapeDays
	if days == 0 {
		days = cfg.Scrape.DaysBack
	}
	maxPages := scrapeMaxPages
	if maxPages == 0 {
		maxPages = cfg.Scrape.MaxPages
	}

	portal := newPortal(ctx)
	defer portal.Close()

	scraper := permits.NewScraper(st, time.Duration(cfg.Scrape.PageDelaySecs)*time.Second)
	stats, err := scraper.Scrape(ctx, portal, layout, source, days, maxPages)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d permits found, %d inserted, %d duplicates skipped, %d errors\n",
		source, stats.Found, stats.Inserted, stats.Skipped, stats.Errors)
	return nil
}

func init() {
	scrapeCmd.PersistentFlags().IntVar(&scrapeDays, "days", 0, "days back to search (default from config)")
	scrapeCmd.PersistentFlags().IntVar(&scrapeMaxPages, "max-pages", 0, "result page ceiling (default from config)")
	scrapeCmd.AddCommand(scrapeLeeCmd)
	scrapeCmd.AddCommand(scrapeCollierCmd)
	rootCmd.AddCommand(scrapeCmd)
}
