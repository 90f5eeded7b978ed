package permits

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/empire-sales/leadgen-cli/internal/model"
	"github.com/empire-sales/leadgen-cli/internal/store"
)

const captchaErrDetails = "CAPTCHA detected - manual intervention required"

// Scraper pages through a permit portal and persists what it finds
// under one audited run.
type Scraper struct {
	store   store.Store
	limiter *rate.Limiter
}

// NewScraper creates a Scraper. pageDelay throttles next-page
// navigation; the portals block aggressive paging.
func NewScraper(st store.Store, pageDelay time.Duration) *Scraper {
	if pageDelay <= 0 {
		pageDelay = 3 * time.Second
	}
	return &Scraper{
		store:   st,
		limiter: rate.NewLimiter(rate.Every(pageDelay), 1),
	}
}

// Scrape searches the portal for permits applied in the last daysBack
// days and inserts keyword-matching results. An empty page or the
// maxPages ceiling ends pagination. A CAPTCHA wall fails the run and
// yields zero records without returning an error, since the condition
// clears itself and the next scheduled run retries.
func (s *Scraper) Scrape(ctx context.Context, portal Portal, layout GridLayout, sourceLabel string, daysBack, maxPages int) (model.ImportStats, error) {
	var stats model.ImportStats

	if daysBack < 1 {
		daysBack = 1
	}
	if maxPages < 1 {
		maxPages = 20
	}

	runID, err := s.store.StartRun(ctx, sourceLabel)
	if err != nil {
		return stats, err
	}

	end := time.Now()
	start := end.AddDate(0, 0, -daysBack)

	zap.L().Info("permit scrape starting",
		zap.String("source", sourceLabel),
		zap.String("county", string(layout.County)),
		zap.Int("days_back", daysBack),
		zap.Int("max_pages", maxPages),
	)

	if err := portal.Search(ctx, start, end); err != nil {
		s.failRun(ctx, runID, err.Error())
		return stats, err
	}

	var errDetails []string
	for page := 1; page <= maxPages; page++ {
		html, err := portal.PageSource(ctx)
		if err != nil {
			s.failRun(ctx, runID, err.Error())
			return stats, err
		}

		if strings.Contains(strings.ToLower(html), "captcha") {
			zap.L().Warn("captcha wall, skipping scrape", zap.String("source", sourceLabel))
			s.failRun(ctx, runID, captchaErrDetails)
			return model.ImportStats{}, nil
		}

		pagePermits, err := ParsePage(html, layout)
		if err != nil {
			stats.Errors++
			errDetails = append(errDetails, fmt.Sprintf("page %d: %v", page, err))
			zap.L().Warn("page parse failed", zap.Int("page", page), zap.Error(err))
			break
		}
		if len(pagePermits) == 0 {
			break
		}

		zap.L().Debug("page parsed", zap.Int("page", page), zap.Int("permits", len(pagePermits)))

		for i := range pagePermits {
			stats.Found++
			_, inserted, err := s.store.InsertPermit(ctx, &pagePermits[i])
			if err != nil {
				stats.Errors++
				errDetails = append(errDetails, fmt.Sprintf("%s: %v", pagePermits[i].PermitNumber, err))
				continue
			}
			if inserted {
				stats.Inserted++
			} else {
				stats.Skipped++
			}
		}

		if page == maxPages {
			break
		}
		if err := s.limiter.Wait(ctx); err != nil {
			break
		}
		ok, err := portal.NextPage(ctx)
		if err != nil || !ok {
			break
		}
	}

	result := model.RunResult{
		RecordsFound: stats.Found,
		RecordsNew:   stats.Inserted,
		Errors:       stats.Errors,
		ErrorDetails: strings.Join(errDetails, "; "),
	}
	if err := s.store.CompleteRun(ctx, runID, result); err != nil {
		return stats, err
	}

	zap.L().Info("permit scrape finished",
		zap.String("source", sourceLabel),
		zap.Int("found", stats.Found),
		zap.Int("new", stats.Inserted),
		zap.Int("skipped", stats.Skipped),
		zap.Int("errors", stats.Errors),
	)
	return stats, nil
}

func (s *Scraper) failRun(ctx context.Context, runID int64, details string) {
	if err := s.store.FailRun(ctx, runID, details); err != nil {
		zap.L().Error("failed to mark run failed", zap.Int64("run_id", runID), zap.Error(err))
	}
}
