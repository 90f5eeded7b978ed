package nal

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/empire-sales/leadgen-cli/internal/fetcher"
	"github.com/empire-sales/leadgen-cli/internal/model"
	"github.com/empire-sales/leadgen-cli/internal/scorer"
	"github.com/empire-sales/leadgen-cli/internal/store"
)

const insertBatchSize = 500

// Processor imports one NAL file under an audited run. Rows stream
// through the latin-1 CSV reader, get filtered and scored one at a
// time, and are inserted in batches.
type Processor struct {
	store    store.Store
	minScore int
}

// NewProcessor creates a Processor. minScore below 1 defaults to 20,
// the quality gate that keeps low-signal parcels out of the store.
func NewProcessor(st store.Store, minScore int) *Processor {
	if minScore < 1 {
		minScore = 20
	}
	return &Processor{store: st, minScore: minScore}
}

// ProcessFile imports the NAL CSV at path. An empty countyCode is
// inferred from the filename; failure to resolve a county aborts the
// whole file before any row work.
func (p *Processor) ProcessFile(ctx context.Context, path, countyCode string) (model.ImportStats, error) {
	var stats model.ImportStats

	if countyCode == "" {
		code, err := DetectCountyCode(path)
		if err != nil {
			return stats, err
		}
		countyCode = code
	}
	county, ok := countyNames[countyCode]
	if !ok {
		return stats, eris.Errorf("nal: unknown county code %q", countyCode)
	}

	runID, err := p.store.StartRun(ctx, "nal_"+strings.ToLower(string(county)))
	if err != nil {
		return stats, err
	}

	file, err := os.Open(path)
	if err != nil {
		err = eris.Wrapf(err, "nal: open %s", path)
		p.failRun(ctx, runID, err.Error())
		return stats, err
	}
	defer file.Close()

	zap.L().Info("nal import starting",
		zap.String("file", path),
		zap.String("county", string(county)),
		zap.Int("min_score", p.minScore),
	)

	var idx columnIndex
	rowCh, errCh := fetcher.StreamCSV(ctx, fetcher.Latin1Reader(file), fetcher.CSVOptions{
		LazyQuotes: true,
		TrimSpace:  true,
		OnHeader:   func(header []string) { idx = indexHeader(header) },
	})

	asOf := time.Now()
	var batch []model.Lead
	for row := range rowCh {
		lead, ok := leadFromRow(row, idx, county)
		if !ok {
			continue
		}
		stats.Found++

		score, reasons := scorer.Score(&lead, nil, asOf)
		if score < p.minScore {
			continue
		}
		lead.RenovationScore = score
		lead.ScoreReasons = reasons

		batch = append(batch, lead)
		if len(batch) >= insertBatchSize {
			if err := p.flush(ctx, batch, &stats); err != nil {
				p.failRun(ctx, runID, err.Error())
				return stats, err
			}
			batch = batch[:0]
		}
	}
	if err := <-errCh; err != nil {
		p.failRun(ctx, runID, err.Error())
		return stats, err
	}
	if err := p.flush(ctx, batch, &stats); err != nil {
		p.failRun(ctx, runID, err.Error())
		return stats, err
	}

	result := model.RunResult{
		RecordsFound: stats.Found,
		RecordsNew:   stats.Inserted,
	}
	if err := p.store.CompleteRun(ctx, runID, result); err != nil {
		return stats, err
	}

	zap.L().Info("nal import finished",
		zap.String("county", string(county)),
		zap.Int("found", stats.Found),
		zap.Int("inserted", stats.Inserted),
		zap.Int("skipped", stats.Skipped),
	)
	return stats, nil
}

func (p *Processor) flush(ctx context.Context, batch []model.Lead, stats *model.ImportStats) error {
	if len(batch) == 0 {
		return nil
	}
	n, err := p.store.InsertLeadsBulk(ctx, batch)
	if err != nil {
		return err
	}
	stats.Inserted += int(n)
	stats.Skipped += len(batch) - int(n)
	return nil
}

func (p *Processor) failRun(ctx context.Context, runID int64, details string) {
	if err := p.store.FailRun(ctx, runID, details); err != nil {
		zap.L().Error("failed to mark run failed", zap.Int64("run_id", runID), zap.Error(err))
	}
}
