package pdfimport

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/empire-sales/leadgen-cli/internal/model"
	"github.com/empire-sales/leadgen-cli/internal/store"
)

// Importer walks PDF files, extracts leads, and persists them under one
// audited run.
type Importer struct {
	store       store.Store
	opener      Opener
	concurrency int
}

// NewImporter creates an Importer. Concurrency below 1 defaults to 4.
func NewImporter(st store.Store, opener Opener, concurrency int) *Importer {
	if concurrency < 1 {
		concurrency = 4
	}
	return &Importer{store: st, opener: opener, concurrency: concurrency}
}

// ProcessPath imports a single PDF or every PDF in a directory. Files
// are processed in parallel; a file that fails to parse is counted and
// skipped, never aborts the batch.
func (imp *Importer) ProcessPath(ctx context.Context, path string) (model.ImportStats, error) {
	var stats model.ImportStats

	files, err := listPDFs(path)
	if err != nil {
		return stats, err
	}
	if len(files) == 0 {
		return stats, eris.Errorf("pdfimport: no PDF files found at %s", path)
	}

	runID, err := imp.store.StartRun(ctx, "pdf_import")
	if err != nil {
		return stats, err
	}

	batchID := uuid.NewString()
	zap.L().Info("pdf import starting",
		zap.String("batch_id", batchID),
		zap.Int("files", len(files)),
		zap.Int("concurrency", imp.concurrency),
	)

	var mu sync.Mutex
	var errDetails []string
	stats.Files = len(files)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(imp.concurrency)
	for _, file := range files {
		g.Go(func() error {
			found, inserted, skipped, err := imp.processFile(gctx, file)
			mu.Lock()
			defer mu.Unlock()
			stats.Found += found
			stats.Inserted += inserted
			stats.Skipped += skipped
			if err != nil {
				stats.Errors++
				errDetails = append(errDetails, fmt.Sprintf("%s: %v", filepath.Base(file), err))
				zap.L().Warn("pdf file skipped",
					zap.String("batch_id", batchID),
					zap.String("file", file),
					zap.Error(err),
				)
			}
			return nil
		})
	}
	g.Wait()

	result := model.RunResult{
		RecordsFound: stats.Found,
		RecordsNew:   stats.Inserted,
		Errors:       stats.Errors,
		ErrorDetails: strings.Join(errDetails, "; "),
	}
	if err := imp.store.CompleteRun(ctx, runID, result); err != nil {
		return stats, err
	}

	zap.L().Info("pdf import finished",
		zap.String("batch_id", batchID),
		zap.Int("found", stats.Found),
		zap.Int("inserted", stats.Inserted),
		zap.Int("skipped", stats.Skipped),
		zap.Int("errors", stats.Errors),
	)
	return stats, nil
}

func (imp *Importer) processFile(ctx context.Context, file string) (found, inserted, skipped int, err error) {
	doc, err := imp.opener.Open(ctx, file)
	if err != nil {
		return 0, 0, 0, err
	}

	for _, lead := range ExtractLeads(doc) {
		if !lead.Valid() {
			continue
		}
		found++
		_, ok, err := imp.store.InsertLead(ctx, &lead)
		if err != nil {
			return found, inserted, skipped, err
		}
		if ok {
			inserted++
		} else {
			skipped++
		}
	}
	return found, inserted, skipped, nil
}

// listPDFs resolves a path to the PDF files under it. A direct file
// path is taken as-is regardless of extension.
func listPDFs(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, eris.Wrapf(err, "pdfimport: stat %s", path)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, eris.Wrapf(err, "pdfimport: read dir %s", path)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			files = append(files, filepath.Join(path, entry.Name()))
		}
	}
	return files, nil
}
