package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/empire-sales/leadgen-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. It backs local
// development and single-operator installs; semantics match Postgres.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := sqlDB.Exec(pragma); err != nil {
			sqlDB.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: sqlDB}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	full_name         TEXT,
	phone             TEXT,
	email             TEXT,
	address           TEXT,
	city              TEXT,
	county            TEXT,
	zip_code          TEXT,
	parcel_id         TEXT,
	year_built        INTEGER,
	square_footage    REAL,
	assessed_value    REAL,
	market_value      REAL,
	last_sale_price   REAL,
	last_sale_date    TEXT,
	homestead         INTEGER,
	property_use_code TEXT,
	do_not_call       INTEGER NOT NULL DEFAULT 0,
	source            TEXT NOT NULL,
	status            TEXT NOT NULL DEFAULT 'new',
	renovation_score  INTEGER NOT NULL DEFAULT 0,
	score_reasons     TEXT,
	created_at        TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_leads_phone ON leads(phone) WHERE phone IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_leads_score ON leads(renovation_score DESC);

CREATE TABLE IF NOT EXISTS permits (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	county        TEXT NOT NULL,
	permit_number TEXT NOT NULL UNIQUE,
	permit_type   TEXT,
	site_address  TEXT,
	description   TEXT,
	status        TEXT,
	applied_date  TEXT,
	created_at    TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS scraping_runs (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	source          TEXT NOT NULL,
	started_at      TEXT NOT NULL DEFAULT (datetime('now')),
	completed_at    TEXT,
	records_found   INTEGER NOT NULL DEFAULT 0,
	records_new     INTEGER NOT NULL DEFAULT 0,
	records_updated INTEGER NOT NULL DEFAULT 0,
	errors          INTEGER NOT NULL DEFAULT 0,
	error_details   TEXT,
	status          TEXT NOT NULL DEFAULT 'running'
);

CREATE TABLE IF NOT EXISTS opt_outs (
	phone      TEXT PRIMARY KEY,
	source     TEXT NOT NULL DEFAULT 'manual',
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) InsertLead(ctx context.Context, lead *model.Lead) (int64, bool, error) {
	if lead.Phone != "" && !lead.DoNotCall {
		optedOut, err := s.IsOptedOut(ctx, lead.Phone)
		if err != nil {
			return 0, false, err
		}
		lead.DoNotCall = optedOut
	}

	reasons, err := marshalReasons(lead.ScoreReasons)
	if err != nil {
		return 0, false, err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO leads (full_name, phone, email, address, city, county, zip_code,
			parcel_id, year_built, square_footage, assessed_value, market_value, last_sale_price,
			last_sale_date, homestead, property_use_code, do_not_call, source, status,
			renovation_score, score_reasons)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nullStr(lead.FullName), nullStr(lead.Phone), nullStr(lead.Email), nullStr(lead.Address),
		nullStr(lead.City), nullStr(string(lead.County)), nullStr(lead.ZipCode),
		nullStr(lead.ParcelID), lead.YearBuilt, lead.SquareFootage, lead.AssessedValue,
		lead.MarketValue, lead.LastSalePrice, dateStr(lead.LastSaleDate), lead.Homestead,
		nullStr(lead.PropertyUseCode), lead.DoNotCall, string(lead.Source), string(lead.Status),
		lead.RenovationScore, reasons,
	)
	if err != nil {
		return 0, false, eris.Wrap(err, "sqlite: insert lead")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, false, eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return 0, false, nil // duplicate phone
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, false, eris.Wrap(err, "sqlite: last insert id")
	}
	return id, true, nil
}

func (s *SQLiteStore) InsertLeadsBulk(ctx context.Context, leads []model.Lead) (int64, error) {
	var inserted int64
	for i := range leads {
		_, ok, err := s.InsertLead(ctx, &leads[i])
		if err != nil {
			return inserted, err
		}
		if ok {
			inserted++
		}
	}
	return inserted, nil
}

func (s *SQLiteStore) TopLeads(ctx context.Context, limit int) ([]model.Lead, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, COALESCE(full_name, ''), COALESCE(phone, ''), COALESCE(email, ''),
			COALESCE(address, ''), COALESCE(city, ''), COALESCE(county, ''), COALESCE(zip_code, ''),
			COALESCE(parcel_id, ''), year_built, square_footage, assessed_value, market_value,
			last_sale_price, last_sale_date, homestead, COALESCE(property_use_code, ''),
			do_not_call, source, status, renovation_score, score_reasons
		 FROM leads WHERE do_not_call = 0
		 ORDER BY renovation_score DESC, id LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query top leads")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		var (
			l        model.Lead
			county   string
			source   string
			status   string
			saleDate sql.NullString
			reasons  sql.NullString
		)
		err := rows.Scan(&l.ID, &l.FullName, &l.Phone, &l.Email, &l.Address, &l.City, &county,
			&l.ZipCode, &l.ParcelID, &l.YearBuilt, &l.SquareFootage, &l.AssessedValue,
			&l.MarketValue, &l.LastSalePrice, &saleDate, &l.Homestead, &l.PropertyUseCode,
			&l.DoNotCall, &source, &status, &l.RenovationScore, &reasons)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan lead")
		}
		l.County = model.County(county)
		l.Source = model.LeadSource(source)
		l.Status = model.LeadStatus(status)
		if saleDate.Valid {
			if t, perr := time.Parse("2006-01-02", saleDate.String); perr == nil {
				l.LastSaleDate = &t
			}
		}
		if reasons.Valid && reasons.String != "" {
			_ = json.Unmarshal([]byte(reasons.String), &l.ScoreReasons)
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

func (s *SQLiteStore) InsertPermit(ctx context.Context, permit *model.Permit) (int64, bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO permits (county, permit_number, permit_type, site_address, description, status, applied_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(permit.County), permit.PermitNumber, nullStr(permit.PermitType),
		nullStr(permit.SiteAddress), nullStr(permit.Description), nullStr(permit.Status),
		dateStr(permit.AppliedDate),
	)
	if err != nil {
		return 0, false, eris.Wrap(err, "sqlite: insert permit")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, false, eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return 0, false, nil
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, false, eris.Wrap(err, "sqlite: last insert id")
	}
	return id, true, nil
}

func (s *SQLiteStore) StartRun(ctx context.Context, source string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO scraping_runs (source, status) VALUES (?, 'running')`, source)
	if err != nil {
		return 0, eris.Wrapf(err, "sqlite: start run for %s", source)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: last insert id")
	}
	return id, nil
}

func (s *SQLiteStore) CompleteRun(ctx context.Context, runID int64, result model.RunResult) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE scraping_runs
		 SET completed_at = datetime('now'), records_found = ?, records_new = ?,
		     records_updated = ?, errors = ?, error_details = ?, status = 'completed'
		 WHERE id = ?`,
		result.RecordsFound, result.RecordsNew, result.RecordsUpdated,
		result.Errors, nullStr(result.ErrorDetails), runID,
	)
	return eris.Wrapf(err, "sqlite: complete run %d", runID)
}

func (s *SQLiteStore) FailRun(ctx context.Context, runID int64, errDetails string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE scraping_runs
		 SET completed_at = datetime('now'), errors = errors + 1, error_details = ?, status = 'failed'
		 WHERE id = ?`,
		errDetails, runID,
	)
	return eris.Wrapf(err, "sqlite: fail run %d", runID)
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]model.ScrapeRun, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, started_at, completed_at, records_found, records_new,
		        records_updated, errors, COALESCE(error_details, ''), status
		 FROM scraping_runs ORDER BY started_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.ScrapeRun
	for rows.Next() {
		var (
			r           model.ScrapeRun
			startedAt   string
			completedAt sql.NullString
			status      string
		)
		if err := rows.Scan(&r.ID, &r.Source, &startedAt, &completedAt, &r.RecordsFound,
			&r.RecordsNew, &r.RecordsUpdated, &r.Errors, &r.ErrorDetails, &status); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		r.Status = model.RunStatus(status)
		if t, perr := time.Parse("2006-01-02 15:04:05", startedAt); perr == nil {
			r.StartedAt = t
		}
		if completedAt.Valid {
			if t, perr := time.Parse("2006-01-02 15:04:05", completedAt.String); perr == nil {
				r.CompletedAt = &t
			}
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (s *SQLiteStore) IsOptedOut(ctx context.Context, phone string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM opt_outs WHERE phone = ?`, phone).Scan(&one)
	if err != nil {
		if eris.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, eris.Wrap(err, "sqlite: check opt-out")
	}
	return true, nil
}

func (s *SQLiteStore) AddOptOut(ctx context.Context, phone, source string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO opt_outs (phone, source) VALUES (?, ?)`, phone, source)
	return eris.Wrap(err, "sqlite: add opt-out")
}

func marshalReasons(reasons []string) (any, error) {
	if len(reasons) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(reasons)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal score reasons")
	}
	return string(b), nil
}

func dateStr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format("2006-01-02")
}
