package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/empire-sales/leadgen-cli/internal/db"
	"github.com/empire-sales/leadgen-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresWithPool wraps an existing pool. Used by tests with pgxmock.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id                BIGSERIAL PRIMARY KEY,
	full_name         TEXT,
	phone             TEXT,
	email             TEXT,
	address           TEXT,
	city              TEXT,
	county            TEXT,
	zip_code          TEXT,
	parcel_id         TEXT,
	year_built        INTEGER,
	square_footage    DOUBLE PRECISION,
	assessed_value    DOUBLE PRECISION,
	market_value      DOUBLE PRECISION,
	last_sale_price   DOUBLE PRECISION,
	last_sale_date    DATE,
	homestead         BOOLEAN,
	property_use_code TEXT,
	do_not_call       BOOLEAN NOT NULL DEFAULT false,
	source            TEXT NOT NULL,
	status            TEXT NOT NULL DEFAULT 'new',
	renovation_score  INTEGER NOT NULL DEFAULT 0,
	score_reasons     TEXT[],
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_leads_phone ON leads(phone) WHERE phone IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_leads_score ON leads(renovation_score DESC);
CREATE INDEX IF NOT EXISTS idx_leads_county ON leads(county);

CREATE TABLE IF NOT EXISTS permits (
	id            BIGSERIAL PRIMARY KEY,
	county        TEXT NOT NULL,
	permit_number TEXT NOT NULL UNIQUE,
	permit_type   TEXT,
	site_address  TEXT,
	description   TEXT,
	status        TEXT,
	applied_date  DATE,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_permits_county ON permits(county);
CREATE INDEX IF NOT EXISTS idx_permits_applied ON permits(applied_date);

CREATE TABLE IF NOT EXISTS scraping_runs (
	id              BIGSERIAL PRIMARY KEY,
	source          TEXT NOT NULL,
	started_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	completed_at    TIMESTAMPTZ,
	records_found   INTEGER NOT NULL DEFAULT 0,
	records_new     INTEGER NOT NULL DEFAULT 0,
	records_updated INTEGER NOT NULL DEFAULT 0,
	errors          INTEGER NOT NULL DEFAULT 0,
	error_details   TEXT,
	status          TEXT NOT NULL DEFAULT 'running'
);

CREATE INDEX IF NOT EXISTS idx_scraping_runs_started ON scraping_runs(started_at DESC);

CREATE TABLE IF NOT EXISTS opt_outs (
	phone      TEXT PRIMARY KEY,
	source     TEXT NOT NULL DEFAULT 'manual',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

const leadColumns = `full_name, phone, email, address, city, county, zip_code, parcel_id,
	year_built, square_footage, assessed_value, market_value, last_sale_price, last_sale_date,
	homestead, property_use_code, do_not_call, source, status, renovation_score, score_reasons`

const insertLeadSQL = `INSERT INTO leads (` + leadColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	ON CONFLICT (phone) WHERE phone IS NOT NULL DO NOTHING
	RETURNING id`

func (s *PostgresStore) InsertLead(ctx context.Context, lead *model.Lead) (int64, bool, error) {
	// A phone already on the opt-out list marks the lead before insert
	// so downstream contact workflows never pick it up.
	if lead.Phone != "" && !lead.DoNotCall {
		optedOut, err := s.IsOptedOut(ctx, lead.Phone)
		if err != nil {
			return 0, false, err
		}
		lead.DoNotCall = optedOut
	}

	var id int64
	err := s.pool.QueryRow(ctx, insertLeadSQL, leadArgs(lead)...).Scan(&id)
	if err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return 0, false, nil // duplicate phone, quiet skip
		}
		return 0, false, eris.Wrap(err, "postgres: insert lead")
	}
	return id, true, nil
}

func (s *PostgresStore) InsertLeadsBulk(ctx context.Context, leads []model.Lead) (int64, error) {
	rows := make([][]any, 0, len(leads))
	for i := range leads {
		rows = append(rows, leadArgs(&leads[i]))
	}
	n, err := db.BulkInsert(ctx, s.pool, db.BulkInsertConfig{
		Table: "leads",
		Columns: []string{
			"full_name", "phone", "email", "address", "city", "county", "zip_code", "parcel_id",
			"year_built", "square_footage", "assessed_value", "market_value", "last_sale_price",
			"last_sale_date", "homestead", "property_use_code", "do_not_call", "source", "status",
			"renovation_score", "score_reasons",
		},
		ConflictExpr: "(phone) WHERE phone IS NOT NULL",
	}, rows)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: bulk insert leads")
	}
	return n, nil
}

func leadArgs(lead *model.Lead) []any {
	return []any{
		nullStr(lead.FullName),
		nullStr(lead.Phone),
		nullStr(lead.Email),
		nullStr(lead.Address),
		nullStr(lead.City),
		nullStr(string(lead.County)),
		nullStr(lead.ZipCode),
		nullStr(lead.ParcelID),
		lead.YearBuilt,
		lead.SquareFootage,
		lead.AssessedValue,
		lead.MarketValue,
		lead.LastSalePrice,
		lead.LastSaleDate,
		lead.Homestead,
		nullStr(lead.PropertyUseCode),
		lead.DoNotCall,
		string(lead.Source),
		string(lead.Status),
		lead.RenovationScore,
		lead.ScoreReasons,
	}
}

const topLeadsSQL = `SELECT id, COALESCE(full_name, ''), COALESCE(phone, ''), COALESCE(email, ''),
	COALESCE(address, ''), COALESCE(city, ''), COALESCE(county, ''), COALESCE(zip_code, ''),
	COALESCE(parcel_id, ''), year_built, square_footage, assessed_value, market_value,
	last_sale_price, last_sale_date, homestead, COALESCE(property_use_code, ''), do_not_call,
	source, status, renovation_score, score_reasons
	FROM leads
	WHERE NOT do_not_call
	ORDER BY renovation_score DESC, id
	LIMIT $1`

func (s *PostgresStore) TopLeads(ctx context.Context, limit int) ([]model.Lead, error) {
	rows, err := s.pool.Query(ctx, topLeadsSQL, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query top leads")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		var l model.Lead
		var county string
		err := rows.Scan(
			&l.ID, &l.FullName, &l.Phone, &l.Email, &l.Address, &l.City, &county,
			&l.ZipCode, &l.ParcelID, &l.YearBuilt, &l.SquareFootage, &l.AssessedValue,
			&l.MarketValue, &l.LastSalePrice, &l.LastSaleDate, &l.Homestead,
			&l.PropertyUseCode, &l.DoNotCall, &l.Source, &l.Status, &l.RenovationScore,
			&l.ScoreReasons,
		)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan lead")
		}
		l.County = model.County(county)
		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate leads")
	}
	return leads, nil
}

const insertPermitSQL = `INSERT INTO permits (county, permit_number, permit_type, site_address, description, status, applied_date)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (permit_number) DO NOTHING
	RETURNING id`

func (s *PostgresStore) InsertPermit(ctx context.Context, permit *model.Permit) (int64, bool, error) {
	var id int64
	err := s.pool.QueryRow(ctx, insertPermitSQL,
		string(permit.County),
		permit.PermitNumber,
		nullStr(permit.PermitType),
		nullStr(permit.SiteAddress),
		nullStr(permit.Description),
		nullStr(permit.Status),
		permit.AppliedDate,
	).Scan(&id)
	if err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return 0, false, nil // already scraped in a prior run
		}
		return 0, false, eris.Wrap(err, "postgres: insert permit")
	}
	return id, true, nil
}

func (s *PostgresStore) StartRun(ctx context.Context, source string) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO scraping_runs (source, status) VALUES ($1, 'running') RETURNING id`,
		source,
	).Scan(&id)
	if err != nil {
		return 0, eris.Wrapf(err, "postgres: start run for %s", source)
	}
	return id, nil
}

func (s *PostgresStore) CompleteRun(ctx context.Context, runID int64, result model.RunResult) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE scraping_runs
		 SET completed_at = now(), records_found = $1, records_new = $2,
		     records_updated = $3, errors = $4, error_details = $5, status = 'completed'
		 WHERE id = $6`,
		result.RecordsFound, result.RecordsNew, result.RecordsUpdated,
		result.Errors, nullStr(result.ErrorDetails), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: complete run %d", runID)
	}
	return nil
}

func (s *PostgresStore) FailRun(ctx context.Context, runID int64, errDetails string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE scraping_runs
		 SET completed_at = now(), errors = errors + 1, error_details = $1, status = 'failed'
		 WHERE id = $2`,
		errDetails, runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: fail run %d", runID)
	}
	return nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, limit int) ([]model.ScrapeRun, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, source, started_at, completed_at, records_found, records_new,
		        records_updated, errors, COALESCE(error_details, ''), status
		 FROM scraping_runs ORDER BY started_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.ScrapeRun
	for rows.Next() {
		var r model.ScrapeRun
		if err := rows.Scan(&r.ID, &r.Source, &r.StartedAt, &r.CompletedAt, &r.RecordsFound,
			&r.RecordsNew, &r.RecordsUpdated, &r.Errors, &r.ErrorDetails, &r.Status); err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate runs")
	}
	return runs, nil
}

func (s *PostgresStore) IsOptedOut(ctx context.Context, phone string) (bool, error) {
	var one int
	err := s.pool.QueryRow(ctx, `SELECT 1 FROM opt_outs WHERE phone = $1`, phone).Scan(&one)
	if err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, eris.Wrap(err, "postgres: check opt-out")
	}
	return true, nil
}

func (s *PostgresStore) AddOptOut(ctx context.Context, phone, source string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO opt_outs (phone, source) VALUES ($1, $2) ON CONFLICT (phone) DO NOTHING`,
		phone, source,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: add opt-out")
	}
	return nil
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
