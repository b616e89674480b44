package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/xavierca1/wizard-sync/internal/entity"
)

const leadsTable = `
CREATE TABLE IF NOT EXISTS leads (
	id             TEXT PRIMARY KEY,
	email          TEXT NOT NULL UNIQUE,
	name           TEXT,
	phone          TEXT,
	company        TEXT,
	total_estimate NUMERIC(12,2) NOT NULL DEFAULT 0,
	data           TEXT,
	created_at     TIMESTAMP NOT NULL,
	updated_at     TIMESTAMP NOT NULL
)`

// Each statement is written per dialect; placeholders are the only difference.
type leadQueries struct {
	upsert  string
	capture string
	find    string
}

var postgresQueries = leadQueries{
	upsert: `
		INSERT INTO leads (id, email, name, phone, company, total_estimate, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		ON CONFLICT (email)
		DO UPDATE SET
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			company = EXCLUDED.company,
			total_estimate = EXCLUDED.total_estimate,
			data = EXCLUDED.data,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at`,
	capture: `
		INSERT INTO leads (id, email, name, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (email)
		DO UPDATE SET
			name = COALESCE(EXCLUDED.name, leads.name),
			phone = COALESCE(EXCLUDED.phone, leads.phone),
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at`,
	find: `
		SELECT id, email, name, phone, company, total_estimate, data, created_at, updated_at
		FROM leads WHERE email = $1`,
}

var sqliteQueries = leadQueries{
	upsert: `
		INSERT INTO leads (id, email, name, phone, company, total_estimate, data, created_at, updated_at)
		VALUES (?1, ?2, ?3, ?4, ?5, ?6, ?7, ?8, ?8)
		ON CONFLICT (email)
		DO UPDATE SET
			name = excluded.name,
			phone = excluded.phone,
			company = excluded.company,
			total_estimate = excluded.total_estimate,
			data = excluded.data,
			updated_at = excluded.updated_at
		RETURNING id, created_at, updated_at`,
	capture: `
		INSERT INTO leads (id, email, name, phone, created_at, updated_at)
		VALUES (?1, ?2, ?3, ?4, ?5, ?5)
		ON CONFLICT (email)
		DO UPDATE SET
			name = COALESCE(excluded.name, leads.name),
			phone = COALESCE(excluded.phone, leads.phone),
			updated_at = excluded.updated_at
		RETURNING id, created_at, updated_at`,
	find: `
		SELECT id, email, name, phone, company, total_estimate, data, created_at, updated_at
		FROM leads WHERE email = ?1`,
}

type LeadRepository struct {
	DB      *sql.DB
	queries leadQueries
	now     func() time.Time
}

func NewLeadRepository(db *sql.DB, driver string) *LeadRepository {
	q := postgresQueries
	if driver == DriverSQLite {
		q = sqliteQueries
	}
	return &LeadRepository{
		DB:      db,
		queries: q,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Migrate creates the leads table when it does not exist yet.
func (r *LeadRepository) Migrate(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, leadsTable)
	return eris.Wrap(err, "database: migrate leads")
}

// Upsert inserts the lead or overwrites every mutable field of the existing
// row with the same email. The row id and created_at survive.
func (r *LeadRepository) Upsert(ctx context.Context, lead *entity.Lead) error {
	if lead.Email == "" {
		return entity.ErrEmailRequired
	}

	err := r.DB.QueryRowContext(
		ctx,
		r.queries.upsert,
		uuid.New().String(),
		lead.Email,
		nullString(lead.Name),
		nullString(lead.Phone),
		nullString(lead.Company),
		lead.TotalEstimate.Fixed2(),
		nullString(lead.Data),
		r.now(),
	).Scan(
		&lead.ID,
		(*timestamp)(&lead.CreatedAt),
		(*timestamp)(&lead.UpdatedAt),
	)
	if err != nil {
		return eris.Wrapf(err, "database: upsert lead %s", lead.Email)
	}
	return nil
}

// Capture records a bare contact (email, name, phone) without touching the
// stored submission. Empty fields keep their previous value.
func (r *LeadRepository) Capture(ctx context.Context, lead *entity.Lead) error {
	if lead.Email == "" {
		return entity.ErrEmailRequired
	}

	err := r.DB.QueryRowContext(
		ctx,
		r.queries.capture,
		uuid.New().String(),
		lead.Email,
		nullString(lead.Name),
		nullString(lead.Phone),
		r.now(),
	).Scan(
		&lead.ID,
		(*timestamp)(&lead.CreatedAt),
		(*timestamp)(&lead.UpdatedAt),
	)
	if err != nil {
		return eris.Wrapf(err, "database: capture lead %s", lead.Email)
	}
	return nil
}

func (r *LeadRepository) FindByEmail(ctx context.Context, email string) (*entity.Lead, error) {
	var (
		lead                       entity.Lead
		name, phone, company, data sql.NullString
		total                      sql.NullFloat64
		createdAt, updatedAt       timestamp
	)

	err := r.DB.QueryRowContext(ctx, r.queries.find, email).Scan(
		&lead.ID,
		&lead.Email,
		&name,
		&phone,
		&company,
		&total,
		&data,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLeadNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "database: find lead %s", email)
	}

	lead.Name = name.String
	lead.Phone = phone.String
	lead.Company = company.String
	lead.TotalEstimate = entity.Amount(total.Float64)
	lead.Data = data.String
	lead.CreatedAt = time.Time(createdAt)
	lead.UpdatedAt = time.Time(updatedAt)
	return &lead, nil
}

// timestamp scans the driver representations of a time column. Postgres
// returns time.Time; SQLite may return text when the column type is unknown,
// as it is for RETURNING.
type timestamp time.Time

var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999 -0700 MST",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
}

func (t *timestamp) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*t = timestamp(v)
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	case int64:
		*t = timestamp(time.Unix(v, 0).UTC())
		return nil
	case nil:
		*t = timestamp(time.Time{})
		return nil
	}
	return eris.Errorf("database: cannot scan %T into timestamp", src)
}

func (t *timestamp) parse(s string) error {
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = timestamp(parsed)
			return nil
		}
	}
	return eris.Errorf("database: unrecognized timestamp %q", s)
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var _ entity.LeadRepositoryInterface = (*LeadRepository)(nil)
