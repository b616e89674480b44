package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/wizard-sync/internal/entity"
)

func newTestLeadRepository(t *testing.T) *LeadRepository {
	t.Helper()
	db, err := NewDBConnection(DriverSQLite, filepath.Join(t.TempDir(), "leads.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() }) //nolint:errcheck

	repo := NewLeadRepository(db, DriverSQLite)
	require.NoError(t, repo.Migrate(context.Background()))
	return repo
}

func countLeads(t *testing.T, repo *LeadRepository) int {
	t.Helper()
	var n int
	require.NoError(t, repo.DB.QueryRow(`SELECT COUNT(*) FROM leads`).Scan(&n))
	return n
}

func TestLeadRepository_UpsertCreatesOneRecord(t *testing.T) {
	repo := newTestLeadRepository(t)
	ctx := context.Background()

	sub := entity.Submission{
		Contact:       entity.Contact{Email: "a@b.com", FullName: "Ana Lopez", Phone: "+34 600 000 000"},
		Requirements:  []entity.Requirement{{Text: "Secure data storage", Value: 500, Included: true}},
		TotalEstimate: 500,
	}
	lead, err := entity.NewLeadFromSubmission(sub)
	require.NoError(t, err)

	require.NoError(t, repo.Upsert(ctx, lead))
	assert.NotEmpty(t, lead.ID)
	assert.False(t, lead.CreatedAt.IsZero())
	assert.Equal(t, 1, countLeads(t, repo))

	stored, err := repo.FindByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, lead.ID, stored.ID)
	assert.Equal(t, "Ana Lopez", stored.Name)
	assert.Equal(t, "+34 600 000 000", stored.Phone)
	assert.Equal(t, entity.Amount(500), stored.TotalEstimate)

	back, err := stored.Submission()
	require.NoError(t, err)
	assert.Equal(t, sub, back)
}

func TestLeadRepository_UpsertOverwritesExisting(t *testing.T) {
	repo := newTestLeadRepository(t)
	ctx := context.Background()

	first := &entity.Lead{Email: "a@b.com", Name: "Ana", Phone: "111", Company: "Acme", TotalEstimate: 500, Data: `{"v":1}`}
	require.NoError(t, repo.Upsert(ctx, first))

	repo.now = func() time.Time { return time.Now().UTC().Add(time.Hour) }
	second := &entity.Lead{Email: "a@b.com", Name: "Ana Lopez", TotalEstimate: 750.5, Data: `{"v":2}`}
	require.NoError(t, repo.Upsert(ctx, second))

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, countLeads(t, repo))

	stored, err := repo.FindByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "Ana Lopez", stored.Name)
	// Overwrite, not merge: fields missing from the new submission are cleared.
	assert.Empty(t, stored.Phone)
	assert.Empty(t, stored.Company)
	assert.Equal(t, entity.Amount(750.5), stored.TotalEstimate)
	assert.Equal(t, `{"v":2}`, stored.Data)
	assert.True(t, stored.UpdatedAt.After(stored.CreatedAt))
}

func TestLeadRepository_DistinctEmailsCreateDistinctRecords(t *testing.T) {
	repo := newTestLeadRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &entity.Lead{Email: "a@b.com"}))
	require.NoError(t, repo.Upsert(ctx, &entity.Lead{Email: "c@d.com"}))
	require.NoError(t, repo.Upsert(ctx, &entity.Lead{Email: "a@b.com"}))

	assert.Equal(t, 2, countLeads(t, repo))
}

func TestLeadRepository_CaptureKeepsSubmission(t *testing.T) {
	repo := newTestLeadRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &entity.Lead{Email: "a@b.com", Name: "Ana", Phone: "111", TotalEstimate: 500, Data: `{"v":1}`}))
	require.NoError(t, repo.Capture(ctx, &entity.Lead{Email: "a@b.com", Phone: "222"}))

	stored, err := repo.FindByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "Ana", stored.Name)
	assert.Equal(t, "222", stored.Phone)
	assert.Equal(t, `{"v":1}`, stored.Data)
	assert.Equal(t, entity.Amount(500), stored.TotalEstimate)
}

func TestLeadRepository_EmailRequired(t *testing.T) {
	repo := newTestLeadRepository(t)
	assert.ErrorIs(t, repo.Upsert(context.Background(), &entity.Lead{}), entity.ErrEmailRequired)
	assert.ErrorIs(t, repo.Capture(context.Background(), &entity.Lead{}), entity.ErrEmailRequired)
}

func TestLeadRepository_FindByEmailNotFound(t *testing.T) {
	repo := newTestLeadRepository(t)
	_, err := repo.FindByEmail(context.Background(), "missing@b.com")
	assert.ErrorIs(t, err, entity.ErrLeadNotFound)
}

func TestNewDBConnection_UnsupportedDriver(t *testing.T) {
	_, err := NewDBConnection("mysql", "whatever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported driver")
}

func TestTimestampScan(t *testing.T) {
	var ts timestamp
	require.NoError(t, ts.Scan("2026-10-17 10:00:00.5 +0000 UTC"))
	assert.Equal(t, 2026, time.Time(ts).Year())

	require.NoError(t, ts.Scan([]byte("2026-10-17T10:00:00Z")))
	assert.Equal(t, 10, time.Time(ts).Hour())

	assert.Error(t, ts.Scan("yesterday"))
	assert.Error(t, ts.Scan(3.14))
}
