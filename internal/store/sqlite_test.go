package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/empire-sales/leadgen-cli/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "leadgen.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func intPtr(v int) *int             { return &v }
func floatPtr(v float64) *float64   { return &v }
func boolPtr(v bool) *bool          { return &v }
func datePtr(v time.Time) *time.Time { return &v }

func TestSQLiteInsertLead_DuplicatePhone(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	first := model.Lead{
		FullName: "John Smith",
		Phone:    "+12395550101",
		Source:   model.SourcePDF,
		Status:   model.LeadStatusNew,
	}
	id, inserted, err := s.InsertLead(ctx, &first)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Greater(t, id, int64(0))

	second := model.Lead{
		FullName: "Johnny Smith",
		Phone:    "+12395550101",
		Source:   model.SourceNAL,
		Status:   model.LeadStatusNew,
	}
	id, inserted, err = s.InsertLead(ctx, &second)
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, int64(0), id)
}

func TestSQLiteInsertLead_NilPhonesDoNotCollide(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	for _, name := range []string{"Ann Alpha", "Bob Beta", "Cy Gamma"} {
		lead := model.Lead{FullName: name, Source: model.SourceManual, Status: model.LeadStatusNew}
		_, inserted, err := s.InsertLead(ctx, &lead)
		require.NoError(t, err)
		assert.True(t, inserted, name)
	}
}

func TestSQLiteInsertLead_OptedOutPhoneMarked(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.AddOptOut(ctx, "+12395550177", "manual"))

	lead := model.Lead{
		FullName: "Opted Out",
		Phone:    "+12395550177",
		Source:   model.SourceNAL,
		Status:   model.LeadStatusNew,
	}
	_, inserted, err := s.InsertLead(ctx, &lead)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.True(t, lead.DoNotCall)
}

func TestSQLiteTopLeads(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	saleDate := time.Date(2024, 11, 20, 0, 0, 0, 0, time.UTC)
	leads := []model.Lead{
		{
			FullName:        "High Scorer",
			Phone:           "+12395550111",
			City:            "Naples",
			County:          model.CountyCollier,
			YearBuilt:       intPtr(1988),
			AssessedValue:   floatPtr(520000),
			LastSaleDate:    datePtr(saleDate),
			Homestead:       boolPtr(false),
			Source:          model.SourceNAL,
			Status:          model.LeadStatusNew,
			RenovationScore: 75,
			ScoreReasons:    []string{"Active remodeling permit found", "Home built in 1988 (37 years old)"},
		},
		{
			FullName:        "Mid Scorer",
			Phone:           "+12395550112",
			Source:          model.SourcePDF,
			Status:          model.LeadStatusNew,
			RenovationScore: 40,
		},
		{
			FullName:        "Blocked",
			Phone:           "+12395550113",
			DoNotCall:       true,
			Source:          model.SourceNAL,
			Status:          model.LeadStatusNew,
			RenovationScore: 99,
		},
	}
	for i := range leads {
		_, _, err := s.InsertLead(ctx, &leads[i])
		require.NoError(t, err)
	}

	got, err := s.TopLeads(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "High Scorer", got[0].FullName)
	assert.Equal(t, "Mid Scorer", got[1].FullName)

	top := got[0]
	assert.Equal(t, model.CountyCollier, top.County)
	require.NotNil(t, top.YearBuilt)
	assert.Equal(t, 1988, *top.YearBuilt)
	require.NotNil(t, top.AssessedValue)
	assert.InDelta(t, 520000, *top.AssessedValue, 0.01)
	require.NotNil(t, top.LastSaleDate)
	assert.Equal(t, saleDate.Format("2006-01-02"), top.LastSaleDate.Format("2006-01-02"))
	require.NotNil(t, top.Homestead)
	assert.False(t, *top.Homestead)
	assert.Equal(t, []string{"Active remodeling permit found", "Home built in 1988 (37 years old)"}, top.ScoreReasons)
}

func TestSQLiteInsertLeadsBulk(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	_, inserted, err := s.InsertLead(ctx, &model.Lead{
		FullName: "Already Here",
		Phone:    "+12395550120",
		Source:   model.SourcePDF,
		Status:   model.LeadStatusNew,
	})
	require.NoError(t, err)
	require.True(t, inserted)

	batch := []model.Lead{
		{FullName: "New One", Phone: "+12395550121", Source: model.SourceNAL, Status: model.LeadStatusNew},
		{FullName: "Dup", Phone: "+12395550120", Source: model.SourceNAL, Status: model.LeadStatusNew},
		{FullName: "New Two", Phone: "+12395550122", Source: model.SourceNAL, Status: model.LeadStatusNew},
	}
	n, err := s.InsertLeadsBulk(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestSQLiteInsertPermit_Duplicate(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	applied := time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)
	permit := model.Permit{
		County:       model.CountyLee,
		PermitNumber: "BLD2025-00123",
		PermitType:   "Building",
		Description:  "Kitchen remodel",
		AppliedDate:  &applied,
	}
	id, inserted, err := s.InsertPermit(ctx, &permit)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Greater(t, id, int64(0))

	_, inserted, err = s.InsertPermit(ctx, &permit)
	require.NoError(t, err)
	assert.False(t, inserted)
}

func TestSQLiteRunLifecycle(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	runID, err := s.StartRun(ctx, "permits_lee")
	require.NoError(t, err)
	assert.Greater(t, runID, int64(0))

	err = s.CompleteRun(ctx, runID, model.RunResult{
		RecordsFound: 25,
		RecordsNew:   20,
		Errors:       1,
		ErrorDetails: "1 row failed to parse",
	})
	require.NoError(t, err)

	failedID, err := s.StartRun(ctx, "permits_collier")
	require.NoError(t, err)
	require.NoError(t, s.FailRun(ctx, failedID, "CAPTCHA detected - manual intervention required"))

	runs, err := s.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	byID := map[int64]model.ScrapeRun{}
	for _, r := range runs {
		byID[r.ID] = r
	}

	done := byID[runID]
	assert.Equal(t, model.RunStatusCompleted, done.Status)
	assert.Equal(t, 25, done.RecordsFound)
	assert.Equal(t, 20, done.RecordsNew)
	assert.NotNil(t, done.CompletedAt)

	failed := byID[failedID]
	assert.Equal(t, model.RunStatusFailed, failed.Status)
	assert.Equal(t, "CAPTCHA detected - manual intervention required", failed.ErrorDetails)
}

func TestSQLiteOptOut(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	out, err := s.IsOptedOut(ctx, "+12395550130")
	require.NoError(t, err)
	assert.False(t, out)

	require.NoError(t, s.AddOptOut(ctx, "+12395550130", "complaint"))
	require.NoError(t, s.AddOptOut(ctx, "+12395550130", "complaint"))

	out, err = s.IsOptedOut(ctx, "+12395550130")
	require.NoError(t, err)
	assert.True(t, out)
}
