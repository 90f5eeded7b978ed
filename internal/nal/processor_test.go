package nal

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/empire-sales/leadgen-cli/internal/model"
	"github.com/empire-sales/leadgen-cli/internal/store"
)

type nalStore struct {
	store.Store

	bulk      [][]model.Lead
	runSource string
	completed []model.RunResult
	failures  []string
}

func (f *nalStore) InsertLeadsBulk(_ context.Context, leads []model.Lead) (int64, error) {
	f.bulk = append(f.bulk, append([]model.Lead(nil), leads...))
	return int64(len(leads)), nil
}

func (f *nalStore) StartRun(_ context.Context, source string) (int64, error) {
	f.runSource = source
	return 1, nil
}

func (f *nalStore) CompleteRun(_ context.Context, _ int64, result model.RunResult) error {
	f.completed = append(f.completed, result)
	return nil
}

func (f *nalStore) FailRun(_ context.Context, _ int64, details string) error {
	f.failures = append(f.failures, details)
	return nil
}

func writeNAL(t *testing.T, name string, rows ...string) string {
	t.Helper()
	header := strings.Join(nalHeader(), ",")
	content := header + "\n" + strings.Join(rows, "\n") + "\n"
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestProcessFile(t *testing.T) {
	// Old non-homestead house passes the score gate; the new homestead
	// condo scores zero; the commercial parcel and the address-less row
	// never become candidates.
	path := writeNAL(t, "NAL36F202501.csv",
		"36,p1,SMITH JOHN,101 PALM AVE,FORT MYERS,33901,01,1950,1800,450000,0,,",
		"36,p2,DOE JANE,102 PALM AVE,FORT MYERS,33901,04,2024,900,300000,50000,,",
		"36,p3,ACME INC,200 MAIN ST,FORT MYERS,33901,11,1990,9000,900000,0,,",
		"36,p4,GHOST OWNER,,FORT MYERS,33901,01,1950,1800,450000,0,,",
	)

	st := &nalStore{}
	stats, err := NewProcessor(st, 0).ProcessFile(context.Background(), path, "")
	require.NoError(t, err)

	assert.Equal(t, "nal_lee", st.runSource)
	assert.Equal(t, 2, stats.Found, "residential rows with addresses")
	assert.Equal(t, 1, stats.Inserted, "only the scoring lead clears the gate")

	require.Len(t, st.bulk, 1)
	require.Len(t, st.bulk[0], 1)
	lead := st.bulk[0][0]
	assert.Equal(t, "Smith John", lead.FullName)
	assert.GreaterOrEqual(t, lead.RenovationScore, 20)
	assert.NotEmpty(t, lead.ScoreReasons)

	require.Len(t, st.completed, 1)
	assert.Equal(t, 2, st.completed[0].RecordsFound)
	assert.Equal(t, 1, st.completed[0].RecordsNew)
}

func TestProcessFile_ExplicitCountyOverridesFilename(t *testing.T) {
	path := writeNAL(t, "NAL36F202501.csv",
		"11,p1,SMITH JOHN,101 PALM AVE,NAPLES,34102,01,1950,1800,450000,0,,",
	)

	st := &nalStore{}
	_, err := NewProcessor(st, 0).ProcessFile(context.Background(), path, "11")
	require.NoError(t, err)
	assert.Equal(t, "nal_collier", st.runSource)

	require.Len(t, st.bulk, 1)
	assert.Equal(t, model.CountyCollier, st.bulk[0][0].County)
}

func TestProcessFile_UnknownCountyHardError(t *testing.T) {
	path := writeNAL(t, "roll.csv", "36,p1,A,1 PALM AVE,FORT MYERS,33901,01,1950,1800,450000,0,,")

	st := &nalStore{}
	_, err := NewProcessor(st, 0).ProcessFile(context.Background(), path, "")
	require.Error(t, err)
	assert.Empty(t, st.runSource, "no run opened before county resolution")

	_, err = NewProcessor(st, 0).ProcessFile(context.Background(), path, "99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown county code "99"`)
}

func TestProcessFile_MissingFileFailsRun(t *testing.T) {
	st := &nalStore{}
	_, err := NewProcessor(st, 0).ProcessFile(context.Background(), "/nonexistent/NAL36.csv", "36")
	require.Error(t, err)
	require.Len(t, st.failures, 1)
	assert.Empty(t, st.completed)
}

func TestProcessFile_MinScoreGate(t *testing.T) {
	path := writeNAL(t, "NAL36F202501.csv",
		"36,p1,SMITH JOHN,101 PALM AVE,FORT MYERS,33901,01,1950,1800,450000,0,,",
	)

	// This row scores 35; a gate of 90 keeps it out of the store.
	st := &nalStore{}
	stats, err := NewProcessor(st, 90).ProcessFile(context.Background(), path, "")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Found)
	assert.Equal(t, 0, stats.Inserted)
	assert.Empty(t, st.bulk)
}
