package fetcher

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectRows(t *testing.T, rowCh <-chan []string, errCh <-chan error) [][]string {
	t.Helper()
	var rows [][]string
	for row := range rowCh {
		rows = append(rows, row)
	}
	require.NoError(t, <-errCh)
	return rows
}

func TestStreamCSV_WithHeader(t *testing.T) {
	input := "CO_NO,PARCEL_ID,OWN_NAME\n36,123,SMITH JOHN\n36,456,DOE JANE\n"

	var header []string
	rowCh, errCh := StreamCSV(context.Background(), strings.NewReader(input), CSVOptions{
		OnHeader: func(h []string) { header = h },
	})
	rows := collectRows(t, rowCh, errCh)

	assert.Equal(t, []string{"CO_NO", "PARCEL_ID", "OWN_NAME"}, header)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"36", "123", "SMITH JOHN"}, rows[0])
}

func TestStreamCSV_TrimSpace(t *testing.T) {
	input := "a, b ,c\n 1 ,2, 3\n"

	rowCh, errCh := StreamCSV(context.Background(), strings.NewReader(input), CSVOptions{
		TrimSpace: true,
	})
	rows := collectRows(t, rowCh, errCh)

	require.Len(t, rows, 2)
	assert.Equal(t, []string{"a", "b", "c"}, rows[0])
	assert.Equal(t, []string{"1", "2", "3"}, rows[1])
}

func TestStreamCSV_LazyQuotes(t *testing.T) {
	input := "name,addr\nO\"BRIEN PAT,1 Gulf Dr\n"

	rowCh, errCh := StreamCSV(context.Background(), strings.NewReader(input), CSVOptions{
		LazyQuotes: true,
	})
	rows := collectRows(t, rowCh, errCh)

	require.Len(t, rows, 2)
	assert.Equal(t, `O"BRIEN PAT`, rows[1][0])
}

func TestStreamCSV_VariableFieldCounts(t *testing.T) {
	input := "a,b,c\n1,2\n1,2,3,4\n"

	rowCh, errCh := StreamCSV(context.Background(), strings.NewReader(input), CSVOptions{})
	rows := collectRows(t, rowCh, errCh)

	require.Len(t, rows, 3)
	assert.Len(t, rows[1], 2)
	assert.Len(t, rows[2], 4)
}

func TestStreamCSV_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rowCh, errCh := StreamCSV(ctx, strings.NewReader("a,b\n1,2\n"), CSVOptions{})
	for range rowCh {
	}
	assert.Error(t, <-errCh)
}

func TestLatin1Reader(t *testing.T) {
	// "Muñoz" with ñ as the single latin-1 byte 0xF1.
	raw := []byte{'M', 'U', 0xD1, 'O', 'Z'}

	rowCh, errCh := StreamCSV(context.Background(), Latin1Reader(strings.NewReader(string(raw))), CSVOptions{})
	rows := collectRows(t, rowCh, errCh)

	require.Len(t, rows, 1)
	assert.Equal(t, "MUÑOZ", rows[0][0])
}
