package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, WriteXLSX(sampleSites(), path))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)

	sheet := f.Sheets[0]
	assert.Equal(t, "sites", sheet.Name)
	require.Len(t, sheet.Rows, 4)

	header := sheet.Rows[0]
	require.Len(t, header.Cells, len(csvColumns))
	for i, col := range csvColumns {
		assert.Equal(t, col, header.Cells[i].Value)
	}

	first := sheet.Rows[1]
	assert.Equal(t, "bib-a", first.Cells[1].Value)
	assert.Equal(t, "120", first.Cells[8].Value)

	// Unreported seats stay empty.
	assert.Empty(t, sheet.Rows[2].Cells[8].Value)
}
