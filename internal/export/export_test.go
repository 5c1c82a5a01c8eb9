package export

import (
	"os"
	"testing"
	"time"

	"meo-pos/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestSalesReport(t *testing.T) {
	dir := t.TempDir()
	day := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)

	entries := []*models.JournalEntry{
		{
			RemoteID:  101,
			SessionID: "s1",
			Subtotal:  60000,
			Tax:       4800,
			Total:     64800,
			Lines: []models.JournalLine{
				{Name: "Cà phê sữa", Qty: 2},
				{Name: "Bánh mì", Qty: 1},
			},
			CreatedAt: day.Add(9 * time.Hour),
		},
		{
			RemoteID:  102,
			SessionID: "s2",
			Subtotal:  20000,
			Tax:       1600,
			Total:     21600,
			Lines:     []models.JournalLine{{Name: "Trà đào", Qty: 1}},
			CreatedAt: day.Add(10 * time.Hour),
		},
	}

	path, err := SalesReport(entries, dir, day)
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err)
	assert.Contains(t, path, "sales_2025-11-03.xlsx")

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	items, err := f.GetCellValue("Sales", "D3")
	require.NoError(t, err)
	assert.Equal(t, "Cà phê sữa x2, Bánh mì x1", items)

	total, err := f.GetCellValue("Sales", "G3")
	require.NoError(t, err)
	assert.Equal(t, "64800", total)

	// Revenue row follows the entries.
	revenue, err := f.GetCellValue("Sales", "G5")
	require.NoError(t, err)
	assert.Equal(t, "86400", revenue)
}

func TestSalesReportEmptyDay(t *testing.T) {
	path, err := SalesReport(nil, t.TempDir(), time.Now())
	require.NoError(t, err)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}
