package sheets

import (
	"testing"
	"time"

	"meo-pos/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaleRow(t *testing.T) {
	entry := &models.JournalEntry{
		RemoteID:  77,
		SessionID: "session-xyz",
		Subtotal:  60000,
		Tax:       4800,
		Total:     64800,
		Lines: []models.JournalLine{
			{MenuItemID: 1, Name: "Cà phê sữa", Price: 15000, Qty: 2},
			{MenuItemID: 2, Name: "Bánh mì", Price: 30000, Qty: 1},
		},
		CreatedAt: time.Date(2025, 11, 3, 9, 30, 0, 0, time.UTC),
	}

	row := SaleRow(entry)
	require.Len(t, row, 7)
	assert.Equal(t, "2025-11-03 09:30:00", row[0])
	assert.Equal(t, int64(77), row[1])
	assert.Equal(t, "session-xyz", row[2])
	assert.Equal(t, "Cà phê sữa x2, Bánh mì x1", row[3])
	assert.Equal(t, int64(60000), row[4])
	assert.Equal(t, int64(4800), row[5])
	assert.Equal(t, int64(64800), row[6])
}

func TestSaleRowZeroTimestamp(t *testing.T) {
	row := SaleRow(&models.JournalEntry{RemoteID: 1})
	require.Len(t, row, 7)
	assert.NotEmpty(t, row[0])
}

func TestNewRequiresReadableCredentials(t *testing.T) {
	_, err := New(t.Context(), "/nonexistent/credentials.json", "sheet-id", "Sales")
	assert.Error(t, err)
}
