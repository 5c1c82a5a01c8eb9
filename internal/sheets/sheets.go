// Package sheets mirrors submitted orders into a Google spreadsheet so
// the owner can watch sales without touching the backend.
package sheets

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"meo-pos/internal/models"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

type Service struct {
	service       *sheets.Service
	spreadsheetID string
	sheetName     string
}

func New(ctx context.Context, credentialsFile, spreadsheetID, sheetName string) (*Service, error) {
	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}

	config, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets service: %w", err)
	}

	return &Service{
		service:       srv,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// AppendSale appends one row per submitted order.
func (s *Service) AppendSale(ctx context.Context, entry *models.JournalEntry) error {
	valueRange := &sheets.ValueRange{
		Values: [][]interface{}{SaleRow(entry)},
	}

	_, err := s.service.Spreadsheets.Values.
		Append(s.spreadsheetID, s.sheetName+"!A:G", valueRange).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append sale row: %w", err)
	}
	return nil
}

// SaleRow flattens a journal entry into one spreadsheet row.
func SaleRow(entry *models.JournalEntry) []interface{} {
	items := make([]string, 0, len(entry.Lines))
	for _, line := range entry.Lines {
		items = append(items, fmt.Sprintf("%s x%d", line.Name, line.Qty))
	}

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	return []interface{}{
		createdAt.Format("2006-01-02 15:04:05"),
		entry.RemoteID,
		entry.SessionID,
		strings.Join(items, ", "),
		entry.Subtotal,
		entry.Tax,
		entry.Total,
	}
}
