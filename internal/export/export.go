// Package export renders the sales journal into an Excel workbook for
// end-of-day review.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"meo-pos/internal/models"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Sales"

// SalesReport writes one workbook for the given day and returns its path.
func SalesReport(entries []*models.JournalEntry, dir string, day time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Sales %s", day.Format("02.01.2006")))
	_ = f.MergeCell(sheetName, "A1", "G1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	headers := []string{"Time", "Order ID", "Session", "Items", "Subtotal", "Tax", "Total"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetName, cell, h)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	_ = f.SetCellStyle(sheetName, "A2", "G2", headerStyle)

	var revenue int64
	row := 3
	for _, entry := range entries {
		items := ""
		for i, line := range entry.Lines {
			if i > 0 {
				items += ", "
			}
			items += fmt.Sprintf("%s x%d", line.Name, line.Qty)
		}

		values := []interface{}{
			entry.CreatedAt.Format("15:04:05"),
			entry.RemoteID,
			entry.SessionID,
			items,
			entry.Subtotal,
			entry.Tax,
			entry.Total,
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			_ = f.SetCellValue(sheetName, cell, v)
		}

		revenue += entry.Total
		row++
	}

	totalCell, _ := excelize.CoordinatesToCellName(6, row)
	_ = f.SetCellValue(sheetName, totalCell, "Revenue")
	revenueCell, _ := excelize.CoordinatesToCellName(7, row)
	_ = f.SetCellValue(sheetName, revenueCell, revenue)

	_ = f.SetColWidth(sheetName, "A", "C", 14)
	_ = f.SetColWidth(sheetName, "D", "D", 40)
	_ = f.SetColWidth(sheetName, "E", "G", 12)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("sales_%s.xlsx", day.Format("2006-01-02"))
	filePath := filepath.Join(dir, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}

	return filePath, nil
}
