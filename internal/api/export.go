package api

import (
	"fmt"
	"net/http"
	"time"

	"fuel-tracker/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHistory serves the retained price history as an xlsx workbook: one
// sheet for the daily history, one for the latest snapshot. Built from
// whatever document Current returns, fallback included.
func (h *APIHandler) ExportHistory(c *gin.Context) {
	doc := h.svc.Current(c.Request.Context())

	f, err := buildHistoryWorkbook(doc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("fuel-prices-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func buildHistoryWorkbook(doc *models.PriceDocument) (*excelize.File, error) {
	f := excelize.NewFile()

	const historySheet = "History"
	f.SetSheetName("Sheet1", historySheet)

	headers := []interface{}{"Date", "Unleaded", "Premium", "Diesel"}
	if err := f.SetSheetRow(historySheet, "A1", &headers); err != nil {
		return nil, fmt.Errorf("failed to write history header: %w", err)
	}
	for i, entry := range doc.History {
		cell := fmt.Sprintf("A%d", i+2)
		row := []interface{}{entry.Date, cellValue(entry.Unleaded), cellValue(entry.Premium), cellValue(entry.Diesel)}
		if err := f.SetSheetRow(historySheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write history row %d: %w", i, err)
		}
	}

	const latestSheet = "Latest"
	if _, err := f.NewSheet(latestSheet); err != nil {
		return nil, fmt.Errorf("failed to create latest sheet: %w", err)
	}
	latestRows := [][]interface{}{
		{"Category", "Price", "Data points"},
		{"Unleaded", cellValue(doc.Latest.Unleaded), doc.Latest.DataPoints.Unleaded},
		{"Premium", cellValue(doc.Latest.Premium), doc.Latest.DataPoints.Premium},
		{"Diesel", cellValue(doc.Latest.Diesel), doc.Latest.DataPoints.Diesel},
		{"Last updated", doc.Latest.LastUpdated.Format(time.RFC3339), nil},
	}
	for i, row := range latestRows {
		cell := fmt.Sprintf("A%d", i+1)
		row := row
		if err := f.SetSheetRow(latestSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write latest row %d: %w", i, err)
		}
	}

	return f, nil
}

// cellValue maps a missing price to an empty cell instead of a zero.
func cellValue(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
