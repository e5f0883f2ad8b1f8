/* Apache v2 license
*  Copyright (C) <2020> Intel Corporation
*
*  SPDX-License-Identifier: Apache-2.0
 */

package export

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/scanwedge/stockscan-service/app/erpstock"
	"github.com/scanwedge/stockscan-service/app/scan"
)

// ComparisonStatus classifies one compared line.
type ComparisonStatus string

// Comparison outcomes, in report order.
const (
	StatusMissing ComparisonStatus = "missing"
	StatusPartial ComparisonStatus = "partial"
	StatusSurplus ComparisonStatus = "surplus"
	StatusMatch   ComparisonStatus = "match"
)

var statusOrder = map[ComparisonStatus]int{
	StatusMissing: 0,
	StatusPartial: 1,
	StatusSurplus: 2,
	StatusMatch:   3,
}

// ComparisonItem is one line of the scanned-versus-snapshot report.
type ComparisonItem struct {
	Ref             string           `json:"ref"`
	LotNumber       string           `json:"lot_number"`
	Location        string           `json:"location"`
	ERPQuantity     int              `json:"erp_quantity"`
	ScannedQuantity int              `json:"scanned_quantity"`
	Difference      int              `json:"difference"`
	Status          ComparisonStatus `json:"status"`
}

// ComparisonSummary counts items per status.
type ComparisonSummary struct {
	Missing int `json:"missing"`
	Partial int `json:"partial"`
	Surplus int `json:"surplus"`
	Match   int `json:"match"`
	Total   int `json:"total"`
}

// Compare reconciles the ledger against the snapshot for every ref that was
// scanned at least once. Snapshot rows for refs never scanned are excluded;
// scanned quantities with no snapshot row come out as surplus.
func Compare(records []scan.ScanRecord, erpRows []erpstock.Row, session scan.Session) ([]ComparisonItem, ComparisonSummary) {
	scannedRefs := make(map[string]bool)
	for _, record := range records {
		if record.Ref != "" {
			scannedRefs[record.Ref] = true
		}
	}

	scannedQty := make(map[stockKey]int)
	for _, record := range records {
		if record.Ref == "" {
			continue
		}
		scannedQty[recordKey(record, session)] += record.Quantity
	}

	var items []ComparisonItem
	for _, row := range erpRows {
		if !scannedRefs[row.Ref] {
			continue
		}
		key := stockKey{ref: row.Ref, lot: row.LotNumber, location: row.Location}
		counted := scannedQty[key]
		delete(scannedQty, key)

		status := StatusMatch
		switch {
		case counted == 0:
			status = StatusMissing
		case counted < row.Quantity:
			status = StatusPartial
		case counted > row.Quantity:
			status = StatusSurplus
		}

		items = append(items, ComparisonItem{
			Ref:             row.Ref,
			LotNumber:       row.LotNumber,
			Location:        row.Location,
			ERPQuantity:     row.Quantity,
			ScannedQuantity: counted,
			Difference:      counted - row.Quantity,
			Status:          status,
		})
	}

	for key, counted := range scannedQty {
		items = append(items, ComparisonItem{
			Ref:             key.ref,
			LotNumber:       key.lot,
			Location:        key.location,
			ScannedQuantity: counted,
			Difference:      counted,
			Status:          StatusSurplus,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if statusOrder[items[i].Status] != statusOrder[items[j].Status] {
			return statusOrder[items[i].Status] < statusOrder[items[j].Status]
		}
		return items[i].Ref < items[j].Ref
	})

	var summary ComparisonSummary
	for _, item := range items {
		switch item.Status {
		case StatusMissing:
			summary.Missing++
		case StatusPartial:
			summary.Partial++
		case StatusSurplus:
			summary.Surplus++
		case StatusMatch:
			summary.Match++
		}
	}
	summary.Total = len(items)

	return items, summary
}

var statusFills = map[ComparisonStatus]string{
	StatusMissing: "FF9999",
	StatusPartial: "FFCC99",
	StatusSurplus: "99CCFF",
	StatusMatch:   "99FF99",
}

// ComparisonXLSX renders the comparison as a styled workbook.
func ComparisonXLSX(writer io.Writer, items []ComparisonItem, summary ComparisonSummary, session scan.Session, now time.Time) error {
	file := excelize.NewFile()
	defer file.Close()

	const sheet = "Stock Comparison"
	if err := file.SetSheetName("Sheet1", sheet); err != nil {
		return errors.Wrap(err, "renaming sheet")
	}

	widths := []float64{12, 15, 15, 15, 10, 12, 12}
	for i, width := range widths {
		column, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return errors.Wrap(err, "resolving column name")
		}
		if err := file.SetColWidth(sheet, column, column, width); err != nil {
			return errors.Wrap(err, "setting column width")
		}
	}

	titleStyle, err := file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 13},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return errors.Wrap(err, "creating title style")
	}
	headerStyle, err := file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return errors.Wrap(err, "creating header style")
	}

	titles := [][]interface{}{
		{fmt.Sprintf("Stock Comparison Report for %s - %s",
			movementName(session), now.Format("2006-01-02"))},
		{fmt.Sprintf("Location: %s, Storage Site: %s",
			session.Location, session.StorageSite)},
		{fmt.Sprintf("Summary: %d items (%d match, %d missing, %d partial, %d surplus)",
			summary.Total, summary.Match, summary.Missing, summary.Partial, summary.Surplus)},
		{},
		{"Status", "REF", "Lot/Batch", "Location", "ERP Qty", "Scanned Qty", "Difference"},
	}
	for i, row := range titles {
		cell := fmt.Sprintf("A%d", i+1)
		if err := file.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrap(err, "writing report header")
		}
	}
	for row := 1; row <= 3; row++ {
		if err := file.MergeCell(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("G%d", row)); err != nil {
			return errors.Wrap(err, "merging title cells")
		}
		if err := file.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), titleStyle); err != nil {
			return errors.Wrap(err, "styling title")
		}
	}
	if err := file.SetCellStyle(sheet, "A5", "G5", headerStyle); err != nil {
		return errors.Wrap(err, "styling column headers")
	}

	var totalERP, totalScanned, totalDifference int
	for i, item := range items {
		rowNumber := i + 6
		row := []interface{}{
			string(item.Status),
			item.Ref,
			item.LotNumber,
			item.Location,
			item.ERPQuantity,
			item.ScannedQuantity,
			item.Difference,
		}
		if err := file.SetSheetRow(sheet, fmt.Sprintf("A%d", rowNumber), &row); err != nil {
			return errors.Wrap(err, "writing report row")
		}

		statusStyle, err := file.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{statusFills[item.Status]}},
		})
		if err != nil {
			return errors.Wrap(err, "creating status style")
		}
		cell := fmt.Sprintf("A%d", rowNumber)
		if err := file.SetCellStyle(sheet, cell, cell, statusStyle); err != nil {
			return errors.Wrap(err, "styling status cell")
		}

		totalERP += item.ERPQuantity
		totalScanned += item.ScannedQuantity
		totalDifference += item.Difference
	}

	totalRowNumber := len(items) + 6
	totalRow := []interface{}{"TOTAL", "", "", "", totalERP, totalScanned, totalDifference}
	if err := file.SetSheetRow(sheet, fmt.Sprintf("A%d", totalRowNumber), &totalRow); err != nil {
		return errors.Wrap(err, "writing total row")
	}
	totalStyle, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E6E6E6"}},
	})
	if err != nil {
		return errors.Wrap(err, "creating total style")
	}
	if err := file.SetCellStyle(sheet,
		fmt.Sprintf("A%d", totalRowNumber), fmt.Sprintf("G%d", totalRowNumber), totalStyle); err != nil {
		return errors.Wrap(err, "styling total row")
	}

	return errors.Wrap(file.Write(writer), "writing workbook")
}
