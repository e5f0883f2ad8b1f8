/* Apache v2 license
*  Copyright (C) <2020> Intel Corporation
*
*  SPDX-License-Identifier: Apache-2.0
 */

// Package export renders the ledger into the downstream ERP import formats:
// the semicolon-delimited stock count file and the XLSX comparison report.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/scanwedge/stockscan-service/app/erpstock"
	"github.com/scanwedge/stockscan-service/app/scan"
)

// stockKey is the composite identity shared by ledger entries and snapshot
// rows.
type stockKey struct {
	ref      string
	lot      string
	location string
}

// zero stock marker values in the S line format
const (
	zeroStockYes = "2"
	zeroStockNo  = "1"
)

// StockCountCSV writes the count worksheet the downstream system imports:
// an E header, an L header and one S line per ledger entry, CRLF-terminated.
// Snapshot rows whose ref was scanned but whose (ref, lot, location) was
// not get a companion zero-stock line; refs never scanned are left out
// entirely.
func StockCountCSV(writer io.Writer, records []scan.ScanRecord, erpRows []erpstock.Row, session scan.Session) error {
	scannedRefs := make(map[string]bool, len(records))
	counted := make(map[stockKey]bool, len(records))
	for _, record := range records {
		scannedRefs[record.Ref] = true
		counted[recordKey(record, session)] = true
	}

	lines := []string{
		fmt.Sprintf("E;;%s;1;%s;;;;%s;;;;;;",
			movementName(session), session.StorageSite, session.StorageSite),
		fmt.Sprintf("L;;;5;%s;;;;;;;;;;", session.StorageSite),
	}

	for _, record := range records {
		quantity := strconv.Itoa(record.Quantity)
		zeroStock := zeroStockNo
		if record.Quantity == 0 {
			zeroStock = zeroStockYes
		}
		lines = append(lines, strings.Join([]string{
			"S",
			"",
			"",
			"",
			session.StorageSite,
			quantity,
			quantity,
			zeroStock,
			record.Ref,
			record.BatchLot,
			recordLocation(record, session),
			"A",
			"UN",
			"1",
			strings.ReplaceAll(record.ExpirationDate, "-", ""),
		}, ";"))
	}

	for _, row := range erpRows {
		if !scannedRefs[row.Ref] {
			continue
		}
		key := stockKey{ref: row.Ref, lot: row.LotNumber, location: row.Location}
		if counted[key] {
			continue
		}
		lines = append(lines, strings.Join([]string{
			"S",
			"",
			"",
			"",
			session.StorageSite,
			"0",
			"0",
			zeroStockYes,
			row.Ref,
			row.LotNumber,
			row.Location,
			"A",
			"UN",
			"1",
			"",
		}, ";"))
	}

	lines = append(lines, "")
	_, err := io.WriteString(writer, strings.Join(lines, "\r\n"))
	return errors.Wrap(err, "writing stock count csv")
}

func movementName(session scan.Session) string {
	if session.MovementCode == "" {
		return "Stock Count"
	}
	return session.MovementCode
}

func recordLocation(record scan.ScanRecord, session scan.Session) string {
	if record.Location == "" {
		return session.Location
	}
	return record.Location
}

func recordKey(record scan.ScanRecord, session scan.Session) stockKey {
	return stockKey{
		ref:      record.Ref,
		lot:      record.BatchLot,
		location: recordLocation(record, session),
	}
}
