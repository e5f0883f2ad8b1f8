/* Apache v2 license
*  Copyright (C) <2020> Intel Corporation
*
*  SPDX-License-Identifier: Apache-2.0
 */

// Package barcode detects the data-carrier format of a raw scanner string
// and maps either decoder's native output onto one normalized scan input.
package barcode

import (
	"strconv"
	"strings"
	"time"

	"github.com/scanwedge/stockscan-service/pkg/barcode/gs1"
	"github.com/scanwedge/stockscan-service/pkg/barcode/hibc"
)

// Format is the detected data-carrier family of a raw scan.
type Format string

// Detectable formats.
const (
	FormatGS1     Format = "GS1"
	FormatHIBC    Format = "HIBC"
	FormatUnknown Format = "UNKNOWN"
)

// ScanInput is the decoder-independent shape consumed by the reconciliation
// engine. Ref is not produced by either decoder; it is resolved later from
// the GTIN mapping store or entered manually.
type ScanInput struct {
	GTIN           string            `json:"gtin,omitempty"`
	Ref            string            `json:"ref,omitempty"`
	BatchLot       string            `json:"batch_lot,omitempty"`
	ExpirationDate string            `json:"expiration_date,omitempty"`
	SerialNumber   string            `json:"serial_number,omitempty"`
	Quantity       int               `json:"quantity,omitempty"`
	Extra          map[string]string `json:"extra,omitempty"`
}

// Detect classifies a raw scan by its leading characters. Pure function, no
// decode is attempted.
func Detect(raw string) Format {
	s := strings.TrimPrefix(raw, "*")
	s = strings.TrimSuffix(s, "*")

	switch {
	case strings.HasPrefix(s, "+"):
		return FormatHIBC
	case strings.HasPrefix(s, "]"), strings.HasPrefix(s, "C1"), strings.HasPrefix(s, "d2"):
		return FormatGS1
	case strings.HasPrefix(s, "01"), strings.HasPrefix(s, "(01"):
		return FormatGS1
	default:
		return FormatUnknown
	}
}

// Parse detects the format of a raw scan and decodes it. Unknown formats try
// GS1 first and fall back to HIBC; if both decoders fail the GS1 error is
// surfaced since GS1 is the default assumption in this domain.
func Parse(raw string) (ScanInput, error) {
	switch Detect(raw) {
	case FormatGS1:
		return parseGS1(raw)
	case FormatHIBC:
		return parseHIBC(raw)
	default:
		input, gs1Err := parseGS1(raw)
		if gs1Err == nil {
			return input, nil
		}
		if input, hibcErr := parseHIBC(raw); hibcErr == nil {
			return input, nil
		}
		return ScanInput{}, gs1Err
	}
}

func parseGS1(raw string) (ScanInput, error) {
	elements, err := gs1.Decode(raw)
	if err != nil {
		return ScanInput{}, err
	}

	// later occurrences of the same AI overwrite earlier ones
	var input ScanInput
	for _, element := range elements {
		switch element.AI {
		case "01":
			input.GTIN = element.Raw
		case "10":
			input.BatchLot = element.Raw
		case "17":
			if date, ok := element.Value.(time.Time); ok {
				input.ExpirationDate = date.Format("2006-01-02")
			}
		case "21":
			input.SerialNumber = element.Raw
		default:
			if input.Extra == nil {
				input.Extra = make(map[string]string)
			}
			input.Extra["ai"+element.AI] = extraValue(element)
		}
	}
	return input, nil
}

func parseHIBC(raw string) (ScanInput, error) {
	decoded, err := hibc.Decode(raw)
	if err != nil {
		return ScanInput{}, err
	}

	// synthetic GTIN-like identifier, prefixed so it can never collide with
	// a true 14-digit GTIN
	input := ScanInput{
		BatchLot:     decoded.Lot,
		SerialNumber: decoded.Serial,
	}
	if decoded.LabelerID != "" {
		input.GTIN = "HIBC:" + decoded.LabelerID + decoded.Product
	}
	if decoded.HasDate {
		input.ExpirationDate = decoded.Date.Format("2006-01-02")
	}
	if decoded.HasQty {
		input.Quantity = decoded.Quantity
	}
	return input, nil
}

func extraValue(element gs1.Element) string {
	switch value := element.Value.(type) {
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case string:
		return value
	default:
		return element.Raw
	}
}
