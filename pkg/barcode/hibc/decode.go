/* Apache v2 license
*  Copyright (C) <2020> Intel Corporation
*
*  SPDX-License-Identifier: Apache-2.0
 */

// Package hibc decodes Health Industry Bar Codes: a primary segment carrying
// labeler and product identity and a secondary segment carrying lot or
// serial, expiry date and quantity, either as separate lines or concatenated
// with "/".
package hibc

import (
	"strconv"
	"time"

	"github.com/scanwedge/stockscan-service/pkg/barcode/gs1"
)

// Type tells which HIBC form a decode produced.
type Type int

// HIBC barcode forms.
const (
	Concatenated Type = iota + 1
	Line1
	Line2
)

// ErrorKind is a discriminated decode failure. Each value names the precise
// structural defect so the format dispatcher can inspect and fall back
// without string matching.
type ErrorKind int

// Decode failures.
const (
	ErrEmptyBarcode ErrorKind = iota + 1
	ErrNotHIBC
	ErrInvalidBarcode
	ErrInvalidDate
	ErrEmptyCheckCharacter
	ErrEmptyLinkCharacter
	ErrInvalidQuantity
	ErrInvalidLine1
)

func (kind ErrorKind) Error() string {
	switch kind {
	case ErrEmptyBarcode:
		return "empty HIBC barcode"
	case ErrNotHIBC:
		return "not a HIBC barcode (missing + prefix)"
	case ErrInvalidBarcode:
		return "invalid HIBC barcode structure"
	case ErrInvalidDate:
		return "invalid HIBC date"
	case ErrEmptyCheckCharacter:
		return "missing HIBC check character"
	case ErrEmptyLinkCharacter:
		return "missing HIBC link character"
	case ErrInvalidQuantity:
		return "invalid HIBC quantity"
	case ErrInvalidLine1:
		return "invalid HIBC primary segment"
	default:
		return "unknown HIBC decode error"
	}
}

// Decoded is a fully parsed HIBC barcode.
type Decoded struct {
	Barcode   string
	Type      Type
	LabelerID string
	Product   string
	UOM       int
	Check     string
	Link      string
	Date      time.Time
	HasDate   bool
	Lot       string
	Serial    string
	Quantity  int
	HasQty    bool
}

// Decode parses a HIBC barcode string in any of its three forms.
func Decode(barcode string) (Decoded, error) {
	decoded := Decoded{Barcode: barcode}

	s := barcode
	if len(s) > 0 && s[0] == '*' {
		s = s[1:]
	}
	if len(s) > 0 && s[len(s)-1] == '*' {
		s = s[:len(s)-1]
	}
	if s == "" {
		return decoded, ErrEmptyBarcode
	}

	if s[0] != '+' {
		return decoded, ErrNotHIBC
	}
	s = s[1:]

	if len(s) < 4 {
		return decoded, ErrInvalidBarcode
	}

	// The check and link characters may themselves contain "/", so peel them
	// off before splitting the segments.
	suffix := s[len(s)-2:]
	s = s[:len(s)-2]

	segments := splitSegments(s)
	switch len(segments) {
	case 1:
		if isLetter(segments[0][0]) {
			if err := decoded.parseLine1(Line1, segments[0]+suffix); err != nil {
				return decoded, err
			}
		} else {
			if err := decoded.parseLine2(Line2, segments[0]+suffix); err != nil {
				return decoded, err
			}
		}
	case 2:
		if err := decoded.parseLine1(Concatenated, segments[0]); err != nil {
			return decoded, err
		}
		if err := decoded.parseLine2(Concatenated, segments[1]+suffix); err != nil {
			return decoded, err
		}
	default:
		return decoded, ErrInvalidBarcode
	}

	return decoded, nil
}

// IsMatch reports whether two separately scanned HIBC lines belong to the
// same item: the primary's check character must equal the secondary's link.
func IsMatch(primary, secondary Decoded) bool {
	if primary.Type != Line1 || secondary.Type != Line2 {
		return false
	}
	return primary.Check == secondary.Link
}

func (decoded *Decoded) parseLine1(t Type, s string) error {
	decoded.Type = t
	if len(s) < 4 {
		return ErrInvalidLine1
	}

	decoded.LabelerID = s[:4]
	s = s[4:]
	if s == "" {
		return ErrInvalidLine1
	}

	// In the concatenated form the check character sits at the tail of the
	// second segment instead.
	if t != Concatenated {
		decoded.Check = s[len(s)-1:]
		s = s[:len(s)-1]
		if s == "" {
			return ErrInvalidLine1
		}
	}

	decoded.UOM, _ = strconv.Atoi(s[len(s)-1:])
	s = s[:len(s)-1]
	if s == "" {
		return ErrInvalidLine1
	}
	decoded.Product = s
	return nil
}

func (decoded *Decoded) parseLine2(t Type, s string) error {
	decoded.Type = t

	switch {
	case len(s) > 0 && isDigit(s[0]):
		// YYDDD Julian expiry, then lot
		if len(s) < 5 {
			return ErrInvalidDate
		}
		year, _ := strconv.Atoi(s[0:2])
		dayOfYear, err := strconv.Atoi(s[2:5])
		if err != nil {
			return ErrInvalidDate
		}
		decoded.Date = julianDate(gs1.ExpandYear(year), dayOfYear, 0)
		decoded.HasDate = true
		return decoded.parseLotSerialCheckLink(s[5:], t, false)

	case len(s) > 2 && s[0] == '$' && isDigit(s[1]):
		return decoded.parseLotSerialCheckLink(s[1:], t, false)

	case len(s) > 3 && s[:2] == "$+" && isDigit(s[2]):
		return decoded.parseLotSerialCheckLink(s[2:], t, true)

	case len(s) > 3 && s[:2] == "$$" && isDigit(s[2]):
		if err := decoded.parseLotSerialCheckLink(s[2:], t, false); err != nil {
			return err
		}
		return decoded.extractEmbeddedDate(false)

	case len(s) > 3 && s[:3] == "$$+":
		if err := decoded.parseLotSerialCheckLink(s[3:], t, true); err != nil {
			return err
		}
		return decoded.extractEmbeddedDate(true)

	default:
		return ErrInvalidBarcode
	}
}

// parseLotSerialCheckLink consumes, right to left, the link character (for
// stand-alone secondary lines), the check character and, left to right, the
// optional quantity field, leaving the lot or serial value.
func (decoded *Decoded) parseLotSerialCheckLink(s string, t Type, serial bool) error {
	if s == "" {
		return ErrEmptyCheckCharacter
	}

	s, err := decoded.extractQuantity(s)
	if err != nil {
		return err
	}
	if s == "" {
		return ErrEmptyCheckCharacter
	}

	decoded.Check = s[len(s)-1:]
	s = s[:len(s)-1]

	if t == Line2 {
		if s == "" {
			return ErrEmptyLinkCharacter
		}
		decoded.Link = s[len(s)-1:]
		s = s[:len(s)-1]
	}

	if serial {
		decoded.Serial = s
	} else {
		decoded.Lot = s
	}
	return nil
}

// extractQuantity strips a leading quantity field: "8" announces 2 quantity
// digits, "9" announces 5, any other leading character means no quantity.
func (decoded *Decoded) extractQuantity(s string) (string, error) {
	if s == "" || !isDigit(s[0]) {
		return s, nil
	}

	var length int
	switch s[0] {
	case '8':
		length = 2
	case '9':
		length = 5
	default:
		// no quantity field
		return s, nil
	}

	s = s[1:]
	if len(s) < length {
		return s, ErrInvalidQuantity
	}

	quantity, err := strconv.Atoi(s[:length])
	if err != nil {
		return s[length:], ErrInvalidQuantity
	}

	decoded.Quantity = quantity
	decoded.HasQty = true
	return s[length:], nil
}

// embedded date formats announced by the first character of a $$ lot/serial
var embeddedDateLengths = map[byte]int{
	'0': 4, // MMYY
	'1': 4, // MMYY
	'2': 6, // MMDDYY
	'3': 6, // YYMMDD
	'4': 8, // YYMMDDHH
	'5': 5, // YYDDD
	'6': 7, // YYDDDHH
}

// extractEmbeddedDate re-parses the leading characters of the already
// extracted lot (or serial) as one of the seven $$ date sub-formats and
// strips the date prefix from the value.
func (decoded *Decoded) extractEmbeddedDate(serial bool) error {
	value := decoded.Lot
	if serial {
		value = decoded.Serial
	}
	if value == "" {
		return nil
	}

	format := value[0]
	if !isDigit(format) {
		return ErrInvalidDate
	}
	rest := value[1:]

	if format == '7' {
		// format 7 carries no date, just strip the marker
		decoded.setLotOrSerial(serial, rest)
		return nil
	}

	length, known := embeddedDateLengths[format]
	if !known {
		// 8 and 9 are quantity markers, not date formats
		return nil
	}
	if len(rest) < length {
		return ErrInvalidDate
	}

	dateStr := rest[:length]
	if !isDigits(dateStr) {
		return ErrInvalidDate
	}

	var year, month, day, hour int
	switch format {
	case '0', '1': // MMYY
		month = atoi(dateStr[0:2])
		year = gs1.ExpandYear(atoi(dateStr[2:4]))
		day = 1
	case '2': // MMDDYY
		month = atoi(dateStr[0:2])
		day = atoi(dateStr[2:4])
		year = gs1.ExpandYear(atoi(dateStr[4:6]))
	case '3': // YYMMDD
		year = gs1.ExpandYear(atoi(dateStr[0:2]))
		month = atoi(dateStr[2:4])
		day = atoi(dateStr[4:6])
	case '4': // YYMMDDHH
		year = gs1.ExpandYear(atoi(dateStr[0:2]))
		month = atoi(dateStr[2:4])
		day = atoi(dateStr[4:6])
		hour = atoi(dateStr[6:8])
	case '5': // YYDDD
		decoded.Date = julianDate(gs1.ExpandYear(atoi(dateStr[0:2])), atoi(dateStr[2:5]), 0)
		decoded.HasDate = true
		decoded.setLotOrSerial(serial, rest[length:])
		return nil
	case '6': // YYDDDHH
		decoded.Date = julianDate(gs1.ExpandYear(atoi(dateStr[0:2])), atoi(dateStr[2:5]), atoi(dateStr[5:7]))
		decoded.HasDate = true
		decoded.setLotOrSerial(serial, rest[length:])
		return nil
	}

	if month < 1 || month > 12 {
		return ErrInvalidDate
	}
	decoded.Date = time.Date(year, time.Month(month), day, hour, 0, 0, 0, time.UTC)
	decoded.HasDate = true
	decoded.setLotOrSerial(serial, rest[length:])
	return nil
}

func (decoded *Decoded) setLotOrSerial(serial bool, value string) {
	if serial {
		decoded.Serial = value
	} else {
		decoded.Lot = value
	}
}

func julianDate(year, dayOfYear, hour int) time.Time {
	return time.Date(year, time.January, 1, hour, 0, 0, 0, time.UTC).AddDate(0, 0, dayOfYear-1)
}

func splitSegments(s string) []string {
	var segments []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '/' {
			segments = append(segments, s[start:i])
			start = i + 1
		}
	}
	return append(segments, s[start:])
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return s != ""
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
