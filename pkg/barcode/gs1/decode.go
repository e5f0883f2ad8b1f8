/* Apache v2 license
*  Copyright (C) <2020> Intel Corporation
*
*  SPDX-License-Identifier: Apache-2.0
 */

// Package gs1 decodes GS1 application identifier streams as emitted by
// keyboard-wedge scanners: an optional symbology identifier followed by
// concatenated AI fields, variable-length fields terminated by the ASCII
// group separator.
package gs1

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// GroupSeparator terminates variable-length fields inside the data stream.
const GroupSeparator = '\x1d'

// ErrNoValidElements is returned when a string contains no recognizable AI.
var ErrNoValidElements = errors.New("no valid GS1 elements found")

// Element is one decoded (AI, value) pair in order of occurrence.
type Element struct {
	// AI is the application identifier code, without the decimal digit for
	// decimal families (the code for "3102..." is "310").
	AI string
	// Raw is the payload exactly as it appeared in the barcode.
	Raw string
	// Value is the typed payload: time.Time for date AIs, float64 for
	// decimal AIs, otherwise the raw string.
	Value interface{}
}

// cursor walks the data stream by value; every consuming operation returns
// the advanced cursor so partial parses never share index state.
type cursor struct {
	data string
	pos  int
}

func (c cursor) done() bool {
	return c.pos >= len(c.data)
}

func (c cursor) peek(n int) (string, bool) {
	if c.pos+n > len(c.data) {
		return "", false
	}
	return c.data[c.pos : c.pos+n], true
}

func (c cursor) take(n int) (string, cursor) {
	if c.pos+n > len(c.data) {
		n = len(c.data) - c.pos
	}
	value := c.data[c.pos : c.pos+n]
	c.pos += n
	return value, c
}

// takeUntilSeparator consumes up to the next group separator or the end of
// the data. The separator itself is consumed but not returned.
func (c cursor) takeUntilSeparator() (string, cursor) {
	idx := strings.IndexByte(c.data[c.pos:], GroupSeparator)
	if idx < 0 {
		value := c.data[c.pos:]
		c.pos = len(c.data)
		return value, c
	}
	value := c.data[c.pos : c.pos+idx]
	c.pos += idx + 1
	return value, c
}

func (c cursor) skipSeparators() cursor {
	for c.pos < len(c.data) && c.data[c.pos] == GroupSeparator {
		c.pos++
	}
	return c
}

// Decode tokenizes a raw scanner string into its AI elements. A single
// unrecognized AI does not abort the decode; a string yielding no elements
// at all fails with ErrNoValidElements.
func Decode(raw string) ([]Element, error) {
	cur := cursor{data: canonicalize(raw)}

	var elements []Element
	for {
		cur = cur.skipSeparators()
		if cur.done() {
			break
		}

		descriptor, decimals, next, ok := readAI(cur)
		if !ok {
			code, peeked := cur.peek(2)
			if !peeked || !isDigits(code) {
				// trailing garbage; keep whatever decoded so far
				break
			}
			// unknown AI: surface it generically instead of failing the
			// rest of the string
			_, next = cur.take(2)
			var value string
			value, cur = next.takeUntilSeparator()
			elements = append(elements, Element{AI: code, Raw: value, Value: value})
			continue
		}
		cur = next

		var value string
		if descriptor.FixedLength > 0 {
			value, cur = cur.take(descriptor.FixedLength)
		} else {
			value, cur = cur.takeUntilSeparator()
		}

		elements = append(elements, Element{
			AI:    descriptor.Code,
			Raw:   value,
			Value: typedValue(descriptor, decimals, value),
		})
	}

	if len(elements) == 0 {
		return nil, ErrNoValidElements
	}
	return elements, nil
}

// readAI probes the table for a 2, 3 or 4 character AI code at the cursor.
// For decimal families it also consumes the implied-decimal digit and
// reports it separately.
func readAI(c cursor) (Descriptor, int, cursor, bool) {
	for _, codeLen := range []int{2, 3, 4} {
		code, ok := c.peek(codeLen)
		if !ok || !isDigits(code) {
			continue
		}
		descriptor, found := Lookup(code)
		if !found {
			continue
		}
		_, next := c.take(codeLen)
		decimals := 0
		if descriptor.DecimalDigit {
			digit, ok := next.peek(1)
			if !ok || !isDigits(digit) {
				continue
			}
			_, next = next.take(1)
			decimals, _ = strconv.Atoi(digit)
		}
		return descriptor, decimals, next, true
	}
	return Descriptor{}, 0, c, false
}

func typedValue(descriptor Descriptor, decimals int, raw string) interface{} {
	switch descriptor.Kind {
	case Date:
		if date, err := parseDate(raw); err == nil {
			return date
		}
		return raw
	case Decimal:
		number, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return raw
		}
		return number / math.Pow10(decimals)
	default:
		return raw
	}
}

// parseDate decodes a YYMMDD payload. Years 00-49 are in the 2000s, 50-99 in
// the 1900s. A day of 00 means the last day of the month.
func parseDate(raw string) (time.Time, error) {
	if len(raw) != 6 || !isDigits(raw) {
		return time.Time{}, errors.Errorf("invalid GS1 date payload %q", raw)
	}

	year, _ := strconv.Atoi(raw[0:2])
	month, _ := strconv.Atoi(raw[2:4])
	day, _ := strconv.Atoi(raw[4:6])

	if month < 1 || month > 12 {
		return time.Time{}, errors.Errorf("invalid month in GS1 date %q", raw)
	}

	year = ExpandYear(year)
	if day == 0 {
		// day 00 means end of month
		return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC), nil
	}
	if day > 31 {
		return time.Time{}, errors.Errorf("invalid day in GS1 date %q", raw)
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// ExpandYear applies the GS1 century pivot to a two digit year.
func ExpandYear(yy int) int {
	if yy < 50 {
		return 2000 + yy
	}
	return 1900 + yy
}

// canonicalize reshapes the scanner output into a bare AI stream: the
// symbology identifier is removed, a scanner mis-encoding of the hyphen is
// repaired and human-readable parentheses around AI codes are stripped.
func canonicalize(raw string) string {
	if !strings.HasPrefix(raw, "]") {
		if strings.HasPrefix(raw, "C1") || strings.HasPrefix(raw, "d2") {
			raw = raw[2:]
		}
	} else {
		raw = raw[1:]
		if strings.HasPrefix(raw, "C1") || strings.HasPrefix(raw, "d2") {
			raw = raw[2:]
		}
	}

	raw = strings.ReplaceAll(raw, "ยง", "-")
	raw = strings.ReplaceAll(raw, "(", "")
	raw = strings.ReplaceAll(raw, ")", "")
	return raw
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
