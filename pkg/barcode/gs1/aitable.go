/* Apache v2 license
*  Copyright (C) <2020> Intel Corporation
*
*  SPDX-License-Identifier: Apache-2.0
 */

package gs1

// Kind classifies the payload of an application identifier.
type Kind int

// Payload kinds. Numeric fields are digit strings (identifiers, counts) and
// are kept as strings to preserve leading zeros; Decimal fields carry an
// implied decimal point digit in the AI code itself.
const (
	Alphanumeric Kind = iota
	Numeric
	Date
	Decimal
)

// Descriptor is the static metadata for one application identifier. The
// decoder drives entirely off this table: adding an AI is a table edit, not a
// code change.
type Descriptor struct {
	Code  string
	Title string
	// FixedLength is the exact payload length in characters; 0 means the
	// field is variable length and runs until a group separator or the end
	// of the data.
	FixedLength int
	Kind        Kind
	Unit        string
	// DecimalDigit marks AI families (e.g. 310n) whose fourth code digit is
	// the number of implied decimal places, not part of the payload.
	DecimalDigit bool
}

// aiTable holds descriptors keyed by AI code. Codes are two, three or four
// digits; the tokenizer probes longest-known-prefix using this table.
var aiTable = map[string]Descriptor{
	"00": {Code: "00", Title: "SSCC", FixedLength: 18, Kind: Numeric},
	"01": {Code: "01", Title: "GTIN", FixedLength: 14, Kind: Numeric},
	"02": {Code: "02", Title: "CONTENT", FixedLength: 14, Kind: Numeric},
	"10": {Code: "10", Title: "BATCH/LOT", Kind: Alphanumeric},
	"11": {Code: "11", Title: "PROD DATE", FixedLength: 6, Kind: Date},
	"12": {Code: "12", Title: "DUE DATE", FixedLength: 6, Kind: Date},
	"13": {Code: "13", Title: "PACK DATE", FixedLength: 6, Kind: Date},
	"15": {Code: "15", Title: "BEST BEFORE", FixedLength: 6, Kind: Date},
	"16": {Code: "16", Title: "SELL BY", FixedLength: 6, Kind: Date},
	"17": {Code: "17", Title: "USE BY OR EXPIRY", FixedLength: 6, Kind: Date},
	"20": {Code: "20", Title: "VARIANT", FixedLength: 2, Kind: Numeric},
	"21": {Code: "21", Title: "SERIAL", Kind: Alphanumeric},
	"22": {Code: "22", Title: "CPV", Kind: Alphanumeric},
	"30": {Code: "30", Title: "VAR COUNT", Kind: Numeric},
	"37": {Code: "37", Title: "COUNT", Kind: Numeric},
	"90": {Code: "90", Title: "INTERNAL", Kind: Alphanumeric},
	"91": {Code: "91", Title: "INTERNAL", Kind: Alphanumeric},
	"92": {Code: "92", Title: "INTERNAL", Kind: Alphanumeric},
	"93": {Code: "93", Title: "INTERNAL", Kind: Alphanumeric},
	"94": {Code: "94", Title: "INTERNAL", Kind: Alphanumeric},
	"95": {Code: "95", Title: "INTERNAL", Kind: Alphanumeric},
	"96": {Code: "96", Title: "INTERNAL", Kind: Alphanumeric},
	"97": {Code: "97", Title: "INTERNAL", Kind: Alphanumeric},
	"98": {Code: "98", Title: "INTERNAL", Kind: Alphanumeric},
	"99": {Code: "99", Title: "INTERNAL", Kind: Alphanumeric},

	"240": {Code: "240", Title: "ADDITIONAL ID", Kind: Alphanumeric},
	"241": {Code: "241", Title: "CUST PART NO", Kind: Alphanumeric},
	"250": {Code: "250", Title: "SECONDARY SERIAL", Kind: Alphanumeric},
	"251": {Code: "251", Title: "REF TO SOURCE", Kind: Alphanumeric},
	"253": {Code: "253", Title: "GDTI", Kind: Alphanumeric},
	"254": {Code: "254", Title: "GLN EXTENSION", Kind: Alphanumeric},

	"310": {Code: "310", Title: "NET WEIGHT (kg)", FixedLength: 6, Kind: Decimal, Unit: "KG", DecimalDigit: true},
	"311": {Code: "311", Title: "LENGTH (m)", FixedLength: 6, Kind: Decimal, Unit: "M", DecimalDigit: true},
	"312": {Code: "312", Title: "WIDTH (m)", FixedLength: 6, Kind: Decimal, Unit: "M", DecimalDigit: true},
	"313": {Code: "313", Title: "HEIGHT (m)", FixedLength: 6, Kind: Decimal, Unit: "M", DecimalDigit: true},
	"314": {Code: "314", Title: "AREA (m2)", FixedLength: 6, Kind: Decimal, Unit: "M2", DecimalDigit: true},
	"315": {Code: "315", Title: "NET VOLUME (l)", FixedLength: 6, Kind: Decimal, Unit: "L", DecimalDigit: true},
	"316": {Code: "316", Title: "NET VOLUME (m3)", FixedLength: 6, Kind: Decimal, Unit: "M3", DecimalDigit: true},
	"320": {Code: "320", Title: "NET WEIGHT (lb)", FixedLength: 6, Kind: Decimal, Unit: "LB", DecimalDigit: true},
	"330": {Code: "330", Title: "GROSS WEIGHT (kg)", FixedLength: 6, Kind: Decimal, Unit: "KG", DecimalDigit: true},

	"400": {Code: "400", Title: "ORDER NUMBER", Kind: Alphanumeric},
	"410": {Code: "410", Title: "SHIP TO LOC", FixedLength: 13, Kind: Numeric},
	"414": {Code: "414", Title: "LOC NO", FixedLength: 13, Kind: Numeric},
	"420": {Code: "420", Title: "SHIP TO POST", Kind: Alphanumeric},
	"422": {Code: "422", Title: "ORIGIN", FixedLength: 3, Kind: Numeric},

	"7003": {Code: "7003", Title: "EXPIRY TIME", FixedLength: 10, Kind: Numeric},
	"8005": {Code: "8005", Title: "PRICE PER UNIT", FixedLength: 6, Kind: Numeric},
	"8008": {Code: "8008", Title: "PROD TIME", FixedLength: 12, Kind: Numeric},
	"8018": {Code: "8018", Title: "GSRN", FixedLength: 18, Kind: Numeric},
	"8020": {Code: "8020", Title: "REF NO", Kind: Alphanumeric},
}

// Lookup returns the descriptor for an AI code.
func Lookup(code string) (Descriptor, bool) {
	descriptor, ok := aiTable[code]
	return descriptor, ok
}
