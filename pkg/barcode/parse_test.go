/* Apache v2 license
*  Copyright (C) <2020> Intel Corporation
*
*  SPDX-License-Identifier: Apache-2.0
 */

package barcode

import (
	"reflect"
	"testing"

	"github.com/intel/rsp-sw-toolkit-im-suite-expect"
	"github.com/scanwedge/stockscan-service/pkg/barcode/gs1"
)

func TestDetect(t *testing.T) {
	w := expect.WrapT(t)

	cases := map[string]Format{
		"+A99991234512C":       FormatHIBC,
		"*+A99991234512C*":     FormatHIBC,
		"]C10104912345678881":  FormatGS1,
		"C10104912345678881":   FormatGS1,
		"d20104912345678881":   FormatGS1,
		"0104912345678881":     FormatGS1,
		"(01)04912345678881":   FormatGS1,
		"10LOT1":               FormatUnknown,
		"hello":                FormatUnknown,
		"":                     FormatUnknown,
	}
	for raw, format := range cases {
		w.As(raw).ShouldBeEqual(Detect(raw), format)
	}
}

func TestParseGS1(t *testing.T) {
	w := expect.WrapT(t).StopOnMismatch()

	input := w.ShouldHaveResult(
		Parse("]C1010491234567888117250210" + "10ABC123")).(ScanInput)

	w.As("gtin").ShouldBeEqual(input.GTIN, "04912345678881")
	w.As("expiry").ShouldBeEqual(input.ExpirationDate, "2025-02-10")
	w.As("lot").ShouldBeEqual(input.BatchLot, "ABC123")
	w.As("no serial").ShouldBeEqual(input.SerialNumber, "")
}

func TestParseGS1ExtraFields(t *testing.T) {
	w := expect.WrapT(t).StopOnMismatch()

	input := w.ShouldHaveResult(Parse("010491234567888130005")).(ScanInput)

	w.As("gtin").ShouldBeEqual(input.GTIN, "04912345678881")
	w.As("count field").ShouldBeEqual(input.Extra["ai30"], "005")
}

func TestParseHIBC(t *testing.T) {
	w := expect.WrapT(t).StopOnMismatch()

	input := w.ShouldHaveResult(Parse("+A999123451/25178LOT1C")).(ScanInput)

	w.As("synthetic gtin").ShouldBeEqual(input.GTIN, "HIBC:A99912345")
	w.As("lot").ShouldBeEqual(input.BatchLot, "LOT1")
	w.As("expiry").ShouldBeEqual(input.ExpirationDate, "2025-06-27")
}

func TestParseUnknownFallsBackToGS1(t *testing.T) {
	w := expect.WrapT(t).StopOnMismatch()

	input := w.ShouldHaveResult(Parse("10LOT1\x1d21SER9")).(ScanInput)

	w.As("lot").ShouldBeEqual(input.BatchLot, "LOT1")
	w.As("serial").ShouldBeEqual(input.SerialNumber, "SER9")
}

func TestParseSurfacesGS1ErrorWhenBothFail(t *testing.T) {
	w := expect.WrapT(t)

	_, err := Parse("hello world")
	w.As("default error").ShouldBeEqual(err, gs1.ErrNoValidElements)
}

func TestParseIsIdempotent(t *testing.T) {
	w := expect.WrapT(t)

	for _, raw := range []string{
		"]C1010491234567888117250210" + "10ABC123",
		"+A999123451/25178LOT1C",
		"+$$3250210LOT1LC",
	} {
		first := w.As(raw).ShouldHaveResult(Parse(raw)).(ScanInput)
		second := w.As(raw).ShouldHaveResult(Parse(raw)).(ScanInput)
		w.As(raw).ShouldBeEqual(reflect.DeepEqual(first, second), true)
	}
}
