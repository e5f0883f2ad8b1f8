/* Apache v2 license
*  Copyright (C) <2020> Intel Corporation
*
*  SPDX-License-Identifier: Apache-2.0
 */

package gs1

import (
	"testing"
	"time"

	"github.com/intel/rsp-sw-toolkit-im-suite-expect"
)

func TestDecodeWedgeScan(t *testing.T) {
	w := expect.WrapT(t).StopOnMismatch()

	elements := w.ShouldHaveResult(
		Decode("]C1010491234567888117250210" + "10ABC123")).([]Element)

	w.As("element count").ShouldBeEqual(len(elements), 3)
	w.As("gtin AI").ShouldBeEqual(elements[0].AI, "01")
	w.As("gtin").ShouldBeEqual(elements[0].Raw, "04912345678881")
	w.As("expiry AI").ShouldBeEqual(elements[1].AI, "17")
	w.As("expiry").ShouldBeEqual(elements[1].Value,
		time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC))
	w.As("lot AI").ShouldBeEqual(elements[2].AI, "10")
	w.As("lot").ShouldBeEqual(elements[2].Value, "ABC123")
}

func TestDecodeSymbologyPrefixes(t *testing.T) {
	w := expect.WrapT(t)

	prefixes := []string{"]C1", "]d2", "C1", "d2", ""}
	for _, prefix := range prefixes {
		elements := w.As(prefix).ShouldHaveResult(
			Decode(prefix + "0104912345678881")).([]Element)
		w.As(prefix).ShouldBeEqual(len(elements), 1)
		w.As(prefix).ShouldBeEqual(elements[0].Raw, "04912345678881")
	}
}

func TestDecodeHumanReadable(t *testing.T) {
	w := expect.WrapT(t).StopOnMismatch()

	elements := w.ShouldHaveResult(
		Decode("(01)04912345678881(17)250210(10)ABC123")).([]Element)

	w.As("element count").ShouldBeEqual(len(elements), 3)
	w.As("gtin").ShouldBeEqual(elements[0].Raw, "04912345678881")
	w.As("lot").ShouldBeEqual(elements[2].Raw, "ABC123")
}

func TestDecodeCenturyPivot(t *testing.T) {
	w := expect.WrapT(t)

	cases := map[string]int{
		"000101": 2000,
		"490101": 2049,
		"500101": 1950,
		"990101": 1999,
	}
	for payload, year := range cases {
		elements := w.As(payload).ShouldHaveResult(Decode("17" + payload)).([]Element)
		w.As(payload).ShouldBeEqual(elements[0].Value,
			time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC))
	}
}

func TestDecodeDayZeroMeansEndOfMonth(t *testing.T) {
	w := expect.WrapT(t).StopOnMismatch()

	elements := w.ShouldHaveResult(Decode("17250200")).([]Element)
	w.As("end of february").ShouldBeEqual(elements[0].Value,
		time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC))
}

func TestDecodeInvalidDateKeepsRawValue(t *testing.T) {
	w := expect.WrapT(t).StopOnMismatch()

	elements := w.ShouldHaveResult(Decode("17251301")).([]Element)
	w.As("month 13 stays raw").ShouldBeEqual(elements[0].Value, "251301")
}

func TestDecodeGroupSeparators(t *testing.T) {
	w := expect.WrapT(t).StopOnMismatch()

	elements := w.ShouldHaveResult(Decode("10LOT1\x1d21SER9\x1d17250210")).([]Element)

	w.As("element count").ShouldBeEqual(len(elements), 3)
	w.As("lot").ShouldBeEqual(elements[0].Raw, "LOT1")
	w.As("serial").ShouldBeEqual(elements[1].Raw, "SER9")
	w.As("expiry AI").ShouldBeEqual(elements[2].AI, "17")
}

func TestDecodeUnknownAIPassesThrough(t *testing.T) {
	w := expect.WrapT(t).StopOnMismatch()

	elements := w.ShouldHaveResult(Decode("010491234567888127FOO")).([]Element)

	w.As("element count").ShouldBeEqual(len(elements), 2)
	w.As("unknown AI").ShouldBeEqual(elements[1].AI, "27")
	w.As("unknown value").ShouldBeEqual(elements[1].Value, "FOO")
}

func TestDecodeDecimalFamily(t *testing.T) {
	w := expect.WrapT(t).StopOnMismatch()

	elements := w.ShouldHaveResult(Decode("3102000150")).([]Element)

	w.As("family code").ShouldBeEqual(elements[0].AI, "310")
	w.As("net weight").ShouldBeEqual(elements[0].Value, 1.5)
}

func TestDecodeHyphenRepair(t *testing.T) {
	w := expect.WrapT(t).StopOnMismatch()

	elements := w.ShouldHaveResult(Decode("10ABยงC")).([]Element)
	w.As("repaired lot").ShouldBeEqual(elements[0].Raw, "AB-C")
}

func TestDecodeNoValidElements(t *testing.T) {
	w := expect.WrapT(t)

	for _, garbage := range []string{"", "hello world", "]C1", "+A999XYZ1"} {
		_, err := Decode(garbage)
		w.As(garbage).ShouldBeEqual(err, ErrNoValidElements)
	}
}

func TestExpandYear(t *testing.T) {
	w := expect.WrapT(t)

	w.As("00").ShouldBeEqual(ExpandYear(0), 2000)
	w.As("49").ShouldBeEqual(ExpandYear(49), 2049)
	w.As("50").ShouldBeEqual(ExpandYear(50), 1950)
	w.As("99").ShouldBeEqual(ExpandYear(99), 1999)
}
