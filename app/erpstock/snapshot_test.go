/* Apache v2 license
*  Copyright (C) <2020> Intel Corporation
*
*  SPDX-License-Identifier: Apache-2.0
 */

package erpstock

import (
	"strings"
	"testing"

	"github.com/intel/rsp-sw-toolkit-im-suite-expect"
)

func TestParseSnapshot(t *testing.T) {
	w := expect.WrapT(t).StopOnMismatch()

	snapshot := strings.Join([]string{
		"E;;Stock Count;1;SITE1;;;;SITE1;;;;;;",
		"L;;;5;SITE1;;;;;;;;;;",
		"S;REF1;LOT1;A;10",
		"S;REF2;LOT2;B;3",
		"# comment line",
		"S;REF1;LOT9;MMPER;0",
		"",
	}, "\r\n")

	rows := w.ShouldHaveResult(ParseSnapshot(strings.NewReader(snapshot))).([]Row)

	w.As("row count").ShouldBeEqual(len(rows), 3)
	w.As("first row").ShouldBeEqual(rows[0], Row{Ref: "REF1", LotNumber: "LOT1", Location: "A", Quantity: 10})
	w.As("quarantine row").ShouldBeEqual(rows[2], Row{Ref: "REF1", LotNumber: "LOT9", Location: "MMPER", Quantity: 0})
}

func TestParseSnapshotBadQuantity(t *testing.T) {
	w := expect.WrapT(t)

	_, err := ParseSnapshot(strings.NewReader("S;REF1;LOT1;A;many"))
	w.As("bad quantity").ShouldHaveError(nil, err)
}

func TestReferenceSet(t *testing.T) {
	w := expect.WrapT(t).StopOnMismatch()

	refs := ReferenceSet([]Row{
		{Ref: "REF1", LotNumber: "LOT1"},
		{Ref: "REF1", LotNumber: "LOT2"},
		{Ref: "REF2", LotNumber: "LOT1"},
	})

	w.As("distinct refs").ShouldBeEqual(len(refs), 2)
	w.As("membership").ShouldBeEqual(refs["REF2"], true)
	w.As("absent ref").ShouldBeEqual(refs["REF3"], false)
}
