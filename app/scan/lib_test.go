/* Apache v2 license
*  Copyright (C) <2020> Intel Corporation
*
*  SPDX-License-Identifier: Apache-2.0
 */

package scan

import (
	"testing"
	"time"

	"github.com/intel/rsp-sw-toolkit-im-suite-expect"

	"github.com/scanwedge/stockscan-service/pkg/barcode"
)

func testSession() Session {
	return Session{
		Location:              "A",
		StorageSite:           "SITE1",
		MovementCode:          "MV1",
		QuarantineLocation:    "MMPER",
		ExpiryThresholdMonths: 6,
	}
}

func TestReconcileCreateThenUpdate(t *testing.T) {
	w := expect.WrapT(t).StopOnMismatch()

	processor := NewProcessor(testSession())
	now := time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC)
	input := barcode.ScanInput{Ref: "X1", BatchLot: "L1"}

	first := processor.Reconcile(input, now)
	w.As("first classification").ShouldBeEqual(first.Classification, Created)
	w.As("first quantity").ShouldBeEqual(first.Record.Quantity, 1)
	w.As("location").ShouldBeEqual(first.Record.Location, "A")
	w.As("sound").ShouldBeEqual(first.Sound, SoundSuccess)

	second := processor.Reconcile(input, now.Add(time.Minute))
	w.As("second classification").ShouldBeEqual(second.Classification, Updated)
	w.As("second quantity").ShouldBeEqual(second.Record.Quantity, 2)

	records := processor.Records()
	w.As("single entry").ShouldBeEqual(len(records), 1)
	w.As("ledger quantity").ShouldBeEqual(records[0].Quantity, 2)
}

func TestReconcileRepeatedScansAccumulate(t *testing.T) {
	w := expect.WrapT(t).StopOnMismatch()

	processor := NewProcessor(testSession())
	now := time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC)
	input := barcode.ScanInput{GTIN: "04912345678881", BatchLot: "L9"}

	for i := 0; i < 25; i++ {
		processor.Reconcile(input, now)
	}

	records := processor.Records()
	w.As("single entry").ShouldBeEqual(len(records), 1)
	w.As("quantity equals scan count").ShouldBeEqual(records[0].Quantity, 25)
}

func TestReconcileExpiredScanGoesStraightToQuarantine(t *testing.T) {
	w := expect.WrapT(t).StopOnMismatch()

	processor := NewProcessor(testSession())
	now := time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC)
	input := barcode.ScanInput{Ref: "X2", BatchLot: "L2", ExpirationDate: "2025-06-01"}

	result := processor.Reconcile(input, now)
	w.As("classification").ShouldBeEqual(result.Classification, CreatedExpired)
	w.As("location").ShouldBeEqual(result.Record.Location, "MMPER")
	w.As("quantity").ShouldBeEqual(result.Record.Quantity, 1)
	w.As("sound").ShouldBeEqual(result.Sound, SoundExpired)

	records := processor.Records()
	w.As("single entry").ShouldBeEqual(len(records), 1)
	w.As("no working location entry").ShouldBeEqual(records[0].Location, "MMPER")
}

func TestReconcileRelocatesEntryThatBecameExpired(t *testing.T) {
	w := expect.WrapT(t).StopOnMismatch()

	processor := NewProcessor(testSession())
	input := barcode.ScanInput{Ref: "X3", BatchLot: "L3", ExpirationDate: "2026-12-01"}

	// well before the expiry threshold window
	created := processor.Reconcile(input,
		time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC))
	w.As("created").ShouldBeEqual(created.Classification, Created)

	// rescan after the threshold overtakes the expiry date
	relocated := processor.Reconcile(input,
		time.Date(2026, time.September, 1, 9, 0, 0, 0, time.UTC))
	w.As("classification").ShouldBeEqual(relocated.Classification, RelocatedExpired)
	w.As("quarantine location").ShouldBeEqual(relocated.Record.Location, "MMPER")
	w.As("quarantine quantity").ShouldBeEqual(relocated.Record.Quantity, 1)

	records := processor.Records()
	w.As("both entries retained").ShouldBeEqual(len(records), 2)
	w.As("original location").ShouldBeEqual(records[0].Location, "A")
	w.As("original zeroed").ShouldBeEqual(records[0].Quantity, 0)
}

func TestReconcileQuarantineAbsorbsSubsequentScans(t *testing.T) {
	w := expect.WrapT(t).StopOnMismatch()

	processor := NewProcessor(testSession())
	input := barcode.ScanInput{Ref: "X4", BatchLot: "L4", ExpirationDate: "2026-12-01"}

	processor.Reconcile(input, time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC))
	processor.Reconcile(input, time.Date(2026, time.September, 1, 9, 0, 0, 0, time.UTC))

	// further scans must increment the quarantine entry, never recreate a
	// working location entry
	third := processor.Reconcile(input,
		time.Date(2026, time.September, 1, 10, 0, 0, 0, time.UTC))
	w.As("classification").ShouldBeEqual(third.Classification, UpdatedQuarantine)
	w.As("quarantine quantity").ShouldBeEqual(third.Record.Quantity, 2)

	records := processor.Records()
	w.As("entry count").ShouldBeEqual(len(records), 2)
	w.As("working entry still zero").ShouldBeEqual(records[0].Quantity, 0)
}

func TestReconcileQuarantineSessionSkipsRelocation(t *testing.T) {
	w := expect.WrapT(t).StopOnMismatch()

	session := testSession()
	session.Location = "MMPER"
	processor := NewProcessor(session)
	now := time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC)
	input := barcode.ScanInput{Ref: "X5", BatchLot: "L5", ExpirationDate: "2020-01-01"}

	processor.Reconcile(input, now)
	second := processor.Reconcile(input, now)

	w.As("classification").ShouldBeEqual(second.Classification, UpdatedQuarantine)
	w.As("entry count").ShouldBeEqual(len(processor.Records()), 1)
	w.As("quantity").ShouldBeEqual(processor.Records()[0].Quantity, 2)
}

func TestReconcileRefTakesPriorityOverGtin(t *testing.T) {
	w := expect.WrapT(t).StopOnMismatch()

	processor := NewProcessor(testSession())
	now := time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC)

	processor.Reconcile(barcode.ScanInput{Ref: "R1", GTIN: "111", BatchLot: "L"}, now)
	processor.Reconcile(barcode.ScanInput{Ref: "R2", GTIN: "111", BatchLot: "L"}, now)

	// same gtin but different refs must stay separate entries
	records := processor.Records()
	w.As("entry count").ShouldBeEqual(len(records), 2)

	// a ref match wins even when the gtin would match the other entry
	result := processor.Reconcile(barcode.ScanInput{Ref: "R2", GTIN: "111", BatchLot: "L"}, now)
	w.As("matched by ref").ShouldBeEqual(result.Record.Ref, "R2")
	w.As("quantity").ShouldBeEqual(result.Record.Quantity, 2)
	w.As("other entry untouched").ShouldBeEqual(processor.Records()[0].Quantity, 1)
}

func TestReconcileReferenceGate(t *testing.T) {
	w := expect.WrapT(t).StopOnMismatch()

	processor := NewProcessor(testSession())
	processor.SetReferenceSet(map[string]bool{"GOOD": true})
	now := time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC)

	unknown := processor.Reconcile(barcode.ScanInput{Ref: "BAD", BatchLot: "L1"}, now)
	w.As("flagged").ShouldBeEqual(unknown.Record.NotInERP, true)
	w.As("signal").ShouldBeEqual(unknown.NotInERP, true)
	w.As("scan not blocked").ShouldBeEqual(unknown.Classification, Created)

	known := processor.Reconcile(barcode.ScanInput{Ref: "GOOD", BatchLot: "L1"}, now)
	w.As("not flagged").ShouldBeEqual(known.Record.NotInERP, false)
}

func TestReconcileEmptyReferenceSetNeverFlags(t *testing.T) {
	w := expect.WrapT(t).StopOnMismatch()

	processor := NewProcessor(testSession())
	now := time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC)

	result := processor.Reconcile(barcode.ScanInput{Ref: "ANY", BatchLot: "L1"}, now)
	w.As("not flagged").ShouldBeEqual(result.Record.NotInERP, false)
}

func TestReconcileRequireRefMode(t *testing.T) {
	w := expect.WrapT(t).StopOnMismatch()

	session := testSession()
	session.RequireRefMode = true
	processor := NewProcessor(session)
	now := time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC)

	result := processor.Reconcile(barcode.ScanInput{GTIN: "04912345678881"}, now)
	w.As("classification").ShouldBeEqual(result.Classification, Created)
	w.As("empty ref marker").ShouldBeEqual(result.Record.Ref, "")
	w.As("alert cue").ShouldBeEqual(result.Sound, SoundAlert)
}

func TestAddZeroCountsReplacesMatchingEntries(t *testing.T) {
	w := expect.WrapT(t).StopOnMismatch()

	processor := NewProcessor(testSession())
	now := time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC)

	processor.Reconcile(barcode.ScanInput{Ref: "Z1", BatchLot: "L1"}, now)
	processor.Reconcile(barcode.ScanInput{Ref: "Z2", BatchLot: "L2"}, now)

	added := processor.AddZeroCounts([]ZeroCount{
		{Ref: "Z1", BatchLot: "L1"},
		{Ref: "Z3", BatchLot: "L3"},
	}, now)
	w.As("added count").ShouldBeEqual(len(added), 2)

	records := processor.Records()
	w.As("entry count").ShouldBeEqual(len(records), 3)

	byRef := make(map[string]ScanRecord)
	for _, record := range records {
		byRef[record.Ref] = record
	}
	w.As("replaced entry zeroed").ShouldBeEqual(byRef["Z1"].Quantity, 0)
	w.As("untouched entry").ShouldBeEqual(byRef["Z2"].Quantity, 1)
	w.As("new zero entry").ShouldBeEqual(byRef["Z3"].Quantity, 0)
	w.As("zero entries share location").ShouldBeEqual(byRef["Z3"].Location, "A")
}

func TestLedgerCRUD(t *testing.T) {
	w := expect.WrapT(t).StopOnMismatch()

	processor := NewProcessor(testSession())
	now := time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC)

	created := processor.Reconcile(barcode.ScanInput{Ref: "C1", BatchLot: "L1"}, now)

	last, ok := processor.LastScanned()
	w.As("last scanned present").ShouldBeEqual(ok, true)
	w.As("last scanned id").ShouldBeEqual(last.ID, created.Record.ID)

	edited := created.Record
	edited.Quantity = 7
	w.As("update").ShouldBeEqual(processor.Update(edited), true)
	w.As("updated quantity").ShouldBeEqual(processor.Records()[0].Quantity, 7)

	w.As("set flag").ShouldBeEqual(processor.SetFlag(created.Record.ID, true), true)
	w.As("flagged").ShouldBeEqual(processor.Records()[0].IsSet, true)

	w.As("missing id update").ShouldBeEqual(processor.Update(ScanRecord{ID: "nope"}), false)
	w.As("delete").ShouldBeEqual(processor.Delete(created.Record.ID), true)
	w.As("empty ledger").ShouldBeEqual(len(processor.Records()), 0)

	_, ok = processor.LastScanned()
	w.As("no last scanned after delete").ShouldBeEqual(ok, false)
}

func TestIsDateExpired(t *testing.T) {
	w := expect.WrapT(t)

	now := time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC)

	w.As("absent date").ShouldBeEqual(isDateExpired("", 6, now), false)
	w.As("unparseable date").ShouldBeEqual(isDateExpired("soon", 6, now), false)
	w.As("inside threshold window").ShouldBeEqual(isDateExpired("2026-12-01", 6, now), true)
	w.As("outside threshold window").ShouldBeEqual(isDateExpired("2027-06-01", 6, now), false)
	w.As("zero threshold future").ShouldBeEqual(isDateExpired("2026-12-01", 0, now), false)
	w.As("zero threshold past").ShouldBeEqual(isDateExpired("2026-08-01", 0, now), true)
}
