/* Apache v2 license
*  Copyright (C) <2020> Intel Corporation
*
*  SPDX-License-Identifier: Apache-2.0
 */

package main

import (
	"os"
	"testing"
	"time"

	"github.com/scanwedge/stockscan-service/app/config"
	"github.com/scanwedge/stockscan-service/app/erpstock"
	"github.com/scanwedge/stockscan-service/app/mapping"
	"github.com/scanwedge/stockscan-service/app/scan"
	"github.com/scanwedge/stockscan-service/pkg/integrationtest"
)

var dbHost integrationtest.DBHost

func TestMain(m *testing.M) {
	dbHost = integrationtest.InitHost("main_test")
	os.Exit(m.Run())
}

func TestPrepareDb(t *testing.T) {
	masterDB := dbHost.CreateDB(t)
	defer masterDB.Close()

	if err := prepareDB(masterDB); err != nil {
		t.Fatalf("preparing indexes: %+v", err)
	}
}

func TestSessionFromConfig(t *testing.T) {
	session := sessionFromConfig()

	if session.Location != config.NormalizeLocation(config.AppConfig.Location) {
		t.Errorf("Unexpected session location %q", session.Location)
	}
	if session.QuarantineLocation != config.AppConfig.QuarantineLocation {
		t.Errorf("Unexpected quarantine location %q", session.QuarantineLocation)
	}
	if session.ExpiryThresholdMonths != config.AppConfig.ExpiryThresholdMonths {
		t.Errorf("Unexpected expiry threshold %d", session.ExpiryThresholdMonths)
	}
}

func TestLoadPersistedState(t *testing.T) {
	masterDB := dbHost.CreateDB(t)
	defer masterDB.Close()

	persisted := []scan.ScanRecord{
		{ID: "r1", Timestamp: time.Now().UTC().Truncate(time.Millisecond),
			Ref: "REF1", BatchLot: "LOT1", Quantity: 2, Location: "A"},
		{ID: "r2", Timestamp: time.Now().UTC().Truncate(time.Millisecond),
			Ref: "REF2", Quantity: 1, Location: "A"},
	}
	if err := scan.Replace(masterDB, persisted); err != nil {
		t.Fatalf("seeding ledger: %+v", err)
	}
	if err := erpstock.Replace(masterDB, []erpstock.Row{
		{Ref: "REF1", LotNumber: "LOT1", Location: "A", Quantity: 5},
	}); err != nil {
		t.Fatalf("seeding snapshot: %+v", err)
	}

	processor := scan.NewProcessor(sessionFromConfig())
	mappings := mapping.NewStore()

	if err := loadPersistedState(masterDB, processor, mappings); err != nil {
		t.Fatalf("restoring state: %+v", err)
	}

	records := processor.Records()
	if len(records) != 2 {
		t.Fatalf("Expected 2 restored records, got %d", len(records))
	}
	if records[0].Ref != "REF1" || records[1].Ref != "REF2" {
		t.Errorf("Restored ledger out of order: %+v", records)
	}
}
