/* Apache v2 license
*  Copyright (C) <2020> Intel Corporation
*
*  SPDX-License-Identifier: Apache-2.0
 */

package scan

import (
	"time"
)

// ScanRecord is one ledger entry. Identity for matching is the composite
// key (ref-or-gtin, batchLot, location), never the ID or timestamp.
type ScanRecord struct {
	ID             string            `json:"id" bson:"id"`
	Timestamp      time.Time         `json:"timestamp" bson:"timestamp"`
	GTIN           string            `json:"gtin,omitempty" bson:"gtin,omitempty"`
	Ref            string            `json:"ref" bson:"ref"`
	BatchLot       string            `json:"batch_lot,omitempty" bson:"batch_lot,omitempty"`
	ExpirationDate string            `json:"expiration_date,omitempty" bson:"expiration_date,omitempty"`
	SerialNumber   string            `json:"serial_number,omitempty" bson:"serial_number,omitempty"`
	Quantity       int               `json:"quantity" bson:"quantity"`
	Location       string            `json:"location" bson:"location"`
	StorageSite    string            `json:"storage_site" bson:"storage_site"`
	MovementCode   string            `json:"movement_code,omitempty" bson:"movement_code,omitempty"`
	NotInERP       bool              `json:"not_in_erp,omitempty" bson:"not_in_erp,omitempty"`
	IsSet          bool              `json:"is_set,omitempty" bson:"is_set,omitempty"`
	Extra          map[string]string `json:"extra,omitempty" bson:"extra,omitempty"`
}

// Session is the immutable per-session configuration snapshot consulted on
// every reconcile.
type Session struct {
	Location              string `json:"location"`
	StorageSite           string `json:"storage_site"`
	MovementCode          string `json:"movement_code"`
	QuarantineLocation    string `json:"quarantine_location"`
	ExpiryThresholdMonths int    `json:"expiry_threshold_months"`
	RequireRefMode        bool   `json:"require_ref_mode"`
	StockCountMode        bool   `json:"stock_count_mode"`
}

// Classification names what a reconcile did to the ledger.
type Classification string

// Reconcile outcomes.
const (
	Created           Classification = "created"
	CreatedExpired    Classification = "created-expired"
	Updated           Classification = "updated"
	RelocatedExpired  Classification = "relocated-expired"
	UpdatedQuarantine Classification = "updated-quarantine"
)

// Sound cues the UI layer maps to audio feedback. The core only reports
// which cue applies.
const (
	SoundSuccess = "success"
	SoundExpired = "expired"
	SoundAlert   = "alert"
)

// Result is the observable outcome of one reconcile: the affected record,
// what happened to it and which feedback cue applies.
type Result struct {
	Record         ScanRecord     `json:"record"`
	Classification Classification `json:"classification"`
	Sound          string         `json:"sound"`
	NotInERP       bool           `json:"not_in_erp"`
}

// Response is the ledger list envelope returned by the API.
type Response struct {
	Results []ScanRecord `json:"results"`
	Count   int          `json:"count"`
}

// ZeroCount is one externally confirmed zero-quantity line, typically a
// selection from the loaded ERP snapshot.
type ZeroCount struct {
	Ref      string `json:"ref"`
	BatchLot string `json:"batch_lot"`
}
