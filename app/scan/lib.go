/* Apache v2 license
*  Copyright (C) <2020> Intel Corporation
*
*  SPDX-License-Identifier: Apache-2.0
 */

// Package scan holds the in-memory scan ledger and the reconciliation rules
// that decide, per incoming scan, whether to create, increment or relocate
// a ledger entry.
package scan

import (
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/scanwedge/stockscan-service/pkg/barcode"
)

// Processor serializes all ledger mutations behind one mutex so every
// reconcile runs to completion before the next one starts.
type Processor struct {
	mutex       sync.Mutex
	session     Session
	ledger      []*ScanRecord
	lastScanned *ScanRecord
	refs        map[string]bool
}

// NewProcessor creates an empty ledger bound to a session configuration.
func NewProcessor(session Session) *Processor {
	return &Processor{session: session}
}

// SetReferenceSet replaces the known-valid identifier set. An empty set
// disables the reference gate.
func (p *Processor) SetReferenceSet(refs map[string]bool) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.refs = refs
}

// Session returns the configuration snapshot the processor was built with.
func (p *Processor) Session() Session {
	return p.session
}

// Reconcile applies one normalized scan to the ledger at the given time.
// The caller guarantees the input carries at least one identifier (ref or
// gtin); the current time is a parameter so expiry rules are testable.
func (p *Processor) Reconcile(input barcode.ScanInput, now time.Time) Result {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	quarantined := p.findMatch(input, p.session.QuarantineLocation)
	current := p.findMatch(input, p.session.Location)

	// A quarantine entry absorbs every further matching scan regardless of
	// the incoming scan's own expiry status. This also covers sessions whose
	// working location IS the quarantine location, which is why the expiry
	// relocation below can never fire with quarantine as its source.
	if quarantined != nil {
		quarantined.Quantity++
		p.gate(quarantined)
		p.lastScanned = quarantined
		log.WithFields(log.Fields{
			"Method":   "Reconcile",
			"ref":      quarantined.Ref,
			"location": quarantined.Location,
		}).Debug("incremented quarantined entry")
		return p.result(quarantined, UpdatedQuarantine, SoundExpired)
	}

	if current != nil {
		// The EXISTING entry's expiry decides relocation, not the incoming
		// scan's.
		if isDateExpired(current.ExpirationDate, p.session.ExpiryThresholdMonths, now) {
			current.Quantity = 0

			relocated := *current
			relocated.ID = uuid.New().String()
			relocated.Timestamp = now
			relocated.Location = p.session.QuarantineLocation
			relocated.Quantity = 1
			p.ledger = append(p.ledger, &relocated)

			p.gate(&relocated)
			p.lastScanned = &relocated
			log.WithFields(log.Fields{
				"Method": "Reconcile",
				"ref":    relocated.Ref,
				"from":   p.session.Location,
				"to":     relocated.Location,
			}).Info("expired entry relocated to quarantine")
			return p.result(&relocated, RelocatedExpired, SoundExpired)
		}

		current.Quantity++
		p.gate(current)
		p.lastScanned = current
		return p.result(current, Updated, SoundSuccess)
	}

	expired := isDateExpired(input.ExpirationDate, p.session.ExpiryThresholdMonths, now)

	record := &ScanRecord{
		ID:             uuid.New().String(),
		Timestamp:      now,
		GTIN:           input.GTIN,
		Ref:            input.Ref,
		BatchLot:       input.BatchLot,
		ExpirationDate: input.ExpirationDate,
		SerialNumber:   input.SerialNumber,
		Quantity:       1,
		Location:       p.session.Location,
		StorageSite:    p.session.StorageSite,
		MovementCode:   p.session.MovementCode,
		Extra:          input.Extra,
	}
	if expired {
		record.Location = p.session.QuarantineLocation
	}
	p.ledger = append(p.ledger, record)
	p.gate(record)
	p.lastScanned = record

	switch {
	case expired:
		return p.result(record, CreatedExpired, SoundExpired)
	case p.session.RequireRefMode && record.Ref == "":
		// the empty ref marks the entry for required manual completion
		return p.result(record, Created, SoundAlert)
	default:
		return p.result(record, Created, SoundSuccess)
	}
}

// AddZeroCounts merges externally confirmed zero-quantity lines into the
// ledger at the session's working location. Ledger entries sharing a
// (ref, batchLot, location) key with an incoming line are replaced, never
// double-counted. No expiry logic applies.
func (p *Processor) AddZeroCounts(items []ZeroCount, now time.Time) []ScanRecord {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	location := p.session.Location
	incoming := make(map[string]bool, len(items))
	for _, item := range items {
		incoming[item.Ref+"\x00"+item.BatchLot+"\x00"+location] = true
	}

	kept := p.ledger[:0]
	for _, record := range p.ledger {
		if incoming[record.Ref+"\x00"+record.BatchLot+"\x00"+record.Location] {
			if p.lastScanned == record {
				p.lastScanned = nil
			}
			continue
		}
		kept = append(kept, record)
	}
	p.ledger = kept

	added := make([]ScanRecord, 0, len(items))
	for _, item := range items {
		record := &ScanRecord{
			ID:           uuid.New().String(),
			Timestamp:    now,
			Ref:          item.Ref,
			BatchLot:     item.BatchLot,
			Quantity:     0,
			Location:     location,
			StorageSite:  p.session.StorageSite,
			MovementCode: p.session.MovementCode,
		}
		p.ledger = append(p.ledger, record)
		added = append(added, *record)
	}

	log.WithFields(log.Fields{
		"Method": "AddZeroCounts",
		"count":  len(added),
	}).Info("merged zero count records")
	return added
}

// Add inserts a manually entered record through the same reconciliation
// path as a barcode scan.
func (p *Processor) Add(input barcode.ScanInput, now time.Time) Result {
	return p.Reconcile(input, now)
}

// Update replaces the record with the same ID. Returns false when no such
// record exists.
func (p *Processor) Update(updated ScanRecord) bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	for i, record := range p.ledger {
		if record.ID == updated.ID {
			replacement := updated
			p.ledger[i] = &replacement
			if p.lastScanned == record {
				p.lastScanned = &replacement
			}
			return true
		}
	}
	return false
}

// SetFlag marks or unmarks a record as part of a set.
func (p *Processor) SetFlag(id string, isSet bool) bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	for _, record := range p.ledger {
		if record.ID == id {
			record.IsSet = isSet
			return true
		}
	}
	return false
}

// Delete removes a record by ID.
func (p *Processor) Delete(id string) bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	for i, record := range p.ledger {
		if record.ID == id {
			p.ledger = append(p.ledger[:i], p.ledger[i+1:]...)
			if p.lastScanned == record {
				p.lastScanned = nil
			}
			return true
		}
	}
	return false
}

// Clear empties the ledger.
func (p *Processor) Clear() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.ledger = nil
	p.lastScanned = nil
}

// Records returns a copy of the ledger in insertion order.
func (p *Processor) Records() []ScanRecord {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	records := make([]ScanRecord, len(p.ledger))
	for i, record := range p.ledger {
		records[i] = *record
	}
	return records
}

// Load replaces the ledger wholesale, used to restore a persisted session.
func (p *Processor) Load(records []ScanRecord) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.ledger = make([]*ScanRecord, len(records))
	for i := range records {
		record := records[i]
		p.ledger[i] = &record
	}
	p.lastScanned = nil
}

// LastScanned returns the most recently affected record, if any.
func (p *Processor) LastScanned() (ScanRecord, bool) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.lastScanned == nil {
		return ScanRecord{}, false
	}
	return *p.lastScanned, true
}

// findMatch locates a ledger entry by the composite matching key at one
// location. Ref takes priority over gtin when the input carries both.
func (p *Processor) findMatch(input barcode.ScanInput, location string) *ScanRecord {
	for _, record := range p.ledger {
		if record.Location != location || record.BatchLot != input.BatchLot {
			continue
		}
		if input.Ref != "" {
			if record.Ref == input.Ref {
				return record
			}
		} else if input.GTIN != "" && record.GTIN == input.GTIN {
			return record
		}
	}
	return nil
}

// gate flags the record when its ref is unknown to a non-empty reference
// set. The flag never blocks the ledger mutation.
func (p *Processor) gate(record *ScanRecord) {
	if record.Ref == "" || len(p.refs) == 0 || p.refs[record.Ref] {
		return
	}
	if !record.NotInERP {
		log.WithFields(log.Fields{
			"Method": "gate",
			"ref":    record.Ref,
		}).Warn("ref not found in reference set")
	}
	record.NotInERP = true
}

func (p *Processor) result(record *ScanRecord, classification Classification, sound string) Result {
	return Result{
		Record:         *record,
		Classification: classification,
		Sound:          sound,
		NotInERP:       record.NotInERP,
	}
}

// isDateExpired reports whether an ISO date is earlier than now shifted
// forward by the threshold. A zero threshold means literally past today;
// an absent or unparseable date is never expired.
func isDateExpired(dateStr string, thresholdMonths int, now time.Time) bool {
	if dateStr == "" {
		return false
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return false
	}
	if thresholdMonths > 0 {
		now = now.AddDate(0, thresholdMonths, 0)
	}
	return date.Before(now)
}
