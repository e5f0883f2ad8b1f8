/* Apache v2 license
*  Copyright (C) <2020> Intel Corporation
*
*  SPDX-License-Identifier: Apache-2.0
 */

// Package mapping maintains the GTIN to REF lookup table used to populate
// the ref field before reconciliation, with a reverse index from REF to its
// known GTINs.
package mapping

import (
	"encoding/csv"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Entry is one GTIN to REF association.
type Entry struct {
	GTIN string `json:"gtin" bson:"gtin"`
	Ref  string `json:"ref" bson:"ref"`
}

// Store is an explicit mapping object: constructed once at startup, loaded
// and flushed explicitly, safe for concurrent lookups.
type Store struct {
	mutex      sync.RWMutex
	gtinToRef  map[string]string
	refToGtins map[string]map[string]bool
}

// NewStore creates an empty mapping store.
func NewStore() *Store {
	return &Store{
		gtinToRef:  make(map[string]string),
		refToGtins: make(map[string]map[string]bool),
	}
}

// Add associates a gtin with a ref, moving the gtin out of any previous
// ref's reverse index.
func (s *Store) Add(gtin, ref string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.add(gtin, ref)
}

func (s *Store) add(gtin, ref string) {
	if oldRef, ok := s.gtinToRef[gtin]; ok && oldRef != ref {
		delete(s.refToGtins[oldRef], gtin)
		if len(s.refToGtins[oldRef]) == 0 {
			delete(s.refToGtins, oldRef)
		}
	}

	s.gtinToRef[gtin] = ref
	if s.refToGtins[ref] == nil {
		s.refToGtins[ref] = make(map[string]bool)
	}
	s.refToGtins[ref][gtin] = true
}

// Ref resolves the ref mapped to a gtin.
func (s *Store) Ref(gtin string) (string, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	ref, ok := s.gtinToRef[gtin]
	return ref, ok
}

// Gtins returns all gtins known for a ref, sorted.
func (s *Store) Gtins(ref string) []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	gtins := make([]string, 0, len(s.refToGtins[ref]))
	for gtin := range s.refToGtins[ref] {
		gtins = append(gtins, gtin)
	}
	sort.Strings(gtins)
	return gtins
}

// Remove drops a gtin from the table.
func (s *Store) Remove(gtin string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	ref, ok := s.gtinToRef[gtin]
	if !ok {
		return false
	}
	delete(s.gtinToRef, gtin)
	delete(s.refToGtins[ref], gtin)
	if len(s.refToGtins[ref]) == 0 {
		delete(s.refToGtins, ref)
	}
	return true
}

// All returns every association, sorted by gtin.
func (s *Store) All() []Entry {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	entries := make([]Entry, 0, len(s.gtinToRef))
	for gtin, ref := range s.gtinToRef {
		entries = append(entries, Entry{GTIN: gtin, Ref: ref})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].GTIN < entries[j].GTIN })
	return entries
}

// ReplaceAll swaps the whole table, used when restoring from persistence.
func (s *Store) ReplaceAll(entries []Entry) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.gtinToRef = make(map[string]string, len(entries))
	s.refToGtins = make(map[string]map[string]bool)
	for _, entry := range entries {
		s.add(entry.GTIN, entry.Ref)
	}
}

// ImportCSV merges `GTIN,REF` rows into the table. The first row is treated
// as a header and skipped. Returns how many associations were added.
func (s *Store) ImportCSV(reader io.Reader) (int, error) {
	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return 0, errors.Wrap(err, "reading mapping csv")
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	added := 0
	for i, record := range records {
		if i == 0 || len(record) < 2 {
			continue
		}
		gtin := strings.TrimSpace(record[0])
		ref := strings.TrimSpace(record[1])
		if gtin == "" || ref == "" {
			continue
		}
		s.add(gtin, ref)
		added++
	}
	return added, nil
}

// ExportCSV writes the table as `GTIN,REF` rows with a header, sorted by
// gtin.
func (s *Store) ExportCSV(writer io.Writer) error {
	entries := s.All()

	csvWriter := csv.NewWriter(writer)
	if err := csvWriter.Write([]string{"GTIN", "REF"}); err != nil {
		return errors.Wrap(err, "writing mapping csv header")
	}
	for _, entry := range entries {
		if err := csvWriter.Write([]string{entry.GTIN, entry.Ref}); err != nil {
			return errors.Wrap(err, "writing mapping csv row")
		}
	}
	csvWriter.Flush()
	return errors.Wrap(csvWriter.Error(), "flushing mapping csv")
}
