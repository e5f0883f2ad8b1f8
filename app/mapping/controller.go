/* Apache v2 license
*  Copyright (C) <2020> Intel Corporation
*
*  SPDX-License-Identifier: Apache-2.0
 */

package mapping

import (
	"time"

	"github.com/globalsign/mgo"
	"github.com/intel/rsp-sw-toolkit-im-suite-utilities/go-metrics"
	"github.com/pkg/errors"

	"github.com/scanwedge/stockscan-service/pkg/db"
)

const mappingCollection = "mappings"

// Load restores the table from the database.
func (s *Store) Load(dbs *db.DB) error {

	// Metrics
	metrics.GetOrRegisterGauge(`StockScan.Load-Mapping.Attempt`, nil).Update(1)
	mSuccess := metrics.GetOrRegisterGauge(`StockScan.Load-Mapping.Success`, nil)
	mFindErr := metrics.GetOrRegisterGauge(`StockScan.Load-Mapping.Find-Error`, nil)
	mFindLatency := metrics.GetOrRegisterTimer(`StockScan.Load-Mapping.Find-Latency`, nil)

	var entries []Entry
	execFunc := func(collection *mgo.Collection) error {
		return collection.Find(nil).All(&entries)
	}

	loadTimer := time.Now()
	if err := dbs.Execute(mappingCollection, execFunc); err != nil {
		mFindErr.Update(1)
		return errors.Wrap(err, "db.mappings.Find()")
	}
	mFindLatency.Update(time.Since(loadTimer))

	s.ReplaceAll(entries)
	mSuccess.Update(1)
	return nil
}

// Flush persists the current table wholesale.
func (s *Store) Flush(dbs *db.DB) error {

	// Metrics
	metrics.GetOrRegisterGauge(`StockScan.Flush-Mapping.Attempt`, nil).Update(1)
	mSuccess := metrics.GetOrRegisterGauge(`StockScan.Flush-Mapping.Success`, nil)
	mFlushErr := metrics.GetOrRegisterGauge(`StockScan.Flush-Mapping.Flush-Error`, nil)
	mFlushLatency := metrics.GetOrRegisterTimer(`StockScan.Flush-Mapping.Flush-Latency`, nil)

	entries := s.All()
	execFunc := func(collection *mgo.Collection) error {
		if _, err := collection.RemoveAll(nil); err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		documents := make([]interface{}, len(entries))
		for i := range entries {
			documents[i] = entries[i]
		}
		return collection.Insert(documents...)
	}

	flushTimer := time.Now()
	if err := dbs.Execute(mappingCollection, execFunc); err != nil {
		mFlushErr.Update(1)
		return errors.Wrap(err, "db.mappings.Flush()")
	}
	mFlushLatency.Update(time.Since(flushTimer))

	mSuccess.Update(1)
	return nil
}
