/* Apache v2 license
*  Copyright (C) <2020> Intel Corporation
*
*  SPDX-License-Identifier: Apache-2.0
 */

package scan

import (
	"time"

	"github.com/globalsign/mgo"
	"github.com/globalsign/mgo/bson"
	"github.com/intel/rsp-sw-toolkit-im-suite-utilities/go-metrics"
	"github.com/pkg/errors"

	"github.com/scanwedge/stockscan-service/pkg/db"
	"github.com/scanwedge/stockscan-service/pkg/web"
)

const scanCollection = "scans"

// Upsert writes one ledger record keyed by its ID.
func Upsert(dbs *db.DB, record ScanRecord) error {

	// Metrics
	metrics.GetOrRegisterGauge(`StockScan.Upsert-Scan.Attempt`, nil).Update(1)
	mSuccess := metrics.GetOrRegisterGauge(`StockScan.Upsert-Scan.Success`, nil)
	mUpsertErr := metrics.GetOrRegisterGauge(`StockScan.Upsert-Scan.Upsert-Error`, nil)
	mUpsertLatency := metrics.GetOrRegisterTimer(`StockScan.Upsert-Scan.Upsert-Latency`, nil)

	execFunc := func(collection *mgo.Collection) error {
		_, err := collection.Upsert(bson.M{"id": record.ID}, record)
		return err
	}

	upsertTimer := time.Now()
	if err := dbs.Execute(scanCollection, execFunc); err != nil {
		mUpsertErr.Update(1)
		return errors.Wrap(err, "db.scans.Upsert()")
	}
	mUpsertLatency.Update(time.Since(upsertTimer))

	mSuccess.Update(1)
	return nil
}

// Retrieve loads the full persisted ledger in insertion order.
func Retrieve(dbs *db.DB) ([]ScanRecord, error) {

	// Metrics
	metrics.GetOrRegisterGauge(`StockScan.Retrieve-Scan.Attempt`, nil).Update(1)
	mSuccess := metrics.GetOrRegisterGauge(`StockScan.Retrieve-Scan.Success`, nil)
	mFindErr := metrics.GetOrRegisterGauge(`StockScan.Retrieve-Scan.Find-Error`, nil)
	mFindLatency := metrics.GetOrRegisterTimer(`StockScan.Retrieve-Scan.Find-Latency`, nil)

	var records []ScanRecord
	execFunc := func(collection *mgo.Collection) error {
		return collection.Find(nil).Sort("timestamp").All(&records)
	}

	retrieveTimer := time.Now()
	if err := dbs.Execute(scanCollection, execFunc); err != nil {
		mFindErr.Update(1)
		return nil, errors.Wrap(err, "db.scans.Find()")
	}
	mFindLatency.Update(time.Since(retrieveTimer))

	mSuccess.Update(1)
	return records, nil
}

// Replace persists the in-memory ledger wholesale, dropping whatever was
// stored before.
func Replace(dbs *db.DB, records []ScanRecord) error {

	// Metrics
	metrics.GetOrRegisterGauge(`StockScan.Replace-Scan.Attempt`, nil).Update(1)
	mSuccess := metrics.GetOrRegisterGauge(`StockScan.Replace-Scan.Success`, nil)
	mReplaceErr := metrics.GetOrRegisterGauge(`StockScan.Replace-Scan.Replace-Error`, nil)
	mReplaceLatency := metrics.GetOrRegisterTimer(`StockScan.Replace-Scan.Replace-Latency`, nil)

	execFunc := func(collection *mgo.Collection) error {
		if _, err := collection.RemoveAll(nil); err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		documents := make([]interface{}, len(records))
		for i := range records {
			documents[i] = records[i]
		}
		return collection.Insert(documents...)
	}

	replaceTimer := time.Now()
	if err := dbs.Execute(scanCollection, execFunc); err != nil {
		mReplaceErr.Update(1)
		return errors.Wrap(err, "db.scans.Replace()")
	}
	mReplaceLatency.Update(time.Since(replaceTimer))

	mSuccess.Update(1)
	return nil
}

// Remove deletes one persisted record by ID.
func Remove(dbs *db.DB, id string) error {

	// Metrics
	metrics.GetOrRegisterGauge(`StockScan.Remove-Scan.Attempt`, nil).Update(1)
	mSuccess := metrics.GetOrRegisterGauge(`StockScan.Remove-Scan.Success`, nil)
	mRemoveErr := metrics.GetOrRegisterGauge(`StockScan.Remove-Scan.Remove-Error`, nil)
	mNotFoundErr := metrics.GetOrRegisterGauge(`StockScan.Remove-Scan.NotFound-Error`, nil)

	execFunc := func(collection *mgo.Collection) error {
		return collection.Remove(bson.M{"id": id})
	}

	if err := dbs.Execute(scanCollection, execFunc); err != nil {
		if err == mgo.ErrNotFound {
			mNotFoundErr.Update(1)
			return web.ErrNotFound
		}
		mRemoveErr.Update(1)
		return errors.Wrap(err, "db.scans.Remove()")
	}

	mSuccess.Update(1)
	return nil
}
