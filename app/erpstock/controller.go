/* Apache v2 license
*  Copyright (C) <2020> Intel Corporation
*
*  SPDX-License-Identifier: Apache-2.0
 */

package erpstock

import (
	"time"

	"github.com/globalsign/mgo"
	"github.com/intel/rsp-sw-toolkit-im-suite-utilities/go-metrics"
	"github.com/pkg/errors"

	"github.com/scanwedge/stockscan-service/pkg/db"
)

const erpStockCollection = "erpstock"

// Replace stores a freshly loaded snapshot, dropping the previous one.
func Replace(dbs *db.DB, rows []Row) error {

	// Metrics
	metrics.GetOrRegisterGauge(`StockScan.Replace-ERPStock.Attempt`, nil).Update(1)
	mSuccess := metrics.GetOrRegisterGauge(`StockScan.Replace-ERPStock.Success`, nil)
	mReplaceErr := metrics.GetOrRegisterGauge(`StockScan.Replace-ERPStock.Replace-Error`, nil)
	mReplaceLatency := metrics.GetOrRegisterTimer(`StockScan.Replace-ERPStock.Replace-Latency`, nil)

	execFunc := func(collection *mgo.Collection) error {
		if _, err := collection.RemoveAll(nil); err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		documents := make([]interface{}, len(rows))
		for i := range rows {
			documents[i] = rows[i]
		}
		return collection.Insert(documents...)
	}

	replaceTimer := time.Now()
	if err := dbs.Execute(erpStockCollection, execFunc); err != nil {
		mReplaceErr.Update(1)
		return errors.Wrap(err, "db.erpstock.Replace()")
	}
	mReplaceLatency.Update(time.Since(replaceTimer))

	mSuccess.Update(1)
	return nil
}

// Retrieve loads the stored snapshot.
func Retrieve(dbs *db.DB) ([]Row, error) {

	// Metrics
	metrics.GetOrRegisterGauge(`StockScan.Retrieve-ERPStock.Attempt`, nil).Update(1)
	mSuccess := metrics.GetOrRegisterGauge(`StockScan.Retrieve-ERPStock.Success`, nil)
	mFindErr := metrics.GetOrRegisterGauge(`StockScan.Retrieve-ERPStock.Find-Error`, nil)
	mFindLatency := metrics.GetOrRegisterTimer(`StockScan.Retrieve-ERPStock.Find-Latency`, nil)

	var rows []Row
	execFunc := func(collection *mgo.Collection) error {
		return collection.Find(nil).All(&rows)
	}

	retrieveTimer := time.Now()
	if err := dbs.Execute(erpStockCollection, execFunc); err != nil {
		mFindErr.Update(1)
		return nil, errors.Wrap(err, "db.erpstock.Find()")
	}
	mFindLatency.Update(time.Since(retrieveTimer))

	mSuccess.Update(1)
	return rows, nil
}
