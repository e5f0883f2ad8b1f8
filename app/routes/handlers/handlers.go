/* Apache v2 license
*  Copyright (C) <2020> Intel Corporation
*
*  SPDX-License-Identifier: Apache-2.0
 */

package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/intel/rsp-sw-toolkit-im-suite-utilities/go-metrics"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/scanwedge/stockscan-service/app/config"
	"github.com/scanwedge/stockscan-service/app/erpstock"
	"github.com/scanwedge/stockscan-service/app/export"
	"github.com/scanwedge/stockscan-service/app/mapping"
	"github.com/scanwedge/stockscan-service/app/routes/schemas"
	"github.com/scanwedge/stockscan-service/app/scan"
	"github.com/scanwedge/stockscan-service/pkg/barcode"
	"github.com/scanwedge/stockscan-service/pkg/db"
	"github.com/scanwedge/stockscan-service/pkg/web"
)

// StockScan represents the scanning API method handler set.
type StockScan struct {
	MasterDB  *db.DB
	MaxSize   int
	Processor *scan.Processor
	Mappings  *mapping.Store
}

// Index is used for Docker Healthcheck commands to indicate
// whether the http server is up and running to take requests
//nolint:unparam
func (stsc *StockScan) Index(ctx context.Context, writer http.ResponseWriter, request *http.Request) error {
	web.Respond(ctx, writer, "StockScan Service", http.StatusOK)
	return nil
}

type scanRequest struct {
	Barcode string `json:"barcode"`
}

// ProcessScan decodes one wedge-scanner barcode, reconciles it against the
// ledger and persists the outcome.
// 200 OK, 400 Bad Request, 500 Internal Error
func (stsc *StockScan) ProcessScan(ctx context.Context, writer http.ResponseWriter, request *http.Request) error {

	// Metrics
	metrics.GetOrRegisterGauge(`StockScan.ProcessScan.Attempt`, nil).Update(1)
	mSuccess := metrics.GetOrRegisterGauge(`StockScan.ProcessScan.Success`, nil)
	mValidateRequestErr := metrics.GetOrRegisterGauge(`StockScan.ProcessScan.ValidateRequest-Error`, nil)
	mDecodeErr := metrics.GetOrRegisterGauge(`StockScan.ProcessScan.Decode-Error`, nil)
	mPersistErr := metrics.GetOrRegisterGauge(`StockScan.ProcessScan.Persist-Error`, nil)
	mLatency := metrics.GetOrRegisterTimer(`StockScan.ProcessScan.Latency`, nil)

	startTime := time.Now()
	defer mLatency.Update(time.Since(startTime))

	var body scanRequest
	validationErrors, err := readAndValidateRequest(request, schemas.ProcessScanSchema, &body)
	if err != nil {
		mValidateRequestErr.Update(1)
		return err
	}
	if validationErrors != nil {
		mValidateRequestErr.Update(1)
		web.Respond(ctx, writer, validationErrors, http.StatusBadRequest)
		return nil
	}

	input, err := barcode.Parse(body.Barcode)
	if err != nil {
		mDecodeErr.Update(1)
		return errors.Wrap(web.ErrDecode, err.Error())
	}

	stsc.resolveRef(&input)
	if input.GTIN == "" && input.Ref == "" {
		mDecodeErr.Update(1)
		return errors.Wrap(web.ErrDecode, "scan carries neither a gtin nor a ref")
	}

	result := stsc.Processor.Reconcile(input, time.Now())

	if err := stsc.persistLedger(); err != nil {
		mPersistErr.Update(1)
		return err
	}
	stsc.notify(result)

	mSuccess.Update(1)
	web.Respond(ctx, writer, result, http.StatusOK)
	return nil
}

// AddManualScan reconciles a hand-entered record through the same path as a
// barcode scan.
// 200 OK, 400 Bad Request, 500 Internal Error
func (stsc *StockScan) AddManualScan(ctx context.Context, writer http.ResponseWriter, request *http.Request) error {

	metrics.GetOrRegisterGauge(`StockScan.AddManualScan.Attempt`, nil).Update(1)
	mSuccess := metrics.GetOrRegisterGauge(`StockScan.AddManualScan.Success`, nil)
	mValidateRequestErr := metrics.GetOrRegisterGauge(`StockScan.AddManualScan.ValidateRequest-Error`, nil)
	mPersistErr := metrics.GetOrRegisterGauge(`StockScan.AddManualScan.Persist-Error`, nil)

	var input barcode.ScanInput
	validationErrors, err := readAndValidateRequest(request, schemas.ManualScanSchema, &input)
	if err != nil {
		mValidateRequestErr.Update(1)
		return err
	}
	if validationErrors != nil {
		mValidateRequestErr.Update(1)
		web.Respond(ctx, writer, validationErrors, http.StatusBadRequest)
		return nil
	}

	stsc.resolveRef(&input)
	result := stsc.Processor.Add(input, time.Now())

	if err := stsc.persistLedger(); err != nil {
		mPersistErr.Update(1)
		return err
	}
	stsc.notify(result)

	mSuccess.Update(1)
	web.Respond(ctx, writer, result, http.StatusOK)
	return nil
}

// GetScans returns the full scan ledger ordered oldest first.
// 200 OK
func (stsc *StockScan) GetScans(ctx context.Context, writer http.ResponseWriter, request *http.Request) error {
	metrics.GetOrRegisterGauge(`StockScan.GetScans.Attempt`, nil).Update(1)
	mSuccess := metrics.GetOrRegisterGauge(`StockScan.GetScans.Success`, nil)

	records := stsc.Processor.Records()

	mSuccess.Update(1)
	web.Respond(ctx, writer, scan.Response{Results: records, Count: len(records)}, http.StatusOK)
	return nil
}

type updateScanRequest struct {
	Quantity       *int    `json:"quantity"`
	BatchLot       *string `json:"batch_lot"`
	ExpirationDate *string `json:"expiration_date"`
	SerialNumber   *string `json:"serial_number"`
	Location       *string `json:"location"`
}

// UpdateScan patches the editable fields of one ledger record.
// 200 OK, 400 Bad Request, 404 Not Found, 500 Internal Error
func (stsc *StockScan) UpdateScan(ctx context.Context, writer http.ResponseWriter, request *http.Request) error {

	metrics.GetOrRegisterGauge(`StockScan.UpdateScan.Attempt`, nil).Update(1)
	mSuccess := metrics.GetOrRegisterGauge(`StockScan.UpdateScan.Success`, nil)
	mValidateRequestErr := metrics.GetOrRegisterGauge(`StockScan.UpdateScan.ValidateRequest-Error`, nil)
	mPersistErr := metrics.GetOrRegisterGauge(`StockScan.UpdateScan.Persist-Error`, nil)

	id := mux.Vars(request)["id"]

	var body updateScanRequest
	validationErrors, err := readAndValidateRequest(request, schemas.UpdateScanSchema, &body)
	if err != nil {
		mValidateRequestErr.Update(1)
		return err
	}
	if validationErrors != nil {
		mValidateRequestErr.Update(1)
		web.Respond(ctx, writer, validationErrors, http.StatusBadRequest)
		return nil
	}

	record, found := stsc.findRecord(id)
	if !found {
		return web.ErrNotFound
	}

	if body.Quantity != nil {
		record.Quantity = *body.Quantity
	}
	if body.BatchLot != nil {
		record.BatchLot = *body.BatchLot
	}
	if body.ExpirationDate != nil {
		record.ExpirationDate = *body.ExpirationDate
	}
	if body.SerialNumber != nil {
		record.SerialNumber = *body.SerialNumber
	}
	if body.Location != nil {
		record.Location = config.NormalizeLocation(*body.Location)
	}

	if !stsc.Processor.Update(record) {
		return web.ErrNotFound
	}

	copySession := stsc.MasterDB.CopySession()
	defer copySession.Close()
	if err := scan.Upsert(copySession, record); err != nil {
		mPersistErr.Update(1)
		return err
	}

	mSuccess.Update(1)
	web.Respond(ctx, writer, record, http.StatusOK)
	return nil
}

type setFlagRequest struct {
	IsSet bool `json:"is_set"`
}

// SetScanFlag marks or unmarks one ledger record as part of a set.
// 200 OK, 400 Bad Request, 404 Not Found, 500 Internal Error
func (stsc *StockScan) SetScanFlag(ctx context.Context, writer http.ResponseWriter, request *http.Request) error {

	metrics.GetOrRegisterGauge(`StockScan.SetScanFlag.Attempt`, nil).Update(1)
	mSuccess := metrics.GetOrRegisterGauge(`StockScan.SetScanFlag.Success`, nil)
	mValidateRequestErr := metrics.GetOrRegisterGauge(`StockScan.SetScanFlag.ValidateRequest-Error`, nil)
	mPersistErr := metrics.GetOrRegisterGauge(`StockScan.SetScanFlag.Persist-Error`, nil)

	id := mux.Vars(request)["id"]

	var body setFlagRequest
	validationErrors, err := readAndValidateRequest(request, schemas.SetFlagSchema, &body)
	if err != nil {
		mValidateRequestErr.Update(1)
		return err
	}
	if validationErrors != nil {
		mValidateRequestErr.Update(1)
		web.Respond(ctx, writer, validationErrors, http.StatusBadRequest)
		return nil
	}

	if !stsc.Processor.SetFlag(id, body.IsSet) {
		return web.ErrNotFound
	}

	record, _ := stsc.findRecord(id)
	copySession := stsc.MasterDB.CopySession()
	defer copySession.Close()
	if err := scan.Upsert(copySession, record); err != nil {
		mPersistErr.Update(1)
		return err
	}

	mSuccess.Update(1)
	web.Respond(ctx, writer, record, http.StatusOK)
	return nil
}

// DeleteScan removes one ledger record.
// 204 No Content, 404 Not Found, 500 Internal Error
func (stsc *StockScan) DeleteScan(ctx context.Context, writer http.ResponseWriter, request *http.Request) error {

	metrics.GetOrRegisterGauge(`StockScan.DeleteScan.Attempt`, nil).Update(1)
	mSuccess := metrics.GetOrRegisterGauge(`StockScan.DeleteScan.Success`, nil)
	mRemoveErr := metrics.GetOrRegisterGauge(`StockScan.DeleteScan.Remove-Error`, nil)

	id := mux.Vars(request)["id"]

	if !stsc.Processor.Delete(id) {
		return web.ErrNotFound
	}

	copySession := stsc.MasterDB.CopySession()
	defer copySession.Close()
	if err := scan.Remove(copySession, id); err != nil {
		mRemoveErr.Update(1)
		return err
	}

	mSuccess.Update(1)
	web.Respond(ctx, writer, nil, http.StatusNoContent)
	return nil
}

// DeleteAllScans empties the scan ledger, typically at session close.
// 204 No Content, 500 Internal Error
func (stsc *StockScan) DeleteAllScans(ctx context.Context, writer http.ResponseWriter, request *http.Request) error {

	metrics.GetOrRegisterGauge(`StockScan.DeleteAllScans.Attempt`, nil).Update(1)
	mSuccess := metrics.GetOrRegisterGauge(`StockScan.DeleteAllScans.Success`, nil)
	mPersistErr := metrics.GetOrRegisterGauge(`StockScan.DeleteAllScans.Persist-Error`, nil)

	stsc.Processor.Clear()

	if err := stsc.persistLedger(); err != nil {
		mPersistErr.Update(1)
		return err
	}

	mSuccess.Update(1)
	web.Respond(ctx, writer, nil, http.StatusNoContent)
	return nil
}

type zeroCountRequest struct {
	Items []scan.ZeroCount `json:"items"`
}

// AddZeroCounts records externally confirmed zero quantities for the given
// ref and lot pairs, replacing any conflicting ledger entries.
// 200 OK, 400 Bad Request, 500 Internal Error
func (stsc *StockScan) AddZeroCounts(ctx context.Context, writer http.ResponseWriter, request *http.Request) error {

	metrics.GetOrRegisterGauge(`StockScan.AddZeroCounts.Attempt`, nil).Update(1)
	mSuccess := metrics.GetOrRegisterGauge(`StockScan.AddZeroCounts.Success`, nil)
	mValidateRequestErr := metrics.GetOrRegisterGauge(`StockScan.AddZeroCounts.ValidateRequest-Error`, nil)
	mPersistErr := metrics.GetOrRegisterGauge(`StockScan.AddZeroCounts.Persist-Error`, nil)

	var body zeroCountRequest
	validationErrors, err := readAndValidateRequest(request, schemas.ZeroCountSchema, &body)
	if err != nil {
		mValidateRequestErr.Update(1)
		return err
	}
	if validationErrors != nil {
		mValidateRequestErr.Update(1)
		web.Respond(ctx, writer, validationErrors, http.StatusBadRequest)
		return nil
	}

	added := stsc.Processor.AddZeroCounts(body.Items, time.Now())

	if err := stsc.persistLedger(); err != nil {
		mPersistErr.Update(1)
		return err
	}

	mSuccess.Update(1)
	web.Respond(ctx, writer, scan.Response{Results: added, Count: len(added)}, http.StatusOK)
	return nil
}

// UploadSnapshot ingests a semicolon separated stock snapshot, replaces the
// stored copy and refreshes the reference gate.
// 200 OK, 400 Bad Request, 500 Internal Error
func (stsc *StockScan) UploadSnapshot(ctx context.Context, writer http.ResponseWriter, request *http.Request) error {

	metrics.GetOrRegisterGauge(`StockScan.UploadSnapshot.Attempt`, nil).Update(1)
	mSuccess := metrics.GetOrRegisterGauge(`StockScan.UploadSnapshot.Success`, nil)
	mParseErr := metrics.GetOrRegisterGauge(`StockScan.UploadSnapshot.Parse-Error`, nil)
	mPersistErr := metrics.GetOrRegisterGauge(`StockScan.UploadSnapshot.Persist-Error`, nil)

	rows, err := erpstock.ParseSnapshot(request.Body)
	if err != nil {
		mParseErr.Update(1)
		return errors.Wrap(web.ErrInvalidInput, err.Error())
	}

	copySession := stsc.MasterDB.CopySession()
	defer copySession.Close()
	if err := erpstock.Replace(copySession, rows); err != nil {
		mPersistErr.Update(1)
		return err
	}

	refs := erpstock.ReferenceSet(rows)
	stsc.Processor.SetReferenceSet(refs)

	log.WithFields(log.Fields{
		"Method":     "UploadSnapshot",
		"Rows":       len(rows),
		"References": len(refs),
	}).Info("stock snapshot replaced")

	mSuccess.Update(1)
	web.Respond(ctx, writer, map[string]int{"rows": len(rows), "references": len(refs)}, http.StatusOK)
	return nil
}

// GetErpStock returns the stored stock snapshot rows.
// 200 OK, 500 Internal Error
func (stsc *StockScan) GetErpStock(ctx context.Context, writer http.ResponseWriter, request *http.Request) error {

	metrics.GetOrRegisterGauge(`StockScan.GetErpStock.Attempt`, nil).Update(1)
	mSuccess := metrics.GetOrRegisterGauge(`StockScan.GetErpStock.Success`, nil)
	mRetrieveErr := metrics.GetOrRegisterGauge(`StockScan.GetErpStock.Retrieve-Error`, nil)

	copySession := stsc.MasterDB.CopySession()
	defer copySession.Close()
	rows, err := erpstock.Retrieve(copySession)
	if err != nil {
		mRetrieveErr.Update(1)
		return errors.Wrap(err, "Error retrieving stock snapshot")
	}

	mSuccess.Update(1)
	web.Respond(ctx, writer, rows, http.StatusOK)
	return nil
}

// GetMappings returns every gtin to ref mapping, sorted by gtin.
// 200 OK
func (stsc *StockScan) GetMappings(ctx context.Context, writer http.ResponseWriter, request *http.Request) error {
	metrics.GetOrRegisterGauge(`StockScan.GetMappings.Attempt`, nil).Update(1)
	mSuccess := metrics.GetOrRegisterGauge(`StockScan.GetMappings.Success`, nil)

	mSuccess.Update(1)
	web.Respond(ctx, writer, stsc.Mappings.All(), http.StatusOK)
	return nil
}

// AddMapping inserts or remaps one gtin to ref association.
// 201 Created, 400 Bad Request, 500 Internal Error
func (stsc *StockScan) AddMapping(ctx context.Context, writer http.ResponseWriter, request *http.Request) error {

	metrics.GetOrRegisterGauge(`StockScan.AddMapping.Attempt`, nil).Update(1)
	mSuccess := metrics.GetOrRegisterGauge(`StockScan.AddMapping.Success`, nil)
	mValidateRequestErr := metrics.GetOrRegisterGauge(`StockScan.AddMapping.ValidateRequest-Error`, nil)
	mPersistErr := metrics.GetOrRegisterGauge(`StockScan.AddMapping.Persist-Error`, nil)

	var entry mapping.Entry
	validationErrors, err := readAndValidateRequest(request, schemas.AddMappingSchema, &entry)
	if err != nil {
		mValidateRequestErr.Update(1)
		return err
	}
	if validationErrors != nil {
		mValidateRequestErr.Update(1)
		web.Respond(ctx, writer, validationErrors, http.StatusBadRequest)
		return nil
	}

	stsc.Mappings.Add(entry.GTIN, entry.Ref)

	copySession := stsc.MasterDB.CopySession()
	defer copySession.Close()
	if err := stsc.Mappings.Flush(copySession); err != nil {
		mPersistErr.Update(1)
		return err
	}

	mSuccess.Update(1)
	web.Respond(ctx, writer, entry, http.StatusCreated)
	return nil
}

// DeleteMapping removes the mapping for one gtin.
// 204 No Content, 404 Not Found, 500 Internal Error
func (stsc *StockScan) DeleteMapping(ctx context.Context, writer http.ResponseWriter, request *http.Request) error {

	metrics.GetOrRegisterGauge(`StockScan.DeleteMapping.Attempt`, nil).Update(1)
	mSuccess := metrics.GetOrRegisterGauge(`StockScan.DeleteMapping.Success`, nil)
	mPersistErr := metrics.GetOrRegisterGauge(`StockScan.DeleteMapping.Persist-Error`, nil)

	gtin := mux.Vars(request)["gtin"]

	if !stsc.Mappings.Remove(gtin) {
		return web.ErrNotFound
	}

	copySession := stsc.MasterDB.CopySession()
	defer copySession.Close()
	if err := stsc.Mappings.Flush(copySession); err != nil {
		mPersistErr.Update(1)
		return err
	}

	mSuccess.Update(1)
	web.Respond(ctx, writer, nil, http.StatusNoContent)
	return nil
}

// ImportMappings merges a gtin;ref CSV body into the mapping store.
// 200 OK, 400 Bad Request, 500 Internal Error
func (stsc *StockScan) ImportMappings(ctx context.Context, writer http.ResponseWriter, request *http.Request) error {

	metrics.GetOrRegisterGauge(`StockScan.ImportMappings.Attempt`, nil).Update(1)
	mSuccess := metrics.GetOrRegisterGauge(`StockScan.ImportMappings.Success`, nil)
	mParseErr := metrics.GetOrRegisterGauge(`StockScan.ImportMappings.Parse-Error`, nil)
	mPersistErr := metrics.GetOrRegisterGauge(`StockScan.ImportMappings.Persist-Error`, nil)

	added, err := stsc.Mappings.ImportCSV(request.Body)
	if err != nil {
		mParseErr.Update(1)
		return errors.Wrap(web.ErrInvalidInput, err.Error())
	}

	copySession := stsc.MasterDB.CopySession()
	defer copySession.Close()
	if err := stsc.Mappings.Flush(copySession); err != nil {
		mPersistErr.Update(1)
		return err
	}

	mSuccess.Update(1)
	web.Respond(ctx, writer, map[string]int{"added": added}, http.StatusOK)
	return nil
}

// ExportMappings streams the mapping store as a gtin;ref CSV attachment.
// 200 OK, 500 Internal Error
func (stsc *StockScan) ExportMappings(ctx context.Context, writer http.ResponseWriter, request *http.Request) error {

	metrics.GetOrRegisterGauge(`StockScan.ExportMappings.Attempt`, nil).Update(1)
	mSuccess := metrics.GetOrRegisterGauge(`StockScan.ExportMappings.Success`, nil)

	writer.Header().Set("Content-Type", "text/csv")
	writer.Header().Set("Content-Disposition", `attachment; filename="mappings.csv"`)
	if err := stsc.Mappings.ExportCSV(writer); err != nil {
		return errors.Wrap(err, "Error writing mapping csv")
	}

	mSuccess.Update(1)
	return nil
}

// ExportStockCount streams the counted ledger as an importable stock count
// CSV attachment.
// 200 OK, 500 Internal Error
func (stsc *StockScan) ExportStockCount(ctx context.Context, writer http.ResponseWriter, request *http.Request) error {

	metrics.GetOrRegisterGauge(`StockScan.ExportStockCount.Attempt`, nil).Update(1)
	mSuccess := metrics.GetOrRegisterGauge(`StockScan.ExportStockCount.Success`, nil)
	mRetrieveErr := metrics.GetOrRegisterGauge(`StockScan.ExportStockCount.Retrieve-Error`, nil)

	copySession := stsc.MasterDB.CopySession()
	defer copySession.Close()
	erpRows, err := erpstock.Retrieve(copySession)
	if err != nil {
		mRetrieveErr.Update(1)
		return errors.Wrap(err, "Error retrieving stock snapshot")
	}

	filename := fmt.Sprintf("stockcount_%s.csv", time.Now().Format("20060102_150405"))
	writer.Header().Set("Content-Type", "text/csv")
	writer.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))

	if err := export.StockCountCSV(writer, stsc.Processor.Records(), erpRows, stsc.Processor.Session()); err != nil {
		return errors.Wrap(err, "Error writing stock count csv")
	}

	mSuccess.Update(1)
	return nil
}

// ExportComparison streams the counted versus snapshot comparison workbook
// as an xlsx attachment.
// 200 OK, 500 Internal Error
func (stsc *StockScan) ExportComparison(ctx context.Context, writer http.ResponseWriter, request *http.Request) error {

	metrics.GetOrRegisterGauge(`StockScan.ExportComparison.Attempt`, nil).Update(1)
	mSuccess := metrics.GetOrRegisterGauge(`StockScan.ExportComparison.Success`, nil)
	mRetrieveErr := metrics.GetOrRegisterGauge(`StockScan.ExportComparison.Retrieve-Error`, nil)

	copySession := stsc.MasterDB.CopySession()
	defer copySession.Close()
	erpRows, err := erpstock.Retrieve(copySession)
	if err != nil {
		mRetrieveErr.Update(1)
		return errors.Wrap(err, "Error retrieving stock snapshot")
	}

	session := stsc.Processor.Session()
	items, summary := export.Compare(stsc.Processor.Records(), erpRows, session)

	filename := fmt.Sprintf("comparison_%s.xlsx", time.Now().Format("20060102_150405"))
	writer.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	writer.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))

	if err := export.ComparisonXLSX(writer, items, summary, session, time.Now()); err != nil {
		return errors.Wrap(err, "Error writing comparison workbook")
	}

	mSuccess.Update(1)
	return nil
}
