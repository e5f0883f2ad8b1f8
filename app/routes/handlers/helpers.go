/* Apache v2 license
*  Copyright (C) <2020> Intel Corporation
*
*  SPDX-License-Identifier: Apache-2.0
 */

package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/scanwedge/stockscan-service/app/config"
	"github.com/scanwedge/stockscan-service/app/notification"
	"github.com/scanwedge/stockscan-service/app/routes/schemas"
	"github.com/scanwedge/stockscan-service/app/scan"
	"github.com/scanwedge/stockscan-service/pkg/barcode"
	"github.com/scanwedge/stockscan-service/pkg/web"
)

// readAndValidateRequest validates the request body against the given json
// schema and unmarshals it into v. A non-nil first return value is the
// validation error report to send back as a 400.
func readAndValidateRequest(request *http.Request, schema string, v interface{}) (interface{}, error) {
	// Reading request
	body := make([]byte, request.ContentLength)
	_, err := io.ReadFull(request.Body, body)
	if err != nil {
		return nil, errors.Wrap(web.ErrValidation, err.Error())
	}

	if err = json.Unmarshal(body, &v); err != nil {
		return nil, errors.Wrap(web.ErrValidation, err.Error())
	}

	// Validate json against schema
	schemaValidatorResult, err := schemas.ValidateSchemaRequest(body, schema)
	if err != nil {
		return nil, err
	}
	if !schemaValidatorResult.Valid() {
		result := schemas.BuildErrorsString(schemaValidatorResult.Errors())
		return result, nil
	}

	return nil, nil
}

// resolveRef fills a missing ref from the gtin mapping store. A ref decoded
// from the barcode itself always wins.
func (stsc *StockScan) resolveRef(input *barcode.ScanInput) {
	if input.Ref != "" || input.GTIN == "" {
		return
	}
	if ref, found := stsc.Mappings.Ref(input.GTIN); found {
		input.Ref = ref
	}
}

// persistLedger rewrites the stored ledger from the in-memory one. Reconcile
// outcomes can touch more than one record, so the whole ledger is flushed
// rather than the single returned record.
func (stsc *StockScan) persistLedger() error {
	copySession := stsc.MasterDB.CopySession()
	defer copySession.Close()
	return scan.Replace(copySession, stsc.Processor.Records())
}

func (stsc *StockScan) findRecord(id string) (scan.ScanRecord, bool) {
	for _, record := range stsc.Processor.Records() {
		if record.ID == id {
			return record, true
		}
	}
	return scan.ScanRecord{}, false
}

// notify posts the reconcile outcome to the notification service. Failures
// are logged and swallowed, a dead notification sink must not block scanning.
func (stsc *StockScan) notify(result scan.Result) {
	payload := notification.MessagePayload{Application: config.AppConfig.ServiceName}
	if err := payload.SendScanResultMessage(result); err != nil {
		log.WithFields(log.Fields{
			"Method": "notify",
			"Error":  err.Error(),
		}).Warn("unable to post scan notification")
	}
}
