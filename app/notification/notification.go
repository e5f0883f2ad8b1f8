/* Apache v2 license
*  Copyright (C) <2020> Intel Corporation
*
*  SPDX-License-Identifier: Apache-2.0
 */

// Package notification forwards reconciliation side-effect signals to the
// external notification service. The core never plays sounds or renders
// toasts itself, it only reports which cue applies.
package notification

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/scanwedge/stockscan-service/app/config"
	"github.com/scanwedge/stockscan-service/app/scan"

	"github.com/intel/rsp-sw-toolkit-im-suite-utilities/helper"
)

const jsonApplication = "application/json;charset=utf-8"

// Event is the value posted for one reconciliation outcome.
type Event struct {
	SentOn         int64  `json:"sent_on"`
	Classification string `json:"classification"`
	Sound          string `json:"sound"`
	Ref            string `json:"ref,omitempty"`
	GTIN           string `json:"gtin,omitempty"`
	Location       string `json:"location"`
	NotInERP       bool   `json:"not_in_erp,omitempty"`
}

// MessagePayload is the json body posted to the notification service.
type MessagePayload struct {
	Application string `json:"application"`
	Value       Event  `json:"value"`
}

// SendScanResultMessage posts one reconcile outcome. A missing notification
// URL disables sending without error so the scan path never depends on the
// collaborator being up.
func (payload *MessagePayload) SendScanResultMessage(result scan.Result) error {
	if config.AppConfig.NotificationURL == "" {
		return nil
	}

	payload.Application = config.AppConfig.ServiceName
	payload.Value = Event{
		SentOn:         helper.UnixMilliNow(),
		Classification: string(result.Classification),
		Sound:          result.Sound,
		Ref:            result.Record.Ref,
		GTIN:           result.Record.GTIN,
		Location:       result.Record.Location,
		NotInERP:       result.NotInERP,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "Error on marshaling notification payload to []bytes")
	}

	postErr := postNotificationService(payloadBytes)
	log.Debug("SendScanResultMessage posted")
	return postErr
}

func postNotificationService(payloadBytes []byte) error {
	timeout := time.Duration(config.AppConfig.EndpointConnectionTimedOutSeconds) * time.Second
	client := &http.Client{
		Timeout: timeout,
	}

	notificationAPI := config.AppConfig.NotificationURL + config.AppConfig.NotificationEndpoint

	request, reqErr := http.NewRequest(http.MethodPost, notificationAPI, bytes.NewBuffer(payloadBytes))
	if reqErr != nil {
		return reqErr
	}
	request.Header.Set("content-type", jsonApplication)
	response, postErr := client.Do(request)
	if postErr != nil {
		return postErr
	}
	defer func() {
		if closeErr := response.Body.Close(); closeErr != nil {
			log.WithFields(log.Fields{
				"Method": "postNotificationService",
				"Action": "response close",
			}).Error(closeErr.Error())
		}
	}()

	if response.StatusCode != http.StatusOK {
		responseData, readErr := ioutil.ReadAll(response.Body)
		if readErr != nil {
			return errors.Wrap(readErr, "reading notification service response")
		}
		return errors.Errorf("notification service returned status %d: %s",
			response.StatusCode, string(responseData))
	}
	return nil
}
