/* Apache v2 license
*  Copyright (C) <2020> Intel Corporation
*
*  SPDX-License-Identifier: Apache-2.0
 */

package notification

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/scanwedge/stockscan-service/app/config"
	"github.com/scanwedge/stockscan-service/app/scan"
)

func testResult() scan.Result {
	return scan.Result{
		Record: scan.ScanRecord{
			Ref:      "REF1",
			GTIN:     "04912345678881",
			Location: "MMPER",
		},
		Classification: scan.RelocatedExpired,
		Sound:          scan.SoundExpired,
	}
}

func TestSendScanResultMessageOk(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.Method != http.MethodPost {
			t.Errorf("Expected 'POST' request, received '%s'", request.Method)
		}

		switch reqPath := request.URL.EscapedPath(); reqPath {
		case "/notification":
			var payload MessagePayload
			if err := json.NewDecoder(request.Body).Decode(&payload); err != nil {
				t.Errorf("failed to decode notification payload: %s", err.Error())
			}
			if payload.Value.Classification != string(scan.RelocatedExpired) {
				t.Errorf("unexpected classification '%s'", payload.Value.Classification)
			}
			writer.Header().Set("Content-Type", "application/json")
			_, _ = writer.Write([]byte(`"ok"`))

		default:
			t.Errorf("Expected /notification API endpoint, received '%s'", reqPath)
		}
	}))

	defer testServer.Close()

	config.AppConfig.NotificationURL = testServer.URL
	config.AppConfig.NotificationEndpoint = "/notification"
	config.AppConfig.EndpointConnectionTimedOutSeconds = 5

	payload := new(MessagePayload)
	if err := payload.SendScanResultMessage(testResult()); err != nil {
		t.Fatalf("error SendScanResultMessage %s", err.Error())
	}
}

func TestSendScanResultMessageDisabled(t *testing.T) {
	config.AppConfig.NotificationURL = ""

	payload := new(MessagePayload)
	if err := payload.SendScanResultMessage(testResult()); err != nil {
		t.Fatalf("expected no error with notifications disabled, got %s", err.Error())
	}
}
