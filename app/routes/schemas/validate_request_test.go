/* Apache v2 license
*  Copyright (C) <2020> Intel Corporation
*
*  SPDX-License-Identifier: Apache-2.0
 */

package schemas

import (
	"testing"
)

func TestValidateProcessScanRequest(t *testing.T) {
	requestJSON := []byte(`{
		"barcode":"]C1010491234567888117250210"
	  }`)
	result, err := ValidateSchemaRequest(requestJSON, ProcessScanSchema)
	if err != nil {
		t.Errorf("Error validating the json schema %s", err)
	}
	if !result.Valid() {
		t.Errorf("Validation of Json schema failed %s", result.Errors())
	}

	invalidRequest := []byte(`{
		"barcode":""
	  }`)
	result, _ = ValidateSchemaRequest(invalidRequest, ProcessScanSchema)
	if result.Valid() {
		t.Fatal("Failed to catch json schema validation error, empty 'barcode'")
	}

	invalidRequest = []byte(`{
		"scan":"]C101"
	  }`)
	result, _ = ValidateSchemaRequest(invalidRequest, ProcessScanSchema)
	if result.Valid() {
		t.Fatal("Failed to catch json schema validation error, required field 'barcode'")
	}
}

func TestValidateManualScanRequest(t *testing.T) {
	requestJSON := []byte(`{
		"ref":"REF1",
		"batch_lot":"LOT1",
		"expiration_date":"2027-02-10",
		"quantity":3
	  }`)
	result, _ := ValidateSchemaRequest(requestJSON, ManualScanSchema)
	if !result.Valid() {
		t.Errorf("Validation of Json schema failed %s", result.Errors())
	}

	// gtin alone is enough
	requestJSON = []byte(`{
		"gtin":"04912345678881"
	  }`)
	result, _ = ValidateSchemaRequest(requestJSON, ManualScanSchema)
	if !result.Valid() {
		t.Errorf("Validation of Json schema failed %s", result.Errors())
	}

	invalidRequest := []byte(`{
		"batch_lot":"LOT1"
	  }`)
	result, _ = ValidateSchemaRequest(invalidRequest, ManualScanSchema)
	if result.Valid() {
		t.Fatal("Failed to catch json schema validation error, neither 'gtin' nor 'ref'")
	}

	invalidRequest = []byte(`{
		"ref":"REF1",
		"expiration_date":"10/02/2027"
	  }`)
	result, _ = ValidateSchemaRequest(invalidRequest, ManualScanSchema)
	if result.Valid() {
		t.Fatal("Failed to catch json schema validation error, malformed 'expiration_date'")
	}
}

func TestValidateZeroCountRequest(t *testing.T) {
	requestJSON := []byte(`{
		"items":[
			{"ref":"REF1","batch_lot":"LOT1"},
			{"ref":"REF2"}
		]
	  }`)
	result, _ := ValidateSchemaRequest(requestJSON, ZeroCountSchema)
	if !result.Valid() {
		t.Errorf("Validation of Json schema failed %s", result.Errors())
	}

	invalidRequest := []byte(`{
		"items":[]
	  }`)
	result, _ = ValidateSchemaRequest(invalidRequest, ZeroCountSchema)
	if result.Valid() {
		t.Fatal("Failed to catch json schema validation error, empty 'items'")
	}

	invalidRequest = []byte(`{
		"items":[{"batch_lot":"LOT1"}]
	  }`)
	result, _ = ValidateSchemaRequest(invalidRequest, ZeroCountSchema)
	if result.Valid() {
		t.Fatal("Failed to catch json schema validation error, required field 'ref'")
	}
}

func TestValidateSetFlagRequest(t *testing.T) {
	requestJSON := []byte(`{
		"is_set":true
	  }`)
	result, _ := ValidateSchemaRequest(requestJSON, SetFlagSchema)
	if !result.Valid() {
		t.Errorf("Validation of Json schema failed %s", result.Errors())
	}

	invalidRequest := []byte(`{
		"is_set":"yes"
	  }`)
	result, _ = ValidateSchemaRequest(invalidRequest, SetFlagSchema)
	if result.Valid() {
		t.Fatal("Failed to catch json schema validation error, non-boolean 'is_set'")
	}
}

func TestValidateAddMappingRequest(t *testing.T) {
	requestJSON := []byte(`{
		"gtin":"04912345678881",
		"ref":"REF1"
	  }`)
	result, _ := ValidateSchemaRequest(requestJSON, AddMappingSchema)
	if !result.Valid() {
		t.Errorf("Validation of Json schema failed %s", result.Errors())
	}

	invalidRequest := []byte(`{
		"gtin":"04912345678881"
	  }`)
	result, _ = ValidateSchemaRequest(invalidRequest, AddMappingSchema)
	if result.Valid() {
		t.Fatal("Failed to catch json schema validation error, required field 'ref'")
	}
}
