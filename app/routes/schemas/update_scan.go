/* Apache v2 license
*  Copyright (C) <2020> Intel Corporation
*
*  SPDX-License-Identifier: Apache-2.0
 */

package schemas

// UpdateScanSchema required for request body validation
const UpdateScanSchema = `{
	"type": "object",
	"properties": {
		"quantity": {
			"type": "integer",
			"minimum": 0
		},
		"batch_lot": {
			"type": "string"
		},
		"expiration_date": {
			"type": "string",
			"pattern": "^([0-9]{4}-[0-9]{2}-[0-9]{2})?$"
		},
		"serial_number": {
			"type": "string"
		},
		"location": {
			"type": "string"
		}
	},
	"additionalProperties": false
}`

// SetFlagSchema required for request body validation
const SetFlagSchema = `{
	"type": "object",
	"required": ["is_set"],
	"properties": {
		"is_set": {
			"type": "boolean"
		}
	},
	"additionalProperties": false
}`
