/* Apache v2 license
*  Copyright (C) <2020> Intel Corporation
*
*  SPDX-License-Identifier: Apache-2.0
 */

package schemas

// ManualScanSchema required for request body validation. A manual entry
// needs at least a gtin or a ref to be reconcilable.
const ManualScanSchema = `{
	"type": "object",
	"anyOf": [
		{"required": ["gtin"]},
		{"required": ["ref"]}
	],
	"properties": {
		"gtin": {
			"type": "string",
			"minLength": 1
		},
		"ref": {
			"type": "string",
			"minLength": 1
		},
		"batch_lot": {
			"type": "string"
		},
		"expiration_date": {
			"type": "string",
			"pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"
		},
		"serial_number": {
			"type": "string"
		},
		"quantity": {
			"type": "integer",
			"minimum": 1
		}
	},
	"additionalProperties": false
}`
