/* Apache v2 license
*  Copyright (C) <2020> Intel Corporation
*
*  SPDX-License-Identifier: Apache-2.0
 */

package schemas

// ProcessScanSchema required for request body validation
const ProcessScanSchema = `{
	"type": "object",
	"required": ["barcode"],
	"properties": {
		"barcode": {
			"type": "string",
			"minLength": 1
		}
	},
	"additionalProperties": false
}`
