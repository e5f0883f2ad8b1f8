/* Apache v2 license
*  Copyright (C) <2020> Intel Corporation
*
*  SPDX-License-Identifier: Apache-2.0
 */

package schemas

// AddMappingSchema required for request body validation
const AddMappingSchema = `{
	"type": "object",
	"required": ["gtin", "ref"],
	"properties": {
		"gtin": {
			"type": "string",
			"minLength": 1
		},
		"ref": {
			"type": "string",
			"minLength": 1
		}
	},
	"additionalProperties": false
}`
