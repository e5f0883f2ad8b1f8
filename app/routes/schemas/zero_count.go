/* Apache v2 license
*  Copyright (C) <2020> Intel Corporation
*
*  SPDX-License-Identifier: Apache-2.0
 */

package schemas

// ZeroCountSchema required for request body validation
const ZeroCountSchema = `{
	"type": "object",
	"required": ["items"],
	"properties": {
		"items": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["ref"],
				"properties": {
					"ref": {
						"type": "string",
						"minLength": 1
					},
					"batch_lot": {
						"type": "string"
					}
				},
				"additionalProperties": false
			}
		}
	},
	"additionalProperties": false
}`
