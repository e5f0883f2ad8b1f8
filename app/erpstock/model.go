/* Apache v2 license
*  Copyright (C) <2020> Intel Corporation
*
*  SPDX-License-Identifier: Apache-2.0
 */

package erpstock

// Row is one stock line from the external system's snapshot.
type Row struct {
	Ref       string `json:"ref" bson:"ref"`
	LotNumber string `json:"lot_number" bson:"lot_number"`
	Location  string `json:"location" bson:"location"`
	Quantity  int    `json:"quantity" bson:"quantity"`
}
