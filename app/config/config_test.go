/* Apache v2 license
*  Copyright (C) <2020> Intel Corporation
*
*  SPDX-License-Identifier: Apache-2.0
 */

package config

import (
	"testing"
)

func TestNormalizeLocation(t *testing.T) {
	cases := map[string]string{
		"mmper":    "MMPER",
		" MMPER ":  "MMPER",
		"Ward-3b":  "WARD-3B",
		"":         "",
		"   ":      "",
		"PHARMACY": "PHARMACY",
	}

	for input, expected := range cases {
		if actual := NormalizeLocation(input); actual != expected {
			t.Errorf("NormalizeLocation(%q) = %q, expected %q", input, actual, expected)
		}
	}
}
