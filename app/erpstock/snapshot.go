/* Apache v2 license
*  Copyright (C) <2020> Intel Corporation
*
*  SPDX-License-Identifier: Apache-2.0
 */

// Package erpstock loads the external system's stock snapshot and derives
// the reference set the reconciliation gate checks against.
package erpstock

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseSnapshot reads the semicolon-delimited snapshot format. Each stock
// line is `S;REF;LOT;LOCATION;QUANTITY`; lines not starting with the S
// literal are ignored.
func ParseSnapshot(reader io.Reader) ([]Row, error) {
	var rows []Row

	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		fields := strings.Split(line, ";")
		if len(fields) < 5 || fields[0] != "S" {
			continue
		}

		quantity, err := strconv.Atoi(strings.TrimSpace(fields[4]))
		if err != nil {
			return nil, errors.Wrapf(err, "invalid quantity in snapshot line %q", line)
		}

		rows = append(rows, Row{
			Ref:       strings.TrimSpace(fields[1]),
			LotNumber: strings.TrimSpace(fields[2]),
			Location:  strings.TrimSpace(fields[3]),
			Quantity:  quantity,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading snapshot")
	}

	return rows, nil
}

// ReferenceSet collects the distinct refs of a snapshot.
func ReferenceSet(rows []Row) map[string]bool {
	refs := make(map[string]bool, len(rows))
	for _, row := range rows {
		refs[row.Ref] = true
	}
	return refs
}
