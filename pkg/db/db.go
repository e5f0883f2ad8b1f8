/* Apache v2 license
*  Copyright (C) <2020> Intel Corporation
*
*  SPDX-License-Identifier: Apache-2.0
 */

// Package db is a small wrapper around mgo sessions so controllers can run
// per-request copies against named collections without holding connection
// details themselves.
package db

import (
	"time"

	"github.com/globalsign/mgo"
	"github.com/pkg/errors"
)

// DB wraps a master mgo session and the database selected by the dial string.
type DB struct {
	session *mgo.Session
}

// NewSession dials the database and verifies the connection. The database
// name is taken from the dial string (host/dbname).
func NewSession(url string, timeout time.Duration) (*DB, error) {
	session, err := mgo.DialWithTimeout(url, timeout)
	if err != nil {
		return nil, errors.Wrap(err, "unable to dial database")
	}
	session.SetMode(mgo.Monotonic, true)
	return &DB{session: session}, nil
}

// CopySession returns a copy of the master session for a single unit of work.
// Callers must Close the copy.
func (dbs *DB) CopySession() *DB {
	return &DB{session: dbs.session.Copy()}
}

// Close terminates the underlying session.
func (dbs *DB) Close() {
	dbs.session.Close()
}

// Execute runs execFunc against the named collection of the dialed database.
func (dbs *DB) Execute(collectionName string, execFunc func(*mgo.Collection) error) error {
	collection := dbs.session.DB("").C(collectionName)
	return execFunc(collection)
}
