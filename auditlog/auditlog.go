// -*- Mode: Go; indent-tabs-mode: t -*-

/*
 * Copyright (C) 2024 Canonical Ltd
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License version 3 as
 * published by the Free Software Foundation.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 */

// Package auditlog keeps a write-only, append-only record of
// condition list evaluations on disk, for operators who want a
// history of why a unit did or didn't start. It is explicitly not a
// cache: nothing here is ever read back into a later evaluation, only
// into reporting (httpapi's /v1/recent endpoint). Backed by go.etcd.io/bbolt, the same embedded key/value
// store the teacher's state backend family favors for durable local
// storage.
package auditlog

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var rootBucket = []byte("evaluations")

// Entry is one recorded evaluation.
type Entry struct {
	Time    time.Time `json:"time"`
	Unit    string    `json:"unit"`
	Verdict bool      `json:"verdict"`
	Dump    string    `json:"dump"`
}

// Log is an append-only bbolt-backed evaluation history.
type Log struct {
	db *bolt.DB
}

// Open creates or opens the bbolt database at path, creating the root
// bucket if it doesn't already exist.
func Open(path string) (*Log, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("auditlog: cannot open %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(rootBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("auditlog: cannot initialize %s: %w", path, err)
	}
	return &Log{db: db}, nil
}

// Close releases the underlying database file.
func (l *Log) Close() error {
	return l.db.Close()
}

// Record appends an entry keyed by its nanosecond timestamp and the
// bucket's next sequence number, both zero-padded decimal so bolt's
// natural byte-order iteration is also chronological order. It never
// reads or mutates any existing entry.
func (l *Log) Record(e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("auditlog: cannot marshal entry: %w", err)
	}
	return l.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(rootBucket)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		key := []byte(fmt.Sprintf("%020d-%020d", e.Time.UnixNano(), seq))
		return b.Put(key, data)
	})
}

// Recent returns up to n most recently recorded entries, newest
// first. It is read-only reporting, never consulted by Evaluate.
func (l *Log) Recent(n int) ([]Entry, error) {
	var entries []Entry
	err := l.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(rootBucket)
		c := b.Cursor()
		for k, v := c.Last(); k != nil && len(entries) < n; k, v = c.Prev() {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("auditlog: corrupt entry %s: %w", k, err)
			}
			entries = append(entries, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
