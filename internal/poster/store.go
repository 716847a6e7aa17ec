// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package poster

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// Store persists resolved poster URLs across restarts.
type Store interface {
	Get(key string) (string, bool, error)
	Put(key, url string) error
	Close() error
}

const posterKeyPrefix = "poster:"

// BadgerStore is a Store backed by BadgerDB.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens or creates a BadgerDB directory at path.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open poster cache %s: %w", path, err)
	}
	return &BadgerStore{db: db}, nil
}

// NewBadgerStore wraps an open database.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// Get returns the stored URL for key.
func (s *BadgerStore) Get(key string) (string, bool, error) {
	var url string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(posterKeyPrefix + key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			url = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get poster %s: %w", key, err)
	}
	return url, true, nil
}

// Put stores url under key, replacing any previous value.
func (s *BadgerStore) Put(key, url string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(posterKeyPrefix+key), []byte(url))
	})
	if err != nil {
		return fmt.Errorf("put poster %s: %w", key, err)
	}
	return nil
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
