package ledger

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger"
	lru "github.com/hashicorp/golang-lru"
	cm "github.com/mosaicnetworks/gcl/src/common"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	blockPrefix = "block"
)

// BadgerStore persists blocks in a badger database. Recently used blocks are
// kept in an LRU cache.
type BadgerStore struct {
	db         *badger.DB
	cache      *lru.Cache
	path       string
	lastHeight uint64
	loaded     bool
}

func openBadger(path string, logger *logrus.Entry) (*badger.DB, error) {
	opts := badger.DefaultOptions(path)
	opts.SyncWrites = false
	if logger != nil {
		opts.Logger = logger
	}
	return badger.Open(opts)
}

func newBadgerStore(db *badger.DB, cacheSize int, path string) (*BadgerStore, error) {
	cache, err := lru.New(cacheSize)
	if err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "creating block cache of size %d", cacheSize)
	}
	return &BadgerStore{
		db:    db,
		cache: cache,
		path:  path,
	}, nil
}

// NewBadgerStore creates a brand new Store with a new database. It fails if
// the database already holds blocks.
func NewBadgerStore(cacheSize int, path string, logger *logrus.Entry) (*BadgerStore, error) {
	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, err
	}

	handle, err := openBadger(path, logger)
	if err != nil {
		return nil, errors.Wrapf(err, "opening badger database at %s", path)
	}

	store, err := newBadgerStore(handle, cacheSize, path)
	if err != nil {
		return nil, err
	}

	last, err := store.dbLastHeight()
	if err != nil {
		store.Close()
		return nil, err
	}
	if last != 0 {
		store.Close()
		return nil, cm.NewStoreErr("BadgerStore", cm.KeyAlreadyExists, path)
	}

	return store, nil
}

// LoadBadgerStore creates a Store from an existing database.
func LoadBadgerStore(cacheSize int, path string, logger *logrus.Entry) (*BadgerStore, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	handle, err := openBadger(path, logger)
	if err != nil {
		return nil, errors.Wrapf(err, "opening badger database at %s", path)
	}

	store, err := newBadgerStore(handle, cacheSize, path)
	if err != nil {
		return nil, err
	}

	last, err := store.dbLastHeight()
	if err != nil {
		store.Close()
		return nil, err
	}

	store.lastHeight = last
	store.loaded = true

	return store, nil
}

// LoadOrCreateBadgerStore loads the database at path if there is one, or
// creates a new one.
func LoadOrCreateBadgerStore(cacheSize int, path string, logger *logrus.Entry) (*BadgerStore, error) {
	store, err := LoadBadgerStore(cacheSize, path, logger)

	if err != nil {
		store, err = NewBadgerStore(cacheSize, path, logger)

		if err != nil {
			return nil, err
		}
	}

	return store, nil
}

//==============================================================================
//Keys

func blockKey(height uint64) []byte {
	return []byte(fmt.Sprintf("%s_%020d", blockPrefix, height))
}

func parseBlockKey(key []byte) (uint64, error) {
	return strconv.ParseUint(strings.TrimPrefix(string(key), blockPrefix+"_"), 10, 64)
}

//==============================================================================
//Implement the Store interface

// GetBlock implements the Store interface.
func (s *BadgerStore) GetBlock(height uint64) (*Block, error) {
	if res, ok := s.cache.Get(height); ok {
		return res.(*Block), nil
	}

	block, err := s.dbGetBlock(height)
	if err != nil {
		return nil, mapError(err, "Block", strconv.FormatUint(height, 10))
	}

	s.cache.Add(height, block)

	return block, nil
}

// AppendBlock implements the Store interface.
func (s *BadgerStore) AppendBlock(block *Block) error {
	height := s.lastHeight + 1

	if err := s.dbSetBlock(height, block); err != nil {
		return errors.Wrapf(err, "writing block %d", height)
	}

	s.cache.Add(height, block)
	s.lastHeight = height

	return nil
}

// LastHeight implements the Store interface.
func (s *BadgerStore) LastHeight() uint64 {
	return s.lastHeight
}

// Close implements the Store interface.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// StorePath implements the Store interface.
func (s *BadgerStore) StorePath() string {
	return s.path
}

// Loaded reports whether the store was opened on an existing database.
func (s *BadgerStore) Loaded() bool {
	return s.loaded
}

//==============================================================================
//DB Methods

func (s *BadgerStore) dbGetBlock(height uint64) (*Block, error) {
	var blockBytes []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(blockKey(height))
		if err != nil {
			return err
		}
		blockBytes, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	block := new(Block)
	if err := block.Unmarshal(blockBytes); err != nil {
		return nil, cm.NewStoreErr("Block", cm.Corrupted, strconv.FormatUint(height, 10))
	}

	return block, nil
}

func (s *BadgerStore) dbSetBlock(height uint64, block *Block) error {
	val, err := block.Marshal()
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(blockKey(height), val)
	})
}

// dbLastHeight seeks to the greatest block key.
func (s *BadgerStore) dbLastHeight() (uint64, error) {
	var last uint64
	prefix := []byte(blockPrefix + "_")

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		it.Seek(append(append([]byte{}, prefix...), 0xFF))
		if !it.ValidForPrefix(prefix) {
			return nil
		}

		height, err := parseBlockKey(it.Item().KeyCopy(nil))
		if err != nil {
			return err
		}
		last = height
		return nil
	})

	return last, err
}

func isDBKeyNotFound(err error) bool {
	return errors.Cause(err) == badger.ErrKeyNotFound
}

func mapError(err error, name, key string) error {
	if err != nil {
		if isDBKeyNotFound(err) {
			return cm.NewStoreErr(name, cm.KeyNotFound, key)
		}
	}
	return err
}
