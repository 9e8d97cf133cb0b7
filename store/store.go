package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger"

	"github.com/serj1c/powchain/blockchain"
	"github.com/serj1c/powchain/hashing"
)

// Keys live beside the blocks themselves: "lh" points at the tail digest,
// "df" holds the chain difficulty. Blocks are keyed by their hex digest.
const (
	lastHashKey   = "lh"
	difficultyKey = "df"
)

var ErrEmpty = errors.New("store: no chain in database")

// Store persists mined blocks in badger, keyed by digest, with a tail
// pointer for iteration.
type Store struct {
	db     *badger.DB
	hasher hashing.Hasher
}

// Exists reports whether a database has been created at path.
func Exists(path string) bool {
	_, err := os.Stat(filepath.Join(path, "MANIFEST"))
	return !os.IsNotExist(err)
}

// Open opens (or creates) the badger database at path. A stale LOCK left by
// a crashed process is removed and the open retried with value-log
// truncation.
func Open(path string) (*Store, error) {
	h, err := hashing.New()
	if err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(path)
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		if strings.Contains(err.Error(), "LOCK") {
			db, err = retry(path, opts)
		}
		if err != nil {
			return nil, err
		}
	}

	return &Store{db: db, hasher: h}, nil
}

func retry(dir string, original badger.Options) (*badger.DB, error) {
	lockPath := filepath.Join(dir, "LOCK")
	if err := os.Remove(lockPath); err != nil {
		return nil, fmt.Errorf(`store: removing "LOCK": %w`, err)
	}
	retryOpts := original
	retryOpts.Truncate = true
	return badger.Open(retryOpts)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveDifficulty records the chain difficulty so a reopened database can
// rebuild an equivalent chain.
func (s *Store) SaveDifficulty(difficulty int) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(difficultyKey), []byte(strconv.Itoa(difficulty)))
	})
}

func (s *Store) Difficulty() (int, error) {
	var difficulty int
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(difficultyKey))
		if err == badger.ErrKeyNotFound {
			return ErrEmpty
		}
		if err != nil {
			return err
		}
		raw, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		difficulty, err = strconv.Atoi(string(raw))
		return err
	})
	return difficulty, err
}

// PutBlock writes a mined block under its digest and moves the tail pointer
// to it, in one transaction.
func (s *Store) PutBlock(hash string, b *blockchain.Block) error {
	data, err := b.Serialize()
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(hash), data); err != nil {
			return err
		}
		return txn.Set([]byte(lastHashKey), []byte(hash))
	})
}

// LastHash returns the digest of the most recently stored block, or
// ErrEmpty when nothing has been stored.
func (s *Store) LastHash() (string, error) {
	var last string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(lastHashKey))
		if err == badger.ErrKeyNotFound {
			return ErrEmpty
		}
		if err != nil {
			return err
		}
		raw, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		last = string(raw)
		return nil
	})
	return last, err
}

// Iterator walks blocks tail-first along their PrevHash links. Done reports
// true once the walk has passed the block anchored at genesis.
type Iterator struct {
	current string
	anchor  string
	store   *Store
}

func (s *Store) Iterator() (*Iterator, error) {
	last, err := s.LastHash()
	if err != nil {
		return nil, err
	}
	return &Iterator{
		current: last,
		anchor:  blockchain.GenesisAnchor(s.hasher),
		store:   s,
	}, nil
}

func (it *Iterator) Done() bool {
	return it.current == it.anchor
}

func (it *Iterator) Next() (*blockchain.Block, error) {
	var block *blockchain.Block
	err := it.store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(it.current))
		if err != nil {
			return err
		}
		encoded, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		block, err = blockchain.Deserialize(encoded)
		return err
	})
	if err != nil {
		return nil, err
	}

	it.current = block.PrevHash
	return block, nil
}

// LoadChain rebuilds the chain from disk: walk from the tail back to the
// genesis anchor, reverse, and hand the blocks to the blockchain package.
// An empty database yields an empty chain at the stored difficulty.
func (s *Store) LoadChain() (*blockchain.Chain, error) {
	difficulty, err := s.Difficulty()
	if err != nil {
		return nil, err
	}

	iter, err := s.Iterator()
	if err == ErrEmpty {
		return blockchain.FromBlocks(difficulty, nil)
	}
	if err != nil {
		return nil, err
	}

	var reversed []*blockchain.Block
	for !iter.Done() {
		block, err := iter.Next()
		if err != nil {
			return nil, err
		}
		reversed = append(reversed, block)
	}

	blocks := make([]*blockchain.Block, len(reversed))
	for i, b := range reversed {
		blocks[len(blocks)-1-i] = b
	}
	return blockchain.FromBlocks(difficulty, blocks)
}
