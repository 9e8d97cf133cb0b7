package store

import (
	"context"
	"testing"
)

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func TestDifficultyRoundTrip(t *testing.T) {
	s := openTestStore(t, t.TempDir())
	defer s.Close()

	if _, err := s.Difficulty(); err != ErrEmpty {
		t.Fatalf("Difficulty on fresh store = %v, want ErrEmpty", err)
	}
	if err := s.SaveDifficulty(2); err != nil {
		t.Fatalf("SaveDifficulty: %v", err)
	}
	d, err := s.Difficulty()
	if err != nil || d != 2 {
		t.Fatalf("Difficulty = %d, %v; want 2", d, err)
	}
}

func TestLoadChainEmpty(t *testing.T) {
	s := openTestStore(t, t.TempDir())
	defer s.Close()

	if err := s.SaveDifficulty(1); err != nil {
		t.Fatalf("SaveDifficulty: %v", err)
	}
	chain, err := s.LoadChain()
	if err != nil {
		t.Fatalf("LoadChain: %v", err)
	}
	if chain.Len() != 0 || !chain.Validate() {
		t.Fatalf("empty store loaded len=%d valid=%v", chain.Len(), chain.Validate())
	}
}

func TestChainSurvivesReopen(t *testing.T) {
	path := t.TempDir()

	s := openTestStore(t, path)
	if err := s.SaveDifficulty(1); err != nil {
		t.Fatalf("SaveDifficulty: %v", err)
	}

	chain, err := s.LoadChain()
	if err != nil {
		t.Fatalf("LoadChain: %v", err)
	}
	for _, payload := range []string{"Hello", "World", "Whatever"} {
		b, err := chain.Append(context.Background(), []byte(payload))
		if err != nil {
			t.Fatalf("Append: %v", err)
		}
		if err := s.PutBlock(b.Hash(chain.Hasher()), b); err != nil {
			t.Fatalf("PutBlock: %v", err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s = openTestStore(t, path)
	defer s.Close()

	loaded, err := s.LoadChain()
	if err != nil {
		t.Fatalf("LoadChain after reopen: %v", err)
	}
	if loaded.Len() != 3 {
		t.Fatalf("loaded %d blocks, want 3", loaded.Len())
	}
	if !loaded.Validate() {
		t.Fatalf("reloaded chain should validate")
	}
	if string(loaded.Blocks()[0].Data) != "Hello" {
		t.Fatalf("block order lost across reopen")
	}
}

func TestIteratorWalksTailFirst(t *testing.T) {
	s := openTestStore(t, t.TempDir())
	defer s.Close()

	if err := s.SaveDifficulty(0); err != nil {
		t.Fatalf("SaveDifficulty: %v", err)
	}
	chain, err := s.LoadChain()
	if err != nil {
		t.Fatalf("LoadChain: %v", err)
	}
	for _, payload := range []string{"first", "second"} {
		b, err := chain.Append(context.Background(), []byte(payload))
		if err != nil {
			t.Fatalf("Append: %v", err)
		}
		if err := s.PutBlock(b.Hash(chain.Hasher()), b); err != nil {
			t.Fatalf("PutBlock: %v", err)
		}
	}

	iter, err := s.Iterator()
	if err != nil {
		t.Fatalf("Iterator: %v", err)
	}
	var seen []string
	for !iter.Done() {
		b, err := iter.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		seen = append(seen, string(b.Data))
	}
	if len(seen) != 2 || seen[0] != "second" || seen[1] != "first" {
		t.Fatalf("walk order = %v, want [second first]", seen)
	}
}

func TestExists(t *testing.T) {
	path := t.TempDir()
	if Exists(path) {
		t.Fatalf("Exists true before any database was created")
	}
	s := openTestStore(t, path)
	s.Close()
	if !Exists(path) {
		t.Fatalf("Exists false after creating a database")
	}
}
