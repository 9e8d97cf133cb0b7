package blockchain

import (
	"testing"

	"github.com/serj1c/powchain/hashing"
)

func newTestHasher(t *testing.T) hashing.Hasher {
	t.Helper()
	h, err := hashing.New()
	if err != nil {
		t.Fatalf("hashing.New: %v", err)
	}
	return h
}

func TestBlockHashDeterministic(t *testing.T) {
	h := newTestHasher(t)
	b := CreateBlock([]byte("Hello"), GenesisAnchor(h), 1700000000000)

	if b.Hash(h) != b.Hash(h) {
		t.Fatalf("digest changed without any field changing")
	}
}

func TestBlockHashCoversEveryField(t *testing.T) {
	h := newTestHasher(t)
	base := CreateBlock([]byte("Hello"), GenesisAnchor(h), 1700000000000)
	baseHash := base.Hash(h)

	mutations := []struct {
		name   string
		mutate func(b *Block)
	}{
		{"data", func(b *Block) { b.Data = []byte("Hello!") }},
		{"timestamp", func(b *Block) { b.Timestamp++ }},
		{"prevhash", func(b *Block) { b.PrevHash = "deadbeef" }},
		{"nonce", func(b *Block) { b.Nonce++ }},
	}
	for _, m := range mutations {
		b := CreateBlock([]byte("Hello"), GenesisAnchor(h), 1700000000000)
		m.mutate(b)
		if b.Hash(h) == baseHash {
			t.Fatalf("changing %s did not change the digest", m.name)
		}
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	h := newTestHasher(t)
	b := CreateBlock([]byte("Hello"), GenesisAnchor(h), 1700000000000)
	b.Nonce = 42

	data, err := b.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	got, err := Deserialize(data)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if got.Hash(h) != b.Hash(h) {
		t.Fatalf("round-tripped block hashes differently")
	}
}
