package blockchain

import (
	"context"
	"strings"
	"testing"
)

func TestRunDifficultyZero(t *testing.T) {
	h := newTestHasher(t)
	b := CreateBlock([]byte("Hello"), GenesisAnchor(h), 1700000000000)

	pow := NewProof(b, 0, h)
	hash, err := pow.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// Empty target: the first digest satisfies it, the nonce never moves.
	if b.Nonce != 0 {
		t.Fatalf("nonce = %d at difficulty 0, want 0", b.Nonce)
	}
	if hash != b.Hash(h) {
		t.Fatalf("Run returned %s, block hashes to %s", hash, b.Hash(h))
	}
}

func TestRunFindsTargetPrefix(t *testing.T) {
	h := newTestHasher(t)
	b := CreateBlock([]byte("Hello"), GenesisAnchor(h), 1700000000000)

	pow := NewProof(b, 2, h)
	hash, err := pow.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.HasPrefix(hash, "00") {
		t.Fatalf("digest %s does not carry the 00 prefix", hash)
	}
	if !pow.Validate() {
		t.Fatalf("Validate false right after a successful Run")
	}
}

func TestValidateDetectsNonceTamper(t *testing.T) {
	h := newTestHasher(t)
	b := CreateBlock([]byte("Hello"), GenesisAnchor(h), 1700000000000)

	pow := NewProof(b, 2, h)
	if _, err := pow.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	b.Nonce++
	if pow.Validate() {
		t.Fatalf("tampered nonce still validates")
	}
}

func TestRunCancelled(t *testing.T) {
	h := newTestHasher(t)
	b := CreateBlock([]byte("Hello"), GenesisAnchor(h), 1700000000000)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A 64-zero target is unreachable, so only the cancellation can end
	// this search.
	pow := NewProof(b, 64, h)
	if _, err := pow.Run(ctx); err != ErrMiningCancelled {
		t.Fatalf("Run on cancelled ctx = %v, want ErrMiningCancelled", err)
	}
}
