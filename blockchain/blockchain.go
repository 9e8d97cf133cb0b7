package blockchain

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/serj1c/powchain/hashing"
)

// genesisSeed is hashed to produce the PrevHash of the first block. Every
// chain built by this package anchors to the same value.
const genesisSeed = "0"

var ErrNegativeDifficulty = errors.New("blockchain: difficulty must be non-negative")

// Clock supplies block timestamps in milliseconds since the Unix epoch.
type Clock func() int64

// Chain is an append-only sequence of mined blocks sharing one difficulty.
// Appends are serialized: linking against the tail and mining against that
// link is a read-then-commit sequence that must not interleave.
type Chain struct {
	mu         sync.RWMutex
	difficulty int
	hasher     hashing.Hasher
	clock      Clock
	blocks     []*Block
}

// New builds an empty chain with the default SHA-256 hasher and wall clock.
func New(difficulty int) (*Chain, error) {
	h, err := hashing.New()
	if err != nil {
		return nil, err
	}
	return NewWithHasher(difficulty, h, func() int64 { return time.Now().UnixMilli() })
}

// NewWithHasher builds an empty chain around an injected hasher and clock.
func NewWithHasher(difficulty int, h hashing.Hasher, clock Clock) (*Chain, error) {
	if difficulty < 0 {
		return nil, ErrNegativeDifficulty
	}
	return &Chain{
		difficulty: difficulty,
		hasher:     h,
		clock:      clock,
	}, nil
}

// FromBlocks rebuilds a chain from already-mined blocks, in order, without
// re-mining. Callers that care run Validate afterwards.
func FromBlocks(difficulty int, blocks []*Block) (*Chain, error) {
	chain, err := New(difficulty)
	if err != nil {
		return nil, err
	}
	chain.blocks = append(chain.blocks, blocks...)
	return chain, nil
}

// GenesisAnchor returns the digest used as PrevHash by a chain's first
// block: the hash of the literal "0".
func GenesisAnchor(h hashing.Hasher) string {
	return h.Sum([]byte(genesisSeed))
}

// Append links a new block to the current tail (or the genesis anchor when
// the chain is empty), mines it, and appends it. It blocks until mining
// succeeds or ctx is cancelled; on cancellation the chain is unchanged and
// ErrMiningCancelled is returned.
func (c *Chain) Append(ctx context.Context, payload []byte) (*Block, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prevHash := GenesisAnchor(c.hasher)
	if n := len(c.blocks); n > 0 {
		prevHash = c.blocks[n-1].Hash(c.hasher)
	}

	block := CreateBlock(payload, prevHash, c.clock())
	pow := NewProof(block, c.difficulty, c.hasher)
	if _, err := pow.Run(ctx); err != nil {
		return nil, err
	}

	c.blocks = append(c.blocks, block)
	return block, nil
}

// Validate walks the whole chain once, recomputing every digest. For each
// block past the first the stored PrevHash must equal the predecessor's
// current digest, and every block's digest, the first included, must carry
// the difficulty prefix. An invalid chain is a normal false, not an error.
func (c *Chain) Validate() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	target := strings.Repeat("0", c.difficulty)
	for i, b := range c.blocks {
		if i == 0 {
			if b.PrevHash != GenesisAnchor(c.hasher) {
				return false
			}
		} else if b.PrevHash != c.blocks[i-1].Hash(c.hasher) {
			return false
		}
		if !strings.HasPrefix(b.Hash(c.hasher), target) {
			return false
		}
	}
	return true
}

// Blocks exposes the underlying sequence for display and inspection.
func (c *Chain) Blocks() []*Block {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks
}

func (c *Chain) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.blocks)
}

func (c *Chain) Difficulty() int { return c.difficulty }

// Hasher returns the digest service this chain was built with.
func (c *Chain) Hasher() hashing.Hasher { return c.hasher }
