package blockchain

import (
	"context"
	"errors"
	"strings"

	"github.com/serj1c/powchain/hashing"
)

// ErrMiningCancelled reports that a mining search was cancelled through its
// context before a satisfying nonce was found.
var ErrMiningCancelled = errors.New("blockchain: mining cancelled")

// ProofOfWork is the brute-force search for a nonce whose block digest
// starts with Target, a run of '0' characters sized by the difficulty.
type ProofOfWork struct {
	Block  *Block
	Target string

	hasher hashing.Hasher
}

func NewProof(b *Block, difficulty int, h hashing.Hasher) *ProofOfWork {
	return &ProofOfWork{
		Block:  b,
		Target: strings.Repeat("0", difficulty),
		hasher: h,
	}
}

// Run increments the block's nonce in place until the digest carries the
// target prefix, starting from whatever value the nonce currently holds.
// The search is unbounded: it ends only on success or on ctx cancellation.
// At difficulty 0 the empty target matches the first digest and the nonce
// never moves.
func (pow *ProofOfWork) Run(ctx context.Context) (string, error) {
	for {
		if ctx.Err() != nil {
			return "", ErrMiningCancelled
		}
		hash := pow.Block.Hash(pow.hasher)
		if strings.HasPrefix(hash, pow.Target) {
			return hash, nil
		}
		pow.Block.Nonce++
	}
}

// Validate reports whether the block's current digest satisfies the target.
func (pow *ProofOfWork) Validate() bool {
	return strings.HasPrefix(pow.Block.Hash(pow.hasher), pow.Target)
}
