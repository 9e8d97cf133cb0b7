package blockchain

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/serj1c/powchain/hashing"
)

// Block is one record in the chain. Data stays opaque to this package.
// Nonce is the only field the mining search may touch; everything else is
// set once, before mining.
type Block struct {
	Data      []byte
	Timestamp int64 // milliseconds since the Unix epoch
	PrevHash  string
	Nonce     uint64
}

func CreateBlock(data []byte, prevHash string, timestamp int64) *Block {
	return &Block{
		Data:      data,
		Timestamp: timestamp,
		PrevHash:  prevHash,
		Nonce:     0,
	}
}

// Hash digests Data || Timestamp || PrevHash || Nonce, numeric fields in
// decimal. The result is recomputed on every call and never cached: Nonce
// changes on each mining step, and Data may be rewritten underneath us by
// whoever holds the block.
func (b *Block) Hash(h hashing.Hasher) string {
	record := fmt.Sprintf("%s%d%s%d", b.Data, b.Timestamp, b.PrevHash, b.Nonce)
	return h.Sum([]byte(record))
}

func (b *Block) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(b); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func Deserialize(data []byte) (*Block, error) {
	var block Block
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&block); err != nil {
		return nil, err
	}
	return &block, nil
}
