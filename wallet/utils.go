package wallet

import (
	"github.com/mr-tron/base58"
)

func Base58Encode(input []byte) string {
	return base58.Encode(input)
}

func Base58Decode(input string) ([]byte, error) {
	return base58.Decode(input)
}
