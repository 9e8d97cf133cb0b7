package wallet

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"

	"golang.org/x/crypto/ripemd160"
)

const (
	checksumLength = 4
	version        = byte(0x00)
)

// Wallet is a P-256 keypair whose public key hash backs a checksummed
// base58 address. The demo harness uses addresses to tag payload authors.
type Wallet struct {
	PrivateKey *ecdsa.PrivateKey
	PublicKey  []byte
}

func MakeWallet() (*Wallet, error) {
	private, public, err := NewPair()
	if err != nil {
		return nil, err
	}
	return &Wallet{PrivateKey: private, PublicKey: public}, nil
}

func NewPair() (*ecdsa.PrivateKey, []byte, error) {
	curve := elliptic.P256()
	private, err := ecdsa.GenerateKey(curve, rand.Reader)
	if err != nil {
		return nil, nil, err
	}
	pub := append(private.PublicKey.X.Bytes(), private.PublicKey.Y.Bytes()...)
	return private, pub, nil
}

// Address encodes version || ripemd160(sha256(pub)) || checksum in base58.
func (w *Wallet) Address() string {
	pubHash := PublicKeyHash(w.PublicKey)
	versionedHash := append([]byte{version}, pubHash...)
	checksum := Checksum(versionedHash)

	fullHash := append(versionedHash, checksum...)
	return Base58Encode(fullHash)
}

// ValidateAddress checks the embedded checksum of a base58 address.
func ValidateAddress(addr string) bool {
	pubKeyHash, err := Base58Decode(addr)
	if err != nil || len(pubKeyHash) < checksumLength+1 {
		return false
	}
	actualChecksum := pubKeyHash[len(pubKeyHash)-checksumLength:]

	ver := pubKeyHash[0]
	pubKeyHash = pubKeyHash[1 : len(pubKeyHash)-checksumLength]
	targetChecksum := Checksum(append([]byte{ver}, pubKeyHash...))

	return bytes.Equal(actualChecksum, targetChecksum)
}

func PublicKeyHash(pubKey []byte) []byte {
	pubHash := sha256.Sum256(pubKey)

	hasher := ripemd160.New()
	hasher.Write(pubHash[:])
	return hasher.Sum(nil)
}

func Checksum(payload []byte) []byte {
	firstHash := sha256.Sum256(payload)
	secondHash := sha256.Sum256(firstHash[:])
	return secondHash[:checksumLength]
}
