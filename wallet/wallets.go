package wallet

import (
	"bytes"
	"crypto/x509"
	"encoding/gob"
	"os"
)

// Wallets is the on-disk wallet collection, keyed by address. Keys are
// stored as x509 EC DER because gob cannot round-trip ecdsa private keys.
type Wallets struct {
	Wallets map[string]*Wallet

	file string
}

func CreateWallets(file string) (*Wallets, error) {
	ws := &Wallets{
		Wallets: make(map[string]*Wallet),
		file:    file,
	}
	err := ws.LoadFile()
	if os.IsNotExist(err) {
		return ws, nil
	}
	return ws, err
}

// AddWallet generates a keypair, registers it, and returns its address.
func (ws *Wallets) AddWallet() (string, error) {
	w, err := MakeWallet()
	if err != nil {
		return "", err
	}
	address := w.Address()
	ws.Wallets[address] = w
	return address, nil
}

func (ws *Wallets) GetWallet(address string) *Wallet {
	return ws.Wallets[address]
}

func (ws *Wallets) GetAllAddresses() []string {
	var addresses []string
	for address := range ws.Wallets {
		addresses = append(addresses, address)
	}
	return addresses
}

func (ws *Wallets) LoadFile() error {
	content, err := os.ReadFile(ws.file)
	if err != nil {
		return err
	}

	var stored map[string][]byte
	if err := gob.NewDecoder(bytes.NewReader(content)).Decode(&stored); err != nil {
		return err
	}

	for address, der := range stored {
		private, err := x509.ParseECPrivateKey(der)
		if err != nil {
			return err
		}
		pub := append(private.PublicKey.X.Bytes(), private.PublicKey.Y.Bytes()...)
		ws.Wallets[address] = &Wallet{PrivateKey: private, PublicKey: pub}
	}
	return nil
}

func (ws *Wallets) SaveFile() error {
	stored := make(map[string][]byte, len(ws.Wallets))
	for address, w := range ws.Wallets {
		der, err := x509.MarshalECPrivateKey(w.PrivateKey)
		if err != nil {
			return err
		}
		stored[address] = der
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(stored); err != nil {
		return err
	}
	return os.WriteFile(ws.file, buf.Bytes(), 0o600)
}
