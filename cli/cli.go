package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/serj1c/powchain/blockchain"
	"github.com/serj1c/powchain/store"
	"github.com/serj1c/powchain/wallet"
)

const (
	dbPath     = "./tmp/blocks"
	walletFile = "./tmp/wallets.data"
)

// CommandLine dispatches the demo commands. Each command opens the store,
// does its work, and closes it again; Ctrl-C during a mining search cancels
// the append through ctx and leaves the database untouched.
type CommandLine struct{}

func (cli *CommandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println(" create -difficulty N - Create a new chain mined at difficulty N")
	fmt.Println(" add -data DATA [-address ADDRESS] - Mine a block carrying DATA")
	fmt.Println(" print - Print the blocks in the chain")
	fmt.Println(" validate - Re-verify every link and proof of work")
	fmt.Println(" createwallet - Create a new wallet")
	fmt.Println(" listaddrs - List the addresses in the wallet file")
}

func (cli *CommandLine) create(difficulty int) error {
	if difficulty < 0 {
		return blockchain.ErrNegativeDifficulty
	}
	if store.Exists(dbPath) {
		return errors.New("chain already exists")
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.SaveDifficulty(difficulty); err != nil {
		return err
	}
	fmt.Printf("Created chain at difficulty %d\n", difficulty)
	return nil
}

func (cli *CommandLine) addBlock(ctx context.Context, data, address string) error {
	if address != "" {
		if !wallet.ValidateAddress(address) {
			return errors.New("address is not valid")
		}
		data = address + ": " + data
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	chain, err := s.LoadChain()
	if err != nil {
		return err
	}

	block, err := chain.Append(ctx, []byte(data))
	if err != nil {
		return err
	}

	hash := block.Hash(chain.Hasher())
	if err := s.PutBlock(hash, block); err != nil {
		return err
	}

	fmt.Printf("Mined block %s (nonce %d)\n", hash, block.Nonce)
	return nil
}

func (cli *CommandLine) printChain() error {
	s, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	chain, err := s.LoadChain()
	if err != nil {
		return err
	}

	for _, b := range chain.Blocks() {
		pow := blockchain.NewProof(b, chain.Difficulty(), chain.Hasher())
		fmt.Printf("Previous Hash: %s\n", b.PrevHash)
		fmt.Printf("Hash: %s\n", b.Hash(chain.Hasher()))
		fmt.Printf("Timestamp: %d\n", b.Timestamp)
		fmt.Printf("Nonce: %d\n", b.Nonce)
		fmt.Printf("Data: %s\n", b.Data)
		fmt.Printf("PoW: %s\n\n", strconv.FormatBool(pow.Validate()))
	}
	return nil
}

func (cli *CommandLine) validateChain() error {
	s, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	chain, err := s.LoadChain()
	if err != nil {
		return err
	}

	fmt.Printf("Chain valid: %s\n", strconv.FormatBool(chain.Validate()))
	return nil
}

func (cli *CommandLine) createWallet() error {
	ws, err := wallet.CreateWallets(walletFile)
	if err != nil {
		return err
	}
	address, err := ws.AddWallet()
	if err != nil {
		return err
	}
	if err := ws.SaveFile(); err != nil {
		return err
	}
	fmt.Printf("New address: %s\n", address)
	return nil
}

func (cli *CommandLine) listAddresses() error {
	ws, err := wallet.CreateWallets(walletFile)
	if err != nil {
		return err
	}
	for _, address := range ws.GetAllAddresses() {
		fmt.Println(address)
	}
	return nil
}

// Run parses os.Args and executes one command.
func (cli *CommandLine) Run(ctx context.Context) error {
	if len(os.Args) < 2 {
		cli.printUsage()
		return errors.New("no command given")
	}

	createCmd := flag.NewFlagSet("create", flag.ExitOnError)
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	printCmd := flag.NewFlagSet("print", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	createWalletCmd := flag.NewFlagSet("createwallet", flag.ExitOnError)
	listAddrsCmd := flag.NewFlagSet("listaddrs", flag.ExitOnError)

	createDifficulty := createCmd.Int("difficulty", 2, "Leading zero hex characters required of every block digest")
	addData := addCmd.String("data", "", "Payload carried by the new block")
	addAddress := addCmd.String("address", "", "Wallet address tagging the payload author")

	switch os.Args[1] {
	case "create":
		if err := createCmd.Parse(os.Args[2:]); err != nil {
			return err
		}
		return cli.create(*createDifficulty)
	case "add":
		if err := addCmd.Parse(os.Args[2:]); err != nil {
			return err
		}
		if *addData == "" {
			addCmd.Usage()
			return errors.New("add requires -data")
		}
		return cli.addBlock(ctx, *addData, *addAddress)
	case "print":
		if err := printCmd.Parse(os.Args[2:]); err != nil {
			return err
		}
		return cli.printChain()
	case "validate":
		if err := validateCmd.Parse(os.Args[2:]); err != nil {
			return err
		}
		return cli.validateChain()
	case "createwallet":
		if err := createWalletCmd.Parse(os.Args[2:]); err != nil {
			return err
		}
		return cli.createWallet()
	case "listaddrs":
		if err := listAddrsCmd.Parse(os.Args[2:]); err != nil {
			return err
		}
		return cli.listAddresses()
	default:
		cli.printUsage()
		return fmt.Errorf("unknown command %q", os.Args[1])
	}
}
