package main

import (
	"context"
	"log"
	"os"
	"syscall"

	"github.com/vrecan/death/v3"

	"github.com/serj1c/powchain/blockchain"
	"github.com/serj1c/powchain/cli"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A signal during a mining search cancels the append; the block is
	// never stored and the database closes cleanly on the way out.
	go func() {
		d := death.NewDeath(syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
		d.WaitForDeathWithFunc(func() {
			cancel()
		})
	}()

	command := cli.CommandLine{}
	if err := command.Run(ctx); err != nil {
		if err == blockchain.ErrMiningCancelled {
			log.Println("mining cancelled, block not appended")
			return
		}
		log.Fatal("ERROR: ", err)
	}
}
