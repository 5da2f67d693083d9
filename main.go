package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"

	"mspro-labs/wildlife-finder/cmd"
	"mspro-labs/wildlife-finder/internal/config"
)

var logger = log.New(os.Stderr, "wildlife: ", 0)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Stdin, os.Stdout, os.Args[1:]); err != nil {
		stop()
		logger.Fatalf("Error: %v", err)
	}
}

// run loads the environment and executes the command tree.
func run(ctx context.Context, in io.Reader, out io.Writer, args []string) error {
	config.LoadDotEnv()
	return cmd.Execute(ctx, in, out, args)
}
