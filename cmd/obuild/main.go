// Package main is the entry point for the obuild CLI.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/obuild/cmd/obuild/commands"
	"go.trai.ch/obuild/internal/app"
	_ "go.trai.ch/obuild/internal/wiring"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stderr))
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	application, _, err := graft.ExecuteFor[*app.App](ctx)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", progname(), err)
		return 1
	}

	cli := commands.New(application)
	cli.SetArgs(args)
	if err := cli.Execute(ctx); err != nil {
		// Every build error surfaces here, prefixed with the program name.
		fmt.Fprintf(stderr, "%s: %v\n", progname(), err)
		return 1
	}
	return 0
}

func progname() string {
	return filepath.Base(os.Args[0])
}
