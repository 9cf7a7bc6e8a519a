package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/modgrid/modgrid/internal/app"
	"github.com/modgrid/modgrid/internal/cli"
)

func main() {
	code, err := run(os.Stdout, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(code)
}

func run(outW io.Writer, args []string) (int, error) {
	cfg, done, err := cli.Parse(args, outW)
	if err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code, exitErr
		}
		return 1, err
	}
	if done {
		return 0, nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, outW, cfg)
	if err != nil {
		return 1, err
	}
	if err := application.Run(ctx); err != nil {
		return 1, err
	}
	return 0, nil
}
