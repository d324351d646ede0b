package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/exp/slog"
)

// News is a command to resolve the news feed once and print it.
type News struct {
	CommonOpts

	out io.Writer
}

// Execute runs the command.
func (n News) Execute(_ []string) error {
	lg := slog.Default()

	cfg, s, err := n.prepare()
	if err != nil {
		return err
	}

	defer func() {
		if err := s.Close(); err != nil {
			lg.Error("close bolt store", slog.Any("err", err))
		}
	}()

	resolver, err := n.resolver(lg, cfg, n.httpClient(lg), s)
	if err != nil {
		return err
	}

	res := resolver.Resolve(context.Background())

	out := n.out
	if out == nil {
		out = os.Stdout
	}

	if _, err = fmt.Fprintf(out, "origin: %s\nsource: %s\n\n%s\n", res.Origin, res.Source, res.HTML); err != nil {
		return fmt.Errorf("print news: %w", err)
	}

	for _, e := range res.Errors {
		lg.Debug("source failed", slog.Any("err", e))
	}

	return nil
}
