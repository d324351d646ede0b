package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Semior001/cryptodash/app/config"
	"github.com/Semior001/cryptodash/app/market"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/exp/slog"
)

// Watch is a command to print the live ticker stream to the terminal.
type Watch struct {
	Config  string        `long:"config" env:"CONFIG" description:"path to the yaml config, user config dir if empty"`
	URL     string        `long:"url" env:"URL" default:"wss://stream.binance.com:9443" description:"base url of the ticker stream"`
	Delay   time.Duration `long:"reconnect-delay" env:"RECONNECT_DELAY" default:"5s" description:"pause before reconnecting"`
	Symbols []string      `long:"symbol" env:"SYMBOLS" env-delim:"," description:"trading pairs to watch, from config if empty"`

	out io.Writer
}

var (
	symbolStyle = lipgloss.NewStyle().Bold(true).Width(10)
	priceStyle  = lipgloss.NewStyle().Width(16).Align(lipgloss.Right)
	upStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e"))
	downStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
)

// Execute runs the command.
func (w Watch) Execute(_ []string) error {
	lg := slog.Default()

	symbols := w.Symbols
	if len(symbols) == 0 {
		cfg, err := config.Load(configPath(w.Config))
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		symbols = cfg.Symbols
	}

	out := w.out
	if out == nil {
		out = os.Stdout
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stream := market.NewStream(w.URL, symbols,
		market.WithLogger(lg.With(slog.String("prefix", "stream"))),
		market.WithReconnectDelay(w.Delay),
	)

	err := stream.Run(ctx, func(t market.Tick) { _, _ = fmt.Fprintln(out, formatTick(t)) })
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch stream: %w", err)
	}

	return nil
}

func formatTick(t market.Tick) string {
	change := strconv.FormatFloat(t.Change, 'f', 2, 64) + "%"
	if t.Change >= 0 {
		change = upStyle.Render("▲ +" + change)
	} else {
		change = downStyle.Render("▼ " + change)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		symbolStyle.Render(t.Symbol),
		priceStyle.Render("$"+market.FormatPrice(t.Price)),
		"  ",
		change,
	)
}
