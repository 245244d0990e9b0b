package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"tienlenmn/internal/bot"
	"tienlenmn/internal/config"
	"tienlenmn/internal/domain"
	"tienlenmn/internal/simulator"
	"tienlenmn/internal/tui"
)

var titleStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	Padding(0, 1).
	Bold(true)

type Globals struct {
	LogLevel string `short:"l" help:"Log level (debug, info, warn, error)" default:"info" enum:"debug,info,warn,error"`
	NoColor  bool   `help:"Disable colour output"`
}

type CLI struct {
	Globals

	Play     PlayCmd     `cmd:"" default:"1" help:"Play a game against bots in the terminal"`
	Simulate SimulateCmd `cmd:"" help:"Run headless bot-only matches and report per-seat results"`
}

type PlayCmd struct {
	Config  string `short:"c" help:"Path to HCL or JSON table configuration" default:"tienlen.hcl" type:"path"`
	Seed    int64  `help:"Seed for the first deal (overrides config; 0 keeps the config value)"`
	LogFile string `help:"File that receives logs while the TUI owns the terminal" default:"tienlen.log"`
}

type SimulateCmd struct {
	Matches int    `short:"n" help:"Number of matches to play" default:"1000"`
	Seed    int64  `help:"Seed of the first match; 0 uses a time seed" default:"0"`
	Workers int    `short:"w" help:"Parallel workers; 0 uses GOMAXPROCS" default:"0"`
	Level   string `help:"Bot level for every seat" default:"greedy" enum:"greedy,lowest,random"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("tienlen"),
		kong.Description("Tiến Lên Miền Nam, the Southern Vietnamese shedding game"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	if cli.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

func newLogger(g *Globals, w *os.File, prefix string) *log.Logger {
	level, err := log.ParseLevel(g.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Prefix:          prefix,
	})
}

func (cmd *PlayCmd) Run(g *Globals) error {
	logFile, err := os.OpenFile(cmd.LogFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() {
		if err := logFile.Close(); err != nil {
			log.Error("Failed to close log file", "error", err)
		}
	}()
	logger := newLogger(g, logFile, "tienlen")

	if err := config.LoadGameConfig(cmd.Config); err != nil {
		return err
	}
	cfg := *config.GetGameConfig()
	if cmd.Seed != 0 {
		cfg.Seed = cmd.Seed
	}
	logger.Info("Starting table", "config", cmd.Config, "human_seat", int(cfg.HumanSeat), "seed", cfg.Seed)

	model, err := tui.New(&cfg, tui.WithLogger(logger))
	if err != nil {
		return err
	}
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

func (cmd *SimulateCmd) Run(g *Globals) error {
	logger := newLogger(g, os.Stderr, "tienlen")

	level, err := bot.ParseLevel(cmd.Level)
	if err != nil {
		return err
	}
	if cmd.Seed == 0 {
		cmd.Seed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println(titleStyle.Render(fmt.Sprintf("Simulating %d matches (%s bots, seed %d)", cmd.Matches, level, cmd.Seed)))

	start := time.Now()
	stats, err := simulator.Run(ctx, simulator.Options{
		Matches: cmd.Matches,
		Seed:    cmd.Seed,
		Workers: cmd.Workers,
		Level:   level,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	fmt.Println(renderStats(stats))
	fmt.Printf("%d plays, %d trick resets, %s\n", stats.Plays, stats.Resets, time.Since(start).Round(time.Millisecond))
	return nil
}

func renderStats(stats simulator.Stats) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))).
		Headers("Seat", "Wins", "Win rate", "Openings").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	for seat := domain.Seat(0); seat < domain.NumPlayers; seat++ {
		t.Row(
			fmt.Sprint(int(seat)),
			fmt.Sprint(stats.Wins[seat]),
			fmt.Sprintf("%.1f%%", 100*stats.WinRate(seat)),
			fmt.Sprint(stats.Openings[seat]),
		)
	}
	return t.String()
}
