package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/naveenspark/gacha/internal/config"
	"github.com/naveenspark/gacha/internal/draw"
	"github.com/naveenspark/gacha/internal/export"
	"github.com/naveenspark/gacha/internal/logger"
	"github.com/naveenspark/gacha/internal/present"
	"github.com/naveenspark/gacha/internal/session"
	"github.com/naveenspark/gacha/internal/tui"
	"github.com/naveenspark/gacha/pkg/client"
	"github.com/naveenspark/gacha/pkg/domain"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout, config.DefaultSources()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer, src config.Sources) error {
	if len(args) > 0 {
		switch args[0] {
		case "--version", "version", "-v":
			fmt.Fprintln(out, "gacha "+version)
			return nil
		case "help", "--help", "-h":
			printHelp(out)
			return nil
		case "draw":
			return runDraw(args[1:], out, src)
		default:
			return fmt.Errorf("unknown command %q (try: gacha help)", args[0])
		}
	}

	cfg, err := config.Load(src)
	if err != nil {
		return err
	}
	log, closer, err := logger.New(cfg.LogFile, zerolog.InfoLevel)
	if err != nil {
		return err
	}
	defer closer.Close() //nolint:errcheck

	c := newClient(cfg, log)
	app := tui.NewApp(c, tui.Options{
		UserID:      cfg.UserID,
		RevealDelay: cfg.RevealDelay,
		ErrorTTL:    cfg.ErrorTTL,
		Exporter:    newExporter(cfg, log),
		Logger:      log,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func newClient(cfg config.Config, log zerolog.Logger) *client.Client {
	return client.New(cfg.APIURL, client.WithTimeout(cfg.HTTPTimeout), client.WithLogger(log))
}

func newExporter(cfg config.Config, log zerolog.Logger) *export.Exporter {
	e := &export.Exporter{Dir: cfg.ExportDir, Log: log}
	if cfg.OpenExport {
		e.Open = export.OpenFile
	}
	return e
}

// runDraw logs in and runs one draw cycle without the TUI.
func runDraw(args []string, out io.Writer, src config.Sources) error {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return errors.New("usage: gacha draw single|ten [--user ID] [--export]")
	}
	t, err := domain.ParseDrawType(args[0])
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("draw", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	userFlag := fs.String("user", "", "user id (default $GACHA_USER)")
	exportFlag := fs.Bool("export", false, "save the result image and copy it to the clipboard")
	if err := fs.Parse(args[1:]); err != nil {
		return fmt.Errorf("draw: %w", err)
	}

	cfg, err := config.Load(src)
	if err != nil {
		return err
	}
	userID := strings.TrimSpace(*userFlag)
	if userID == "" {
		userID = cfg.UserID
	}
	if userID == "" {
		return errors.New("no user id: pass --user or set GACHA_USER")
	}

	log, closer, err := logger.New(cfg.LogFile, zerolog.InfoLevel)
	if err != nil {
		return err
	}
	defer closer.Close() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := newClient(cfg, log)
	login, err := c.InitUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	store := session.NewStore()
	if err := store.Initialize(login.UserID, login.Tickets, login.CharacterPool); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	var shown string
	sink := present.SinkFunc(func(e present.Event) {
		switch e := e.(type) {
		case present.DrawStarted:
			printSummoning(out, e.Type)
		case present.ErrorShown:
			shown = e.Message
		}
	})
	orch := draw.New(store, c, sink, draw.Options{RevealDelay: cfg.RevealDelay, Logger: log})

	res := orch.Draw(ctx, t, t.Cost())
	if res.Outcome != draw.Revealed {
		if shown != "" {
			return fmt.Errorf("%s: %w", shown, res.Err)
		}
		return res.Err
	}

	snap := present.BuildSnapshot(login.UserID, res.Tickets, res.Batch, res.Summary)
	printSnapshot(out, snap)

	if *exportFlag {
		art, err := newExporter(cfg, log).Export(ctx, res.CycleID, snap)
		if err != nil {
			return err
		}
		printArtifact(out, art)
	}
	return nil
}
