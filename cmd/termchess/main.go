package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/benbeisheim/chessrules/internal/config"
	"github.com/benbeisheim/chessrules/internal/logging"
	"github.com/benbeisheim/chessrules/internal/model"
	"github.com/benbeisheim/chessrules/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "termchess:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Default().FromEnv(os.Getenv)
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("termchess", flag.ExitOnError)
	cfg.BindFlags(fs)
	fen := fs.String("fen", "", "start from this position instead of the initial one")
	logFile := fs.String("log-file", "", "write logs here; logging is off when empty")
	_ = fs.Parse(os.Args[1:])
	if err := cfg.Validate(); err != nil {
		return err
	}

	// the screen owns the terminal, so logs only go to a file
	log := zerolog.Nop()
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		log = logging.NewWithWriter(f, cfg.LogLevel, false)
	}

	session := model.NewSession()
	if *fen != "" {
		if session, err = model.NewSessionFromFEN(*fen); err != nil {
			return err
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("fen", session.FEN()).Msg("starting terminal game")
	err = tui.New(screen, session, log).Run(ctx)
	log.Info().Str("fen", session.FEN()).Msg("terminal game finished")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
