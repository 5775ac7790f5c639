package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/coursequiz/internal/config"
	"github.com/stemsi/coursequiz/internal/logger"
	"github.com/stemsi/coursequiz/internal/validator"
)

type command struct {
	name  string
	usage string
	run   func(ctx context.Context, a *app, args []string) error
}

var commands = []command{
	{"author", "author -course ID -file questions.json", runAuthor},
	{"show", "show -course ID", runShow},
	{"update", "update -course ID -file questions.json", runUpdate},
	{"delete", "delete -course ID", runDelete},
	{"learn", "learn -course ID -name NAME [-open]", runLearn},
	{"verify", "verify -cert ID [-print]", runVerify},
	{"bridge", "bridge", runBridge},
}

func main() {
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(2)
	}

	var cmd *command
	for i := range commands {
		if commands[i].name == args[0] {
			cmd = &commands[i]
			break
		}
	}
	if cmd == nil {
		printUsage()
		os.Exit(2)
	}

	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := newApp(cfg, log)
	defer a.close()

	if err := cmd.run(ctx, a, args[1:]); err != nil {
		log.Error().Err(err).Str("command", cmd.name).Msg("Command failed")
		a.close()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: quizctl <command> [flags]")
	fmt.Fprintln(os.Stderr, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  %s\n", c.usage)
	}
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
