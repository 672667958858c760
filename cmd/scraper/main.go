package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-linkedin-jobs/internal/cmd"
	"go-linkedin-jobs/internal/config"
	"go-linkedin-jobs/internal/ui"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
)

var (
	version = "dev"
	commit  = ""
)

func main() {
	os.Exit(run())
}

func run() int {
	cli := cmd.NewCLI()
	versionString := version
	if commit != "" {
		versionString = fmt.Sprintf("%s (%s)", version, commit)
	}

	parser, err := kong.New(cli,
		kong.Name("linkedin-jobs"),
		kong.Description("Search LinkedIn jobs and save the results as a table."),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": versionString},
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	kctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		ui.New(os.Stdout, os.Stderr, ui.ColorAuto).Errorf("%v", err)
		return 1
	}

	userInterface := ui.New(os.Stdout, os.Stderr, ui.NormalizeColorMode(cli.Color))

	level := zerolog.InfoLevel
	if cli.Verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: !userInterface.ColorEnabled}).With().Timestamp().Logger()

	cfg, err := config.Load(cli.Config)
	if err != nil {
		userInterface.Errorf("%v", err)
		return 1
	}
	logger.Debug().Str("path", cli.Config).Msg("🔧 config loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runCtx := &cmd.Context{
		Ctx:     ctx,
		Out:     os.Stdout,
		Err:     os.Stderr,
		UI:      userInterface,
		Config:  cfg,
		Logger:  logger,
		Verbose: cli.Verbose,
		Version: versionString,
	}

	if err := kctx.Run(runCtx); err != nil {
		userInterface.Errorf("❌ %v", err)
		return 1
	}
	return 0
}
