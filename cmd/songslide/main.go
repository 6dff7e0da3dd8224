package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/NethermindEth/songslide/pkg/studio"
	"github.com/NethermindEth/songslide/pkg/studio/generation"
	"github.com/NethermindEth/songslide/pkg/studio/setup"
	"github.com/NethermindEth/songslide/pkg/studio/style"
)

// Build flags
var version = ""
var commit = ""
var date = ""

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd := newCommand()
	if err := cmd.ParseAndRun(ctx, os.Args[1:]); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func newCommand() *ffcli.Command {
	fs := flag.NewFlagSet("songslide", flag.ExitOnError)

	return &ffcli.Command{
		ShortUsage: "songslide [flags] <subcommand>",
		FlagSet:    fs,
		Exec: func(context.Context, []string) error {
			return flag.ErrHelp
		},
		Subcommands: []*ffcli.Command{
			newVersionCommand(),
			newServeCommand(),
			newGenerateCommand(),
			newStylesCommand(),
		},
	}
}

func ffOptions() []ff.Option {
	return []ff.Option{
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
		ff.WithEnvVarPrefix(setup.EnvPrefix),
	}
}

func newVersionCommand() *ffcli.Command {
	return &ffcli.Command{
		Name:       "version",
		ShortUsage: "songslide version",
		ShortHelp:  "print version",
		Exec: func(ctx context.Context, args []string) error {
			v := version
			if v == "" {
				if buildInfo, ok := debug.ReadBuildInfo(); ok {
					v = buildInfo.Main.Version
				}
			}
			if v == "" {
				v = "dev"
			}
			versionFields := []string{v}
			if commit != "" {
				versionFields = append(versionFields, commit)
			}
			if date != "" {
				versionFields = append(versionFields, date)
			}
			fmt.Println(strings.Join(versionFields, " "))
			return nil
		},
	}
}

func newServeCommand() *ffcli.Command {
	cmd := "serve"
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	_ = fs.String("config", "", "config file (optional)")

	cfg := &setup.Config{}
	cfg.RegisterFlags(fs)

	return &ffcli.Command{
		Name:       cmd,
		ShortUsage: fmt.Sprintf("songslide %s [flags]", cmd),
		ShortHelp:  "run the slideshow api",
		Options:    ffOptions(),
		FlagSet:    fs,
		Exec: func(ctx context.Context, args []string) error {
			setupResult, err := setup.Setup(ctx, cfg)
			if err != nil {
				return fmt.Errorf("failed to setup: %w", err)
			}

			studioConfig, err := studio.NewStudioConfigFromSetupResult(setupResult)
			if err != nil {
				return fmt.Errorf("failed to create studio config: %w", err)
			}

			s, err := studio.NewStudio(ctx, studioConfig)
			if err != nil {
				return fmt.Errorf("failed to create studio: %w", err)
			}

			return s.Start(ctx)
		},
	}
}

func newGenerateCommand() *ffcli.Command {
	cmd := "generate"
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	_ = fs.String("config", "", "config file (optional)")

	cfg := &setup.Config{}
	cfg.RegisterFlags(fs)

	var title, styleID string
	fs.StringVar(&title, "title", "", "song title")
	fs.StringVar(&styleID, "style", style.DefaultCatalog().Default().ID, "art style id")

	return &ffcli.Command{
		Name:       cmd,
		ShortUsage: fmt.Sprintf("songslide %s [flags]", cmd),
		ShortHelp:  "generate one image set and print it as json",
		Options:    ffOptions(),
		FlagSet:    fs,
		Exec: func(ctx context.Context, args []string) error {
			setupResult, err := setup.Setup(ctx, cfg)
			if err != nil {
				return fmt.Errorf("failed to setup: %w", err)
			}

			songTitle, artStyle, err := generation.Validate(title, styleID, setupResult.Catalog)
			if err != nil {
				return err
			}

			orchestrator := generation.NewOrchestrator(studio.NewImageGenerator(setupResult.Config), cfg.ImageCount)
			outcome := orchestrator.Run(ctx, songTitle, artStyle, cfg.ImageCount)

			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(outcome); err != nil {
				return fmt.Errorf("failed to encode outcome: %w", err)
			}

			if outcome.Failed() {
				return fmt.Errorf("generation failed: %s", outcome.Message)
			}
			return nil
		},
	}
}

func newStylesCommand() *ffcli.Command {
	cmd := "styles"
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	_ = fs.String("config", "", "config file (optional)")

	var catalogFile string
	fs.StringVar(&catalogFile, setup.FlagStyleCatalogFile, "", "yaml file or url replacing the built-in art styles (optional)")

	return &ffcli.Command{
		Name:       cmd,
		ShortUsage: fmt.Sprintf("songslide %s [flags]", cmd),
		ShortHelp:  "list art styles",
		Options:    ffOptions(),
		FlagSet:    fs,
		Exec: func(ctx context.Context, args []string) error {
			catalog, err := style.LoadCatalog(ctx, catalogFile)
			if err != nil {
				return fmt.Errorf("failed to load style catalog: %w", err)
			}

			for _, s := range catalog.Styles() {
				fmt.Printf("%s\t%s\t%s\n", s.ID, s.Name, s.PromptSuffix)
			}
			return nil
		},
	}
}
