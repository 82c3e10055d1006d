package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	sqlstream "github.com/relvid/sqlstream"
	logAdapter "github.com/relvid/sqlstream/internal/adapters/log"
	"github.com/relvid/sqlstream/internal/cliconfig"
	"github.com/relvid/sqlstream/internal/ports"
	"github.com/relvid/sqlstream/internal/watch"
)

const helpBanner = `
 ███████  ██████  ██      ███████ ████████ ██████  ███████  █████  ███    ███
 ██      ██    ██ ██      ██         ██    ██   ██ ██      ██   ██ ████  ████
 ███████ ██    ██ ██      ███████    ██    ██████  █████   ███████ ██ ████ ██
      ██ ██ ▄▄ ██ ██           ██    ██    ██   ██ ██      ██   ██ ██  ██  ██
 ███████  ██████  ███████ ███████    ██    ██   ██ ███████ ██   ██ ██      ██
             ▀▀
`

const helpDescription = `
Play video in your terminal, straight out of a SQL database.

Every frame is pre-rendered into text lines and stored row-by-row in a
SQLite frame library; playback is a paced loop of bulk UPDATEs into a
display table that the terminal renderer reads back. Snapshots made with
--out are self-contained .db files replayable with --play-db.
`

var longHelp = strings.TrimSpace(helpBanner) + "\n\n" + strings.TrimSpace(helpDescription)

var exampleUsage = strings.TrimSpace(`
  sqlstream --source clip.mp4 --color
  sqlstream --source https://youtu.be/dQw4w9WgXcQ --duration 30s --out rick.db
  sqlstream --play-db rick.db --fps 24
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	log := cliconfig.Logger()

	root := &cobra.Command{
		Use:     "sqlstream",
		Short:   "Play video in your terminal, straight out of a SQL database",
		Long:    longHelp,
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load config file first (default $HOME/.sqlstream/config.toml),
			// then env, then flag overrides.
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			log.Info().Interface("config", cfg).Msg("configuration")

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger := logAdapter.NewZerologAdapterWithLogger(log)

			// Playback from an existing snapshot.
			if cfg.PlayDB != "" {
				st, err := sqlstream.Load(ctx, cfg.PlayDB)
				if err != nil {
					return err
				}
				defer st.Close()
				log.Info().
					Str("store_id", st.ID()).
					Int("frames", st.FrameCount()).
					Int("lines", st.LineCount()).
					Msg("store loaded")
				return play(ctx, st, cfg, cfgFile, logger)
			}

			// Ingest, optionally persist, optionally play.
			st, err := sqlstream.Open("", cfg.ColorMode())
			if err != nil {
				return err
			}
			defer st.Close()

			n, err := sqlstream.Ingest(ctx, cfg, st, sqlstream.WithLogger(logger))
			if err != nil {
				if errors.Is(err, context.Canceled) {
					log.Info().Msg("ingestion interrupted")
					return nil
				}
				return err
			}
			if n == 0 {
				return fmt.Errorf("source %s yielded no frames", cfg.Source)
			}

			if cfg.Out != "" {
				if err := st.Persist(ctx, cfg.Out); err != nil {
					return err
				}
				log.Info().Str("path", cfg.Out).Int("frames", n).Msg("store persisted")
			}

			if cfg.NoPlay {
				return nil
			}
			return play(ctx, st, cfg, cfgFile, logger)
		},
	}

	// Flags
	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.sqlstream/config.toml)")
	root.Flags().StringVar(&cfg.Source, "source", cfg.Source, "path to video file or remote URL")
	root.Flags().StringVar(&cfg.PlayDB, "play-db", cfg.PlayDB, "path to existing .db snapshot for playback")
	root.Flags().StringVar(&cfg.Out, "out", cfg.Out, "optional output path for the database snapshot")
	root.Flags().BoolVar(&cfg.NoPlay, "no-play", cfg.NoPlay, "ingest and persist only, skip playback")

	root.Flags().DurationVar(&cfg.Duration, "duration", cfg.Duration, "max video length to ingest")
	root.Flags().IntVar(&cfg.FPS, "fps", cfg.FPS, "target playback frame rate")
	root.Flags().BoolVar(&cfg.Color, "color", cfg.Color, "use ANSI TrueColor formatting")
	root.Flags().StringVar(&cfg.Charset, "charset", cfg.Charset, "grayscale density ramp, darkest first")

	root.Flags().IntVar(&cfg.Width, "width", cfg.Width, "output width in cells (default: terminal width)")
	root.Flags().IntVar(&cfg.Height, "height", cfg.Height, "output height in cells (default: terminal height)")
	root.MarkFlagsMutuallyExclusive("source", "play-db")

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("sqlstream")
		os.Exit(1)
	}
}

// play runs one session, with live fps overrides from the config file when
// one exists.
func play(ctx context.Context, st *sqlstream.Store, cfg cliconfig.Config, cfgFile string, logger sqlstream.Logger) error {
	opts := []sqlstream.Option{sqlstream.WithLogger(logger)}

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		w := watch.New(cfgFile, logger)
		if err := w.Start(ctx); err != nil {
			logger.Warn("config watcher unavailable", ports.Err(err))
		} else {
			defer w.Stop()
			opts = append(opts, sqlstream.WithFPSUpdates(w.Updates()))
		}
	}

	err := sqlstream.Play(ctx, st, cfg.FPS, opts...)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
