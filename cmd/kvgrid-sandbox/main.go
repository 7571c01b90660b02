package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgraph-io/badger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	kvgrid "github.com/kvgrid/kvgrid-go"
	"github.com/kvgrid/kvgrid-go/internal/controller/http_controller"
	"github.com/kvgrid/kvgrid-go/internal/repository/local_entries"
	"github.com/kvgrid/kvgrid-go/internal/repository/local_entries/badger_local_entries"
	"github.com/kvgrid/kvgrid-go/internal/repository/local_entries/inmemory_local_entries"
)

var logger = zerolog.New(zerolog.ConsoleWriter{
	Out:        os.Stdout,
	TimeFormat: time.RFC3339,
}).With().
	Timestamp().
	Str("scope", "kvgrid_sandbox").
	Logger()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Fatal().Err(err).Send()
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "kvgrid-sandbox",
		Short: "Local KVGrid playground: run a wire-compatible server or poke a namespace from the shell",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newGetCmd(),
		newSetCmd(),
		newDeleteCmd(),
		newListCmd(),
	)

	return rootCmd
}

func newServeCmd() *cobra.Command {
	var (
		addr  string
		token string
		dir   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local server speaking the KVGrid wire protocol",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var repo local_entries.Repository
			if dir != "" {
				db, err := badger.Open(badger.DefaultOptions(dir))
				if err != nil {
					return fmt.Errorf("opening badger db: %w", err)
				}
				defer func() { _ = db.Close() }()
				repo = badger_local_entries.New(db)
			} else {
				repo = inmemory_local_entries.New()
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			ctrl := http_controller.New(
				addr,
				token,
				repo,
				logger.With().Str("subscope", "http_controller").Logger(),
			)

			logger.Info().Str("addr", addr).Msg("serving")
			return ctrl.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "0.0.0.0:7070", "listen address")
	cmd.Flags().StringVar(&token, "token", "", "bearer token required from clients (empty disables auth)")
	cmd.Flags().StringVar(&dir, "dir", "", "badger data dir (empty keeps data in memory)")

	return cmd
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Read a value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, _, err := kvgrid.NewFromEnv(kvgrid.WithLogger(logger))
			if err != nil {
				return err
			}
			defer func() { _ = cl.Close() }()

			v, err := cl.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Write a value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, _, err := kvgrid.NewFromEnv(kvgrid.WithLogger(logger))
			if err != nil {
				return err
			}
			defer func() { _ = cl.Close() }()

			return cl.Set(cmd.Context(), args[0], args[1])
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Short: "Remove a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, _, err := kvgrid.NewFromEnv(kvgrid.WithLogger(logger))
			if err != nil {
				return err
			}
			defer func() { _ = cl.Close() }()

			return cl.Delete(cmd.Context(), args[0])
		},
	}
}

func newListCmd() *cobra.Command {
	var prefix string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List key names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cl, _, err := kvgrid.NewFromEnv(kvgrid.WithLogger(logger))
			if err != nil {
				return err
			}
			defer func() { _ = cl.Close() }()

			keys, err := cl.List(cmd.Context(), prefix)
			if err != nil {
				return err
			}
			for _, k := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "", "only list keys with this prefix")

	return cmd
}
