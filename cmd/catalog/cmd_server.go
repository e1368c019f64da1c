package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/catalogapi/config"
	"github.com/shashiranjanraj/catalogapi/database/seeders"
	"github.com/shashiranjanraj/catalogapi/internal/kernel"
	"github.com/shashiranjanraj/catalogapi/internal/server"
	"github.com/shashiranjanraj/catalogapi/pkg/auth"
	"github.com/shashiranjanraj/catalogapi/pkg/cache"
	"github.com/shashiranjanraj/catalogapi/pkg/migration"
)

var (
	serveMigrate bool
	serveSeed    bool
)

// catalog serve
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run"},
	Short:   "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		k, err := kernel.Boot(ctx)
		if err != nil {
			return err
		}
		defer k.Close() //nolint:errcheck

		if serveMigrate {
			if err := migration.New(k.DB, cmd.OutOrStdout()).Run(); err != nil {
				return err
			}
		}
		if serveSeed {
			if err := seeders.RunAll(ctx, k.DB, cmd.OutOrStdout()); err != nil {
				return err
			}
		}

		return server.Start(ctx, ":"+config.AppPort(), k.Handler())
	},
}

// catalog route:list
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Routes are registered without touching the database.
		k, err := kernel.New(nil, cache.NewMemory(), auth.NewIssuer("", time.Minute), kernel.OptionsFromEnv())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range k.Router.Routes() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "run pending migrations before serving")
	serveCmd.Flags().BoolVar(&serveSeed, "seed", false, "load the sample data before serving")
}
