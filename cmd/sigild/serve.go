package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/mkrale/sigil"
	"github.com/mkrale/sigil/web"
)

var (
	flagAddr  string
	flagViews string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve views from a directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := web.LoadConfig(".")
		if err != nil {
			return err
		}
		if flagAddr != "" {
			cfg.Addr = flagAddr
		}
		if flagViews != "" {
			cfg.Views = flagViews
		}

		if _, err := os.Stat(cfg.Views); err != nil {
			return fmt.Errorf("error opening views directory '%s': %w", cfg.Views, err)
		}

		engine, err := sigil.New(os.DirFS(cfg.Views))
		if err != nil {
			return err
		}

		server := web.NewServer(engine, web.NewStore([]byte(cfg.SessionSecret)))

		log.Printf("serving views from %s on %s", cfg.Views, cfg.Addr)
		return http.ListenAndServe(cfg.Addr, server)
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (overrides config)")
	serveCmd.Flags().StringVar(&flagViews, "views", "", "views directory (overrides config)")
}
