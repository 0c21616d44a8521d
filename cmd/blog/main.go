package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v10"
	"github.com/spf13/cobra"

	"github.com/skinx/blog-api/cmd/blog/ui"
	"github.com/skinx/blog-api/internal/client"
)

// cliConfig is read from the environment; flags take precedence.
type cliConfig struct {
	APIBase   string `env:"BLOG_API_BASE" envDefault:"http://localhost:4000"`
	TokenFile string `env:"BLOG_TOKEN_FILE"`
}

type app struct {
	api *client.Client
}

func main() {
	var cfg cliConfig
	if err := env.Parse(&cfg); err != nil {
		ui.PrintError(os.Stderr, err.Error())
		os.Exit(1)
	}

	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "blog",
		Short:         "Command line client for the blog API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cfg)
		},
	}
	rootCmd.PersistentFlags().StringVar(&cfg.APIBase, "api", cfg.APIBase, "API base URL (BLOG_API_BASE)")
	rootCmd.PersistentFlags().StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "Where the session token is stored (BLOG_TOKEN_FILE)")

	rootCmd.AddCommand(
		a.registerCmd(),
		a.loginCmd(),
		a.logoutCmd(),
		a.meCmd(),
		a.postsCmd(),
		a.watchCmd(),
		a.healthCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		reportError(err)
		stop()
		os.Exit(1)
	}
}

func (a *app) init(cfg cliConfig) error {
	path := cfg.TokenFile
	if path == "" {
		var err error
		path, err = client.DefaultTokenPath()
		if err != nil {
			return fmt.Errorf("locate token file: %w", err)
		}
	}

	a.api = client.New(cfg.APIBase, client.NewFileTokenStore(path))
	return nil
}

// reportError prints err and, for rejected sessions, how to recover.
func reportError(err error) {
	ui.PrintError(os.Stderr, err.Error())

	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		ui.PrintHint(os.Stderr, "Run `blog login` to start a new session.")
	}
}

func (a *app) healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check API and database health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.api.Health(cmd.Context())
			if err != nil {
				return err
			}
			ui.PrintHealth(cmd.OutOrStdout(), h)
			if !h.OK {
				return errors.New("service unavailable")
			}
			return nil
		},
	}
}
