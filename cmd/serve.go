package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"regexp"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/cmdform/internal/bridge"
	"github.com/conneroisu/cmdform/internal/config"
	"github.com/conneroisu/cmdform/internal/logging"
	"github.com/conneroisu/cmdform/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the registered commands as web forms",
	Long: `Start the web server and expose each registered command as a form.

Examples:
  cmdform serve                   # Serve on the configured host/port
  cmdform serve -p 9000           # Serve on port 9000`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 8085, "Port to serve on")
	serveCmd.Flags().String("host", "localhost", "Host to bind to")
	serveCmd.Flags().String("skip", "", "Regexp of flag names to omit from forms")

	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	viper.BindPFlag("forms.skip_pattern", serveCmd.Flags().Lookup("skip"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})

	registry, err := buildRegistry(cfg, logger)
	if err != nil {
		return err
	}

	srv := server.New(cfg, registry, logger)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		if shutdownErr := srv.Shutdown(context.Background()); shutdownErr != nil {
			logger.Error(ctx, shutdownErr, "error during server shutdown")
		}
		cancel()
	}()

	fmt.Printf("Serving command forms at http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)
	return srv.Start(ctx)
}

// buildRegistry bridges the demo commands with the configured options.
func buildRegistry(cfg *config.Config, logger logging.Logger) (*server.Registry, error) {
	opts := []bridge.Option{
		bridge.WithLogger(logger),
		bridge.WithCSS(cfg.Forms.CSSPath),
	}
	if cfg.Forms.SkipPattern != "" {
		re, err := regexp.Compile(cfg.Forms.SkipPattern)
		if err != nil {
			return nil, fmt.Errorf("invalid skip pattern %q: %w", cfg.Forms.SkipPattern, err)
		}
		opts = append(opts, bridge.WithSkipPattern(re))
	}

	registry := server.NewRegistry()
	for _, demo := range demoCommands() {
		if err := registry.Register(demo, opts...); err != nil {
			return nil, fmt.Errorf("registering %s: %w", demo.Name(), err)
		}
	}
	return registry, nil
}
