package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kase1111-hash/speccheck/internal/server"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve exposes claim checking over HTTP:
  GET  /healthz         liveness probe
  POST /api/v1/parse    extract claims from text
  POST /api/v1/verify   check a claim against components
  POST /api/v1/share    render a verdict as shareable text

Example:
  speccheck serve --addr :8080
  SPECCHECK_CACHE_BACKEND=redis SPECCHECK_CACHE_REDIS_URL=redis://localhost:6379/0 speccheck serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default from config)")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))

	addAnalysisFlags(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyFlags(cfg)

	a, cleanup, err := newAnalyzer(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	fmt.Fprintf(os.Stderr, "⚙️  SpecCheck API listening on %s\n", cfg.Server.Addr)

	if err := server.New(cfg.Server, a, logger).Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
