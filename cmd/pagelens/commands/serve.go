package commands

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/pagelens/internal/config"
	"github.com/jmylchreest/pagelens/internal/logger"
	"github.com/jmylchreest/pagelens/internal/server"
	"github.com/jmylchreest/pagelens/internal/version"
	"github.com/jmylchreest/pagelens/pkg/pagelens"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local HTTP API",
	Long: `Serve the summarize, answer and categorize endpoints used by the
browser extension. The API only listens on loopback addresses.

Examples:
  pagelens serve
  pagelens serve --port 8080
  PAGELENS_SERVER_CORS_ORIGINS=chrome-extension://abc pagelens serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	flags := serveCmd.Flags()
	flags.String("host", config.DefaultHost, "listen address (must be loopback)")
	flags.Int("port", config.DefaultPort, "listen port")
	flags.String("max-body-size", config.DefaultMaxBodySize, "largest accepted request body (e.g. 5MB)")

	_ = viper.BindPFlag("server.host", flags.Lookup("host"))
	_ = viper.BindPFlag("server.port", flags.Lookup("port"))
	_ = viper.BindPFlag("server.max_body_size", flags.Lookup("max-body-size"))
}

func runServe(cmd *cobra.Command, _ []string) error {
	initLogger()

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		return err
	}

	analyzer, err := pagelens.New(cfg.AnalyzerOptions()...)
	if err != nil {
		logger.Error("failed to create analyzer", "error", err)
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := server.New(cfg.Server, analyzer)
	logInfo("%s %s listening on http://%s", version.Name, version.String(), srv.Addr())
	return srv.Run(ctx)
}
