package cli

import (
	"crypto/x509"
	"fmt"
	"io"
	"os"

	"github.com/fergoeqs/second-service/internal/adapter/search"
	"github.com/fergoeqs/second-service/internal/core/service"
	"github.com/fergoeqs/second-service/pkg/config"
	"github.com/fergoeqs/second-service/pkg/logging"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	envFile  string
	logLevel string
	cfg      *config.Config
	logger   = zerolog.Nop()
	logClose io.Closer
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "second-service",
	Short: "Second Service - organization directory gateway",
	Long: `Second Service is an HTTPS gateway in front of the organization search service.

It provides:
- Turnover range filtering over the organization directory
- Ordering requests forwarded to the search service unchanged
- Certificate pinning of the search service through a trust store
- Optional bearer token authentication for the gateway API`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for commands that don't need it
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		if envFile != "" {
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("failed to load env file %s: %w", envFile, err)
			}
		}

		// Load configuration
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}

		logger, logClose, err = logging.New(logging.Options{
			Level:   cfg.LogLevel,
			File:    cfg.LogFile,
			Console: cfg.IsDevMode(),
		})
		if err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		logging.SetDefault(logger)

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logClose != nil {
			return logClose.Close()
		}
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is "+config.DefaultConfigPath+")")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file loaded before the configuration")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")
	rootCmd.SetOut(os.Stdout)
}

// initServices builds the gateway from the loaded configuration
func initServices() (*Services, error) {
	// Without a trust store the system roots are used
	var rootCAs *x509.CertPool
	if cfg.Upstream.TrustStore != "" {
		trustStore, err := search.LoadTrustStore(cfg.Upstream.TrustStore, cfg.Upstream.TrustStorePassword)
		if err != nil {
			return nil, err
		}
		logger.Info().
			Str("path", cfg.Upstream.TrustStore).
			Int("certificates", len(trustStore.Certificates)).
			Msg("loaded trust store")
		rootCAs = trustStore.Pool
	}

	client, err := search.NewClient(search.Options{
		BaseURL: cfg.Upstream.BaseURL,
		Timeout: cfg.Upstream.Timeout,
		RootCAs: rootCAs,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create search client: %w", err)
	}

	var authService *service.AuthService
	if cfg.AuthEnabled() {
		authService = service.NewAuthService(cfg.JWTSecretKey, cfg.JWTAlgorithm)
	} else {
		logger.Warn().Msg("jwt_secret_key is not set, /orgdirectory is served without authentication")
	}

	return &Services{
		SearchClient:        client,
		OrgDirectoryService: service.NewOrgDirectoryService(client, logger),
		AuthService:         authService,
	}, nil
}

// Services holds all initialized services
type Services struct {
	SearchClient        *search.Client
	OrgDirectoryService *service.OrgDirectoryService
	AuthService         *service.AuthService
}
