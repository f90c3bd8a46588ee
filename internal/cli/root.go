// Package cli implements destctl, the command line front end.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wanderlust-labs/destination-portal/internal/apiclient"
	"github.com/wanderlust-labs/destination-portal/internal/auth"
	"github.com/wanderlust-labs/destination-portal/internal/config"
	"github.com/wanderlust-labs/destination-portal/internal/events"
	"github.com/wanderlust-labs/destination-portal/internal/observability"
	"github.com/wanderlust-labs/destination-portal/internal/repository"
	"github.com/wanderlust-labs/destination-portal/internal/service"
)

// runtime is what every subcommand works with once flags are parsed.
type runtime struct {
	logger       *zap.Logger
	provider     *auth.Provider
	auth         *service.AuthService
	destinations *service.DestinationService
	jsonOutput   bool
}

// ctx carries the provider so the API client can find the token.
func (r *runtime) ctx(cmd *cobra.Command) context.Context {
	return auth.WithProvider(cmd.Context(), r.provider)
}

type rootFlags struct {
	api         string
	credentials string
	logLevel    string
	json        bool
}

// NewRootCmd creates the root cobra command for destctl.
func NewRootCmd() *cobra.Command {
	var (
		flags rootFlags
		rt    = &runtime{}
	)

	root := &cobra.Command{
		Use:   "destctl",
		Short: "Browse and manage travel destinations",
		Long:  "destctl logs in to the destination service and lists, searches and edits destinations.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.init(cmd, flags)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.api, "api", "", "destination service base URL (or API_BASE_URL env)")
	root.PersistentFlags().StringVar(&flags.credentials, "credentials", "", "token file (or DESTCTL_CREDENTIALS env)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&flags.json, "json", false, "print JSON instead of tables")

	root.AddCommand(
		newLoginCmd(rt),
		newRegisterCmd(rt),
		newLogoutCmd(rt),
		newWhoamiCmd(rt),
		newListCmd(rt),
		newTopCmd(rt),
		newSearchCmd(rt),
		newShowCmd(rt),
		newAddCmd(rt),
		newUpdateCmd(rt),
		newDeleteCmd(rt),
	)

	return root
}

func (r *runtime) init(cmd *cobra.Command, flags rootFlags) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if flags.api != "" {
		cfg.API.BaseURL = flags.api
	}
	if flags.credentials != "" {
		cfg.CLI.CredentialsPath = flags.credentials
	}
	logCfg := config.LoggerConfig{Level: "warn", Output: "stderr", Format: "console"}
	if flags.logLevel != "" {
		logCfg.Level = flags.logLevel
	}

	logger, err := observability.NewLogger(logCfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	dispatcher := events.NewInMemoryDispatcher()
	auth.SubscribeRevocations(dispatcher)

	store := auth.NewFileStore(cfg.CLI.CredentialsPath)
	provider := auth.NewProvider(store,
		auth.WithEvents(dispatcher),
		auth.WithLogger(logger),
		auth.WithSessionKey(store.Path()),
	)
	provider.Init(cmd.Context())

	client := apiclient.New(cfg.API.BaseURL, cfg.API.Timeout(),
		apiclient.WithEvents(dispatcher),
		apiclient.WithLogger(logger),
	)

	r.logger = logger
	r.provider = provider
	r.auth = service.NewAuthService(repository.NewAuthRepository(client), logger)
	r.destinations = service.NewDestinationService(repository.NewDestinationRepository(client))
	r.jsonOutput = flags.json
	return nil
}
