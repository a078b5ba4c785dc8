// Command admin is the operator CLI: schema migrations and account management.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/process-desk/internal/config"
	"github.com/spec-kit/process-desk/internal/observability"
	"github.com/spec-kit/process-desk/internal/persistence"
	"github.com/spec-kit/process-desk/internal/repository"
	"github.com/spec-kit/process-desk/internal/service"
)

// adminEnv holds what subcommands share. It is filled by the root command's
// PersistentPreRunE.
type adminEnv struct {
	cfg     *config.Config
	logger  *zap.Logger
	gateway *persistence.Gateway
	auth    *service.AuthService
}

func main() {
	if err := newRootCmd(&adminEnv{}).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(rt *adminEnv) *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Operator tasks for process-desk",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.open(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			rt.close()
			return nil
		},
	}
	root.AddCommand(newMigrateCmd(rt), newUserCmd(rt))
	return root
}

func (rt *adminEnv) open(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	gateway, err := persistence.NewGateway(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	if !gateway.Configured() {
		return errors.New(persistence.ErrNotConfiguredMessage)
	}

	rt.cfg = cfg
	rt.logger = logger
	rt.gateway = gateway
	rt.auth = service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo: repository.NewUserRepository(gateway),
		Logger:   logger,
	})
	return nil
}

func (rt *adminEnv) close() {
	if rt.gateway != nil {
		rt.gateway.Close()
	}
	if rt.logger != nil {
		_ = rt.logger.Sync()
	}
}
