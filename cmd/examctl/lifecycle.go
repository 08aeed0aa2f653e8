package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stemsi/codetest-backend/internal/config"
	"github.com/stemsi/codetest-backend/internal/service"
	"github.com/urfave/cli/v3"
)

type lifecycleAction func(*service.LifecycleService, context.Context, string) error

func lifecycleCommand(name, usage string, cfg *config.Config, log zerolog.Logger, action lifecycleAction) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "<test-id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			testID := cmd.Args().First()
			if testID == "" {
				return fmt.Errorf("%s requires a test id", name)
			}

			st, err := openStores(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer st.Close()

			catalog := service.NewCatalogService(st.tests, st.rdb, cfg.TestCacheTTL, log)
			if err := action(service.NewLifecycleService(st.tests, catalog, log), ctx, testID); err != nil {
				return fmt.Errorf("%s %s: %w", name, testID, err)
			}
			fmt.Printf("%s %s\n", color.GreenString(name), testID)
			return nil
		},
	}
}
