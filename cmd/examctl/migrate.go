package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/stemsi/codetest-backend/internal/config"
	"github.com/urfave/cli/v3"
)

func migrateCommand(cfg *config.Config) *cli.Command {
	open := func(cmd *cli.Command) (*migrate.Migrate, error) {
		m, err := migrate.New("file://"+cmd.String("path"), cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("migration failed to initialize: %w", err)
		}
		return m, nil
	}

	run := func(name string, fn func(*migrate.Migrate) error) func(context.Context, *cli.Command) error {
		return func(ctx context.Context, cmd *cli.Command) error {
			m, err := open(cmd)
			if err != nil {
				return err
			}
			defer m.Close()
			if err := fn(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return fmt.Errorf("%s failed: %w", name, err)
			}
			fmt.Printf("Migrated %s successfully\n", name)
			return nil
		}
	}

	return &cli.Command{
		Name:  "migrate",
		Usage: "apply PostgreSQL schema migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Value: "migrations", Usage: "path to migration files"},
		},
		Commands: []*cli.Command{
			{Name: "up", Usage: "apply all pending migrations", Action: run("up", (*migrate.Migrate).Up)},
			{Name: "down", Usage: "roll back every migration", Action: run("down", (*migrate.Migrate).Down)},
			{
				Name:  "version",
				Usage: "print the current schema version",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					m, err := open(cmd)
					if err != nil {
						return err
					}
					defer m.Close()
					version, dirty, err := m.Version()
					if err != nil {
						return fmt.Errorf("version failed: %w", err)
					}
					fmt.Printf("Version: %d, Dirty: %t\n", version, dirty)
					return nil
				},
			},
			{
				Name:      "force",
				Usage:     "set the schema version without running migrations",
				ArgsUsage: "<version>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					v, err := strconv.Atoi(cmd.Args().First())
					if err != nil {
						return fmt.Errorf("invalid version: %w", err)
					}
					m, err := open(cmd)
					if err != nil {
						return err
					}
					defer m.Close()
					if err := m.Force(v); err != nil {
						return fmt.Errorf("force failed: %w", err)
					}
					fmt.Printf("Forced version to %d\n", v)
					return nil
				},
			},
		},
	}
}
