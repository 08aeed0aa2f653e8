package main

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/stemsi/codetest-backend/internal/config"
	"github.com/stemsi/codetest-backend/internal/model"
	"github.com/stemsi/codetest-backend/internal/service"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

func tokenCommand(cfg *config.Config) *cli.Command {
	flags := func() []cli.Flag {
		return []cli.Flag{
			&cli.StringFlag{Name: "secret", Usage: "signing secret, prompted for when unset", Sources: cli.EnvVars("JWT_SECRET")},
			&cli.DurationFlag{Name: "expiry", Usage: "token lifetime", Value: cfg.JWTExpiry},
		}
	}

	return &cli.Command{
		Name:  "token",
		Usage: "mint a signed token",
		Commands: []*cli.Command{
			{
				Name:      "candidate",
				Usage:     "token for a candidate email",
				ArgsUsage: "<email>",
				Flags:     flags(),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					email := cmd.Args().First()
					if email == "" {
						return fmt.Errorf("candidate token requires an email")
					}
					auth, err := authFromFlags(cmd)
					if err != nil {
						return err
					}
					token, err := auth.GenerateCandidateToken(email)
					if err != nil {
						return err
					}
					fmt.Println(token)
					return nil
				},
			},
			{
				Name:      "admin",
				Usage:     "token for an operator with permissions",
				ArgsUsage: "<subject>",
				Flags: append(flags(), &cli.StringSliceFlag{
					Name:  "permission",
					Usage: "permission to grant, repeatable; defaults to all",
				}),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					subject := cmd.Args().First()
					if subject == "" {
						return fmt.Errorf("admin token requires a subject")
					}
					perms, err := parsePermissions(cmd.StringSlice("permission"))
					if err != nil {
						return err
					}
					auth, err := authFromFlags(cmd)
					if err != nil {
						return err
					}
					token, err := auth.GenerateAdminToken(subject, perms)
					if err != nil {
						return err
					}
					fmt.Println(token)
					return nil
				},
			},
		},
	}
}

func authFromFlags(cmd *cli.Command) (*service.AuthService, error) {
	secret := cmd.String("secret")
	if secret == "" {
		fmt.Fprint(os.Stderr, "JWT secret: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, fmt.Errorf("read secret: %w", err)
		}
		secret = string(raw)
	}
	if secret == "" {
		return nil, fmt.Errorf("a signing secret is required")
	}
	return service.NewAuthService(secret, cmd.Duration("expiry")), nil
}

// parsePermissions checks requested permissions against the known set.
func parsePermissions(requested []string) ([]string, error) {
	known := model.PermissionStrings()
	if len(requested) == 0 {
		return known, nil
	}
	for _, p := range requested {
		if !slices.Contains(known, p) {
			return nil, fmt.Errorf("unknown permission %q", p)
		}
	}
	return requested, nil
}
