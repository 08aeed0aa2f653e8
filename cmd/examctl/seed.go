package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"github.com/stemsi/codetest-backend/internal/config"
	"github.com/stemsi/codetest-backend/internal/model"
	"github.com/stemsi/codetest-backend/internal/validator"
	"github.com/urfave/cli/v3"
)

func seedCommand(cfg *config.Config, log zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:      "seed",
		Usage:     "create a test and its questions from a TOML file",
		ArgsUsage: "<file.toml>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "dry-run", Usage: "validate the file without writing"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return fmt.Errorf("seed requires a TOML file")
			}
			req, err := loadSeed(path)
			if err != nil {
				return err
			}
			test, questions := buildTest(req)

			if cmd.Bool("dry-run") {
				fmt.Printf("%s %q with %d questions\n", color.CyanString("valid"), test.Name, len(questions))
				return nil
			}

			st, err := openStores(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.tests.Create(ctx, test, questions); err != nil {
				return fmt.Errorf("create test: %w", err)
			}
			fmt.Printf("%s test %q (%s) with %d questions\n",
				color.GreenString("created"), test.Name, test.ID, len(questions))
			return nil
		},
	}
}

// loadSeed reads and validates a test definition file.
func loadSeed(path string) (*model.SeedTestRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var req model.SeedTestRequest
	if err := toml.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}
	if fields := validator.Struct(&req); fields != nil {
		return nil, fmt.Errorf("invalid seed file: %s", formatFields(fields))
	}
	return &req, nil
}

// buildTest assigns ids to the test and to any question that lacks one.
func buildTest(req *model.SeedTestRequest) (*model.Test, []model.Question) {
	questions := make([]model.Question, len(req.Questions))
	ids := make([]string, len(req.Questions))
	for i, q := range req.Questions {
		if strings.TrimSpace(q.ID) == "" {
			q.ID = uuid.NewString()
		}
		questions[i] = q
		ids[i] = q.ID
	}
	return &model.Test{
		ID:              uuid.NewString(),
		Name:            strings.TrimSpace(req.Name),
		DurationMinutes: req.DurationMinutes,
		QuestionIDs:     ids,
	}, questions
}

func formatFields(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + fields[k]
	}
	return strings.Join(parts, "; ")
}
