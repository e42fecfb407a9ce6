// Copyright 2026 ForgeQA Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	caseforge "github.com/forgeqa/caseforge"
	"github.com/forgeqa/caseforge/ai"
	"github.com/forgeqa/caseforge/config"
	"github.com/forgeqa/caseforge/core"
	"github.com/forgeqa/caseforge/server"
)

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "caseforge",
		Usage: "Generate validated QA test cases from requirements documents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (defaults to ./config.yaml, then ~/.config/caseforge/config.yaml)",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API server",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Usage: "Listen address (overrides config)",
					},
				},
			},
			{
				Name:      "generate",
				Usage:     "Run the pipeline once and print the result as JSON",
				ArgsUsage: "<file-or-url>",
				Action:    generateCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "feature",
						Aliases:  []string{"f"},
						Usage:    "Feature selector ('all features' processes every feature)",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Requested number of test cases per feature (advisory)",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadConfig(c *cli.Context) (*config.AppConfig, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	cfg, path, err := config.LoadDefault()
	if err != nil {
		return nil, err
	}
	slog.Debug("config loaded", "path", path)
	return cfg, nil
}

func newEngine(cfg *config.AppConfig) (*caseforge.Engine, error) {
	aiConfig := ai.NewConfig(
		ai.WithProvider(cfg.AI.Provider),
		ai.WithOllamaHost(cfg.AI.OllamaHost),
		ai.WithOllamaModel(cfg.AI.OllamaModel),
		ai.WithEmbeddingModel(cfg.AI.EmbeddingModel),
		ai.WithGroqAPIKey(os.Getenv(cfg.AI.GroqAPIKeyEnv)),
		ai.WithGroqModel(cfg.AI.GroqModel),
	)

	return caseforge.NewEngine(cfg.Index.DBPath,
		caseforge.WithAIConfig(aiConfig),
		caseforge.WithCollection(cfg.Index.Collection),
	)
}

func serveCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}
	defer engine.Close()

	srv, err := server.New(engine, server.WithUploadsDir(cfg.Server.UploadsDir))
	if err != nil {
		return err
	}

	addr := cfg.Server.ListenAddr
	if listen := c.String("listen"); listen != "" {
		addr = listen
	}

	return srv.ListenAndServe(addr)
}

func generateCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one document path or URL argument")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}
	defer engine.Close()

	source := c.Args().First()
	req := &core.Request{
		FeatureSelector: c.String("feature"),
		TestCaseLimit:   c.Int("limit"),
	}
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req.URL = source
	} else {
		req.FilePath = source
	}

	result, err := engine.Run(c.Context, req)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
