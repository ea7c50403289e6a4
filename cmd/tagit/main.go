// Copyright 2025 Poiesic Systems
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
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/poiesic/tagit"
	"github.com/poiesic/tagit/batch"
	"github.com/poiesic/tagit/core"
	"github.com/poiesic/tagit/detect"
	"github.com/poiesic/tagit/session"
	"github.com/poiesic/tagit/storage"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "tagit",
		Usage: "Extract property-search criteria from free text",
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
				Usage:   "YAML file overriding detector confidences and vocabulary",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "detect",
				Usage:     "Print the tags detected in TEXT as JSON",
				ArgsUsage: "TEXT...",
				Action:    detectCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "trace",
						Usage: "Print each detection stage to stderr",
					},
				},
			},
			{
				Name:   "chat",
				Usage:  "Read messages from stdin and accumulate their tags in a session",
				Action: chatCommand,
				Flags:  []cli.Flag{dbFlag(false), sessionFlag()},
			},
			{
				Name:   "batch",
				Usage:  "Detect tags for every line of a file, printing JSON lines",
				Action: batchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "Input file, one message per line (- for stdin)",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent workers",
						Value: max(runtime.NumCPU()/2, 1),
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N lines (0 disables)",
						Value: batch.DefaultChunkSize,
					},
					dbFlag(false),
					&cli.BoolFlag{
						Name:  "resume",
						Usage: "Skip lines processed by a previous run (requires --db)",
					},
				},
			},
			{
				Name:   "query",
				Usage:  "Print the search parameters of a stored session",
				Action: queryCommand,
				Flags:  []cli.Flag{dbFlag(true), sessionFlag()},
			},
			{
				Name:   "sessions",
				Usage:  "List stored sessions",
				Action: sessionsCommand,
				Flags:  []cli.Flag{dbFlag(true)},
			},
		},
	}
}

func dbFlag(required bool) *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db",
		Aliases:  []string{"d"},
		Usage:    "Path to BadgerDB database directory",
		Required: required,
	}
}

func sessionFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "session",
		Aliases: []string{"s"},
		Usage:   "Session name",
		Value:   "default",
	}
}

func detectCommand(c *cli.Context) error {
	text := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(text) == "" {
		return errors.New("text to analyse is required")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	d, err := detect.New(detect.WithConfig(cfg), detect.WithLogger(slog.Default()))
	if err != nil {
		return err
	}

	var monitor detect.Monitor
	if c.Bool("trace") {
		monitor = &traceMonitor{w: c.App.ErrWriter}
	}
	return writeJSON(c.App.Writer, tagViews(d.DetectWithMonitor(text, monitor)))
}

func chatCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := c.Context
	name := c.String("session")
	collection, err := db.OpenSession(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}

	out := c.App.Writer
	scanner := bufio.NewScanner(c.App.Reader)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			if err := chatDirective(out, collection, line); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
			continue
		}
		for _, tag := range collection.Merge(db.Detector().Detect(line)...) {
			fmt.Fprintf(out, "+ %s\n", describeTag(tag))
		}
		fmt.Fprintf(out, "criteria complete: %t\n", collection.HasMinimumCriteria())
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	if c.String("db") == "" {
		return nil
	}
	saved, err := db.SaveSession(ctx, name, collection)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	slog.Info("saved session", "name", saved.Name, "tags", len(saved.Tags))
	return nil
}

// chatDirective applies a slash command to the collection.
func chatDirective(out io.Writer, collection *session.Collection, line string) error {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/tags":
		for _, tag := range collection.Tags() {
			fmt.Fprintln(out, describeTag(tag))
		}
	case "/search":
		return writeJSON(out, collection.SearchParams())
	case "/clear":
		collection.Clear()
	case "/toggle":
		if len(fields) != 2 {
			return errors.New("usage: /toggle ID")
		}
		tag, err := collection.Toggle(fields[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "~ %s\n", describeTag(tag))
	case "/remove":
		if len(fields) != 2 {
			return errors.New("usage: /remove ID")
		}
		if err := collection.Remove(fields[1]); err != nil {
			return err
		}
		fmt.Fprintf(out, "- %s\n", fields[1])
	case "/set":
		if len(fields) < 3 {
			return errors.New("usage: /set ID VALUE")
		}
		label := strings.Join(fields[2:], " ")
		tag, err := collection.Update(fields[1], parseValue(label), label)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "~ %s\n", describeTag(tag))
	default:
		return fmt.Errorf("unknown command %s", fields[0])
	}
	return nil
}

func batchCommand(c *cli.Context) error {
	input := c.String("input")
	lines, err := readLines(c.App.Reader, input)
	if err != nil {
		return err
	}

	if c.Bool("resume") && c.String("db") == "" {
		return errors.New("--resume requires --db")
	}
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	checkpoint := ""
	if c.Bool("resume") && input != "-" {
		if checkpoint, err = filepath.Abs(input); err != nil {
			return err
		}
	}

	opts := []batch.Option{batch.WithWorkers(c.Int("workers"))}
	if interval := c.Int("report-interval"); interval > 0 {
		opts = append(opts, batch.WithProgress(c.App.ErrWriter, interval), batch.WithChunkSize(interval))
	}
	runner, err := db.NewBatchRunner(checkpoint, opts...)
	if err != nil {
		return err
	}
	defer runner.Release()

	results, runErr := runner.Run(c.Context, lines)
	enc := json.NewEncoder(c.App.Writer)
	for _, res := range results {
		if err := enc.Encode(resultView{Line: res.Line, Text: res.Text, Tags: tagViews(res.Tags)}); err != nil {
			return err
		}
	}
	return runErr
}

func queryCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	name := c.String("session")
	stored, err := db.SessionRepository().FindSessionByName(c.Context, name)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("no session named %q", name)
	}
	if err != nil {
		return fmt.Errorf("failed to load session %q: %w", name, err)
	}
	collection := session.FromSession(*stored)
	return writeJSON(c.App.Writer, queryView{
		Complete: collection.HasMinimumCriteria(),
		Params:   collection.SearchParams(),
	})
}

func sessionsCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	sessions, err := db.SessionRepository().ListSessions(c.Context)
	if err != nil {
		return err
	}
	for _, s := range sessions {
		fmt.Fprintf(c.App.Writer, "%s\t%d tags\tupdated %s\n",
			s.Name, len(s.Tags), s.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func loadConfig(c *cli.Context) (*detect.Config, error) {
	path := c.String("config")
	if path == "" {
		return detect.DefaultConfig(), nil
	}
	return detect.LoadConfig(path)
}

// openDatabase opens the --db directory, or an in-memory database when unset.
func openDatabase(c *cli.Context) (*tagit.Database, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	opts := []tagit.DatabaseOption{
		tagit.WithDetectorConfig(cfg),
		tagit.WithLogger(slog.Default()),
	}
	path := c.String("db")
	if path == "" {
		opts = append(opts, tagit.WithInMemory())
	}
	db, err := tagit.NewDatabase(path, opts...)
	if err != nil {
		if errors.Is(err, detect.ErrInvalidConfig) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func readLines(stdin io.Reader, path string) ([]string, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

// parseValue reads a number when s is one, text otherwise.
func parseValue(s string) core.Value {
	if n, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64); err == nil {
		return core.NumberValue(n)
	}
	return core.TextValue(s)
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
