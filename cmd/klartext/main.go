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
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	klartext "github.com/poiesic/klartext"
	"github.com/poiesic/klartext/ai"
	"github.com/poiesic/klartext/core"
	"github.com/poiesic/klartext/indexing"
	"github.com/poiesic/klartext/knowledge"
	"github.com/poiesic/klartext/search"
	"github.com/poiesic/klartext/storage"
	"github.com/poiesic/klartext/storage/badger"
)

func main() {
	app := &cli.App{
		Name:  "klartext",
		Usage: "Grounded retrieval assistant for communication psychology",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "OpenAI-compatible service host URL",
				Value: "http://localhost:11434/v1",
			},
			&cli.StringFlag{
				Name:  "embedding-model",
				Usage: "Embedding model name",
				Value: "embeddinggemma",
			},
			&cli.StringFlag{
				Name:  "chat-model",
				Usage: "Chat model name",
				Value: "qwen2.5:3b",
			},
			&cli.StringFlag{
				Name:  "artifact",
				Usage: "Path to the embedding artifact (enables semantic search)",
			},
			&cli.StringFlag{
				Name:  "strategy",
				Usage: "Retrieval strategy (keyword, fulltext, hybrid)",
				Value: "hybrid",
			},
			&cli.BoolFlag{
				Name:  "fulltext",
				Usage: "Enable the SQLite full-text strategy",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ask",
				Usage:     "Ask a single question grounded in the knowledge base",
				ArgsUsage: "<question>",
				Action:    askCommand,
			},
			{
				Name:   "chat",
				Usage:  "Interactive chat with session persistence",
				Action: chatCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "sessions",
						Aliases: []string{"s"},
						Usage:   "Path to the session database directory",
						Value:   defaultSessionsPath(),
					},
					&cli.Uint64Flag{
						Name:  "resume",
						Usage: "Session ID to resume",
					},
					&cli.StringFlag{
						Name:  "title",
						Usage: "Title for a new session",
						Value: "Unbenannte Sitzung",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search the knowledge base without generating an answer",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Number of results to return",
						Value:   3,
					},
					&cli.BoolFlag{
						Name:    "verbose",
						Aliases: []string{"v"},
						Usage:   "Print dispatcher stages",
					},
				},
			},
			{
				Name:   "index",
				Usage:  "Embed the knowledge corpus and write the artifact",
				Action: indexCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "out",
						Aliases:  []string{"o"},
						Usage:    "Output path for the embedding artifact",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Worker pool size for concurrent embedding",
					},
				},
			},
			{
				Name:  "sessions",
				Usage: "Manage stored chat sessions",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "sessions",
						Aliases: []string{"s"},
						Usage:   "Path to the session database directory",
						Value:   defaultSessionsPath(),
					},
				},
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List stored sessions, most recent first",
						Action: sessionsListCommand,
						Flags: []cli.Flag{
							&cli.IntFlag{
								Name:  "limit",
								Usage: "Maximum number of sessions to list",
								Value: 20,
							},
						},
					},
					{
						Name:      "show",
						Usage:     "Show a session's message history",
						ArgsUsage: "<session-id>",
						Action:    sessionsShowCommand,
					},
					{
						Name:      "delete",
						Usage:     "Delete a session",
						ArgsUsage: "<session-id>",
						Action:    sessionsDeleteCommand,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func defaultSessionsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".klartext/sessions"
	}
	return home + "/.klartext/sessions"
}

func engineOptions(c *cli.Context) []klartext.EngineOption {
	opts := []klartext.EngineOption{
		klartext.WithAIConfig(ai.NewConfig(
			ai.WithHost(c.String("host")),
			ai.WithEmbeddingModel(c.String("embedding-model")),
			ai.WithChatModel(c.String("chat-model")),
		)),
	}
	if artifact := c.String("artifact"); artifact != "" {
		opts = append(opts, klartext.WithArtifact(artifact))
	}
	if c.Bool("fulltext") {
		opts = append(opts, klartext.WithFullText(""))
	}
	if name := c.String("strategy"); name != "" {
		strategy, err := search.ParseStrategy(name)
		if err == nil {
			opts = append(opts, klartext.WithStrategy(strategy))
		}
	}
	return opts
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("question is required")
	}

	engine, err := klartext.NewEngine(engineOptions(c)...)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	defer engine.Close()

	answer := engine.ExecuteQuery(context.Background(), question, nil)
	fmt.Println(answer)
	return nil
}

func chatCommand(c *cli.Context) error {
	ctx := context.Background()

	opts := engineOptions(c)
	opts = append(opts, klartext.WithSessions(c.String("sessions")))
	engine, err := klartext.NewEngine(opts...)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	defer engine.Close()

	repo := engine.Sessions()

	var session *core.Session
	if resumeID := c.Uint64("resume"); resumeID != 0 {
		session, err = repo.GetSession(ctx, core.ID(resumeID))
		if err != nil {
			return fmt.Errorf("failed to resume session %d: %w", resumeID, err)
		}
		fmt.Fprintf(os.Stderr, "Sitzung fortgesetzt: %s (%d Nachrichten)\n", session.Title, len(session.Messages))
	} else {
		session, err = repo.SaveSession(ctx, &core.Session{Title: c.String("title")})
		if err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Neue Sitzung: %s (ID %d)\n", session.Title, session.Id)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(os.Stderr, "> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "/quit" || question == "/exit" {
			break
		}

		answer := engine.ExecuteQuery(ctx, question, session.Messages)
		fmt.Println(answer)

		session, err = repo.AppendMessages(ctx, session.Id,
			core.ChatMessage{Role: core.RoleUser, Content: question},
			core.ChatMessage{Role: core.RoleAssistant, Content: answer},
		)
		if err != nil {
			return fmt.Errorf("failed to persist turn: %w", err)
		}
	}
	return scanner.Err()
}

// printMonitor writes dispatcher stages to stderr for verbose search output.
type printMonitor struct{}

func (printMonitor) Start(query string) {
	fmt.Fprintf(os.Stderr, "query: %s\n", query)
}

func (printMonitor) AfterExpansion(query string) {
	fmt.Fprintf(os.Stderr, "expanded: %s\n", query)
}

func (printMonitor) StrategyAttempted(s search.Strategy) {
	fmt.Fprintf(os.Stderr, "strategy: %s\n", s)
}

func (printMonitor) StrategyFailed(s search.Strategy, err error) {
	fmt.Fprintf(os.Stderr, "strategy %s failed: %v\n", s, err)
}

func (printMonitor) Finish(results []*core.SearchResult) {
	fmt.Fprintf(os.Stderr, "results: %d\n", len(results))
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query is required")
	}

	engine, err := klartext.NewEngine(engineOptions(c)...)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	defer engine.Close()

	ctx := context.Background()
	topK := c.Int("top-k")

	var results []*core.SearchResult
	if c.Bool("verbose") {
		results = engine.SearchKnowledgeWithMonitor(ctx, query, topK, printMonitor{})
	} else {
		results = engine.SearchKnowledge(ctx, query, topK)
	}

	for i, result := range results {
		fmt.Printf("%d. [%s] %s (%.2f)\n", i+1, result.Chunk.Category, result.Chunk.Title, result.Score)
		fmt.Printf("   %s\n", result.Chunk.Content)
	}
	if len(results) == 0 {
		fmt.Println("Keine Treffer.")
	}
	return nil
}

func indexCommand(c *cli.Context) error {
	engine, err := klartext.NewEngine(engineOptions(c)...)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	defer engine.Close()

	var builderOpts []indexing.Option
	if size := c.Int("pool-size"); size > 0 {
		builderOpts = append(builderOpts, indexing.WithPoolSize(size))
	}

	builder, err := engine.NewIndexBuilder(builderOpts...)
	if err != nil {
		return fmt.Errorf("failed to create builder: %w", err)
	}
	defer builder.Release()

	out := c.String("out")
	fmt.Fprintf(os.Stderr, "Embedding %d chunks...\n", knowledge.Count())
	if err := builder.BuildArtifactFile(context.Background(), out, knowledge.Chunks()); err != nil {
		return fmt.Errorf("artifact build failed: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Artifact written to %s\n", out)
	return nil
}

// repoCloser bundles a session repository with its backend for deferred
// cleanup in the sessions subcommands.
type repoCloser struct {
	repo    storage.SessionRepository
	backend *badger.Backend
}

func (rc repoCloser) Close() {
	rc.backend.Close()
}

func openSessionRepo(c *cli.Context) (repoCloser, error) {
	backend, err := badger.OpenBackend(c.String("sessions"), false)
	if err != nil {
		return repoCloser{}, fmt.Errorf("failed to open session database: %w", err)
	}
	repo, err := badger.NewSessionRepository(backend)
	if err != nil {
		backend.Close()
		return repoCloser{}, err
	}
	return repoCloser{repo: repo, backend: backend}, nil
}

func sessionsListCommand(c *cli.Context) error {
	rc, err := openSessionRepo(c)
	if err != nil {
		return err
	}
	defer rc.Close()

	sessions, err := rc.repo.ListSessions(context.Background(), c.Int("limit"))
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("Keine Sitzungen.")
		return nil
	}
	for _, s := range sessions {
		fmt.Printf("%d\t%s\t%d Nachrichten\t%s\n", s.Id, s.Title, len(s.Messages), s.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func sessionsShowCommand(c *cli.Context) error {
	id, err := parseSessionID(c)
	if err != nil {
		return err
	}

	rc, err := openSessionRepo(c)
	if err != nil {
		return err
	}
	defer rc.Close()

	session, err := rc.repo.GetSession(context.Background(), id)
	if err != nil {
		return err
	}
	fmt.Printf("%s (ID %d, erstellt %s)\n\n", session.Title, session.Id, session.CreatedAt.Format("2006-01-02 15:04"))
	for _, m := range session.Messages {
		speaker := "Du"
		if m.Role == core.RoleAssistant {
			speaker = "Klartext"
		}
		fmt.Printf("%s: %s\n", speaker, m.Content)
	}
	return nil
}

func sessionsDeleteCommand(c *cli.Context) error {
	id, err := parseSessionID(c)
	if err != nil {
		return err
	}

	rc, err := openSessionRepo(c)
	if err != nil {
		return err
	}
	defer rc.Close()

	if err := rc.repo.DeleteSession(context.Background(), id); err != nil {
		return err
	}
	fmt.Printf("Sitzung %d gelöscht.\n", id)
	return nil
}

func parseSessionID(c *cli.Context) (core.ID, error) {
	arg := c.Args().First()
	if arg == "" {
		return 0, fmt.Errorf("session ID is required")
	}
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid session ID %q: %w", arg, err)
	}
	return core.ID(id), nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
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

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
