package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/hpungsan/folio/internal/errors"
	"github.com/hpungsan/folio/internal/logging"
	"github.com/hpungsan/folio/internal/mcp"
	"github.com/hpungsan/folio/internal/ops"
	"github.com/hpungsan/folio/internal/web"
)

// maxStdinBytes bounds a message read from stdin.
const maxStdinBytes = 64 << 10

// newCLIApp creates the CLI application with all commands.
func newCLIApp(deps *ops.Deps, logger *zap.Logger) *cli.App {
	logger = logging.OrNop(logger)
	app := &cli.App{
		Name:    "folio",
		Usage:   "Portfolio chatbot backend",
		Version: Version,
		Commands: []*cli.Command{
			serveCmd(deps, logger),
			mcpCmd(deps),
			projectsCmd(deps),
			projectCmd(deps),
			contentCmd(deps),
			askCmd(deps),
			emailsCmd(deps),
			pathsCmd(deps),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// serveCmd creates the serve command.
func serveCmd(deps *ops.Deps, logger *zap.Logger) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Usage: "Bind address (overrides HOST)"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Port (overrides PORT)"},
		},
		Action: func(c *cli.Context) error {
			if host := c.String("host"); host != "" {
				deps.Config.Bind = host
			}
			if c.IsSet("port") {
				deps.Config.Port = c.Int("port")
			}
			return web.Run(c.Context, web.NewServer(deps, logger), logger)
		},
	}
}

// mcpCmd creates the mcp command.
func mcpCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve portfolio tools over MCP stdio",
		Action: func(c *cli.Context) error {
			return mcp.Run(deps, Version)
		},
	}
}

// projectsCmd creates the projects command.
func projectsCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "projects",
		Usage: "List projects, featured first",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "featured", Aliases: []string{"f"}, Usage: "Only featured projects"},
			&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Usage: "Filter by category"},
			&cli.StringFlag{Name: "status", Aliases: []string{"s"}, Usage: "Filter by status"},
			&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Usage: "Filter by project type"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.ListProjects(c.Context, deps, ops.ListProjectsInput{
				FeaturedOnly: c.Bool("featured"),
				Category:     c.String("category"),
				Status:       c.String("status"),
				Type:         c.String("type"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// projectCmd creates the project command.
func projectCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:      "project",
		Usage:     "Show one project with rendered HTML",
		ArgsUsage: "<slug>",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("slug is required"))
			}
			output, err := ops.GetProject(c.Context, deps, ops.GetProjectInput{Slug: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// contentCmd creates the content command.
func contentCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:      "content",
		Usage:     "Print a markdown file from the private documents directory",
		ArgsUsage: "<file>",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("file name is required"))
			}
			output, err := ops.GetContent(c.Context, deps, ops.GetContentInput{FileName: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// askCmd creates the ask command.
func askCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:      "ask",
		Usage:     "Ask the assistant one question (message from args or stdin)",
		ArgsUsage: "[message]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Usage: "Address already collected from the visitor"},
		},
		Action: func(c *cli.Context) error {
			message := strings.Join(c.Args().Slice(), " ")
			if message == "" && stdinHasData() {
				text, err := readStdin(os.Stdin, maxStdinBytes)
				if err != nil {
					return outputError(errors.NewInvalidRequest(err.Error()))
				}
				message = text
			}

			output, err := ops.Chat(c.Context, deps, ops.ChatInput{
				Message:        message,
				CollectedEmail: c.String("email"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// emailsCmd creates the emails command.
func emailsCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "emails",
		Usage: "Show the most recent collected email entries",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: ops.DefaultEmailList, Usage: "Maximum entries to show"},
			&cli.BoolFlag{Name: "all", Usage: "Show every entry"},
		},
		Action: func(c *cli.Context) error {
			limit := c.Int("limit")
			if c.Bool("all") {
				limit = -1
			}
			output, err := ops.ListEmails(c.Context, deps, ops.ListEmailsInput{Limit: limit})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// pathsCmd creates the paths command.
func pathsCmd(deps *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "paths",
		Usage: "Report the configured directories and what they contain",
		Action: func(c *cli.Context) error {
			output, err := ops.CheckPaths(c.Context, deps)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	fErr := errors.As(err)
	return cli.Exit(fmt.Sprintf("[%s] %s", fErr.Code, fErr.Message), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads at most limit bytes from r.
func readStdin(r io.Reader, limit int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("input exceeds %d bytes", limit)
	}
	return strings.TrimSpace(string(data)), nil
}
