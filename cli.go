package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"kaas/src/app"
	"kaas/src/components/chat"
	"kaas/src/components/doclist"
	"kaas/src/components/upload"
	"kaas/src/config"
	"kaas/src/models"

	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen)
	headingColor = color.New(color.Bold)
	mutedColor   = color.New(color.FgHiBlack)
)

// Backend is the API surface used by the commands.
type Backend interface {
	app.Backend
	Reindex(ctx context.Context, uploadID string) error
}

// CLI runs one command against the backend and prints the outcome. Errors
// carry the same wording the TUI shows.
type CLI struct {
	client Backend
	cfg    *config.Config
	in     io.Reader
	out    io.Writer
}

func (c *CLI) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "docs", "documents":
		return c.docs(ctx)
	case "upload":
		return c.upload(ctx, args)
	case "ask", "query":
		return c.ask(ctx, args)
	case "reset":
		return c.reset(ctx, args)
	case "reindex":
		return c.reindex(ctx, args)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

func (c *CLI) docs(ctx context.Context) error {
	docs, err := c.client.ListDocuments(ctx)
	if err != nil {
		return errors.New(app.ListErrorMessage)
	}
	if len(docs) == 0 {
		mutedColor.Fprintln(c.out, doclist.EmptyText)
		return nil
	}
	for _, d := range docs {
		fmt.Fprintf(c.out, "%s\t%s\n", d.ID, d.Filename)
	}
	return nil
}

func (c *CLI) upload(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New(upload.NoFileMessage)
	}
	file, err := upload.LoadFile(args[0], c.cfg.Upload)
	if err != nil {
		return err
	}
	result, err := c.client.Upload(ctx, file)
	if err != nil {
		return errors.New(models.UserMessage(err, upload.UploadFallbackError))
	}
	name := result.Filename
	if name == "" {
		name = file.Name
	}
	successColor.Fprintf(c.out, "Success: %s is being processed. (ID: %s)\n", name, result.UploadID)
	return nil
}

func (c *CLI) ask(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("ask", flag.ContinueOnError)
	fs.SetOutput(c.out)
	doc := fs.String("doc", "", "Only search this document (filename)")
	k := fs.Int("k", c.cfg.Query.ResultLimit, "Number of chunks to retrieve")
	if err := fs.Parse(args); err != nil {
		return err
	}

	question := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if question == "" {
		return errors.New("usage: kaas ask [-doc name] [-k n] <question>")
	}
	filter := models.AllDocuments()
	if *doc != "" && *doc != models.AllDocumentsLabel {
		filter = models.ForDocument(*doc)
	}

	result, err := c.client.Query(ctx, question, filter.Param(), *k)
	if err != nil {
		return errors.New(models.UserMessage(err, chat.AnswerFallbackError))
	}

	fmt.Fprintln(c.out, result.Answer)
	if len(result.Sources) > 0 {
		fmt.Fprintln(c.out, "")
		headingColor.Fprintln(c.out, "Sources:")
		for _, src := range result.Sources {
			fmt.Fprintf(c.out, "  - %s\n", chat.SourceLabel(src))
			if snippet := chat.SourceSnippet(src); snippet != "" {
				mutedColor.Fprintf(c.out, "      %s\n", snippet)
			}
		}
	}
	return nil
}

func (c *CLI) reset(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	fs.SetOutput(c.out)
	yes := fs.Bool("yes", false, "Skip confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*yes {
		fmt.Fprintf(c.out, "%s (y/N): ", app.ResetPrompt)
		scanner := bufio.NewScanner(c.in)
		answer := ""
		if scanner.Scan() {
			answer = strings.ToLower(strings.TrimSpace(scanner.Text()))
		}
		if answer != "y" && answer != "yes" {
			mutedColor.Fprintln(c.out, "Reset cancelled.")
			return nil
		}
	}

	if err := c.client.ResetAll(ctx); err != nil {
		return errors.New(app.ResetFailureMessage)
	}
	successColor.Fprintln(c.out, app.ResetSuccessMessage)
	return nil
}

func (c *CLI) reindex(ctx context.Context, args []string) error {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return errors.New("usage: kaas reindex <upload-id>")
	}
	id := strings.TrimSpace(args[0])
	if err := c.client.Reindex(ctx, id); err != nil {
		return errors.New(models.UserMessage(err, "Failed to reindex upload "+id+"."))
	}
	successColor.Fprintf(c.out, "Reindex requested for upload %s.\n", id)
	return nil
}
