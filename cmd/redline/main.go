// Package main is the redline inspection tool: it diffs an original
// document against a proposed rewrite, prints the resulting suggestions
// in wire form, and optionally resolves them.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/dshills/redline/internal/config"
	"github.com/dshills/redline/internal/engine/document"
	"github.com/dshills/redline/internal/engine/review"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

type options struct {
	originalPath string
	proposedPath string
	configPath   string
	markdown     bool
	apply        string
	showVersion  bool
}

func run() int {
	opts := parseFlags()
	if opts.showVersion {
		fmt.Printf("redline %s (%s)\n", version, commit)
		return 0
	}
	if opts.originalPath == "" || opts.proposedPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -original and -proposed are required")
		flag.Usage()
		return 2
	}
	if opts.apply != "" && opts.apply != "accept" && opts.apply != "reject" {
		fmt.Fprintf(os.Stderr, "Error: -apply must be accept or reject, got %q\n", opts.apply)
		return 2
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))

	original, err := os.ReadFile(opts.originalPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	proposed, err := os.ReadFile(opts.proposedPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	var doc *document.Document
	if opts.markdown {
		doc, err = document.FromMarkdown(string(original))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	} else {
		doc = document.FromText(string(original))
	}

	session := review.NewSession(doc,
		review.WithLogger(logger),
		review.WithMaxDiffBytes(cfg.Limits.MaxDiffBytes),
		review.WithMaxRules(cfg.Limits.MaxRules),
	)

	if _, err := session.Propose(string(proposed)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	for _, s := range session.GetPending() {
		line, err := s.WireJSON()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Println(line)
	}

	switch opts.apply {
	case "accept":
		result, err := session.AcceptAll("")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		logger.Info("accepted all",
			"applied", len(result.Applied), "skipped_stale", len(result.SkippedStale))
		fmt.Println(doc.Text())
	case "reject":
		if _, err := session.RejectAll(""); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Println(doc.Text())
	}

	return 0
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.originalPath, "original", "", "Path to the original document")
	flag.StringVar(&opts.proposedPath, "proposed", "", "Path to the proposed rewrite")
	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.BoolVar(&opts.markdown, "markdown", false, "Parse the original document as Markdown")
	flag.StringVar(&opts.apply, "apply", "", "Resolve all suggestions: accept or reject")
	flag.BoolVar(&opts.showVersion, "version", false, "Show version information")
	flag.Parse()
	return opts
}
