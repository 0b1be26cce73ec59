package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/arbiter-l10n/arbiter/internal/config"
	"github.com/arbiter-l10n/arbiter/internal/discover"
	"github.com/arbiter-l10n/arbiter/internal/pipeline"
	"github.com/arbiter-l10n/arbiter/internal/store"
	"github.com/arbiter-l10n/arbiter/internal/tools"
	"github.com/arbiter-l10n/arbiter/internal/watcher"
)

var version = "dev"

const usage = `usage: arbiter <command> [path]

commands:
  scan [path]   scan a Flutter project and catalog hard-coded strings
  apply [path]  rewrite catalogued strings to localization accessor calls
  watch [path]  watch a project and re-scan on source changes
  mcp           serve the catalog over MCP stdio
`

func main() {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Println("arbiter", version)
		os.Exit(0)
	}
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cmd := os.Args[1]
	switch cmd {
	case "scan", "apply", "watch":
		root := "."
		if len(os.Args) > 2 {
			root = os.Args[2]
		}
		absRoot, err := filepath.Abs(root)
		if err != nil {
			log.Fatalf("invalid path err=%v", err)
		}
		runProject(cmd, absRoot)
	case "mcp":
		runMCP()
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

func runProject(cmd, root string) {
	cfg, err := config.Load(root)
	if err != nil {
		log.Fatalf("config err=%v", err)
	}
	s, err := store.Open("arbiter")
	if err != nil {
		log.Fatalf("store open err=%v", err)
	}
	defer s.Close()

	p := pipeline.New(s, root, cfg)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case "scan", "apply":
		sum, err := p.Run(ctx, cmd == "apply")
		if err != nil {
			log.Fatalf("%s err=%v", cmd, err)
		}
		printSummary(sum, cmd == "apply")
	case "watch":
		w := watcher.New(root, &discover.Options{L10nDir: cfg.L10nDir}, func(ctx context.Context, _ string) error {
			sum, err := p.Run(ctx, false)
			if err != nil {
				return err
			}
			printSummary(sum, false)
			return nil
		})
		w.Run(ctx)
	}
}

func runMCP() {
	s, err := store.Open("arbiter")
	if err != nil {
		log.Fatalf("store open err=%v", err)
	}

	srv := tools.NewServer(s)

	runErr := srv.MCPServer().Run(context.Background(), &mcp.StdioTransport{})
	s.Close()
	if runErr != nil {
		log.Fatalf("server err=%v", runErr)
	}
}

func printSummary(sum *pipeline.Summary, apply bool) {
	fmt.Printf("%s: %d files (%d changed), %d strings\n",
		sum.Project, sum.Files, sum.Changed, sum.Extracted)
	if apply {
		fmt.Printf("applied %d, skipped %d\n", sum.Applied, sum.Skipped)
		for _, r := range sum.Reports {
			for _, sk := range r.Skipped {
				fmt.Printf("  skip %s: %q (%s)\n", r.RelPath, sk.Value, sk.Reason)
			}
		}
	}
	for _, r := range sum.Reports {
		if r.Err != nil {
			fmt.Printf("  error %s: %v\n", r.RelPath, r.Err)
		}
	}
}
