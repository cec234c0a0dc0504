// Command ticketrouter processes customer-support tickets through the
// four-step LLM pipeline and prints each step's result. The mcp subcommand
// serves the pipeline's step tools over stdio MCP instead.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/deskwise/ticketrouter/cmd/ticketrouter/internal/format"
	"github.com/deskwise/ticketrouter/pkg/engine"
	"github.com/deskwise/ticketrouter/pkg/ticket"
	"github.com/deskwise/ticketrouter/pkg/tools/mcpserver"
)

const version = "0.1.0"

// sampleTickets are processed when no -ticket flag is given.
var sampleTickets = []struct {
	ID   string
	Text string
}{
	{
		ID: "TICKET-001",
		Text: "Hi, I'm John Smith (order #ORD-98432). I was charged twice for my " +
			"subscription on Jan 5 2026. The amount of $49.99 appeared two times " +
			"on my credit card ending 4821. Please refund the duplicate charge ASAP. " +
			"My email is john.smith@email.com.",
	},
	{
		ID: "TICKET-002",
		Text: "Our entire production server has been down since 3 AM. None of our " +
			"500+ employees can access the platform. We are losing thousands of " +
			"dollars every hour. This is absolutely unacceptable! We need immediate " +
			"help. Account ID: ENT-20050. Contact: ops-team@bigcorp.com",
	},
	{
		ID: "TICKET-003",
		Text: "Hello, I'd like to know if you offer any discounts for educational " +
			"institutions. We're a university looking to purchase around 200 licenses. " +
			"Could you send us a quote? Thanks! – Prof. Maria Garcia",
	},
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "mcp" {
		mcpCmd := flag.NewFlagSet("mcp", flag.ExitOnError)
		mcpCmd.Usage = func() {
			fmt.Fprintf(os.Stderr, "Usage: ticketrouter mcp [flags]\n\nServe the ticket pipeline's step tools over stdio MCP.\n\nFlags:\n")
			mcpCmd.PrintDefaults()
		}
		configPath := mcpCmd.String("config", "ticketrouter.yaml", "path to configuration file")
		envFile := mcpCmd.String("env", ".env", "path to .env file (ignored if missing)")
		_ = mcpCmd.Parse(os.Args[2:])

		if err := runMCP(*configPath, *envFile); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}

		return
	}

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ticketrouter [flags]\n       ticketrouter mcp [flags]\n\nFlags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nCommands:\n  mcp  Serve the step tools over stdio MCP\n")
	}

	configPath := flag.String("config", "ticketrouter.yaml", "path to configuration file")
	envFile := flag.String("env", ".env", "path to .env file (ignored if missing)")
	ticketText := flag.String("ticket", "", "process a single ticket text instead of the samples")
	verbose := flag.Bool("verbose", false, "log agent runs and print token usage")
	flag.Parse()

	if err := run(*configPath, *envFile, *ticketText, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, envFile, ticketText string, verbose bool) error {
	if err := loadDotEnv(envFile); err != nil {
		return err
	}

	cfg, err := engine.LoadConfig(configPath)
	if err != nil {
		return err
	}

	var log *slog.Logger
	if verbose {
		log = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	eng, err := engine.New(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tickets := sampleTickets
	if ticketText != "" {
		tickets = []struct {
			ID   string
			Text string
		}{{ID: "TICKET", Text: ticketText}}
	}

	for _, tk := range tickets {
		fmt.Println(format.Header("PROCESSING: " + tk.ID))
		fmt.Printf("\nTicket Text:\n%s\n", tk.Text)

		results, err := eng.Processor.Process(ctx, tk.Text)
		if err != nil {
			return fmt.Errorf("process %s: %w", tk.ID, err)
		}

		printResults(results)
	}

	if verbose {
		total := eng.Usage()
		fmt.Fprintf(os.Stderr, "token usage: input=%d output=%d total=%d\n",
			total.InputTokens, total.OutputTokens, total.Total())
	}

	return nil
}

func printResults(results ticket.Results) {
	sections := []struct {
		key   string
		title string
	}{
		{ticket.ToolAnalyze, "1. ANALYSIS"},
		{ticket.ToolClassify, "2. CLASSIFICATION"},
		{ticket.ToolExtract, "3. EXTRACTED ENTITIES"},
		{ticket.ToolRespond, "4. GENERATED RESPONSE"},
	}

	for _, s := range sections {
		if content, ok := results[s.key]; ok {
			fmt.Println()
			fmt.Println(format.Section(s.title, content))
		}
	}

	if summary, ok := results.FinalSummary(); ok {
		fmt.Println()
		fmt.Println(format.Section("AGENT SUMMARY", summary))
	}

	fmt.Println()
}

// runMCP serves the configured step tools on stdin/stdout.
func runMCP(configPath, envFile string) error {
	if err := loadDotEnv(envFile); err != nil {
		return err
	}

	cfg, err := engine.LoadConfig(configPath)
	if err != nil {
		return err
	}

	eng, err := engine.New(cfg, nil)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := mcpserver.New("ticketrouter", version)
	srv.Register(eng.Processor.Tools().Tools()...)

	if err := srv.Serve(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}

// loadDotEnv loads environment variables from path. Missing files are ignored.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
