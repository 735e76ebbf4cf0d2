package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/executor/cli"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/executor/headless"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/executor/tui"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/logging"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/orchestrator"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/server"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/types"
)

type rootOptions struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "webnav",
		Short:         "Web Navigator: plans, browses and summarizes the web for a request",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default is ./webnav.yaml)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "also log to stderr")
	root.SetVersionTemplate("webnav {{.Version}}\n")

	root.AddCommand(
		newRunCmd(opts),
		newChatCmd(opts),
		newServeCmd(opts),
		newBatchCmd(opts),
		newVersionCmd(),
	)
	return root
}

// withApp builds the pipeline, runs fn and tears everything down.
func withApp(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, a *app) error) error {
	var console io.Writer
	if opts.verbose {
		console = cmd.ErrOrStderr()
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, opts.configPath, console)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.close(); cerr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: shutdown: %v\n", cerr)
		}
	}()
	return fn(ctx, a)
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "run <request>",
		Short: "Run one navigation request and print the answer",
		Example: `  webnav run "find laptops under 50000"
  webnav run "search latest AI news and save as json" --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request := strings.Join(args, " ")
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				var sink types.EventSink
				if !asJSON {
					sink = progressPrinter(cmd.ErrOrStderr())
				}
				result := a.orch.ExecuteTask(ctx, request, orchestrator.WithEvents(sink))
				return printResult(cmd.OutOrStdout(), result, asJSON)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full task result as JSON")
	return cmd
}

// progressPrinter writes one line per task event.
func progressPrinter(w io.Writer) types.EventSink {
	return func(ev *types.TaskEvent) {
		switch ev.Type {
		case types.EventTypePlanning:
			fmt.Fprintln(w, "🧠 Planning actions...")
		case types.EventTypePlanReady:
			fmt.Fprintf(w, "📋 %d actions planned\n", ev.Total)
		case types.EventTypeBrowserStarting:
			fmt.Fprintln(w, "🌐 Starting browser...")
		case types.EventTypeActionStart:
			fmt.Fprintf(w, "  [%d/%d] %s\n", ev.Step, ev.Total, ev.Action)
		case types.EventTypeActionDone:
			if ev.Entry != nil && ev.Entry.Failed {
				fmt.Fprintf(w, "  ⚠ %s\n", ev.Message)
			}
		case types.EventTypeSummarizing:
			fmt.Fprintln(w, "📝 Summarizing results...")
		}
	}
}

func printResult(w io.Writer, result types.TaskResult, asJSON bool) error {
	if asJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		fmt.Fprintln(w, string(data))
	} else if result.Success {
		fmt.Fprintln(w, result.Summary.Text)
		if result.FileCreated() {
			fmt.Fprintf(w, "\n📁 Saved %s to %s\n", strings.ToUpper(string(result.Summary.Format)), result.Summary.FilePath)
		}
	}

	if !result.Success {
		return fmt.Errorf("task failed: %s", result.Error)
	}
	return nil
}

func newChatCmd(opts *rootOptions) *cobra.Command {
	var useTUI bool
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat that can browse the web",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if useTUI && opts.verbose {
				return fmt.Errorf("--verbose cannot be combined with --tui")
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if useTUI {
					return tui.NewExecutor(a.chat, tui.WithLogger(logging.MustLogger("tui"))).Run(ctx)
				}
				return cli.NewExecutor(a.chat,
					cli.WithShowProgress(true),
					cli.WithReader(cmd.InOrStdin()),
					cli.WithWriter(cmd.OutOrStdout()),
				).Run(ctx)
			})
		},
	}
	cmd.Flags().BoolVar(&useTUI, "tui", false, "use the full-screen terminal UI")
	return cmd
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and websocket chat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if addr == "" {
					addr = a.cfg.Server.Addr
				}
				srv := server.New(a.chat, a.orch,
					server.WithLogger(logging.MustLogger("server")),
					server.WithMetrics(a.metrics),
					server.WithRateLimit(a.cfg.Server.RateLimit, a.cfg.Server.Burst),
					server.WithOutputDir(a.cfg.Output.Dir),
				)
				fmt.Fprintf(cmd.OutOrStdout(), "Web Navigator listening on %s\n", addr)
				return srv.ListenAndServe(ctx, addr)
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from server.addr)")
	return cmd
}

func newBatchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "batch <tasks.yaml>",
		Short: "Run a batch of requests and write a report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			batch, err := headless.LoadConfig(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				executor, err := headless.NewExecutor(a.orch, batch,
					headless.WithWriter(cmd.OutOrStdout()),
					headless.WithLogger(logging.MustLogger("batch")),
				)
				if err != nil {
					return err
				}
				summary, err := executor.Run(ctx)
				if err != nil {
					return err
				}
				if summary.Metrics.Failed > 0 || summary.Metrics.Skipped > 0 {
					return fmt.Errorf("batch finished with status %s", summary.Status)
				}
				return nil
			})
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "webnav %s\n", version)
		},
	}
}
