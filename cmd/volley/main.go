// Command volley runs a declarative HTTP load test plan and reports the
// results.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kadekeh/volley/internal/config"
	"github.com/kadekeh/volley/internal/engine"
	"github.com/kadekeh/volley/internal/report"
	"github.com/kadekeh/volley/internal/scheduler"
)

const defaultConfigPath = "./configuration.yaml"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "volley [configuration]",
		Short: "Run a concurrent HTTP load test from a declarative plan",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultConfigPath
			if len(args) == 1 {
				path = args[0]
			}
			return run(path, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "stats", "output format: stats, csv, or debug")
	return cmd
}

func run(configPath, output string) error {
	switch output {
	case "stats", "csv", "debug":
	default:
		return fmt.Errorf("unknown output format %q", output)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	logger := logrus.StandardLogger()
	sched := scheduler.New(logger)

	if output == "debug" {
		sched.OnExchange = func(ex engine.Exchange) {
			report.WriteDebugExchange(os.Stdout, ex)
		}
	}

	results, err := sched.Run(context.Background(), cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	switch output {
	case "csv":
		report.WriteCSV(os.Stdout, results)
	case "stats":
		report.WriteStats(os.Stdout, results)
	case "debug":
		// Exchanges were already streamed via OnExchange; no summary.
	}

	return nil
}
