package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/adatrace/adatrace/collector/pkg/collector"
	"github.com/adatrace/adatrace/common/logging"
	"github.com/adatrace/adatrace/common/xcmd"
)

var cmd Cmd

// Cmd is the command line arguments.
type Cmd struct {
	// ConfigPath is the path to the configuration file.
	ConfigPath string
	// Debug enables debug logging regardless of the configuration.
	Debug bool
}

var rootCmd = &cobra.Command{
	Use:   "adatrace-collector",
	Short: "Collector that drains a traced process and writes the trace log",
	Run: func(rawCmd *cobra.Command, _ []string) {
		if err := run(cmd); err != nil {
			if errors.Is(err, xcmd.Interrupted{}) {
				return
			}

			fmt.Printf("ERROR: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.Flags().StringVarP(&cmd.ConfigPath, "config", "c", "", "Path to the configuration file (required)")
	rootCmd.Flags().BoolVar(&cmd.Debug, "debug", false, "Enable debug logging")
	rootCmd.MarkFlagRequired("config")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Printf("ERROR: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd Cmd) error {
	cfg, err := collector.LoadConfig(cmd.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, logLevel, err := logging.Init(&cfg.Logging)
	if err != nil {
		return err
	}
	if cmd.Debug {
		logLevel.SetLevel(zap.DebugLevel)
	}

	c, err := collector.New(
		cfg,
		collector.WithLog(log),
		collector.WithAtomicLogLevel(&logLevel),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize collector: %w", err)
	}
	defer c.Close()

	ctx := context.Background()
	wg, ctx := errgroup.WithContext(ctx)
	wg.Go(func() error {
		return c.Run(ctx)
	})
	wg.Go(func() error {
		err := xcmd.WaitInterrupted(ctx)
		log.Infof("caught signal: %v", err)
		return err
	})

	return wg.Wait()
}
