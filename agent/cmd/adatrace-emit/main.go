// adatrace-emit is a synthetic load generator: it creates a tracing
// session and hammers it with call/return events from several OS threads.
// Useful for driving a collector end to end without instrumenting a real
// process.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/adatrace/adatrace/agent/tracer"
	"github.com/adatrace/adatrace/common/logging"
	"github.com/adatrace/adatrace/common/xcmd"
)

var cmd Cmd

// Cmd is the command line arguments.
type Cmd struct {
	// ConfigPath is the path to the configuration file.
	ConfigPath string
	// Threads is the number of emitting OS threads.
	Threads int
	// Rate is the approximate per-thread rate of call/return pairs per
	// second; each pair writes two events.
	Rate int
	// MarkEvery periodically arms detail capture; zero disables.
	MarkEvery time.Duration
}

var rootCmd = &cobra.Command{
	Use:   "adatrace-emit",
	Short: "Synthetic producer that fills a tracing session with events",
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
	rootCmd.Flags().StringVarP(&cmd.ConfigPath, "config", "c", "", "Path to the configuration file")
	rootCmd.Flags().IntVarP(&cmd.Threads, "threads", "t", 4, "Number of emitting OS threads")
	rootCmd.Flags().IntVarP(&cmd.Rate, "rate", "r", 100000, "Per-thread call/return pairs per second")
	rootCmd.Flags().DurationVar(&cmd.MarkEvery, "mark-every", 0, "Arm detail capture at this interval")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Printf("ERROR: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd Cmd) error {
	log, _, err := logging.Init(&logging.Config{Level: zap.InfoLevel})
	if err != nil {
		return err
	}

	cfg := tracer.DefaultConfig()
	if cmd.ConfigPath != "" {
		if cfg, err = tracer.LoadConfig(cmd.ConfigPath); err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}

	tr, err := tracer.New(cfg, tracer.WithLog(log))
	if err != nil {
		return fmt.Errorf("failed to create tracing session: %w", err)
	}
	defer tr.Destroy()

	ctx := context.Background()
	wg, ctx := errgroup.WithContext(ctx)

	for i := range cmd.Threads {
		wg.Go(func() error {
			return emit(ctx, tr, cmd, i)
		})
	}
	wg.Go(func() error {
		err := xcmd.WaitInterrupted(ctx)
		log.Infof("caught signal: %v", err)
		return err
	})

	return wg.Wait()
}

// emit simulates one instrumented thread walking up and down a small call
// tree.
func emit(ctx context.Context, tr *tracer.Tracer, cmd Cmd, worker int) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	w, err := tr.Writer()
	if err != nil {
		return fmt.Errorf("worker %d: %w", worker, err)
	}
	defer w.Close()

	interval := time.Second / time.Duration(max(cmd.Rate, 1))
	ticker := time.NewTicker(max(interval, time.Microsecond))
	defer ticker.Stop()

	var markTick <-chan time.Time
	if cmd.MarkEvery > 0 {
		markTicker := time.NewTicker(cmd.MarkEvery)
		defer markTicker.Stop()
		markTick = markTicker.C
	}

	const fanout = 16
	fnID := uint64(worker) << 32
	for i := uint64(0); ; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-markTick:
			w.MarkDetail()
		case <-ticker.C:
		}

		fn := fnID + i%fanout
		w.TraceCall(fn)
		w.TraceReturn(fn)
	}
}
