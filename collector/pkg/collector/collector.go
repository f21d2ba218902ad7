// Package collector implements the out-of-process consumer: it attaches to
// a traced process's arena, runs the drain engine against it and exposes
// the control API.
package collector

import (
	"context"
	"fmt"
	"net"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/adatrace/adatrace/agent/arena"
	"github.com/adatrace/adatrace/agent/registry"
	"github.com/adatrace/adatrace/collector/collectorpb"
	"github.com/adatrace/adatrace/collector/internal/drain"
	"github.com/adatrace/adatrace/collector/internal/mark"
	"github.com/adatrace/adatrace/collector/internal/sink"
)

type options struct {
	Log      *zap.SugaredLogger
	LogLevel *zap.AtomicLevel
}

func newOptions() *options {
	return &options{
		Log: zap.NewNop().Sugar(),
	}
}

// Option is a function that configures the collector.
type Option func(*options)

// WithLog sets the logger for the collector.
func WithLog(log *zap.SugaredLogger) Option {
	return func(o *options) {
		o.Log = log
	}
}

// WithAtomicLogLevel sets the atomic logger level for the collector.
//
// This level can be changed at runtime through the SetLogLevel RPC.
func WithAtomicLogLevel(level *zap.AtomicLevel) Option {
	return func(o *options) {
		o.LogLevel = level
	}
}

// Collector ties the attached session, the drain engine, the sink and the
// control API together.
type Collector struct {
	cfg     *Config
	arena   *arena.Arena
	engine  *drain.Engine
	out     *sink.File
	server  *grpc.Server
	service *TracerService
	log     *zap.SugaredLogger
}

// New attaches to the session named in the configuration and builds the
// drain pipeline over it.
func New(cfg *Config, options ...Option) (*Collector, error) {
	opts := newOptions()
	for _, o := range options {
		o(opts)
	}
	log := opts.Log

	log.Infow("attaching to trace arena",
		zap.String("dir", cfg.ShmDir),
		zap.String("name", cfg.ShmName),
	)

	a, err := arena.Attach(cfg.ShmDir, cfg.ShmName)
	if err != nil {
		return nil, fmt.Errorf("failed to attach to arena: %w", err)
	}

	reg, err := registry.Attach(a)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to attach to thread registry: %w", err)
	}

	policy, err := mark.New(cfg.Mark)
	if err != nil {
		a.Close()
		return nil, err
	}

	out, err := sink.NewFile(cfg.OutputPath, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	engine, err := drain.New(reg, cfg.Drain, drain.WithLog(log), drain.WithSink(out))
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create drain engine: %w", err)
	}

	service := NewTracerService(reg, engine, policy, opts.LogLevel, log)

	server := grpc.NewServer()
	collectorpb.RegisterTracerServer(server, service)

	return &Collector{
		cfg:     cfg,
		arena:   a,
		engine:  engine,
		out:     out,
		server:  server,
		service: service,
		log:     log,
	}, nil
}

// Run runs the collector until the specified context is canceled.
func (m *Collector) Run(ctx context.Context) error {
	m.log.Info("running collector")
	defer m.log.Info("stopped collector")

	listener, err := net.Listen("tcp", m.cfg.Endpoint)
	if err != nil {
		return fmt.Errorf("failed to initialize gRPC listener: %w", err)
	}

	m.log.Infow("exposing tracer API", zap.Stringer("addr", listener.Addr()))

	if err := m.engine.Start(); err != nil {
		return fmt.Errorf("failed to start drain engine: %w", err)
	}

	wg, ctx := errgroup.WithContext(ctx)

	wg.Go(func() error {
		return m.server.Serve(listener)
	})
	wg.Go(func() error {
		select {
		case <-ctx.Done():
			return nil
		case err := <-m.out.Errors():
			// The drain keeps running on a broken sink; the operator just
			// gets told once.
			m.log.Errorw("trace log persistence failed", zap.Error(err))
			return nil
		}
	})

	<-ctx.Done()

	if err := m.engine.Stop(); err != nil {
		m.log.Warnw("failed to stop drain engine", zap.Error(err))
	}

	m.server.GracefulStop()
	return wg.Wait()
}

// Close releases everything the collector holds.
func (m *Collector) Close() error {
	if m.server != nil {
		m.server.Stop()
	}
	if err := m.engine.Destroy(); err != nil {
		m.log.Warnw("failed to destroy drain engine", zap.Error(err))
	}
	if err := m.out.Finalize(); err != nil {
		m.log.Warnw("failed to finalize trace log", zap.Error(err))
	}
	return m.arena.Close()
}

// Metrics exposes the drain metrics, for tooling and tests.
func (m *Collector) Metrics() drain.Snapshot {
	return m.engine.Metrics()
}
