package collector

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/adatrace/adatrace/agent/registry"
	"github.com/adatrace/adatrace/collector/collectorpb"
	"github.com/adatrace/adatrace/collector/internal/drain"
	"github.com/adatrace/adatrace/collector/internal/mark"
)

// TracerService implements the collector's control and telemetry API.
type TracerService struct {
	collectorpb.UnimplementedTracerServer

	reg      *registry.Registry
	engine   *drain.Engine
	policy   *mark.Policy
	logLevel *zap.AtomicLevel
	log      *zap.SugaredLogger
}

func NewTracerService(
	reg *registry.Registry,
	engine *drain.Engine,
	policy *mark.Policy,
	logLevel *zap.AtomicLevel,
	log *zap.SugaredLogger,
) *TracerService {
	return &TracerService{
		reg:      reg,
		engine:   engine,
		policy:   policy,
		logLevel: logLevel,
		log:      log,
	}
}

// GetStatus reports the thread registry contents.
func (m *TracerService) GetStatus(
	ctx context.Context,
	req *collectorpb.GetStatusRequest,
) (*collectorpb.GetStatusResponse, error) {
	resp := &collectorpb.GetStatusResponse{
		Capacity:   m.reg.Capacity(),
		Registered: m.reg.Count(),
	}

	for slot := uint32(0); slot < m.reg.Capacity(); slot++ {
		ls, err := m.reg.GetAt(slot)
		if err != nil || ls == nil {
			continue
		}
		resp.Threads = append(resp.Threads, &collectorpb.ThreadStatus{
			Slot:         ls.Slot(),
			ThreadId:     ls.ThreadID(),
			Active:       ls.Active(),
			IndexEvents:  ls.IndexLane().EventsWritten(),
			DetailEvents: ls.DetailLane().EventsWritten(),
			Drops:        ls.IndexLane().DropCount() + ls.DetailLane().DropCount(),
			DetailMarked: ls.DetailLane().IsMarked(),
		})
	}

	return resp, nil
}

// GetMetrics reports the drain engine counters.
func (m *TracerService) GetMetrics(
	ctx context.Context,
	req *collectorpb.GetMetricsRequest,
) (*collectorpb.GetMetricsResponse, error) {
	s := m.engine.Metrics()

	return &collectorpb.GetMetricsResponse{
		CyclesTotal:      s.CyclesTotal,
		CyclesIdle:       s.CyclesIdle,
		RingsTotal:       s.RingsTotal,
		RingsIndex:       s.RingsIndex,
		RingsDetail:      s.RingsDetail,
		EventsDrained:    s.EventsDrained,
		BytesDrained:     s.BytesDrained,
		SinkFailures:     s.SinkFailures,
		FinalDrains:      s.FinalDrains,
		FairnessIndex:    s.FairnessIndex,
		ThreadsProcessed: s.ThreadsProcessed,
		ThreadsSkipped:   s.ThreadsSkipped,
	}, nil
}

// Mark arms detail-lane capture. With a thread id, only that thread; with
// a function name, only if the marking policy matches it.
func (m *TracerService) Mark(
	ctx context.Context,
	req *collectorpb.MarkRequest,
) (*collectorpb.MarkResponse, error) {
	if req.GetFunction() != "" && !m.policy.Match(req.GetFunction()) {
		m.log.Debugw("mark request did not match policy",
			zap.String("function", req.GetFunction()),
		)
		return &collectorpb.MarkResponse{}, nil
	}

	var marked uint32
	for slot := uint32(0); slot < m.reg.Capacity(); slot++ {
		ls, err := m.reg.GetAt(slot)
		if err != nil || ls == nil || !ls.Active() {
			continue
		}
		if req.GetThreadId() != 0 && ls.ThreadID() != req.GetThreadId() {
			continue
		}
		ls.DetailLane().Mark()
		marked++
	}

	if req.GetThreadId() != 0 && marked == 0 {
		return nil, status.Errorf(codes.NotFound, "thread %d is not registered", req.GetThreadId())
	}

	m.log.Infow("armed detail capture",
		zap.Uint64("thread_id", req.GetThreadId()),
		zap.String("function", req.GetFunction()),
		zap.Uint32("marked", marked),
	)
	return &collectorpb.MarkResponse{MarkedThreads: marked}, nil
}

// SetLogLevel changes the collector's logging level at runtime.
func (m *TracerService) SetLogLevel(
	ctx context.Context,
	req *collectorpb.SetLogLevelRequest,
) (*collectorpb.SetLogLevelResponse, error) {
	if m.logLevel == nil {
		return nil, status.Errorf(codes.Unavailable, "log level is not adjustable")
	}

	level, err := zapcore.ParseLevel(req.GetLevel())
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "unknown level %q", req.GetLevel())
	}

	m.logLevel.SetLevel(level)
	m.log.Infow("changed logging level", zap.Stringer("level", level))
	return &collectorpb.SetLogLevelResponse{}, nil
}
