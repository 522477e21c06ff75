package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/scentwork/partner-console/internal/events"
	"github.com/scentwork/partner-console/internal/observability"
)

// drainTimeout bounds delivery of events still buffered at shutdown.
const drainTimeout = 5 * time.Second

// EventForwarder fans domain events out to external sinks off the request
// path. Publishing never blocks: when the buffer is full the event is dropped
// and counted as a failure.
type EventForwarder struct {
	sinks      []events.Sink
	jobs       chan events.Event
	numWorkers int
	logger     *zap.Logger
	metrics    *observability.Metrics
	wg         sync.WaitGroup
}

// NewEventForwarder builds a forwarder. Nil sinks are ignored.
func NewEventForwarder(sinks []events.Sink, numWorkers, bufferSize int, logger *zap.Logger, metrics *observability.Metrics) *EventForwarder {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if bufferSize <= 0 {
		bufferSize = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	active := make([]events.Sink, 0, len(sinks))
	for _, sink := range sinks {
		if sink != nil {
			active = append(active, sink)
		}
	}
	return &EventForwarder{
		sinks:      active,
		jobs:       make(chan events.Event, bufferSize),
		numWorkers: numWorkers,
		logger:     logger,
		metrics:    metrics,
	}
}

// Register subscribes the forwarder to every event type.
func (f *EventForwarder) Register(dispatcher events.Dispatcher) {
	if len(f.sinks) == 0 || dispatcher == nil {
		return
	}
	events.SubscribeAll(dispatcher, f.Handle)
}

// Handle enqueues an event. It is an events.EventHandler.
func (f *EventForwarder) Handle(_ context.Context, event events.Event) error {
	select {
	case f.jobs <- event:
	default:
		f.logger.Warn("event buffer full; dropping event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)))
		f.metrics.RecordEventFailure("buffer", string(event.Type))
	}
	return nil
}

// Start launches the workers. They stop when ctx is cancelled, after
// delivering whatever is still buffered.
func (f *EventForwarder) Start(ctx context.Context) {
	for i := 0; i < f.numWorkers; i++ {
		f.wg.Add(1)
		go f.worker(ctx, i+1)
	}
}

// Wait blocks until every worker has exited.
func (f *EventForwarder) Wait() {
	f.wg.Wait()
}

func (f *EventForwarder) worker(ctx context.Context, id int) {
	defer f.wg.Done()
	for {
		select {
		case event := <-f.jobs:
			f.forward(ctx, event)
		case <-ctx.Done():
			f.drain(id)
			return
		}
	}
}

func (f *EventForwarder) drain(id int) {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	for {
		select {
		case event := <-f.jobs:
			f.forward(ctx, event)
		default:
			f.logger.Debug("event forwarder worker stopped", zap.Int("worker", id))
			return
		}
	}
}

func (f *EventForwarder) forward(ctx context.Context, event events.Event) {
	for _, sink := range f.sinks {
		f.deliver(ctx, sink, event)
	}
}

func (f *EventForwarder) deliver(ctx context.Context, sink events.Sink, event events.Event) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Error("panic recovered in event sink",
				zap.String("sink", sink.Name()),
				zap.String("event_id", event.ID),
				zap.Any("panic", r))
			f.metrics.RecordEventFailure(sink.Name(), string(event.Type))
		}
	}()

	if err := sink.Deliver(ctx, event); err != nil {
		f.logger.Warn("event delivery failed",
			zap.String("sink", sink.Name()),
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		f.metrics.RecordEventFailure(sink.Name(), string(event.Type))
		return
	}
	f.metrics.RecordEventForwarded(sink.Name(), string(event.Type))
}
