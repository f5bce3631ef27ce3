package worker

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"socialfeed/internal/logger"
	"socialfeed/internal/queue"
)

const (
	// DefaultWorkerCount is the default number of worker goroutines
	DefaultWorkerCount = 1

	// DefaultBatchSize is the number of messages to read per batch
	DefaultBatchSize = 50

	// DefaultBlockTimeout is how long to block waiting for new messages
	DefaultBlockTimeout = 5 * time.Second
)

// Manager runs worker goroutines that consume the activity stream.
type Manager struct {
	consumer    queue.Consumer
	handler     *Handler
	workerCount int
	batchSize   int64
	blockTime   time.Duration
	hostname    string

	wg sync.WaitGroup
}

// ManagerConfig holds configuration for the worker manager.
type ManagerConfig struct {
	WorkerCount  int           // Number of worker goroutines
	BatchSize    int64         // Messages per read
	BlockTimeout time.Duration // Block time for XREADGROUP
}

// NewManager creates a new worker manager.
func NewManager(consumer queue.Consumer, handler *Handler, cfg ManagerConfig) *Manager {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = DefaultWorkerCount
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.BlockTimeout <= 0 {
		cfg.BlockTimeout = DefaultBlockTimeout
	}

	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		hostname = "local"
	}

	return &Manager{
		consumer:    consumer,
		handler:     handler,
		workerCount: cfg.WorkerCount,
		batchSize:   cfg.BatchSize,
		blockTime:   cfg.BlockTimeout,
		hostname:    hostname,
	}
}

// Run starts the workers and blocks until ctx is cancelled and every worker has returned.
func (m *Manager) Run(ctx context.Context) error {
	log := logger.Component("worker")

	if err := m.consumer.EnsureGroup(ctx, queue.StreamActivity, queue.ConsumerGroupInvalidation); err != nil {
		return err
	}

	log.Info().
		Int("workers", m.workerCount).
		Str("stream", queue.StreamActivity).
		Str("group", queue.ConsumerGroupInvalidation).
		Msg("starting workers")

	for i := 1; i <= m.workerCount; i++ {
		m.wg.Add(1)
		go m.runWorker(ctx, m.consumerName(i))
	}

	m.wg.Wait()
	log.Info().Msg("all workers stopped")
	return nil
}

func (m *Manager) runWorker(ctx context.Context, consumerName string) {
	defer m.wg.Done()

	log := logger.Component("worker").With().Str("consumer", consumerName).Logger()
	log.Info().Msg("worker started")

	// Messages this consumer received before a crash are handled first.
	m.drainPending(ctx, consumerName)

	for ctx.Err() == nil {
		messages, err := m.consumer.Read(ctx, queue.StreamActivity, queue.ConsumerGroupInvalidation,
			consumerName, m.batchSize, m.blockTime)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			log.Warn().Err(err).Msg("read failed")
			sleepCtx(ctx, time.Second)
			continue
		}
		m.handleMessages(ctx, consumerName, messages)
	}

	log.Info().Msg("worker shutting down")
}

func (m *Manager) drainPending(ctx context.Context, consumerName string) {
	for ctx.Err() == nil {
		messages, err := m.consumer.ReadPending(ctx, queue.StreamActivity, queue.ConsumerGroupInvalidation,
			consumerName, m.batchSize)
		if err != nil || len(messages) == 0 {
			return
		}
		m.handleMessages(ctx, consumerName, messages)
	}
}

// handleMessages processes a batch and acknowledges it. Failed batches are
// still acknowledged; a missed invalidation only lasts until the cache TTL.
func (m *Manager) handleMessages(ctx context.Context, consumerName string, messages []queue.Message) {
	if len(messages) == 0 {
		return
	}
	log := logger.Component("worker")

	events := make([]queue.ActivityEvent, len(messages))
	ids := make([]string, len(messages))
	for i, msg := range messages {
		events[i] = msg.Event
		ids[i] = msg.ID
	}

	if err := m.handler.HandleBatch(ctx, events); err != nil {
		log.Warn().Err(err).Str("consumer", consumerName).Int("batch", len(messages)).Msg("handler error")
	}

	if err := m.consumer.Ack(ctx, queue.StreamActivity, queue.ConsumerGroupInvalidation, ids...); err != nil {
		log.Warn().Err(err).Str("consumer", consumerName).Msg("ack failed")
	}
}

func (m *Manager) consumerName(workerID int) string {
	return fmt.Sprintf("%s-worker-%d", m.hostname, workerID)
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
