package asynq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"floortrack/pkg/config"
	"floortrack/pkg/logger"

	"github.com/hibiken/asynq"
)

const (
	// TypeReconcileDepartment reconciles one department's ledger against its
	// open tasks. Payload: ReconcilePayload.
	TypeReconcileDepartment = "reconcile:department"
)

// ReconcilePayload is the task payload for a department reconciliation run
type ReconcilePayload struct {
	Department string `json:"department"`
}

// Manager queue manager
type Manager struct {
	client *asynq.Client
	server *asynq.Server
	mux    *asynq.ServeMux
}

// NewManager creates queue manager
func NewManager(cfg *config.Config) (*Manager, error) {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	client := asynq.NewClient(redisOpt)

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: cfg.Queue.Concurrency,
			Queues: map[string]int{
				"default": 10,
			},
			RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
				return time.Duration(n) * time.Second
			},
		},
	)

	mux := asynq.NewServeMux()

	return &Manager{
		client: client,
		server: server,
		mux:    mux,
	}, nil
}

// EnqueueReconcile enqueues a department reconciliation. The task id is
// derived from the department name, so a department already queued is not
// queued twice.
func (m *Manager) EnqueueReconcile(ctx context.Context, department string) error {
	payload, err := json.Marshal(ReconcilePayload{Department: department})
	if err != nil {
		return fmt.Errorf("failed to marshal reconcile payload: %w", err)
	}

	task := asynq.NewTask(TypeReconcileDepartment, payload)

	opts := []asynq.Option{
		asynq.TaskID(fmt.Sprintf("reconcile:%s", department)),
		asynq.Timeout(time.Duration(config.GlobalConfig.Queue.TaskTimeout) * time.Second),
		asynq.MaxRetry(config.GlobalConfig.Queue.MaxRetry),
	}

	info, err := m.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			logger.InfoCtx(ctx, "reconcile already queued for department %s", department)
			return nil
		}
		return fmt.Errorf("failed to enqueue reconcile: %w", err)
	}

	logger.InfoCtx(ctx, "reconcile enqueued, department: %s, queue: %s", department, info.Queue)
	return nil
}

// RegisterHandler registers task handler
func (m *Manager) RegisterHandler(pattern string, handler asynq.Handler) {
	m.mux.Handle(pattern, handler)
}

// Start starts queue processor
func (m *Manager) Start() error {
	logger.InfoCtx(context.Background(), "starting queue server")
	return m.server.Start(m.mux)
}

// Stop stops queue processor
func (m *Manager) Stop() {
	logger.InfoCtx(context.Background(), "stopping queue server")
	m.server.Stop()
	m.server.Shutdown()
}

// Close closes client
func (m *Manager) Close() error {
	return m.client.Close()
}

// GetPendingTaskCount retrieves pending task count
func (m *Manager) GetPendingTaskCount() (int, error) {
	inspector := asynq.NewInspector(asynq.RedisClientOpt{
		Addr:     config.GlobalConfig.Redis.Addr,
		Password: config.GlobalConfig.Redis.Password,
		DB:       config.GlobalConfig.Redis.DB,
	})
	defer inspector.Close()

	stats, err := inspector.GetQueueInfo("default")
	if err != nil {
		return 0, err
	}

	return stats.Pending, nil
}
