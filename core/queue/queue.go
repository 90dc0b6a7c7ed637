package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"event-checkin/core/constants"
	"event-checkin/core/logger"

	"github.com/hibiken/asynq"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func (c RedisConfig) connOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: c.Addr, Password: c.Password, DB: c.DB}
}

// Enqueuer schedules background tasks. Implemented by *Client.
type Enqueuer interface {
	Enqueue(ctx context.Context, taskType string, payload any, opts ...asynq.Option) (string, error)
}

type Client struct {
	client *asynq.Client
}

func NewClient(cfg RedisConfig) *Client {
	return &Client{client: asynq.NewClient(cfg.connOpt())}
}

// Enqueue JSON-encodes payload and pushes it onto the default queue.
func (c *Client) Enqueue(ctx context.Context, taskType string, payload any, opts ...asynq.Option) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode %s payload: %w", taskType, err)
	}
	opts = append([]asynq.Option{asynq.Queue(constants.QueueDefault)}, opts...)
	info, err := c.client.EnqueueContext(ctx, asynq.NewTask(taskType, raw), opts...)
	if err != nil {
		logger.Error("Queue:Enqueue:Error:", err, "type", taskType)
		return "", fmt.Errorf("enqueue %s: %w", taskType, err)
	}
	logger.Info("Queue:Enqueue:Success", "type", taskType, "task_id", info.ID, "queue", info.Queue)
	return info.ID, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// DecodePayload unmarshals a task payload into dest.
func DecodePayload(t *asynq.Task, dest any) error {
	if err := json.Unmarshal(t.Payload(), dest); err != nil {
		return fmt.Errorf("decode %s payload: %v: %w", t.Type(), err, asynq.SkipRetry)
	}
	return nil
}

// NewServer builds a worker server that logs through the process logger.
func NewServer(cfg RedisConfig, concurrency int) *asynq.Server {
	if concurrency <= 0 {
		concurrency = 2
	}
	return asynq.NewServer(cfg.connOpt(), asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{constants.QueueDefault: 1},
		Logger:      asynqLogger{},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logger.Error("Queue:Task:Error:", err, "type", task.Type())
		}),
	})
}

type asynqLogger struct{}

func (asynqLogger) Debug(args ...any) { logger.Debug(fmt.Sprint(args...)) }
func (asynqLogger) Info(args ...any)  { logger.Info(fmt.Sprint(args...)) }
func (asynqLogger) Warn(args ...any)  { logger.Warn(fmt.Sprint(args...)) }
func (asynqLogger) Error(args ...any) { logger.Error(fmt.Sprint(args...)) }
func (asynqLogger) Fatal(args ...any) { logger.Error(fmt.Sprint(args...)) }
