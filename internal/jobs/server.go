package jobs

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-chat-system/internal/config"
)

// NewServer builds the worker-side asynq server. Failed tasks retry with
// asynq's default exponential backoff up to the configured budget; a task
// that exhausts its budget is archived (asynq's dead letter) and reported
// through the error hook below at critical level, so permanent failures are
// operator-visible rather than silently dropped.
func NewServer(redisCfg config.RedisConfig, queueCfg config.QueueConfig) *asynq.Server {
	return asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     redisCfg.Addr,
			Password: redisCfg.Password,
			DB:       redisCfg.DB,
		},
		asynq.Config{
			Concurrency:  queueCfg.Concurrency,
			ErrorHandler: asynq.ErrorHandlerFunc(reportTaskError),
			Logger:       zerologAdapter{},
		},
	)
}

// reportTaskError logs every handler failure and escalates to critical once
// the retry budget is spent.
func reportTaskError(ctx context.Context, task *asynq.Task, err error) {
	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	taskID, _ := asynq.GetTaskID(ctx)

	if retried >= maxRetry {
		// Last attempt: the task is moving to the archive.
		log.Error().Err(err).
			Str("task_id", taskID).
			Str("task_type", task.Type()).
			RawJSON("payload", task.Payload()).
			Msg("task permanently failed, archived")
		return
	}
	log.Warn().Err(err).
		Str("task_id", taskID).
		Str("task_type", task.Type()).
		Int("retried", retried).
		Int("max_retry", maxRetry).
		Msg("task failed, will retry")
}

// zerologAdapter bridges asynq's logger interface onto the global zerolog
// logger so worker internals share the application's log stream.
type zerologAdapter struct{}

func (zerologAdapter) Debug(args ...interface{}) { log.Debug().Msgf("asynq: %v", args) }
func (zerologAdapter) Info(args ...interface{})  { log.Info().Msgf("asynq: %v", args) }
func (zerologAdapter) Warn(args ...interface{})  { log.Warn().Msgf("asynq: %v", args) }
func (zerologAdapter) Error(args ...interface{}) { log.Error().Msgf("asynq: %v", args) }
func (zerologAdapter) Fatal(args ...interface{}) { log.Fatal().Msgf("asynq: %v", args) }
