package worker

import (
	"fmt"

	"github.com/hibiken/asynq"
)

// Start runs the task server in the background and returns its stop func.
// Signals are left to the caller.
func Start(redisOpt asynq.RedisClientOpt, concurrency int, mux *asynq.ServeMux) (func(), error) {
	if concurrency <= 0 {
		concurrency = 1
	}

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			QueueEmails: 1,
		},
	})

	if err := srv.Start(mux); err != nil {
		return nil, fmt.Errorf("failed to start task server: %w", err)
	}

	return srv.Shutdown, nil
}
