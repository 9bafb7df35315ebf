package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const leadSummaryRetry = 5

type Client struct {
	client *asynq.Client
}

func NewClient(redisOpt asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpt)}
}

// EnqueueLeadSummary schedules the summary email for a stored lead.
func (c *Client) EnqueueLeadSummary(ctx context.Context, leadID string) error {
	payload, err := json.Marshal(LeadSummaryPayload{LeadID: leadID})
	if err != nil {
		return fmt.Errorf("failed to marshal lead summary payload: %w", err)
	}

	task := asynq.NewTask(TaskSendLeadSummary, payload)
	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueEmails),
		asynq.MaxRetry(leadSummaryRetry),
		asynq.Timeout(30*time.Second),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue lead summary: %w", err)
	}

	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
