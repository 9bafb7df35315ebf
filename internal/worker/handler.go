package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lorenzotett/alma-skin-guru-sub000/pkg/logger"

	"github.com/hibiken/asynq"
)

// LeadSummarySender contract interface
type LeadSummarySender interface {
	SendLeadSummary(ctx context.Context, leadID string) error
}

func NewMux(sender LeadSummarySender) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskSendLeadSummary, newLeadSummaryHandler(sender))
	return mux
}

func newLeadSummaryHandler(sender LeadSummarySender) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload LeadSummaryPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			logger.Error("invalid lead summary payload", err)
			return fmt.Errorf("invalid payload: %v: %w", err, asynq.SkipRetry)
		}
		if payload.LeadID == "" {
			return fmt.Errorf("missing lead id: %w", asynq.SkipRetry)
		}

		if err := sender.SendLeadSummary(ctx, payload.LeadID); err != nil {
			logger.Warn("lead summary task failed", err, "lead_id", payload.LeadID)
			return err
		}

		return nil
	}
}
