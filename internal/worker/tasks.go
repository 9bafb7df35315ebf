package worker

const (
	TaskSendLeadSummary = "lead:send_summary"

	QueueEmails = "emails"
)

type LeadSummaryPayload struct {
	LeadID string `json:"lead_id"`
}
