package domain

// GenerationPart is text or inline binary data (base64) sent to the model.
type GenerationPart struct {
	Text     string
	MimeType string
	Data     string
}

// GenerationMessage roles are "user" or "model".
type GenerationMessage struct {
	Role  string
	Parts []GenerationPart
}

type GenerationRequest struct {
	System   string
	Messages []GenerationMessage
	// JSON asks the model for an application/json answer.
	JSON bool
}
