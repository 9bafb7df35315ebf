package response

// Body is the envelope used for error responses produced by middleware.
type Body struct {
	Success bool        `json:"success"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func Error(code, message string, details interface{}) Body {
	return Body{
		Success: false,
		Code:    code,
		Message: message,
		Details: details,
	}
}
