package dto

// ChatTurn is one prior exchange line replayed to the provider.
type ChatTurn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// OracleReply is what one provider round-trip produced: free text and
// zero or more structured tool calls.
type OracleReply struct {
	Text  string
	Calls []ToolCall
}

// SendMessageRequest is the inbound payload for both chat endpoints.
type SendMessageRequest struct {
	Message     string `json:"message" validate:"required"`
	SessionDate string `json:"session_date" validate:"omitempty,datetime=2006-01-02"` // defaults to today
}

// SendMessageResponse carries the assistant's final user-visible text.
type SendMessageResponse struct {
	Content string `json:"content"`
}

// MutationResult is the outcome of one Add/Delete/Move operation.
// Business-rule rejections come back with Success=false and a Turkish,
// user-actionable Message; infrastructure failures are returned as
// errors instead. PartiallyApplied marks a failure that left earlier
// side effects (e.g. an auto-created topic) in place.
type MutationResult struct {
	Message          string `json:"message"`
	Success          bool   `json:"success"`
	PartiallyApplied bool   `json:"partially_applied,omitempty"`
}
