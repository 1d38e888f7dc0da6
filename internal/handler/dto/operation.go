package dto

// OperationRequest is the body of POST /microservices/{operation}.
// Which fields are required depends on the operation; unused fields are
// ignored.
type OperationRequest struct {
	UserID     string `json:"user_id"`
	Text       string `json:"text"`
	TargetLang string `json:"targetLang,omitempty"`
	Count      int    `json:"count,omitempty"`
	Style      string `json:"style,omitempty"`
}
