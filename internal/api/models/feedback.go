package models

// FeedbackCreateRequest is the body for POST /v1/aboboxes/{aboBoxId}/feedback.
type FeedbackCreateRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

// Feedback is a user's rating of an abo box in a response.
type Feedback struct {
	FeedbackID string    `json:"feedbackId"`
	UserID     string    `json:"userId"`
	AboBoxID   string    `json:"aboBoxId"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  Timestamp `json:"createdAt"`
}
