package models

// SubmissionReceipt is returned to anonymous submitters. It deliberately
// carries no internal identifiers.
type SubmissionReceipt struct {
	Name   string `json:"name"`
	Date   string `json:"date"`
	Status string `json:"status"`
}

// NewSubmissionReceipt builds the public receipt for a stored submission.
func NewSubmissionReceipt(s *Submission) SubmissionReceipt {
	return SubmissionReceipt{
		Name:   s.Name,
		Date:   s.Date.String(),
		Status: s.Status,
	}
}

// HealthResponse is the payload of the health endpoint.
type HealthResponse struct {
	Database string `json:"database"`
	Redis    string `json:"redis"`
}
