package models

// Email is a broker notification as handed over by the mailbox layer.
type Email struct {
	ID      string `json:"id,omitempty"`
	Subject string `json:"subject"`
	Date    string `json:"date"`    // calendar date as sent by the provider, e.g. "2025-04-25"
	Content string `json:"content"` // raw body, possibly HTML-wrapped
}

// DateRange bounds are ISO calendar dates (YYYY-MM-DD). Both ends are inclusive.
type DateRange struct {
	Start string `json:"start" validate:"omitempty,datetime=2006-01-02"`
	End   string `json:"end" validate:"omitempty,datetime=2006-01-02"`
}

// IsSet reports whether both ends of the range were provided.
func (r *DateRange) IsSet() bool {
	return r != nil && r.Start != "" && r.End != ""
}

// FetchCriteria narrows down the emails returned by the mailbox.
type FetchCriteria struct {
	Symbol    string     `json:"symbol,omitempty"`
	DateRange *DateRange `json:"dateRange,omitempty"`
}

// FetchEmailsRequest is the body of POST /api/fetch-emails.
type FetchEmailsRequest struct {
	Provider string         `json:"provider"`
	Email    string         `json:"email" validate:"omitempty,email"`
	Criteria *FetchCriteria `json:"criteria,omitempty"`
}
