package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/username/tradewhatif/src/logger"
	"github.com/username/tradewhatif/src/models"
	"github.com/username/tradewhatif/src/utils"
)

// mockMailboxServiceImpl serves a fixed set of emails regardless of provider or credentials.
type mockMailboxServiceImpl struct {
	emails []models.Email
}

// NewMockMailboxService serves emails, or SampleEmails when emails is nil.
func NewMockMailboxService(emails []models.Email) MailboxService {
	if emails == nil {
		emails = SampleEmails
	}
	return &mockMailboxServiceImpl{emails: emails}
}

func (s *mockMailboxServiceImpl) FetchEmails(ctx context.Context, req models.FetchEmailsRequest) ([]models.Email, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("Fetching emails from mock mailbox", "provider", req.Provider, "mailbox", req.Email)

	result := make([]models.Email, len(s.emails))
	copy(result, s.emails)
	if req.Criteria == nil {
		return result, nil
	}

	if symbol := req.Criteria.Symbol; symbol != "" {
		filtered := result[:0]
		for _, e := range result {
			if strings.Contains(e.Content, symbol) {
				filtered = append(filtered, e)
			}
		}
		result = filtered
	}

	if r := req.Criteria.DateRange; r.IsSet() {
		start, err := utils.ParseDate(r.Start)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid start date: %v", ErrInvalidRequest, err)
		}
		end, err := utils.ParseDate(r.End)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid end date: %v", ErrInvalidRequest, err)
		}
		filtered := result[:0]
		for _, e := range result {
			d, err := utils.ParseDate(e.Date)
			if err != nil {
				logger.FromContext(ctx).Warn("Skipping email with unparseable date", "emailID", e.ID, "date", e.Date)
				continue
			}
			if !d.Before(start) && !d.After(end) {
				filtered = append(filtered, e)
			}
		}
		result = filtered
	}

	return result, nil
}
