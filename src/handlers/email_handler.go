package handlers

import (
	"net/http"

	"github.com/username/tradewhatif/src/logger"
	"github.com/username/tradewhatif/src/models"
	"github.com/username/tradewhatif/src/security/validation"
	"github.com/username/tradewhatif/src/services"
	"github.com/username/tradewhatif/src/utils"
)

type EmailHandler struct {
	mailboxService services.MailboxService
}

func NewEmailHandler(mailboxService services.MailboxService) *EmailHandler {
	return &EmailHandler{mailboxService: mailboxService}
}

func (h *EmailHandler) HandleFetchEmails(w http.ResponseWriter, r *http.Request) {
	var req models.FetchEmailsRequest
	if err := decodeJSONBody(r, &req); err != nil {
		sendDecodeError(w, r, err)
		return
	}
	if err := validation.ValidateStruct(req); err != nil {
		logger.FromContext(r.Context()).Warn("Fetch emails request failed validation", "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	logger.FromContext(r.Context()).Info("Handling fetch emails request", "provider", req.Provider, "mailbox", req.Email)

	emails, err := h.mailboxService.FetchEmails(r.Context(), req)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	if emails == nil {
		emails = []models.Email{}
	}
	utils.WriteJSON(w, http.StatusOK, models.EmailsResponse{Emails: emails})
}
