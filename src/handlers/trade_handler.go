package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/username/tradewhatif/src/logger"
	"github.com/username/tradewhatif/src/models"
	"github.com/username/tradewhatif/src/processors"
	"github.com/username/tradewhatif/src/security/validation"
	"github.com/username/tradewhatif/src/services"
	"github.com/username/tradewhatif/src/utils"
)

const notAvailable = "N/A"

type TradeHandler struct {
	tradeService services.TradeService
	now          func() time.Time
}

func NewTradeHandler(tradeService services.TradeService) *TradeHandler {
	return &TradeHandler{tradeService: tradeService, now: time.Now}
}

func (h *TradeHandler) HandleParseEmails(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyzeRequest
	if err := decodeJSONBody(r, &req); err != nil {
		sendDecodeError(w, r, err)
		return
	}
	if req.Emails == nil {
		utils.SendJSONError(w, "Invalid request: emails array is required", http.StatusBadRequest)
		return
	}
	logger.FromContext(r.Context()).Info("Handling parse emails request", "emails", len(req.Emails), "mailbox", req.Mailbox)

	trades, err := h.tradeService.AnalyzeEmails(r.Context(), req)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, models.TradesResponse{Trades: trades})
}

func (h *TradeHandler) HandleGetTrades(w http.ResponseWriter, r *http.Request) {
	mailbox := strings.TrimSpace(r.URL.Query().Get("mailbox"))
	if mailbox == "" {
		utils.SendJSONError(w, "mailbox query parameter is required", http.StatusBadRequest)
		return
	}

	trades, err := h.tradeService.LatestTrades(mailbox)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, models.TradesResponse{Trades: trades})
}

// tradeCSVRow is one line of the trade analysis export.
type tradeCSVRow struct {
	Symbol          string `csv:"Symbol"`
	Type            string `csv:"Type"`
	Price           string `csv:"Price"`
	Quantity        int    `csv:"Quantity"`
	ExpiryDate      string `csv:"Expiry Date"`
	Status          string `csv:"Status"`
	Account         string `csv:"Account"`
	Broker          string `csv:"Broker"`
	PotentialProfit string `csv:"Potential P/L"`
}

func (h *TradeHandler) HandleExportTrades(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	mailbox := strings.TrimSpace(query.Get("mailbox"))
	if mailbox == "" {
		utils.SendJSONError(w, "mailbox query parameter is required", http.StatusBadRequest)
		return
	}

	days := 0
	if raw := strings.TrimSpace(query.Get("days")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			utils.SendJSONError(w, fmt.Sprintf("Invalid days parameter: %q", raw), http.StatusBadRequest)
			return
		}
		days = parsed
	}

	trades, err := h.tradeService.LatestTrades(mailbox)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}

	now := h.now()
	trades = processors.FilterTrades(trades, processors.TradeFilter{
		Kind:   processors.ParseFilterKind(query.Get("filter")),
		Search: query.Get("search"),
		Days:   days,
		Now:    now,
	})

	rows := make([]*tradeCSVRow, 0, len(trades))
	for _, t := range trades {
		rows = append(rows, toCSVRow(t))
	}

	var buf bytes.Buffer
	if err := gocsv.Marshal(&rows, &buf); err != nil {
		logger.FromContext(r.Context()).Error("Failed to write trade export", "mailbox", mailbox, "error", err)
		utils.SendJSONError(w, "Failed to generate CSV export", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("trade_analysis_%s.csv", now.Format(utils.ISODateFormat))
	logger.FromContext(r.Context()).Info("Exporting trades", "mailbox", mailbox, "rows", len(rows), "filename", filename)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.FromContext(r.Context()).Error("Error writing CSV response", "mailbox", mailbox, "error", err)
	}
}

func toCSVRow(t models.ParsedTrade) *tradeCSVRow {
	account := t.AccountNumber
	if account == "" {
		account = notAvailable
	}
	broker := t.Broker
	if broker == "" {
		broker = notAvailable
	}
	profit := "0"
	if t.HasProfit() {
		profit = t.PotentialProfit.StringFixed(2)
	}
	return &tradeCSVRow{
		Symbol:          validation.SanitizeCSVCell(t.Symbol),
		Type:            validation.SanitizeCSVCell(string(t.Type)),
		Price:           t.Price.StringFixed(2),
		Quantity:        t.Quantity,
		ExpiryDate:      validation.SanitizeCSVCell(t.ExpiryDate),
		Status:          validation.SanitizeCSVCell(t.Status),
		Account:         validation.SanitizeCSVCell(account),
		Broker:          validation.SanitizeCSVCell(broker),
		PotentialProfit: profit,
	}
}
