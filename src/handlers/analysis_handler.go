package handlers

import (
	"net/http"

	"github.com/username/tradewhatif/src/logger"
	"github.com/username/tradewhatif/src/models"
	"github.com/username/tradewhatif/src/processors"
	"github.com/username/tradewhatif/src/security/validation"
	"github.com/username/tradewhatif/src/utils"
)

// AnalysisHandler serves the stateless what-if and insight computations.
type AnalysisHandler struct{}

func NewAnalysisHandler() *AnalysisHandler {
	return &AnalysisHandler{}
}

func (h *AnalysisHandler) HandleWhatIf(w http.ResponseWriter, r *http.Request) {
	var req models.WhatIfRequest
	if err := decodeJSONBody(r, &req); err != nil {
		sendDecodeError(w, r, err)
		return
	}
	if err := validation.ValidateTrade(req.Trade); err != nil {
		logger.FromContext(r.Context()).Warn("What-if trade failed validation", "tradeID", req.Trade.ID, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	currentPrice := processors.ImpliedCurrentPrice(req.Trade)
	if req.CustomPrice != nil {
		if !req.CustomPrice.IsPositive() {
			utils.SendJSONError(w, "customPrice must be greater than zero", http.StatusBadRequest)
			return
		}
		currentPrice = *req.CustomPrice
	}
	logger.FromContext(r.Context()).Debug("Building what-if scenario", "tradeID", req.Trade.ID, "currentPrice", currentPrice.String())

	utils.WriteJSON(w, http.StatusOK, processors.BuildScenario(req.Trade, currentPrice))
}

func (h *AnalysisHandler) HandleInsights(w http.ResponseWriter, r *http.Request) {
	var req models.InsightsRequest
	if err := decodeJSONBody(r, &req); err != nil {
		sendDecodeError(w, r, err)
		return
	}
	if req.Trades == nil {
		utils.SendJSONError(w, "Invalid request: trades array is required", http.StatusBadRequest)
		return
	}
	utils.WriteJSON(w, http.StatusOK, processors.Summarize(req.Trades))
}
