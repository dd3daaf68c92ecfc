package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/username/tradewhatif/src/models"
	"github.com/username/tradewhatif/src/services"
)

type MockTradeService struct {
	mock.Mock
}

func (m *MockTradeService) AnalyzeEmails(ctx context.Context, req models.AnalyzeRequest) ([]models.ParsedTrade, error) {
	args := m.Called(ctx, req)
	trades, _ := args.Get(0).([]models.ParsedTrade)
	return trades, args.Error(1)
}

func (m *MockTradeService) LatestTrades(mailbox string) ([]models.ParsedTrade, error) {
	args := m.Called(mailbox)
	trades, _ := args.Get(0).([]models.ParsedTrade)
	return trades, args.Error(1)
}

type MockMailboxService struct {
	mock.Mock
}

func (m *MockMailboxService) FetchEmails(ctx context.Context, req models.FetchEmailsRequest) ([]models.Email, error) {
	args := m.Called(ctx, req)
	emails, _ := args.Get(0).([]models.Email)
	return emails, args.Error(1)
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func sampleTrade() models.ParsedTrade {
	return models.ParsedTrade{
		ID:            "OMEX-2025-04-25-0196",
		Symbol:        "OMEX",
		Type:          models.TradeTypeBuy,
		Price:         decimal.RequireFromString("1.26"),
		Quantity:      47,
		ExpiryDate:    "2025-04-25",
		Status:        models.StatusExpired,
		AccountNumber: "984",
		Broker:        "Charles Schwab",
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestHandleFetchEmails(t *testing.T) {
	mailbox := new(MockMailboxService)
	want := models.FetchEmailsRequest{Provider: "gmail", Email: "me@example.com", Criteria: &models.FetchCriteria{Symbol: "AAPL"}}
	mailbox.On("FetchEmails", mock.Anything, want).Return([]models.Email{{ID: "email2", Subject: "s", Date: "2025-04-20"}}, nil)
	h := NewEmailHandler(mailbox)

	body := `{"provider":"gmail","email":"me@example.com","criteria":{"symbol":"AAPL"}}`
	rec := httptest.NewRecorder()
	h.HandleFetchEmails(rec, httptest.NewRequest(http.MethodPost, "/api/fetch-emails", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.EmailsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Emails, 1)
	assert.Equal(t, "email2", resp.Emails[0].ID)
	mailbox.AssertExpectations(t)
}

func TestHandleFetchEmailsBadInput(t *testing.T) {
	h := NewEmailHandler(new(MockMailboxService))

	rec := httptest.NewRecorder()
	h.HandleFetchEmails(rec, httptest.NewRequest(http.MethodPost, "/api/fetch-emails", strings.NewReader(`{"email":"not-an-address"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.HandleFetchEmails(rec, httptest.NewRequest(http.MethodPost, "/api/fetch-emails", strings.NewReader(`{`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleFetchEmailsServiceError(t *testing.T) {
	mailbox := new(MockMailboxService)
	mailbox.On("FetchEmails", mock.Anything, mock.Anything).Return(nil, services.ErrInvalidRequest)
	h := NewEmailHandler(mailbox)

	rec := httptest.NewRecorder()
	h.HandleFetchEmails(rec, httptest.NewRequest(http.MethodPost, "/api/fetch-emails", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleParseEmails(t *testing.T) {
	svc := new(MockTradeService)
	svc.On("AnalyzeEmails", mock.Anything, mock.MatchedBy(func(req models.AnalyzeRequest) bool {
		return len(req.Emails) == 1 && req.FilterSymbol == "OMEX" && req.Mailbox == "me@example.com"
	})).Return([]models.ParsedTrade{sampleTrade()}, nil)
	h := NewTradeHandler(svc)

	body := `{"emails":[{"subject":"x","date":"2025-04-25","content":"y"}],"filterSymbol":"OMEX","mailbox":"me@example.com"}`
	rec := httptest.NewRecorder()
	h.HandleParseEmails(rec, httptest.NewRequest(http.MethodPost, "/api/parse-emails", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.TradesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Trades, 1)
	assert.Equal(t, "OMEX", resp.Trades[0].Symbol)
	svc.AssertExpectations(t)
}

func TestHandleParseEmailsMissingEmails(t *testing.T) {
	svc := new(MockTradeService)
	h := NewTradeHandler(svc)

	rec := httptest.NewRecorder()
	h.HandleParseEmails(rec, httptest.NewRequest(http.MethodPost, "/api/parse-emails", strings.NewReader(`{"filterSymbol":"AAPL"}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec), "emails array is required")
	svc.AssertNotCalled(t, "AnalyzeEmails", mock.Anything, mock.Anything)
}

func TestHandleParseEmailsBodyTooLarge(t *testing.T) {
	h := MaxBodyMiddleware(16)(http.HandlerFunc(NewTradeHandler(new(MockTradeService)).HandleParseEmails))

	body := `{"emails":[{"subject":"` + strings.Repeat("x", 64) + `"}]}`
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/parse-emails", strings.NewReader(body)))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHandleGetTrades(t *testing.T) {
	svc := new(MockTradeService)
	svc.On("LatestTrades", "me@example.com").Return([]models.ParsedTrade{sampleTrade()}, nil)
	svc.On("LatestTrades", "nobody@example.com").Return(nil, services.ErrNoAnalysis)
	h := NewTradeHandler(svc)

	rec := httptest.NewRecorder()
	h.HandleGetTrades(rec, httptest.NewRequest(http.MethodGet, "/api/trades?mailbox=me@example.com", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.HandleGetTrades(rec, httptest.NewRequest(http.MethodGet, "/api/trades?mailbox=nobody@example.com", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.HandleGetTrades(rec, httptest.NewRequest(http.MethodGet, "/api/trades", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleExportTrades(t *testing.T) {
	profitable := sampleTrade()
	profitable.PotentialProfit = decPtr("34.78")

	unpriced := sampleTrade()
	unpriced.ID = "AAPL-2025-04-20-0196"
	unpriced.Symbol = "AAPL"
	unpriced.Type = models.TradeTypeSell
	unpriced.Price = decimal.RequireFromString("175.5")
	unpriced.Quantity = 100
	unpriced.ExpiryDate = "2025-04-20"
	unpriced.AccountNumber = ""
	unpriced.Broker = ""

	svc := new(MockTradeService)
	svc.On("LatestTrades", "me@example.com").Return([]models.ParsedTrade{profitable, unpriced}, nil)
	h := NewTradeHandler(svc)
	h.now = func() time.Time { return time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC) }

	rec := httptest.NewRecorder()
	h.HandleExportTrades(rec, httptest.NewRequest(http.MethodGet, "/api/trades/export?mailbox=me@example.com", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="trade_analysis_2025-05-01.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Symbol,Type,Price,Quantity,Expiry Date,Status,Account,Broker,Potential P/L", lines[0])
	assert.Equal(t, "OMEX,BUY,1.26,47,2025-04-25,Expired,984,Charles Schwab,34.78", lines[1])
	assert.Equal(t, "AAPL,SELL,175.50,100,2025-04-20,Expired,N/A,N/A,0", lines[2])
}

func TestHandleExportTradesFilters(t *testing.T) {
	profitable := sampleTrade()
	profitable.PotentialProfit = decPtr("34.78")
	losing := sampleTrade()
	losing.ID = "MSFT-2025-04-20-0196"
	losing.Symbol = "MSFT"
	losing.ExpiryDate = "2025-04-20"
	losing.PotentialProfit = decPtr("-10")

	svc := new(MockTradeService)
	svc.On("LatestTrades", "me@example.com").Return([]models.ParsedTrade{profitable, losing}, nil)
	h := NewTradeHandler(svc)
	h.now = func() time.Time { return time.Date(2025, 4, 26, 0, 0, 0, 0, time.UTC) }

	rec := httptest.NewRecorder()
	h.HandleExportTrades(rec, httptest.NewRequest(http.MethodGet, "/api/trades/export?mailbox=me@example.com&filter=loss", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "MSFT,"))
	assert.True(t, strings.HasSuffix(lines[1], ",-10.00"))

	rec = httptest.NewRecorder()
	h.HandleExportTrades(rec, httptest.NewRequest(http.MethodGet, "/api/trades/export?mailbox=me@example.com&days=3", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	lines = strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "OMEX,"))

	rec = httptest.NewRecorder()
	h.HandleExportTrades(rec, httptest.NewRequest(http.MethodGet, "/api/trades/export?mailbox=me@example.com&days=week", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestToCSVRowSanitizes(t *testing.T) {
	trade := sampleTrade()
	trade.Broker = "=HYPERLINK(\"http://evil\")"
	row := toCSVRow(trade)
	assert.Equal(t, "'=HYPERLINK(\"http://evil\")", row.Broker)
	assert.Equal(t, "0", row.PotentialProfit)

	trade.Broker = "Charles\x00 Schwab\n"
	trade.AccountNumber = "\t984"
	row = toCSVRow(trade)
	assert.Equal(t, "Charles Schwab ", row.Broker)
	assert.Equal(t, " 984", row.Account)
}

func TestHandleWhatIf(t *testing.T) {
	h := NewAnalysisHandler()

	trade := sampleTrade()
	trade.PotentialProfit = decPtr("34.78")
	payload, err := json.Marshal(models.WhatIfRequest{Trade: trade})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.HandleWhatIf(rec, httptest.NewRequest(http.MethodPost, "/api/what-if", strings.NewReader(string(payload))))
	require.Equal(t, http.StatusOK, rec.Code)

	var scenario models.WhatIfScenario
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &scenario))
	assert.Equal(t, "2", scenario.CurrentPrice.String())
	assert.Equal(t, "34.78", scenario.BuyScenario.String())
	assert.Equal(t, "-34.78", scenario.SellScenario.String())
	assert.Equal(t, models.TradeTypeBuy, scenario.Recommendation)
}

func TestHandleWhatIfCustomPrice(t *testing.T) {
	h := NewAnalysisHandler()

	payload, err := json.Marshal(models.WhatIfRequest{Trade: sampleTrade(), CustomPrice: decPtr("1.00")})
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	h.HandleWhatIf(rec, httptest.NewRequest(http.MethodPost, "/api/what-if", strings.NewReader(string(payload))))
	require.Equal(t, http.StatusOK, rec.Code)

	var scenario models.WhatIfScenario
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &scenario))
	assert.Equal(t, models.TradeTypeSell, scenario.Recommendation)
	assert.Equal(t, "12.22", scenario.SellScenario.String())

	payload, err = json.Marshal(models.WhatIfRequest{Trade: sampleTrade(), CustomPrice: decPtr("0")})
	require.NoError(t, err)
	rec = httptest.NewRecorder()
	h.HandleWhatIf(rec, httptest.NewRequest(http.MethodPost, "/api/what-if", strings.NewReader(string(payload))))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleWhatIfInvalidTrade(t *testing.T) {
	h := NewAnalysisHandler()

	trade := sampleTrade()
	trade.Quantity = 0
	payload, err := json.Marshal(models.WhatIfRequest{Trade: trade})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.HandleWhatIf(rec, httptest.NewRequest(http.MethodPost, "/api/what-if", strings.NewReader(string(payload))))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec), "quantity")
}

func TestHandleInsights(t *testing.T) {
	h := NewAnalysisHandler()

	win := sampleTrade()
	win.PotentialProfit = decPtr("34.78")
	loss := sampleTrade()
	loss.ID = "AAPL-2025-04-20-0196"
	loss.Type = models.TradeTypeSell
	loss.PotentialProfit = decPtr("-5")
	payload, err := json.Marshal(models.InsightsRequest{Trades: []models.ParsedTrade{win, loss}})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.HandleInsights(rec, httptest.NewRequest(http.MethodPost, "/api/insights", strings.NewReader(string(payload))))
	require.Equal(t, http.StatusOK, rec.Code)

	var insights models.Insights
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &insights))
	assert.Equal(t, 2, insights.TotalTrades)
	assert.Equal(t, 1, insights.ProfitableTrades)
	assert.Equal(t, 1, insights.LosingTrades)
	assert.Equal(t, "29.78", insights.TotalPotentialProfit.String())
	assert.Equal(t, win.ID, insights.BestTradeID)
	assert.Equal(t, loss.ID, insights.WorstTradeID)

	rec = httptest.NewRecorder()
	h.HandleInsights(rec, httptest.NewRequest(http.MethodPost, "/api/insights", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
