package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"tradesim/internal/domain"
	"tradesim/internal/infra"
	"tradesim/internal/infra/storage"
	"tradesim/internal/ledger"
	"tradesim/internal/service"
	"tradesim/internal/valuation"
)

// Server exposes the trading core over HTTP. Identity arrives as the
// X-User-ID header from the external session layer; the core trusts it.
type Server struct {
	R               *gin.Engine
	Executor        *ledger.TradeExecutor
	Store           *storage.Storage
	Quotes          *service.QuoteService
	StartingBalance decimal.Decimal
	Logger          *slog.Logger
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type tradeBody struct {
	Symbol   string          `json:"symbol"`
	Type     string          `json:"type"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type watchlistBody struct {
	Symbol string `json:"symbol"`
	Type   string `json:"type"`
	Meta   string `json:"meta"`
}

type transactionsResponse struct {
	Rows  []domain.Transaction `json:"rows"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
	Total int64                `json:"total"`
}

// NewServer wires the router, executor, storage, and middleware.
func NewServer(executor *ledger.TradeExecutor, store *storage.Storage, quotes *service.QuoteService, startingBalance decimal.Decimal, corsOrigin string, logger *slog.Logger) *Server {
	g := gin.New()

	// Request logging
	g.Use(func(cn *gin.Context) {
		start := time.Now()
		cn.Next()
		logger.Info("http_request",
			slog.String("method", cn.Request.Method),
			slog.String("path", cn.Request.URL.Path),
			slog.Int("status", cn.Writer.Status()),
			slog.String("ip", cn.ClientIP()),
			slog.Duration("latency", time.Since(start)),
		)
	})

	g.Use(gin.Recovery())

	// CORS
	g.Use(func(cn *gin.Context) {
		origin := cn.GetHeader("Origin")
		cn.Writer.Header().Set("Vary", "Origin")
		cn.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-User-ID")
		cn.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		cn.Writer.Header().Set("Access-Control-Max-Age", "86400")
		if corsOrigin == "*" {
			cn.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else if origin != "" && origin == corsOrigin {
			cn.Writer.Header().Set("Access-Control-Allow-Origin", corsOrigin)
		}
		if cn.Request.Method == http.MethodOptions {
			cn.AbortWithStatus(http.StatusNoContent)
			return
		}
		cn.Next()
	})

	s := &Server{
		R:               g,
		Executor:        executor,
		Store:           store,
		Quotes:          quotes,
		StartingBalance: startingBalance,
		Logger:          logger,
	}

	g.GET("/health", func(cn *gin.Context) { cn.JSON(http.StatusOK, gin.H{"ok": true}) })
	g.GET("/api/metrics", func(cn *gin.Context) { cn.JSON(http.StatusOK, infra.GlobalMetrics.Snapshot()) })
	g.GET("/api/markets", s.getMarkets)

	g.POST("/api/account", s.createAccount)
	g.GET("/api/portfolio", s.getPortfolio)
	g.POST("/api/trade/buy", s.postBuy)
	g.POST("/api/trade/sell", s.postSell)
	g.GET("/api/transactions", s.getTransactions)
	g.GET("/api/watchlist", s.getWatchlist)
	g.POST("/api/watchlist", s.postWatchlist)
	g.DELETE("/api/watchlist", s.deleteWatchlist)

	return s
}

// --- Helpers ---

func (s *Server) badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, apiError{Code: "bad_request", Message: msg})
}

func (s *Server) internalError(c *gin.Context, where string, err error) {
	s.Logger.Error("internal_error", slog.String("where", where), slog.Any("error", err))
	c.JSON(http.StatusInternalServerError, apiError{Code: "internal_server_error", Message: "internal server error"})
}

// userID extracts the authenticated user from the request. Empty means
// the session layer did not identify the caller.
func (s *Server) userID(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.GetHeader("X-User-ID"))
	if id == "" {
		c.JSON(http.StatusUnauthorized, apiError{Code: "unauthorized", Message: "missing user identity"})
		return "", false
	}
	return id, true
}

func parseLimit(v string, def, min, max int) int {
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < min || n > max {
		return def
	}
	return n
}

// tradeError maps rejection reasons onto HTTP statuses. Rejections are
// surfaced verbatim; transient storage failures tell the caller to retry.
func (s *Server) tradeError(c *gin.Context, where string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrNoHolding),
		errors.Is(err, domain.ErrInsufficientHoldings):
		c.JSON(http.StatusBadRequest, apiError{Code: "rejected", Message: err.Error()})
	case errors.Is(err, domain.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, apiError{Code: "not_found", Message: err.Error()})
	case domain.IsRetriable(err):
		c.JSON(http.StatusServiceUnavailable, apiError{Code: "transient", Message: "storage unavailable, retry the request"})
	default:
		s.internalError(c, where, err)
	}
}

func (s *Server) bindTrade(c *gin.Context) (domain.TradeRequest, bool) {
	var body tradeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		s.badRequest(c, "malformed request body")
		return domain.TradeRequest{}, false
	}

	userID, ok := s.userID(c)
	if !ok {
		return domain.TradeRequest{}, false
	}

	return domain.TradeRequest{
		UserID:    userID,
		Symbol:    strings.ToUpper(strings.TrimSpace(body.Symbol)),
		AssetType: domain.AssetType(body.Type),
		Quantity:  body.Quantity,
		Price:     body.Price,
	}, true
}

// --- Handlers ---

func (s *Server) createAccount(c *gin.Context) {
	userID, ok := s.userID(c)
	if !ok {
		return
	}

	account, created, err := s.Store.EnsureAccount(userID, s.StartingBalance)
	if err != nil {
		s.internalError(c, "EnsureAccount", err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, account)
}

func (s *Server) getPortfolio(c *gin.Context) {
	userID, ok := s.userID(c)
	if !ok {
		return
	}

	account, err := s.Store.FindAccount(userID)
	if err != nil {
		s.internalError(c, "FindAccount", err)
		return
	}
	if account == nil {
		c.JSON(http.StatusNotFound, apiError{Code: "not_found", Message: domain.ErrAccountNotFound.Error()})
		return
	}

	positions, err := s.Store.ListPositions(userID)
	if err != nil {
		s.internalError(c, "ListPositions", err)
		return
	}

	c.JSON(http.StatusOK, valuation.Value(account.Balance, positions, s.Quotes.PriceMap()))
}

func (s *Server) postBuy(c *gin.Context) {
	req, ok := s.bindTrade(c)
	if !ok {
		return
	}

	result, err := s.Executor.ExecuteBuy(c.Request.Context(), req)
	if err != nil {
		s.tradeError(c, "ExecuteBuy", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) postSell(c *gin.Context) {
	req, ok := s.bindTrade(c)
	if !ok {
		return
	}

	result, err := s.Executor.ExecuteSell(c.Request.Context(), req)
	if err != nil {
		s.tradeError(c, "ExecuteSell", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) getTransactions(c *gin.Context) {
	userID, ok := s.userID(c)
	if !ok {
		return
	}

	page := parseLimit(c.Query("page"), 1, 1, 1<<30)
	limit := parseLimit(c.Query("limit"), 20, 1, 200)

	var action *domain.Action
	if raw := strings.TrimSpace(c.Query("action")); raw != "" {
		a, ok := domain.ParseAction(strings.ToUpper(raw))
		if !ok {
			s.badRequest(c, "invalid action (use BUY or SELL)")
			return
		}
		action = &a
	}

	rows, err := ledger.TransactionLog{}.List(s.Store, userID, page, limit, action)
	if err != nil {
		s.internalError(c, "ListTransactions", err)
		return
	}
	if rows == nil {
		rows = []domain.Transaction{}
	}

	total, err := s.Store.CountTransactions(userID, action)
	if err != nil {
		s.internalError(c, "CountTransactions", err)
		return
	}

	c.JSON(http.StatusOK, transactionsResponse{Rows: rows, Page: page, Limit: limit, Total: total})
}

func (s *Server) getWatchlist(c *gin.Context) {
	userID, ok := s.userID(c)
	if !ok {
		return
	}

	items, err := s.Store.ListWatchlist(userID)
	if err != nil {
		s.internalError(c, "ListWatchlist", err)
		return
	}
	if items == nil {
		items = []domain.WatchlistItem{}
	}
	c.JSON(http.StatusOK, gin.H{"watchlist": items})
}

func (s *Server) postWatchlist(c *gin.Context) {
	userID, ok := s.userID(c)
	if !ok {
		return
	}

	var body watchlistBody
	if err := c.ShouldBindJSON(&body); err != nil {
		s.badRequest(c, "malformed request body")
		return
	}

	assetType, okType := domain.ParseAssetType(strings.ToUpper(strings.TrimSpace(body.Type)))
	symbol := strings.ToUpper(strings.TrimSpace(body.Symbol))
	if symbol == "" || !okType {
		s.badRequest(c, "symbol and type are required")
		return
	}

	item := domain.WatchlistItem{
		UserID:    userID,
		Symbol:    symbol,
		AssetType: assetType,
		Meta:      body.Meta,
	}
	if err := s.Store.AddWatchlistItem(&item); err != nil {
		if errors.Is(err, domain.ErrDuplicateWatchlistItem) {
			s.badRequest(c, err.Error())
			return
		}
		s.internalError(c, "AddWatchlistItem", err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (s *Server) deleteWatchlist(c *gin.Context) {
	userID, ok := s.userID(c)
	if !ok {
		return
	}

	symbol := strings.ToUpper(strings.TrimSpace(c.Query("symbol")))
	assetType, okType := domain.ParseAssetType(strings.ToUpper(strings.TrimSpace(c.Query("type"))))
	if symbol == "" || !okType {
		s.badRequest(c, "symbol and type are required")
		return
	}

	if err := s.Store.RemoveWatchlistItem(userID, symbol, assetType); err != nil {
		if errors.Is(err, domain.ErrWatchlistItemNotFound) {
			c.JSON(http.StatusNotFound, apiError{Code: "not_found", Message: err.Error()})
			return
		}
		s.internalError(c, "RemoveWatchlistItem", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "removed from watchlist"})
}

func (s *Server) getMarkets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"quotes": s.Quotes.ListQuotes()})
}
