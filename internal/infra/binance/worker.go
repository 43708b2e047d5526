package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"tradesim/internal/domain"
	"tradesim/internal/infra"
)

const (
	maxRetries   = 10
	readTimeout  = 60 * time.Second
	quoteSuffix  = "USDT"
	streamSuffix = "@miniTicker"
)

// streamMessage wraps Binance combined-stream payloads
type streamMessage struct {
	Stream string         `json:"stream"`
	Data   tickerResponse `json:"data"`
}

// tickerResponse represents a Binance miniTicker event
type tickerResponse struct {
	EventType string `json:"e"` // 24hrMiniTicker
	EventTime int64  `json:"E"` // millis
	Symbol    string `json:"s"` // BTCUSDT
	Close     string `json:"c"` // last price
}

// Worker maintains the Binance WebSocket connection and pushes crypto
// quotes into the quote service channel.
type Worker struct {
	wsURL     string
	symbols   []string
	quoteChan chan<- []domain.Quote
	conn      *websocket.Conn
	mu        sync.RWMutex
	connected bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewWorker creates a new Binance feed worker. symbols are bare asset
// symbols ("BTC"); the USDT pair and stream name are derived here.
func NewWorker(wsURL string, symbols []string, quoteChan chan<- []domain.Quote) *Worker {
	return &Worker{
		wsURL:     wsURL,
		symbols:   symbols,
		quoteChan: quoteChan,
	}
}

// Connect starts the WebSocket connection
func (w *Worker) Connect(ctx context.Context) error {
	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.connectionLoop(ctx)
	return nil
}

func (w *Worker) connectionLoop(ctx context.Context) {
	defer w.wg.Done()
	retryCount := 0
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := w.connect(ctx); err != nil {
			slog.Warn("Binance connection failed", slog.Any("error", err), slog.Int("retry", retryCount))
			delay := infra.CalculateBackoff(retryCount)
			retryCount++
			if retryCount > maxRetries {
				retryCount = 0
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
				continue
			}
		} else {
			retryCount = 0
			w.readLoop(ctx)
		}
	}
}

func (w *Worker) connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}

	conn, _, err := dialer.DialContext(ctx, w.streamURL(), make(http.Header))
	if err != nil {
		return fmt.Errorf("dial failed: %w", err)
	}

	w.mu.Lock()
	w.conn = conn
	w.connected = true
	w.mu.Unlock()
	infra.GlobalMetrics.IncrementConnections()

	slog.Info("Binance connected", slog.Int("subs", len(w.symbols)))
	return nil
}

// streamURL builds the combined-stream URL, so no subscribe frame is
// needed after the handshake.
func (w *Worker) streamURL() string {
	streams := make([]string, len(w.symbols))
	for i, s := range w.symbols {
		streams[i] = strings.ToLower(s+quoteSuffix) + streamSuffix
	}
	return w.wsURL + "/stream?streams=" + strings.Join(streams, "/")
}

func (w *Worker) readLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		w.mu.RLock()
		if w.conn == nil {
			w.mu.RUnlock()
			return
		}
		w.conn.SetReadDeadline(time.Now().Add(readTimeout))
		w.mu.RUnlock()

		_, msg, err := w.conn.ReadMessage()
		if err != nil {
			w.closeConnection()
			return
		}
		w.handleMessage(msg)
	}
}

func (w *Worker) handleMessage(msg []byte) {
	var wrapped streamMessage
	if json.Unmarshal(msg, &wrapped) != nil || wrapped.Data.EventType != "24hrMiniTicker" {
		return
	}

	price, err := decimal.NewFromString(wrapped.Data.Close)
	if err != nil || !price.IsPositive() {
		return
	}

	quote := domain.Quote{
		Symbol:    strings.TrimSuffix(wrapped.Data.Symbol, quoteSuffix),
		AssetType: domain.AssetCrypto,
		Price:     price,
		UpdatedAt: wrapped.Data.EventTime,
	}

	select {
	case w.quoteChan <- []domain.Quote{quote}:
	default: // DROP
	}
}

func (w *Worker) closeConnection() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn != nil {
		w.conn.Close()
		w.conn = nil
	}
	if w.connected {
		infra.GlobalMetrics.DecrementConnections()
	}
	w.connected = false
}

// IsConnected reports whether the socket is currently up.
func (w *Worker) IsConnected() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.connected
}

// Disconnect stops the connection loop and closes the socket.
func (w *Worker) Disconnect() {
	if w.cancel != nil {
		w.cancel()
	}
	w.closeConnection()
	w.wg.Wait()
}
