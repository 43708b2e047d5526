package binance

import (
	"testing"

	"tradesim/internal/domain"
)

func TestWorker_HandleMessage(t *testing.T) {
	ch := make(chan []domain.Quote, 4)
	w := NewWorker("wss://stream.binance.com:9443", []string{"BTC"}, ch)

	msg := []byte(`{"stream":"btcusdt@miniTicker","data":{"e":"24hrMiniTicker","E":1700000000000,"s":"BTCUSDT","c":"65000.5"}}`)
	w.handleMessage(msg)

	select {
	case quotes := <-ch:
		if len(quotes) != 1 {
			t.Fatalf("quotes = %d, want 1", len(quotes))
		}
		q := quotes[0]
		if q.Symbol != "BTC" {
			t.Errorf("symbol = %s, want BTC", q.Symbol)
		}
		if q.AssetType != domain.AssetCrypto {
			t.Errorf("asset type = %s, want CRYPTO", q.AssetType)
		}
		if q.Price.String() != "65000.5" {
			t.Errorf("price = %s, want 65000.5", q.Price)
		}
		if q.UpdatedAt != 1700000000000 {
			t.Errorf("updated at = %d", q.UpdatedAt)
		}
	default:
		t.Fatal("no quote pushed")
	}
}

func TestWorker_HandleMessage_Dropped(t *testing.T) {
	ch := make(chan []domain.Quote, 4)
	w := NewWorker("wss://stream.binance.com:9443", []string{"BTC"}, ch)

	cases := []struct {
		name string
		msg  string
	}{
		{"garbage", `not json`},
		{"wrong event type", `{"stream":"x","data":{"e":"trade","s":"BTCUSDT","c":"1"}}`},
		{"bad price", `{"stream":"x","data":{"e":"24hrMiniTicker","s":"BTCUSDT","c":"abc"}}`},
		{"zero price", `{"stream":"x","data":{"e":"24hrMiniTicker","s":"BTCUSDT","c":"0"}}`},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			w.handleMessage([]byte(tt.msg))
			select {
			case q := <-ch:
				t.Errorf("unexpected quote: %v", q)
			default:
			}
		})
	}
}

func TestWorker_StreamURL(t *testing.T) {
	w := NewWorker("wss://stream.binance.com:9443", []string{"BTC", "ETH"}, nil)

	want := "wss://stream.binance.com:9443/stream?streams=btcusdt@miniTicker/ethusdt@miniTicker"
	if got := w.streamURL(); got != want {
		t.Errorf("streamURL() = %s, want %s", got, want)
	}
}
