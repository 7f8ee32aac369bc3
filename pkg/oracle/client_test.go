package oracle

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientQuotePrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/price", r.URL.Path)
		assert.Equal(t, "100000", r.URL.Query().Get("callbackGasLimit"))
		assert.Equal(t, "1", r.URL.Query().Get("numWords"))
		json.NewEncoder(w).Encode(map[string]string{"price": "123456"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	price, err := c.QuotePrice(context.Background(), 100000, 1)
	require.NoError(t, err)
	assert.Equal(t, "123456", price.String())
}

func TestClientQuotePriceErrors(t *testing.T) {
	t.Run("non-200 status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, time.Second)
		_, err := c.QuotePrice(context.Background(), 100000, 1)
		assert.Error(t, err)
	})

	t.Run("invalid price payload", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"price": "not-a-number"})
		}))
		defer srv.Close()

		c := NewClient(srv.URL, time.Second)
		_, err := c.QuotePrice(context.Background(), 100000, 1)
		assert.Error(t, err)
	})
}

func TestClientRequestRandomness(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/requests", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var body struct {
			CallbackGasLimit     uint32 `json:"callbackGasLimit"`
			RequestConfirmations uint16 `json:"requestConfirmations"`
			NumWords             uint32 `json:"numWords"`
			ExtraArgs            string `json:"extraArgs"`
			Payment              string `json:"payment"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, uint32(100000), body.CallbackGasLimit)
		assert.Equal(t, uint16(3), body.RequestConfirmations)
		assert.Equal(t, uint32(1), body.NumWords)
		assert.Equal(t, "5000", body.Payment)
		// hex-encoded 64-byte payload with the ExtraArgsV1 tag up front
		assert.Len(t, body.ExtraArgs, 2+2*ExtraArgsLen)
		assert.Equal(t, "0x92fd1338", body.ExtraArgs[:10])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]uint64{"requestId": 77})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	id, err := c.RequestRandomness(context.Background(), 100000, 3, 1, ExtraArgsNativePayment(), big.NewInt(5000))
	require.NoError(t, err)
	assert.Equal(t, uint64(77), id)
}
