package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Client is the HTTP implementation of RandomnessProvider
type Client struct {
	BaseURL string
	client  *http.Client
}

// NewClient creates a new oracle client
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type priceResponse struct {
	Price string `json:"price"`
}

type randomnessRequest struct {
	CallbackGasLimit     uint32 `json:"callbackGasLimit"`
	RequestConfirmations uint16 `json:"requestConfirmations"`
	NumWords             uint32 `json:"numWords"`
	ExtraArgs            string `json:"extraArgs"`
	Payment              string `json:"payment,omitempty"`
}

type randomnessResponse struct {
	RequestID uint64 `json:"requestId"`
}

// QuotePrice retrieves the current request price from the oracle
func (c *Client) QuotePrice(ctx context.Context, callbackGasLimit uint32, numWords uint32) (*big.Int, error) {
	q := url.Values{}
	q.Set("callbackGasLimit", strconv.FormatUint(uint64(callbackGasLimit), 10))
	q.Set("numWords", strconv.FormatUint(uint64(numWords), 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/v1/price?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build price request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("oracle price request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oracle price request returned status %d", resp.StatusCode)
	}

	var body priceResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode price response: %w", err)
	}

	price, ok := new(big.Int).SetString(body.Price, 10)
	if !ok {
		return nil, fmt.Errorf("oracle returned invalid price %q", body.Price)
	}
	return price, nil
}

// RequestRandomness submits a paid randomness request to the oracle
func (c *Client) RequestRandomness(ctx context.Context, callbackGasLimit uint32, requestConfirmations uint16, numWords uint32, extraArgs []byte, payment *big.Int) (uint64, error) {
	body := randomnessRequest{
		CallbackGasLimit:     callbackGasLimit,
		RequestConfirmations: requestConfirmations,
		NumWords:             numWords,
		ExtraArgs:            hexutil.Encode(extraArgs),
	}
	if payment != nil {
		body.Payment = payment.String()
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("failed to encode randomness request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/requests", bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("failed to build randomness request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("oracle randomness request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return 0, fmt.Errorf("oracle randomness request returned status %d", resp.StatusCode)
	}

	var respBody randomnessResponse
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		return 0, fmt.Errorf("failed to decode randomness response: %w", err)
	}
	return respBody.RequestID, nil
}
