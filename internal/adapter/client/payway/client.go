package payway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kimsann/payway-checkout/internal/adapter/config"
	"github.com/kimsann/payway-checkout/internal/core/domain"
	"github.com/kimsann/payway-checkout/internal/core/port"
	"go.uber.org/zap"
)

const reqTimeLayout = "20060102150405"

// Client talks to the ABA PayWay gateway. Checkout is redirect-based, so
// BuildCheckout only signs fields for the browser to submit; the one
// outbound HTTP call is the explicit transaction check.
type Client struct {
	cfg        *config.PayWay
	logger     *zap.Logger
	httpClient *http.Client
	statusMap  map[int]domain.PaymentOutcome
}

func NewClient(cfg *config.PayWay, logger *zap.Logger) (*Client, error) {
	if cfg.MerchantID == "" || cfg.APIKey == "" || cfg.CheckoutURL == "" {
		return nil, domain.ErrGatewayConfig
	}

	statusMap, err := parseStatusCodes(cfg.StatusCodes)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrGatewayConfig, err)
	}

	return &Client{
		cfg:        cfg,
		logger:     logger,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		statusMap:  statusMap,
	}, nil
}

func (c *Client) BuildCheckout(order *domain.Order, refNo string) (*port.CheckoutRequest, error) {
	reqTime := time.Now().UTC().Format(reqTimeLayout)
	amount := fmt.Sprintf("%.2f", order.TotalPrice)

	// Canonical signing order per the gateway contract:
	// req_time + merchant_id + tran_id + amount + return_url.
	hash := sign(c.cfg.APIKey, reqTime, c.cfg.MerchantID, refNo, amount, c.cfg.ReturnURL)

	fields := url.Values{}
	fields.Set("req_time", reqTime)
	fields.Set("merchant_id", c.cfg.MerchantID)
	fields.Set("tran_id", refNo)
	fields.Set("amount", amount)
	fields.Set("currency", c.cfg.Currency)
	fields.Set("return_url", c.cfg.ReturnURL)
	fields.Set("hash", hash)

	return &port.CheckoutRequest{
		Endpoint: c.cfg.CheckoutURL,
		Fields:   fields,
	}, nil
}

func (c *Client) VerifyCallback(notice *port.CallbackNotice) error {
	// Recomputed over the received fields, excluding the hash itself:
	// tran_id + apv + status.
	expected := sign(c.cfg.APIKey, notice.TranID, notice.ApprovedAmount, strconv.Itoa(notice.StatusCode))
	if !signatureEqual(notice.Hash, expected) {
		return domain.ErrInvalidSignature
	}
	return nil
}

func (c *Client) MapStatus(code int) domain.PaymentOutcome {
	outcome, ok := c.statusMap[code]
	if !ok {
		// Unknown codes stay pending rather than guessing terminal state.
		c.logger.Warn("unknown gateway status code", zap.Int("code", code))
		return domain.OutcomePending
	}
	return outcome
}

type checkResponse struct {
	TranID string `json:"tran_id"`
	Status int    `json:"status"`
	Apv    string `json:"apv"`
}

func (c *Client) CheckTransaction(ctx context.Context, refNo string) (*port.TransactionState, error) {
	if c.cfg.CheckURL == "" {
		return nil, domain.ErrGatewayConfig
	}

	reqTime := time.Now().UTC().Format(reqTimeLayout)
	form := url.Values{}
	form.Set("req_time", reqTime)
	form.Set("merchant_id", c.cfg.MerchantID)
	form.Set("tran_id", refNo)
	form.Set("hash", sign(c.cfg.APIKey, reqTime, c.cfg.MerchantID, refNo))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.CheckURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("error building check request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("check request error for %s: %w", refNo, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("unexpected status for check request",
			zap.String("tran_id", refNo), zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("bad response %v for check request %s", resp.StatusCode, refNo)
	}

	var result checkResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error on check response decode: %w", err)
	}

	return &port.TransactionState{
		TranID:         result.TranID,
		StatusCode:     result.Status,
		ApprovedAmount: result.Apv,
	}, nil
}
