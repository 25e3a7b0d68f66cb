package statuswatch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kimsann/payway-checkout/internal/core/domain"
)

// HTTPSource polls the service's authenticated status endpoint. It is the
// out-of-process counterpart to wiring the service itself as the source.
type HTTPSource struct {
	host   string
	token  string
	client *http.Client
}

func NewHTTPSource(host string, token string) *HTTPSource {
	return &HTTPSource{
		host:   host,
		token:  token,
		client: &http.Client{},
	}
}

type statusResponse struct {
	OrderID uint64                `json:"order_id"`
	IsPaid  bool                  `json:"is_paid"`
	Status  string                `json:"status"`
	Result  *domain.PaymentResult `json:"payment_result"`
}

func (s *HTTPSource) OrderPaymentStatus(ctx context.Context, orderID uint64) (*domain.OrderPaymentStatus, error) {
	requestStr := fmt.Sprintf("http://%s/api/orders/%d/status", s.host, orderID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestStr, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("error on %s : %w", requestStr, err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request error %s : %w", requestStr, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad response %v for request %s", resp.StatusCode, requestStr)
	}

	var result statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error on response decode: %w", err)
	}

	return &domain.OrderPaymentStatus{
		OrderID: result.OrderID,
		IsPaid:  result.IsPaid,
		Status:  domain.PaymentStatus(result.Status),
		Result:  result.Result,
	}, nil
}
