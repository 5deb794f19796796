package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/readar/marketplace-service/pkg/circuit_breaker"
)

type PhonePeConfig struct {
	BaseURL       string        `envconfig:"PHONEPE_BASE_URL" default:"https://api-preprod.phonepe.com/apis/pg-sandbox"`
	ClientID      string        `envconfig:"PHONEPE_CLIENT_ID"`
	ClientSecret  string        `envconfig:"PHONEPE_CLIENT_SECRET"`
	ClientVersion int           `envconfig:"PHONEPE_CLIENT_VERSION" default:"1"`
	Timeout       time.Duration `envconfig:"PHONEPE_TIMEOUT" default:"30s"`
}

// PhonePe talks to the PhonePe standard-checkout v2 API. All calls go
// through a circuit breaker so a gateway outage degrades to
// "status temporarily unknown" instead of hammering the provider.
type PhonePe struct {
	cfg    PhonePeConfig
	client *http.Client
	cb     circuit_breaker.CircuitBreaker
	log    *zap.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

var _ Gateway = (*PhonePe)(nil)

func NewPhonePe(cfg PhonePeConfig, log *zap.Logger) *PhonePe {
	return &PhonePe{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		cb:     circuit_breaker.New(20, 30*time.Second, 0.5, 3),
		log:    log.Named("phonepe"),
	}
}

// paisa converts rupees to the integer paisa amount PhonePe expects.
func paisa(amount float64) int64 {
	return int64(amount*100 + 0.5)
}

func (p *PhonePe) token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.accessToken != "" && time.Now().Before(p.tokenExpiry) {
		return p.accessToken, nil
	}

	form := url.Values{}
	form.Set("client_id", p.cfg.ClientID)
	form.Set("client_secret", p.cfg.ClientSecret)
	form.Set("client_version", fmt.Sprint(p.cfg.ClientVersion))
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.cfg.BaseURL+"/v1/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", errors.Errorf("phonepe oauth: %s", resp.Status)
	}

	var out struct {
		AccessToken string `json:"access_token"`
		ExpiresAt   int64  `json:"expires_at"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", errors.New("phonepe oauth: empty access token")
	}
	p.accessToken = out.AccessToken
	p.tokenExpiry = time.Unix(out.ExpiresAt, 0).Add(-time.Minute)
	return p.accessToken, nil
}

func (p *PhonePe) do(ctx context.Context, method, path string, body any, out any) error {
	return p.cb.Call(func() error {
		token, err := p.token(ctx)
		if err != nil {
			return errors.Wrap(err, "token")
		}

		var rd io.Reader
		if body != nil {
			b := bytes.NewBuffer(nil)
			if err := json.NewEncoder(b).Encode(body); err != nil {
				return err
			}
			rd = b
		}
		req, err := http.NewRequestWithContext(ctx, method, p.cfg.BaseURL+path, rd)
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "O-Bearer "+token)

		resp, err := p.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode >= http.StatusMultipleChoices {
			p.log.Warn("phonepe call failed",
				zap.String("path", path),
				zap.Int("status", resp.StatusCode),
				zap.ByteString("body", raw))
			return errors.Errorf("phonepe %s: %s", path, resp.Status)
		}
		return json.Unmarshal(raw, out)
	})
}

func (p *PhonePe) CreateOrder(ctx context.Context, req CreateOrderRequest) (Order, error) {
	body := map[string]any{
		"merchantOrderId": req.MerchantOrderID,
		"amount":          paisa(req.Amount),
		"metaInfo":        metaInfo(req.Metadata),
		"paymentFlow": map[string]any{
			"type": "PG_CHECKOUT",
			"merchantUrls": map[string]string{
				"redirectUrl": req.RedirectURL,
			},
		},
	}
	var out struct {
		OrderID     string `json:"orderId"`
		RedirectURL string `json:"redirectUrl"`
	}
	if err := p.do(ctx, http.MethodPost, "/checkout/v2/pay", body, &out); err != nil {
		return Order{}, err
	}
	if out.OrderID == "" || out.RedirectURL == "" {
		return Order{}, errors.New("phonepe pay: empty order id or redirect url")
	}
	return Order{OrderID: out.OrderID, PaymentURL: out.RedirectURL}, nil
}

func (p *PhonePe) PollStatus(ctx context.Context, merchantOrderID string) (OrderStatus, error) {
	var out struct {
		State          string `json:"state"`
		PaymentDetails []struct {
			TransactionID string `json:"transactionId"`
		} `json:"paymentDetails"`
	}
	path := fmt.Sprintf("/checkout/v2/order/%s/status", merchantOrderID)
	if err := p.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return OrderStatus{}, err
	}

	st := OrderStatus{Raw: mustMarshal(out)}
	switch out.State {
	case "COMPLETED":
		st.State = StateCompleted
	case "FAILED":
		st.State = StateFailed
	default:
		// PENDING and any intermediate provider state
		st.State = StatePending
	}
	if len(out.PaymentDetails) > 0 {
		st.TransactionID = out.PaymentDetails[len(out.PaymentDetails)-1].TransactionID
	}
	return st, nil
}

func (p *PhonePe) Refund(ctx context.Context, merchantOrderID string, amount float64, refundID string) (RefundResult, error) {
	body := map[string]any{
		"merchantRefundId": refundID,
		"originalMerchantOrderId": merchantOrderID,
		"amount":           paisa(amount),
	}
	var out struct {
		State string `json:"state"`
	}
	if err := p.do(ctx, http.MethodPost, "/payments/v2/refund", body, &out); err != nil {
		return RefundResult{}, err
	}
	return RefundResult{State: out.State}, nil
}

func metaInfo(md map[string]string) map[string]string {
	// PhonePe carries at most five opaque udf fields.
	keys := []string{"udf1", "udf2", "udf3", "udf4", "udf5"}
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := md[k]; ok {
			out[k] = v
		}
	}
	return out
}

func mustMarshal(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}
