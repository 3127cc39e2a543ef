package baas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/m7one/storefront/internal/order/domain"
)

// Submitter writes orders to the hosted backend: insert the order row,
// insert its items, then finalize the human-readable order number.
type Submitter struct {
	baseURL string
	anonKey string
	http    *http.Client
	log     *slog.Logger
}

func NewSubmitter(baseURL, anonKey string, timeout time.Duration, log *slog.Logger) *Submitter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Submitter{
		baseURL: baseURL,
		anonKey: anonKey,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

type orderRow struct {
	OrderNumber     string          `json:"order_number"`
	CustomerEmail   string          `json:"customer_email"`
	CustomerName    string          `json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone,omitempty"`
	Total           decimal.Decimal `json:"total"`
	Status          string          `json:"status"`
	ShippingAddress addressDoc      `json:"shipping_address"`
}

// addressDoc mirrors the backend's jsonb column: the address plus the
// customer info and payment method folded in.
type addressDoc struct {
	domain.ShippingAddress
	CustomerInfo  domain.CustomerInfo `json:"customer_info"`
	PaymentMethod string              `json:"payment_method"`
}

type createdOrder struct {
	ID          int64  `json:"id"`
	OrderNumber string `json:"order_number"`
}

type itemRow struct {
	OrderID   int64           `json:"order_id"`
	ProductID int64           `json:"product_id"`
	Name      string          `json:"product_name"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Total     decimal.Decimal `json:"total"`
}

func (s *Submitter) Submit(ctx context.Context, sub domain.Submission) (domain.Result, error) {
	temp := tempOrderNumber()

	row := orderRow{
		OrderNumber:   temp,
		CustomerEmail: sub.CustomerInfo.Email,
		CustomerName:  sub.CustomerInfo.FirstName + " " + sub.CustomerInfo.LastName,
		CustomerPhone: sub.CustomerInfo.Phone,
		Total:         sub.Total,
		Status:        "pending",
		ShippingAddress: addressDoc{
			ShippingAddress: sub.ShippingAddress,
			CustomerInfo:    sub.CustomerInfo,
			PaymentMethod:   sub.PaymentMethod,
		},
	}

	var created []createdOrder
	status, err := s.post(ctx, "/rest/v1/orders", sub.IdempotencyKey, []orderRow{row}, &created)
	if err != nil {
		return domain.Result{}, err
	}
	if status < 200 || status >= 300 || len(created) == 0 {
		return domain.Result{
			Success: false,
			Message: fmt.Sprintf("order could not be created (status %d)", status),
		}, nil
	}
	order := created[0]

	items := make([]itemRow, 0, len(sub.Items))
	for _, it := range sub.Items {
		items = append(items, itemRow{
			OrderID:   order.ID,
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     it.UnitPrice,
			Total:     it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity)),
		})
	}
	status, err = s.post(ctx, "/rest/v1/order_items", sub.IdempotencyKey, items, nil)
	if err != nil {
		return domain.Result{}, err
	}
	if status < 200 || status >= 300 {
		return domain.Result{
			Success: false,
			Message: fmt.Sprintf("order items could not be saved (status %d)", status),
		}, nil
	}

	number := s.finalizeNumber(ctx, order, temp)

	return domain.Result{
		Success:     true,
		OrderID:     strconv.FormatInt(order.ID, 10),
		OrderNumber: number,
	}, nil
}

// finalizeNumber replaces the provisional number with the dated form
// ORD-YYYYMMDD-NNNNNN. Best effort: the provisional number is still a
// valid identifier if the update fails.
func (s *Submitter) finalizeNumber(ctx context.Context, order createdOrder, temp string) string {
	if order.OrderNumber != "" && order.OrderNumber != temp {
		return order.OrderNumber
	}

	final := fmt.Sprintf("ORD-%s-%06d", time.Now().Format("20060102"), order.ID)
	patch := map[string]string{"order_number": final}

	body, _ := json.Marshal(patch)
	url := fmt.Sprintf("%s/rest/v1/orders?id=eq.%d", s.baseURL, order.ID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(body))
	if err != nil {
		return temp
	}
	s.setHeaders(req, "")

	resp, err := s.http.Do(req)
	if err != nil {
		s.log.Warn("order number finalize failed", slog.Any("err", err))
		return temp
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return temp
	}
	return final
}

func (s *Submitter) post(ctx context.Context, path, idemKey string, payload, out any) (int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("encode order payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build order request: %w", err)
	}
	s.setHeaders(req, idemKey)

	resp, err := s.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("order request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode order response: %w", err)
		}
	} else {
		io.Copy(io.Discard, resp.Body)
	}
	return resp.StatusCode, nil
}

func (s *Submitter) setHeaders(req *http.Request, idemKey string) {
	req.Header.Set("apikey", s.anonKey)
	req.Header.Set("Authorization", "Bearer "+s.anonKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")
	if idemKey != "" {
		req.Header.Set("Idempotency-Key", idemKey)
	}
}

func tempOrderNumber() string {
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
