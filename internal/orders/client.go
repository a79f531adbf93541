package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Bosun/internal/domain"
)

const defaultTimeout = 30 * time.Second

// CreateOrderRequest — запрос на создание order.
type CreateOrderRequest struct {
	// RunnerID — runner, который должен выполнить команду.
	RunnerID uuid.UUID `json:"runnerId"`

	// InfrastructureID — целевая инфраструктура (опционально).
	InfrastructureID *uuid.UUID `json:"infrastructureId,omitempty"`

	// Category — категория order (тип шага).
	Category string `json:"category"`

	// Name — короткое имя для оператора.
	Name string `json:"name"`

	// Description — человекочитаемое описание.
	Description string `json:"description"`

	// Command — команда для выполнения. Непрозрачна.
	Command string `json:"command"`
}

// orderResponse — order в формате внешнего API.
type orderResponse struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	ExitCode     *int   `json:"exitCode,omitempty"`
	StdoutTail   string `json:"stdoutTail,omitempty"`
	StderrTail   string `json:"stderrTail,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// errorResponse — ошибка в формате внешнего API.
type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client — HTTP-клиент для orders API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient создаёт клиент для orders API.
// token добавляется как Bearer-токен; пустой token — без авторизации.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// CreateOrder создаёт order во внешнем сервисе.
//
// Возврат без ошибки означает только, что order принят в очередь
// (fire-and-forget): дальнейший прогресс наблюдается через GetOrder.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*domain.Order, error) {
	var resp orderResponse
	if err := c.doData(ctx, http.MethodPost, "/api/v1/orders", req, &resp); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return orderFromResponse(&resp), nil
}

// GetOrder возвращает текущее состояние order по ID.
func (c *Client) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	var resp orderResponse
	if err := c.doData(ctx, http.MethodGet, "/api/v1/orders/"+id, nil, &resp); err != nil {
		return nil, fmt.Errorf("get order %s: %w", id, err)
	}
	return orderFromResponse(&resp), nil
}

// orderFromResponse конвертирует ответ API в domain.Order.
func orderFromResponse(resp *orderResponse) *domain.Order {
	return &domain.Order{
		ID:           resp.ID,
		Status:       domain.OrderStatus(resp.Status),
		ExitCode:     resp.ExitCode,
		StdoutTail:   resp.StdoutTail,
		StderrTail:   resp.StderrTail,
		ErrorMessage: resp.ErrorMessage,
	}
}

// --- HTTP helpers ---

func (c *Client) doData(ctx context.Context, method, path string, body any, result any) error {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	return c.httpClient.Do(req)
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return fmt.Errorf("orders API error: HTTP %d", resp.StatusCode)
	}

	return fmt.Errorf("%s: %s", er.Error.Code, er.Error.Message)
}
