package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// --- Response types (дублируются из api/dto.go, CLI не импортирует internal/api) ---

// DeploymentResponse — deployment из API.
type DeploymentResponse struct {
	ID               string `json:"id"`
	RunnerID         string `json:"runner_id"`
	InfrastructureID string `json:"infrastructure_id,omitempty"`
	AppName          string `json:"app_name"`
	Status           string `json:"status"`
	StartedAt        string `json:"started_at,omitempty"`
	CompletedAt      string `json:"completed_at,omitempty"`
	Error            string `json:"error,omitempty"`
	CreatedAt        string `json:"created_at"`
}

// StepResponse — шаг deployment из API.
type StepResponse struct {
	ID           string `json:"id"`
	DeploymentID string `json:"deployment_id"`
	StepOrder    int    `json:"step_order"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	Command      string `json:"command"`
	Status       string `json:"status"`
	OrderID      string `json:"order_id,omitempty"`
	StartedAt    string `json:"started_at,omitempty"`
	FinishedAt   string `json:"finished_at,omitempty"`
	ExitCode     *int   `json:"exit_code,omitempty"`
	Error        string `json:"error,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// --- Request types ---

// CreateDeploymentRequest — создание deployment.
type CreateDeploymentRequest struct {
	RunnerID         string              `json:"runner_id"`
	InfrastructureID string              `json:"infrastructure_id,omitempty"`
	AppName          string              `json:"app_name"`
	Steps            []CreateStepRequest `json:"steps"`
}

// CreateStepRequest — шаг в запросе создания deployment.
type CreateStepRequest struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Command string `json:"command"`
}

// ListDeploymentsOpts — параметры фильтрации deployments.
type ListDeploymentsOpts struct {
	RunnerID string
	Status   string
	Limit    int
}

// --- API response wrappers ---

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type listResponse struct {
	Data  json.RawMessage `json:"data"`
	Total int             `json:"total"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// --- Client ---

// Client — HTTP-клиент для Bosun API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент для API.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// --- Deployments ---

// ListDeployments возвращает список deployments с фильтрацией.
func (c *Client) ListDeployments(opts ListDeploymentsOpts) ([]DeploymentResponse, error) {
	params := url.Values{}
	if opts.RunnerID != "" {
		params.Set("runner_id", opts.RunnerID)
	}
	if opts.Status != "" {
		params.Set("status", opts.Status)
	}
	if opts.Limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", opts.Limit))
	}

	var deployments []DeploymentResponse
	err := c.list("/api/v1/deployments", params, &deployments)
	return deployments, err
}

// CreateDeployment создаёт новый deployment.
func (c *Client) CreateDeployment(req CreateDeploymentRequest) (*DeploymentResponse, error) {
	var d DeploymentResponse
	err := c.post("/api/v1/deployments", req, &d)
	return &d, err
}

// GetDeployment возвращает deployment по ID.
func (c *Client) GetDeployment(id string) (*DeploymentResponse, error) {
	var d DeploymentResponse
	err := c.get("/api/v1/deployments/"+id, &d)
	return &d, err
}

// ListSteps возвращает шаги deployment.
func (c *Client) ListSteps(deploymentID string) ([]StepResponse, error) {
	var steps []StepResponse
	err := c.list("/api/v1/deployments/"+deploymentID+"/steps", nil, &steps)
	return steps, err
}

// StartDeployment запускает прогон deployment.
func (c *Client) StartDeployment(id string) (*DeploymentResponse, error) {
	var d DeploymentResponse
	err := c.post("/api/v1/deployments/"+id+"/start", nil, &d)
	return &d, err
}

// --- HTTP helpers ---

func (c *Client) get(path string, result any) error {
	return c.doData(http.MethodGet, path, nil, result)
}

func (c *Client) post(path string, body any, result any) error {
	return c.doData(http.MethodPost, path, body, result)
}

func (c *Client) list(path string, params url.Values, result any) error {
	if len(params) > 0 {
		path = path + "?" + params.Encode()
	}

	resp, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return json.Unmarshal(lr.Data, result)
}

func (c *Client) doData(method, path string, body any, result any) error {
	resp, err := c.do(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	// 204 No Content
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var dr dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if result != nil {
		return json.Unmarshal(dr.Data, result)
	}
	return nil
}

func (c *Client) do(method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return fmt.Errorf("API error: HTTP %d", resp.StatusCode)
	}

	return fmt.Errorf("%s: %s", er.Error.Code, er.Error.Message)
}
