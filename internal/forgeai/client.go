// Package forgeai is a thin HTTP client for the external pricing/vision
// service. Every call is optional: when no base URL is configured the
// owning services fall back to their local heuristics.
package forgeai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-pkgz/repeater"
	"go.uber.org/zap"

	"github.com/forgenet/forgenet/internal/config"
)

const requestTimeout = 12 * time.Second

// ErrUnavailable is returned when no upstream is configured.
var ErrUnavailable = errors.New("forge_ai_unavailable")

type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

func New(cfg config.Config, log *zap.Logger) *Client {
	return &Client{
		baseURL: cfg.AIBaseURL,
		http:    &http.Client{Timeout: requestTimeout},
		log:     log,
	}
}

// Enabled reports whether an upstream base URL is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.baseURL != ""
}

type PayRequest struct {
	Material             string  `json:"material"`
	Quantity             int     `json:"quantity"`
	ToleranceTier        string  `json:"tolerance_tier"`
	ComplexityScore      float64 `json:"complexity_score"`
	EstimatedHours       float64 `json:"estimated_hours"`
	SetupHours           float64 `json:"setup_hours"`
	DeadlineDays         int     `json:"deadline_days"`
	StandardDeliveryDays int     `json:"standard_delivery_days"`
	MarketRatePerHour    float64 `json:"market_rate_per_hour"`
}

type PayBreakdown struct {
	Materials float64 `json:"materials"`
	Labor     float64 `json:"labor"`
	Overhead  float64 `json:"overhead"`
	Margin    float64 `json:"margin"`
}

type PayResponse struct {
	SuggestedPay float64      `json:"suggested_pay"`
	RangeLow     float64      `json:"range_low"`
	RangeHigh    float64      `json:"range_high"`
	Breakdown    PayBreakdown `json:"breakdown"`
	ModelVersion string       `json:"model_version"`
}

type QCRequest struct {
	JobID         string   `json:"job_id"`
	Material      string   `json:"material"`
	ToleranceTier string   `json:"tolerance_tier"`
	STLPath       string   `json:"stl_path,omitempty"`
	EvidencePaths []string `json:"evidence_paths"`
}

type QCResponse struct {
	Score        float64  `json:"score"`
	Similarity   float64  `json:"similarity"`
	Notes        []string `json:"notes"`
	ModelVersion string   `json:"model_version"`
}

type RateRequest struct {
	ManufacturerID string `json:"manufacturer_id"`
	Ratings        []int  `json:"ratings"`
}

type RateResponse struct {
	AverageRating float64 `json:"average_rating"`
	ModelVersion  string  `json:"model_version"`
}

type RankCandidate struct {
	ManufacturerID string   `json:"manufacturer_id"`
	Materials      []string `json:"materials"`
	ToleranceTier  string   `json:"tolerance_tier"`
	AverageRating  float64  `json:"average_rating"`
	CapacityScore  float64  `json:"capacity_score"`
	LocationState  string   `json:"location_state"`
}

type RankRequest struct {
	Material      string          `json:"material"`
	ToleranceTier string          `json:"tolerance_tier"`
	LocationState string          `json:"location_state"`
	Candidates    []RankCandidate `json:"candidates"`
}

type RankedEntry struct {
	ManufacturerID string             `json:"manufacturer_id"`
	RankScore      float64            `json:"rank_score"`
	Explanations   map[string]float64 `json:"explanations"`
}

type RankResponse struct {
	Ranked       []RankedEntry `json:"ranked"`
	ModelVersion string        `json:"model_version"`
}

type WorkflowTask struct {
	JobID          string    `json:"job_id"`
	Priority       int       `json:"priority"`
	EstimatedHours float64   `json:"estimated_hours"`
	Deadline       time.Time `json:"deadline"`
	PayAmount      float64   `json:"pay_amount"`
	Material       string    `json:"material"`
	ToleranceTier  string    `json:"tolerance_tier"`
}

type WorkflowRequest struct {
	Tasks               []WorkflowTask `json:"tasks"`
	WeekStart           time.Time      `json:"week_start"`
	WeekEnd             time.Time      `json:"week_end"`
	CapacityHoursPerDay float64        `json:"capacity_hours_per_day"`
}

type WorkflowScheduledTask struct {
	JobID               string    `json:"job_id"`
	StartTime           time.Time `json:"start_time"`
	EndTime             time.Time `json:"end_time"`
	EstimatedCompletion time.Time `json:"estimated_completion"`
	Priority            int       `json:"priority"`
	PayAmount           float64   `json:"pay_amount"`
}

type WorkflowResponse struct {
	ScheduledTasks     []WorkflowScheduledTask `json:"scheduled_tasks"`
	UnscheduledTasks   []string                `json:"unscheduled_tasks"`
	TotalProfit        float64                 `json:"total_profit"`
	ScheduleEfficiency float64                 `json:"schedule_efficiency"`
	Conflicts          []string                `json:"conflicts"`
	ModelVersion       string                  `json:"model_version"`
}

// EstimatePay delegates pricing to the upstream. Transient failures are
// retried once before the caller falls back to the local estimator.
func (c *Client) EstimatePay(ctx context.Context, req PayRequest) (PayResponse, error) {
	var out PayResponse
	if !c.Enabled() {
		return out, ErrUnavailable
	}
	rep := repeater.NewDefault(2, 250*time.Millisecond)
	err := rep.Do(ctx, func() error {
		return c.post(ctx, "/pay/estimate", req, &out)
	})
	return out, err
}

func (c *Client) CheckQuality(ctx context.Context, req QCRequest) (QCResponse, error) {
	var out QCResponse
	if !c.Enabled() {
		return out, ErrUnavailable
	}
	err := c.post(ctx, "/qc/check", req, &out)
	return out, err
}

func (c *Client) AggregateRatings(ctx context.Context, req RateRequest) (RateResponse, error) {
	var out RateResponse
	if !c.Enabled() {
		return out, ErrUnavailable
	}
	err := c.post(ctx, "/ratings/aggregate", req, &out)
	return out, err
}

func (c *Client) RankManufacturers(ctx context.Context, req RankRequest) (RankResponse, error) {
	var out RankResponse
	if !c.Enabled() {
		return out, ErrUnavailable
	}
	err := c.post(ctx, "/manufacturers/rank", req, &out)
	return out, err
}

func (c *Client) ScheduleWorkflow(ctx context.Context, req WorkflowRequest) (WorkflowResponse, error) {
	var out WorkflowResponse
	if !c.Enabled() {
		return out, ErrUnavailable
	}
	err := c.post(ctx, "/workflow/schedule", req, &out)
	return out, err
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn("forge-ai upstream error",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("forge-ai %s: status %d", path, resp.StatusCode)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
