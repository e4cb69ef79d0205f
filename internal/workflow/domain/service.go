package domain

import (
	"context"
	"errors"
	"time"
)

type ScheduleRequest struct {
	ManufacturerID string     `json:"manufacturer_id"`
	WeekStart      *time.Time `json:"week_start,omitempty"`
	WeekEnd        *time.Time `json:"week_end,omitempty"`
}

// Task is one active job flattened into scheduling terms.
type Task struct {
	JobID          string    `json:"job_id"`
	Priority       int       `json:"priority"`
	EstimatedHours float64   `json:"estimated_hours"`
	Deadline       time.Time `json:"deadline"`
	PayAmount      float64   `json:"pay_amount"`
	Material       string    `json:"material"`
	ToleranceTier  string    `json:"tolerance_tier"`
}

type ScheduledTask struct {
	JobID               string    `json:"job_id"`
	StartTime           time.Time `json:"start_time"`
	EndTime             time.Time `json:"end_time"`
	EstimatedCompletion time.Time `json:"estimated_completion"`
	Priority            int       `json:"priority"`
	PayAmount           float64   `json:"pay_amount"`
}

type Schedule struct {
	ScheduledTasks     []ScheduledTask `json:"scheduled_tasks"`
	UnscheduledTasks   []string        `json:"unscheduled_tasks"`
	TotalProfit        float64         `json:"total_profit"`
	ScheduleEfficiency float64         `json:"schedule_efficiency"`
	Conflicts          []string        `json:"conflicts"`
	ModelVersion       string          `json:"model_version"`
	Fallback           bool            `json:"fallback"`
}

type Service interface {
	// Schedule plans the manufacturer's active jobs over the coming week,
	// delegating upstream when configured and otherwise using the local
	// greedy planner.
	Schedule(context.Context, ScheduleRequest) (Schedule, error)
}

var ErrInvalidWindow = errors.New("invalid_schedule_window")
