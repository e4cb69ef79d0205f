package domain

import (
	"context"
	"errors"
	"time"

	"github.com/forgenet/forgenet/pkg/db/pagination"
)

type CreateJobRequest struct {
	Title          string
	Description    string
	Material       string
	Quantity       int
	ToleranceTier  string
	ToleranceThou  *float64
	Deadline       *time.Time
	EstimatedHours float64
	STLPath        string
}

type CreateJobResponse struct {
	JobID                  string  `json:"job_id"`
	Status                 Status  `json:"status"`
	SelectedManufacturerID *string `json:"selected_manufacturer_id"`
}

type ListJobsRequest struct {
	PageToken string
	PageSize  int
	Status    string
}

type ListJobsResponse struct {
	pagination.PageInfo
	Jobs []Job `json:"jobs"`
}

type Service interface {
	Create(context.Context, CreateJobRequest) (CreateJobResponse, error)
	GetByID(ctx context.Context, id string) (Job, error)
	List(context.Context, ListJobsRequest) (ListJobsResponse, error)
}

var (
	ErrNotFound          = errors.New("job_not_found")
	ErrForbidden         = errors.New("forbidden")
	ErrNoManufacturer    = errors.New("no_manufacturer_assigned")
	ErrInvalidTransition = errors.New("invalid_status_transition")
	ErrStaleStatus       = errors.New("stale_job_status")
	ErrInvalidTitle      = errors.New("invalid_title")
	ErrInvalidMaterial   = errors.New("invalid_material")
	ErrInvalidQuantity   = errors.New("invalid_quantity")
	ErrInvalidTolerance  = errors.New("invalid_tolerance_tier")
	ErrInvalidStatus     = errors.New("invalid_status")
	ErrInvalidID         = errors.New("invalid_id")
)
