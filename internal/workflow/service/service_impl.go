package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/forgenet/forgenet/internal/actorcontext"
	"github.com/forgenet/forgenet/internal/forgeai"
	identitydomain "github.com/forgenet/forgenet/internal/identity/domain"
	jobdomain "github.com/forgenet/forgenet/internal/job/domain"
	manufacturerdomain "github.com/forgenet/forgenet/internal/manufacturer/domain"
	paydomain "github.com/forgenet/forgenet/internal/payestimate/domain"
	"github.com/forgenet/forgenet/internal/workflow/domain"
)

const (
	capacityHoursPerDay = 16.0
	hoursPerUnit        = 2.0
	localModelLabel     = "local-greedy-v1"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	AI      *forgeai.Client
	JobRepo jobdomain.Repository
	PayRepo paydomain.Repository
}

type service struct {
	db      *gorm.DB
	log     *zap.Logger
	ai      *forgeai.Client
	jobRepo jobdomain.Repository
	payRepo paydomain.Repository
}

func New(p Params) domain.Service {
	return &service{
		db:      p.DB,
		log:     p.Log,
		ai:      p.AI,
		jobRepo: p.JobRepo,
		payRepo: p.PayRepo,
	}
}

func (s *service) Schedule(ctx context.Context, req domain.ScheduleRequest) (domain.Schedule, error) {
	target, err := resolveTarget(ctx, req)
	if err != nil {
		return domain.Schedule{}, err
	}

	start := time.Now().UTC()
	if req.WeekStart != nil {
		start = req.WeekStart.UTC()
	}
	end := start.Add(7 * 24 * time.Hour)
	if req.WeekEnd != nil {
		end = req.WeekEnd.UTC()
	}
	if !end.After(start) {
		return domain.Schedule{}, domain.ErrInvalidWindow
	}

	jobs, err := s.jobRepo.ListActiveForManufacturer(ctx, s.db, target)
	if err != nil {
		return domain.Schedule{}, err
	}

	tasks := make([]domain.Task, 0, len(jobs))
	for _, job := range jobs {
		pay := 0.0
		est, err := s.payRepo.FindByJob(ctx, s.db, job.ID)
		if err != nil {
			return domain.Schedule{}, err
		}
		if est != nil {
			pay = est.SuggestedPay
		}
		tasks = append(tasks, domain.Task{
			JobID:          job.ID.String(),
			Priority:       deadlinePriority(start, job.Deadline),
			EstimatedHours: float64(job.Quantity) * hoursPerUnit,
			Deadline:       job.Deadline,
			PayAmount:      pay,
			Material:       job.Material,
			ToleranceTier:  string(job.ToleranceTier),
		})
	}

	if s.ai.Enabled() {
		return s.delegate(ctx, tasks, start, end)
	}
	return schedule(tasks, start, end), nil
}

func resolveTarget(ctx context.Context, req domain.ScheduleRequest) (snowflake.ID, error) {
	actor, ok := actorcontext.ActorFromContext(ctx)
	if !ok {
		return 0, jobdomain.ErrForbidden
	}

	switch actor.Role {
	case identitydomain.RoleManufacturer:
		if req.ManufacturerID != "" {
			parsed, err := snowflake.ParseString(req.ManufacturerID)
			if err != nil {
				return 0, manufacturerdomain.ErrInvalidID
			}
			if parsed != actor.ID {
				return 0, jobdomain.ErrForbidden
			}
		}
		return actor.ID, nil
	case identitydomain.RoleAdmin:
		parsed, err := snowflake.ParseString(req.ManufacturerID)
		if err != nil {
			return 0, manufacturerdomain.ErrInvalidID
		}
		return parsed, nil
	default:
		return 0, jobdomain.ErrForbidden
	}
}

func (s *service) delegate(ctx context.Context, tasks []domain.Task, start, end time.Time) (domain.Schedule, error) {
	reqTasks := make([]forgeai.WorkflowTask, 0, len(tasks))
	for _, t := range tasks {
		reqTasks = append(reqTasks, forgeai.WorkflowTask{
			JobID:          t.JobID,
			Priority:       t.Priority,
			EstimatedHours: t.EstimatedHours,
			Deadline:       t.Deadline,
			PayAmount:      t.PayAmount,
			Material:       t.Material,
			ToleranceTier:  t.ToleranceTier,
		})
	}

	resp, err := s.ai.ScheduleWorkflow(ctx, forgeai.WorkflowRequest{
		Tasks:               reqTasks,
		WeekStart:           start,
		WeekEnd:             end,
		CapacityHoursPerDay: capacityHoursPerDay,
	})
	if err != nil {
		return domain.Schedule{}, err
	}

	scheduled := make([]domain.ScheduledTask, 0, len(resp.ScheduledTasks))
	for _, st := range resp.ScheduledTasks {
		scheduled = append(scheduled, domain.ScheduledTask{
			JobID:               st.JobID,
			StartTime:           st.StartTime,
			EndTime:             st.EndTime,
			EstimatedCompletion: st.EstimatedCompletion,
			Priority:            st.Priority,
			PayAmount:           st.PayAmount,
		})
	}
	return domain.Schedule{
		ScheduledTasks:     scheduled,
		UnscheduledTasks:   resp.UnscheduledTasks,
		TotalProfit:        resp.TotalProfit,
		ScheduleEfficiency: resp.ScheduleEfficiency,
		Conflicts:          resp.Conflicts,
		ModelVersion:       resp.ModelVersion,
	}, nil
}

// deadlinePriority maps deadline urgency to a 1-10 priority.
func deadlinePriority(now, deadline time.Time) int {
	days := deadline.Sub(now).Hours() / 24
	switch {
	case days < 3:
		return 10
	case days < 7:
		return 8
	case days < 14:
		return 6
	default:
		return 4
	}
}

// schedule is the local greedy planner: tasks run back to back in
// priority order, and a task that cannot finish inside the window and
// before its own deadline is left unscheduled.
func schedule(tasks []domain.Task, start, end time.Time) domain.Schedule {
	sorted := make([]domain.Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Priority != sorted[j].Priority {
			return sorted[i].Priority > sorted[j].Priority
		}
		if !sorted[i].Deadline.Equal(sorted[j].Deadline) {
			return sorted[i].Deadline.Before(sorted[j].Deadline)
		}
		return sorted[i].JobID < sorted[j].JobID
	})

	out := domain.Schedule{
		ScheduledTasks:   []domain.ScheduledTask{},
		UnscheduledTasks: []string{},
		Conflicts:        []string{},
		ModelVersion:     localModelLabel,
		Fallback:         true,
	}

	cursor := start
	for _, t := range sorted {
		finish := cursor.Add(time.Duration(t.EstimatedHours * float64(time.Hour)))
		if finish.After(end) || finish.After(t.Deadline) {
			out.UnscheduledTasks = append(out.UnscheduledTasks, t.JobID)
			continue
		}
		out.ScheduledTasks = append(out.ScheduledTasks, domain.ScheduledTask{
			JobID:               t.JobID,
			StartTime:           cursor,
			EndTime:             finish,
			EstimatedCompletion: finish,
			Priority:            t.Priority,
			PayAmount:           t.PayAmount,
		})
		out.TotalProfit += t.PayAmount
		cursor = finish
	}

	if len(sorted) > 0 {
		out.ScheduleEfficiency = float64(len(out.ScheduledTasks)) / float64(len(sorted))
	}
	if n := len(out.UnscheduledTasks); n > 0 {
		out.Conflicts = append(out.Conflicts, fmt.Sprintf("%d tasks could not be scheduled", n))
	}
	return out
}
