package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/forgenet/forgenet/internal/actorcontext"
	"github.com/forgenet/forgenet/internal/config"
	"github.com/forgenet/forgenet/internal/forgeai"
	identitydomain "github.com/forgenet/forgenet/internal/identity/domain"
	jobdomain "github.com/forgenet/forgenet/internal/job/domain"
	jobrepo "github.com/forgenet/forgenet/internal/job/repository"
	manufacturerdomain "github.com/forgenet/forgenet/internal/manufacturer/domain"
	paydomain "github.com/forgenet/forgenet/internal/payestimate/domain"
	payrepo "github.com/forgenet/forgenet/internal/payestimate/repository"
	"github.com/forgenet/forgenet/internal/workflow/domain"
)

func setupWorkflowService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&jobdomain.Job{}, &paydomain.PayEstimate{}))

	svc := New(Params{
		DB:      db,
		Log:     zap.NewNop(),
		AI:      forgeai.New(config.Config{}, zap.NewNop()),
		JobRepo: jobrepo.Provide(),
		PayRepo: payrepo.Provide(),
	})
	return svc, db
}

func workflowActor(id snowflake.ID, role identitydomain.Role) context.Context {
	return actorcontext.WithActor(context.Background(), actorcontext.Actor{ID: id, Role: role})
}

func seedActiveJob(t *testing.T, db *gorm.DB, id, mfrID snowflake.ID, status jobdomain.Status, quantity int, deadline time.Time, pay float64) {
	t.Helper()
	mfr := mfrID
	require.NoError(t, db.Create(&jobdomain.Job{
		ID:                     id,
		ClientID:               snowflake.ID(900),
		Title:                  "bracket run",
		Material:               "PLA",
		Quantity:               quantity,
		ToleranceTier:          jobdomain.TierMedium,
		Deadline:               deadline,
		Status:                 status,
		SelectedManufacturerID: &mfr,
	}).Error)
	if pay > 0 {
		require.NoError(t, db.Create(&paydomain.PayEstimate{
			JobID:        id,
			SuggestedPay: pay,
			Breakdown:    datatypes.JSONMap{},
		}).Error)
	}
}

func TestSchedulePlansByDeadlineUrgency(t *testing.T) {
	svc, db := setupWorkflowService(t)
	mfrID := snowflake.ID(7001)
	start := time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC)

	// 10 days out ranks below 2 days out even though it was seeded first
	seedActiveJob(t, db, snowflake.ID(1), mfrID, jobdomain.StatusAssigned, 3, start.Add(10*24*time.Hour), 60)
	seedActiveJob(t, db, snowflake.ID(2), mfrID, jobdomain.StatusInProduction, 2, start.Add(2*24*time.Hour), 40)

	res, err := svc.Schedule(workflowActor(mfrID, identitydomain.RoleManufacturer), domain.ScheduleRequest{
		WeekStart: &start,
	})
	require.NoError(t, err)

	require.Len(t, res.ScheduledTasks, 2)
	assert.Equal(t, snowflake.ID(2).String(), res.ScheduledTasks[0].JobID)
	assert.Equal(t, 10, res.ScheduledTasks[0].Priority)
	assert.Equal(t, start, res.ScheduledTasks[0].StartTime)
	assert.Equal(t, start.Add(4*time.Hour), res.ScheduledTasks[0].EndTime)

	assert.Equal(t, snowflake.ID(1).String(), res.ScheduledTasks[1].JobID)
	assert.Equal(t, start.Add(4*time.Hour), res.ScheduledTasks[1].StartTime)
	assert.Equal(t, start.Add(10*time.Hour), res.ScheduledTasks[1].EndTime)

	assert.Empty(t, res.UnscheduledTasks)
	assert.Empty(t, res.Conflicts)
	assert.InDelta(t, 100.0, res.TotalProfit, 1e-9)
	assert.InDelta(t, 1.0, res.ScheduleEfficiency, 1e-9)
	assert.True(t, res.Fallback)
	assert.Equal(t, "local-greedy-v1", res.ModelVersion)
}

func TestScheduleLeavesLateJobsUnscheduled(t *testing.T) {
	svc, db := setupWorkflowService(t)
	mfrID := snowflake.ID(7002)
	start := time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC)

	// 4 hours of work against a deadline one hour away
	seedActiveJob(t, db, snowflake.ID(3), mfrID, jobdomain.StatusAssigned, 2, start.Add(time.Hour), 80)

	res, err := svc.Schedule(workflowActor(mfrID, identitydomain.RoleManufacturer), domain.ScheduleRequest{
		WeekStart: &start,
	})
	require.NoError(t, err)

	assert.Empty(t, res.ScheduledTasks)
	assert.Equal(t, []string{snowflake.ID(3).String()}, res.UnscheduledTasks)
	assert.Equal(t, []string{"1 tasks could not be scheduled"}, res.Conflicts)
	assert.InDelta(t, 0.0, res.TotalProfit, 1e-9)
	assert.InDelta(t, 0.0, res.ScheduleEfficiency, 1e-9)
}

func TestScheduleSkipsSettledJobs(t *testing.T) {
	svc, db := setupWorkflowService(t)
	mfrID := snowflake.ID(7003)
	start := time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC)

	seedActiveJob(t, db, snowflake.ID(4), mfrID, jobdomain.StatusAccepted, 1, start.Add(5*24*time.Hour), 30)
	seedActiveJob(t, db, snowflake.ID(5), mfrID, jobdomain.StatusQCPending, 1, start.Add(5*24*time.Hour), 30)

	res, err := svc.Schedule(workflowActor(mfrID, identitydomain.RoleManufacturer), domain.ScheduleRequest{
		WeekStart: &start,
	})
	require.NoError(t, err)

	require.Len(t, res.ScheduledTasks, 1)
	assert.Equal(t, snowflake.ID(5).String(), res.ScheduledTasks[0].JobID)
}

func TestScheduleAuthorization(t *testing.T) {
	svc, _ := setupWorkflowService(t)

	_, err := svc.Schedule(workflowActor(snowflake.ID(1), identitydomain.RoleClient), domain.ScheduleRequest{})
	assert.ErrorIs(t, err, jobdomain.ErrForbidden)

	// a manufacturer cannot plan another manufacturer's week
	_, err = svc.Schedule(workflowActor(snowflake.ID(1), identitydomain.RoleManufacturer), domain.ScheduleRequest{
		ManufacturerID: snowflake.ID(2).String(),
	})
	assert.ErrorIs(t, err, jobdomain.ErrForbidden)

	// admins must name a target
	_, err = svc.Schedule(workflowActor(snowflake.ID(3), identitydomain.RoleAdmin), domain.ScheduleRequest{})
	assert.ErrorIs(t, err, manufacturerdomain.ErrInvalidID)
}

func TestScheduleInvalidWindow(t *testing.T) {
	svc, _ := setupWorkflowService(t)

	start := time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)
	_, err := svc.Schedule(workflowActor(snowflake.ID(1), identitydomain.RoleManufacturer), domain.ScheduleRequest{
		WeekStart: &start,
		WeekEnd:   &end,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidWindow)
}

func TestScheduleEmptyWhenIdle(t *testing.T) {
	svc, _ := setupWorkflowService(t)

	res, err := svc.Schedule(workflowActor(snowflake.ID(7004), identitydomain.RoleManufacturer), domain.ScheduleRequest{})
	require.NoError(t, err)
	assert.Empty(t, res.ScheduledTasks)
	assert.Empty(t, res.UnscheduledTasks)
	assert.InDelta(t, 0.0, res.ScheduleEfficiency, 1e-9)
	assert.True(t, res.Fallback)
}
