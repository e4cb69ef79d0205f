package service

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/forgenet/forgenet/internal/actorcontext"
	identitydomain "github.com/forgenet/forgenet/internal/identity/domain"
	jobdomain "github.com/forgenet/forgenet/internal/job/domain"
	jobrepo "github.com/forgenet/forgenet/internal/job/repository"
	"github.com/forgenet/forgenet/internal/qc/domain"
	qcrepo "github.com/forgenet/forgenet/internal/qc/repository"
	"github.com/forgenet/forgenet/internal/qc/scorer"
)

func setupQCService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&jobdomain.Job{}, &domain.QCRecord{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:      db,
		Log:     zap.NewNop(),
		GenID:   node,
		Repo:    qcrepo.Provide(),
		JobRepo: jobrepo.Provide(),
		Scorer:  scorer.NewLocal(),
	})
	return svc, db
}

var seedSeq atomic.Int64

func seedJob(t *testing.T, db *gorm.DB, status jobdomain.Status, clientID snowflake.ID, mfrID *snowflake.ID) *jobdomain.Job {
	t.Helper()
	job := &jobdomain.Job{
		ID:                     snowflake.ID(5000 + seedSeq.Add(1)),
		ClientID:               clientID,
		Title:                  "bracket run",
		Material:               "PLA",
		Quantity:               10,
		ToleranceTier:          jobdomain.TierMedium,
		Status:                 status,
		SelectedManufacturerID: mfrID,
	}
	require.NoError(t, db.Create(job).Error)
	return job
}

func actorCtx(id snowflake.ID, role identitydomain.Role) context.Context {
	return actorcontext.WithActor(context.Background(), actorcontext.Actor{ID: id, Role: role})
}

func TestSubmitRecordMovesJobToQCDone(t *testing.T) {
	svc, db := setupQCService(t)
	clientID, mfrID := snowflake.ID(1), snowflake.ID(2)
	job := seedJob(t, db, jobdomain.StatusInProduction, clientID, &mfrID)

	ctx := actorCtx(mfrID, identitydomain.RoleManufacturer)
	err := svc.SubmitRecord(ctx, domain.SubmitQCRequest{
		JobID:         job.ID.String(),
		QCScore:       0.9,
		EvidencePaths: []string{"photos/front.jpg"},
	})
	require.NoError(t, err)

	var reloaded jobdomain.Job
	require.NoError(t, db.First(&reloaded, "id = ?", job.ID).Error)
	assert.Equal(t, jobdomain.StatusQCDone, reloaded.Status)

	var rec domain.QCRecord
	require.NoError(t, db.First(&rec, "job_id = ?", job.ID).Error)
	assert.Equal(t, domain.StatusPass, rec.Status)
	assert.Equal(t, mfrID, rec.ManufacturerID)
}

func TestSubmitRecordDerivesStatusFromScore(t *testing.T) {
	svc, db := setupQCService(t)
	clientID, mfrID := snowflake.ID(1), snowflake.ID(2)
	job := seedJob(t, db, jobdomain.StatusAssigned, clientID, &mfrID)

	ctx := actorCtx(mfrID, identitydomain.RoleManufacturer)
	require.NoError(t, svc.SubmitRecord(ctx, domain.SubmitQCRequest{
		JobID:   job.ID.String(),
		QCScore: 0.7,
	}))

	var rec domain.QCRecord
	require.NoError(t, db.First(&rec, "job_id = ?", job.ID).Error)
	assert.Equal(t, domain.StatusReview, rec.Status)
}

func TestSubmitRecordRejectsUnassignedJob(t *testing.T) {
	svc, db := setupQCService(t)
	job := seedJob(t, db, jobdomain.StatusPosted, snowflake.ID(1), nil)

	ctx := actorCtx(snowflake.ID(2), identitydomain.RoleManufacturer)
	err := svc.SubmitRecord(ctx, domain.SubmitQCRequest{JobID: job.ID.String(), QCScore: 0.9})
	assert.ErrorIs(t, err, jobdomain.ErrNoManufacturer)
}

func TestSubmitRecordForbiddenForOtherManufacturer(t *testing.T) {
	svc, db := setupQCService(t)
	mfrID := snowflake.ID(2)
	job := seedJob(t, db, jobdomain.StatusInProduction, snowflake.ID(1), &mfrID)

	ctx := actorCtx(snowflake.ID(99), identitydomain.RoleManufacturer)
	err := svc.SubmitRecord(ctx, domain.SubmitQCRequest{JobID: job.ID.String(), QCScore: 0.9})
	assert.ErrorIs(t, err, jobdomain.ErrForbidden)
}

func TestSubmitRecordInvalidScore(t *testing.T) {
	svc, db := setupQCService(t)
	mfrID := snowflake.ID(2)
	job := seedJob(t, db, jobdomain.StatusInProduction, snowflake.ID(1), &mfrID)

	ctx := actorCtx(mfrID, identitydomain.RoleManufacturer)
	err := svc.SubmitRecord(ctx, domain.SubmitQCRequest{JobID: job.ID.String(), QCScore: 1.5})
	assert.ErrorIs(t, err, domain.ErrInvalidScore)
}

func TestSubmitRecordInvalidTransitionFromAccepted(t *testing.T) {
	svc, db := setupQCService(t)
	mfrID := snowflake.ID(2)
	job := seedJob(t, db, jobdomain.StatusAccepted, snowflake.ID(1), &mfrID)

	ctx := actorCtx(mfrID, identitydomain.RoleManufacturer)
	err := svc.SubmitRecord(ctx, domain.SubmitQCRequest{JobID: job.ID.String(), QCScore: 0.9})
	assert.ErrorIs(t, err, jobdomain.ErrInvalidTransition)
}

func TestRunCheckPersistsRecordWithoutStatusChange(t *testing.T) {
	svc, db := setupQCService(t)
	clientID, mfrID := snowflake.ID(1), snowflake.ID(2)
	job := seedJob(t, db, jobdomain.StatusInProduction, clientID, &mfrID)

	ctx := actorCtx(clientID, identitydomain.RoleClient)
	res, err := svc.RunCheck(ctx, domain.RunCheckRequest{
		JobID:         job.ID.String(),
		EvidencePaths: []string{"a.jpg", "b.jpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, "local-deterministic-v1", res.ModelVersion)
	assert.Equal(t, domain.StatusForScore(res.Score), res.Status)

	var count int64
	require.NoError(t, db.Model(&domain.QCRecord{}).Where("job_id = ?", job.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var reloaded jobdomain.Job
	require.NoError(t, db.First(&reloaded, "id = ?", job.ID).Error)
	assert.Equal(t, jobdomain.StatusInProduction, reloaded.Status)
}

func TestRunCheckForbiddenForOutsider(t *testing.T) {
	svc, db := setupQCService(t)
	mfrID := snowflake.ID(2)
	job := seedJob(t, db, jobdomain.StatusInProduction, snowflake.ID(1), &mfrID)

	ctx := actorCtx(snowflake.ID(77), identitydomain.RoleClient)
	_, err := svc.RunCheck(ctx, domain.RunCheckRequest{JobID: job.ID.String()})
	assert.ErrorIs(t, err, jobdomain.ErrForbidden)
}
