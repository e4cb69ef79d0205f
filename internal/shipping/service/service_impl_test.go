package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/forgenet/forgenet/internal/actorcontext"
	financialdomain "github.com/forgenet/forgenet/internal/financial/domain"
	financialrepo "github.com/forgenet/forgenet/internal/financial/repository"
	identitydomain "github.com/forgenet/forgenet/internal/identity/domain"
	jobdomain "github.com/forgenet/forgenet/internal/job/domain"
	jobrepo "github.com/forgenet/forgenet/internal/job/repository"
	"github.com/forgenet/forgenet/internal/shipping/domain"
	shippingrepo "github.com/forgenet/forgenet/internal/shipping/repository"
)

func setupShippingService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&jobdomain.Job{},
		&domain.ShippingRecord{},
		&financialdomain.Transaction{},
	))

	svc := New(Params{
		DB:            db,
		Log:           zap.NewNop(),
		Repo:          shippingrepo.Provide(),
		JobRepo:       jobrepo.Provide(),
		FinancialRepo: financialrepo.Provide(),
	})
	return svc, db
}

func seedShippableJob(t *testing.T, db *gorm.DB, status jobdomain.Status) (*jobdomain.Job, snowflake.ID, snowflake.ID) {
	t.Helper()
	clientID, mfrID := snowflake.ID(1), snowflake.ID(2)
	job := &jobdomain.Job{
		ID:                     snowflake.ID(7001),
		ClientID:               clientID,
		Title:                  "housing batch",
		Material:               "6061-T6 Aluminum",
		Quantity:               25,
		ToleranceTier:          jobdomain.TierHigh,
		Status:                 status,
		SelectedManufacturerID: &mfrID,
	}
	require.NoError(t, db.Create(job).Error)
	return job, clientID, mfrID
}

func TestShipAcceptsJobAndAuthorizesEscrow(t *testing.T) {
	svc, db := setupShippingService(t)
	job, clientID, mfrID := seedShippableJob(t, db, jobdomain.StatusQCDone)

	escrow := &financialdomain.Transaction{
		ID:             snowflake.ID(9001),
		JobID:          job.ID,
		ClientID:       clientID,
		ManufacturerID: mfrID,
		AmountCents:    10652,
		Currency:       "USD",
		Kind:           financialdomain.KindJobEscrow,
		Status:         financialdomain.StatusPending,
	}
	require.NoError(t, db.Create(escrow).Error)

	ctx := actorcontext.WithActor(context.Background(), actorcontext.Actor{ID: mfrID, Role: identitydomain.RoleManufacturer})
	err := svc.Ship(ctx, domain.ShipRequest{
		JobID:          job.ID.String(),
		Carrier:        "UPS",
		TrackingNumber: "1Z999",
	})
	require.NoError(t, err)

	var reloaded jobdomain.Job
	require.NoError(t, db.First(&reloaded, "id = ?", job.ID).Error)
	assert.Equal(t, jobdomain.StatusAccepted, reloaded.Status)

	var rec domain.ShippingRecord
	require.NoError(t, db.First(&rec, "job_id = ?", job.ID).Error)
	assert.Equal(t, "UPS", rec.Carrier)
	assert.Equal(t, "1Z999", rec.TrackingNumber)

	var txn financialdomain.Transaction
	require.NoError(t, db.First(&txn, "job_id = ?", job.ID).Error)
	assert.Equal(t, financialdomain.StatusAuthorized, txn.Status)
}

func TestShipIdempotentOnAcceptedJob(t *testing.T) {
	svc, db := setupShippingService(t)
	job, _, mfrID := seedShippableJob(t, db, jobdomain.StatusQCDone)

	ctx := actorcontext.WithActor(context.Background(), actorcontext.Actor{ID: mfrID, Role: identitydomain.RoleManufacturer})
	require.NoError(t, svc.Ship(ctx, domain.ShipRequest{
		JobID:          job.ID.String(),
		Carrier:        "UPS",
		TrackingNumber: "1Z999",
	}))

	// second call refreshes the carrier fields instead of failing
	require.NoError(t, svc.Ship(ctx, domain.ShipRequest{
		JobID:          job.ID.String(),
		Carrier:        "FedEx",
		TrackingNumber: "FX123",
	}))

	var count int64
	require.NoError(t, db.Model(&domain.ShippingRecord{}).Where("job_id = ?", job.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var rec domain.ShippingRecord
	require.NoError(t, db.First(&rec, "job_id = ?", job.ID).Error)
	assert.Equal(t, "FedEx", rec.Carrier)
	assert.Equal(t, "FX123", rec.TrackingNumber)

	var reloaded jobdomain.Job
	require.NoError(t, db.First(&reloaded, "id = ?", job.ID).Error)
	assert.Equal(t, jobdomain.StatusAccepted, reloaded.Status)
}

func TestShipForbiddenForOtherManufacturer(t *testing.T) {
	svc, db := setupShippingService(t)
	job, _, _ := seedShippableJob(t, db, jobdomain.StatusQCDone)

	ctx := actorcontext.WithActor(context.Background(), actorcontext.Actor{ID: snowflake.ID(99), Role: identitydomain.RoleManufacturer})
	err := svc.Ship(ctx, domain.ShipRequest{
		JobID:          job.ID.String(),
		Carrier:        "UPS",
		TrackingNumber: "1Z999",
	})
	assert.ErrorIs(t, err, jobdomain.ErrForbidden)
}

func TestShipInvalidTransitionFromPosted(t *testing.T) {
	svc, db := setupShippingService(t)
	job, _, mfrID := seedShippableJob(t, db, jobdomain.StatusAssigned)

	ctx := actorcontext.WithActor(context.Background(), actorcontext.Actor{ID: mfrID, Role: identitydomain.RoleManufacturer})
	err := svc.Ship(ctx, domain.ShipRequest{
		JobID:          job.ID.String(),
		Carrier:        "UPS",
		TrackingNumber: "1Z999",
	})
	assert.ErrorIs(t, err, jobdomain.ErrInvalidTransition)
}

func TestShipValidation(t *testing.T) {
	svc, db := setupShippingService(t)
	job, _, mfrID := seedShippableJob(t, db, jobdomain.StatusQCDone)

	ctx := actorcontext.WithActor(context.Background(), actorcontext.Actor{ID: mfrID, Role: identitydomain.RoleManufacturer})

	err := svc.Ship(ctx, domain.ShipRequest{JobID: job.ID.String(), TrackingNumber: "1Z999"})
	assert.ErrorIs(t, err, domain.ErrInvalidCarrier)

	err = svc.Ship(ctx, domain.ShipRequest{JobID: job.ID.String(), Carrier: "UPS"})
	assert.ErrorIs(t, err, domain.ErrInvalidTracking)
}

func TestGetForJobNotFound(t *testing.T) {
	svc, db := setupShippingService(t)
	job, clientID, _ := seedShippableJob(t, db, jobdomain.StatusQCDone)

	ctx := actorcontext.WithActor(context.Background(), actorcontext.Actor{ID: clientID, Role: identitydomain.RoleClient})
	_, err := svc.GetForJob(ctx, job.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
