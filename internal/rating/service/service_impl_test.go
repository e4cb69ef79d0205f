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
	"github.com/forgenet/forgenet/internal/config"
	"github.com/forgenet/forgenet/internal/forgeai"
	identitydomain "github.com/forgenet/forgenet/internal/identity/domain"
	jobdomain "github.com/forgenet/forgenet/internal/job/domain"
	jobrepo "github.com/forgenet/forgenet/internal/job/repository"
	manufacturerdomain "github.com/forgenet/forgenet/internal/manufacturer/domain"
	manufacturerrepo "github.com/forgenet/forgenet/internal/manufacturer/repository"
	"github.com/forgenet/forgenet/internal/rating/domain"
	ratingrepo "github.com/forgenet/forgenet/internal/rating/repository"
)

func setupRatingService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&jobdomain.Job{},
		&domain.Rating{},
		&manufacturerdomain.Manufacturer{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:      db,
		Log:     zap.NewNop(),
		GenID:   node,
		AI:      forgeai.New(config.Config{}, zap.NewNop()),
		Repo:    ratingrepo.Provide(),
		JobRepo: jobrepo.Provide(),
		MfgRepo: manufacturerrepo.Provide(),
	})
	return svc, db
}

func seedRatableJob(t *testing.T, db *gorm.DB, status jobdomain.Status) (*jobdomain.Job, snowflake.ID, snowflake.ID) {
	t.Helper()
	clientID, mfrID := snowflake.ID(1), snowflake.ID(2)
	require.NoError(t, db.Create(&manufacturerdomain.Manufacturer{ID: mfrID, ToleranceTier: "medium"}).Error)
	job := &jobdomain.Job{
		ID:                     snowflake.ID(6001),
		ClientID:               clientID,
		Title:                  "fixture plate",
		Material:               "PLA",
		Quantity:               3,
		ToleranceTier:          jobdomain.TierMedium,
		Status:                 status,
		SelectedManufacturerID: &mfrID,
	}
	require.NoError(t, db.Create(job).Error)
	return job, clientID, mfrID
}

func TestSubmitRatingUpdatesProfileStats(t *testing.T) {
	svc, db := setupRatingService(t)
	job, clientID, mfrID := seedRatableJob(t, db, jobdomain.StatusAccepted)

	ctx := actorcontext.WithActor(context.Background(), actorcontext.Actor{ID: clientID, Role: identitydomain.RoleClient})
	r, err := svc.Submit(ctx, domain.SubmitRatingRequest{
		JobID:   job.ID.String(),
		Rating:  4,
		Comment: "solid parts, slow shipping",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, r.Rating)
	require.NotNil(t, r.Comment)

	var m manufacturerdomain.Manufacturer
	require.NoError(t, db.First(&m, "id = ?", mfrID).Error)
	assert.InDelta(t, 4.0, m.AverageRating, 1e-9)
	assert.Equal(t, 1, m.TotalRatingsReceived)
}

func TestSubmitRatingDuplicate(t *testing.T) {
	svc, db := setupRatingService(t)
	job, clientID, _ := seedRatableJob(t, db, jobdomain.StatusAccepted)

	ctx := actorcontext.WithActor(context.Background(), actorcontext.Actor{ID: clientID, Role: identitydomain.RoleClient})
	_, err := svc.Submit(ctx, domain.SubmitRatingRequest{JobID: job.ID.String(), Rating: 5})
	require.NoError(t, err)

	_, err = svc.Submit(ctx, domain.SubmitRatingRequest{JobID: job.ID.String(), Rating: 3})
	assert.ErrorIs(t, err, domain.ErrAlreadyRated)
}

func TestSubmitRatingNotRatableBeforeAcceptance(t *testing.T) {
	svc, db := setupRatingService(t)
	job, clientID, _ := seedRatableJob(t, db, jobdomain.StatusInProduction)

	ctx := actorcontext.WithActor(context.Background(), actorcontext.Actor{ID: clientID, Role: identitydomain.RoleClient})
	_, err := svc.Submit(ctx, domain.SubmitRatingRequest{JobID: job.ID.String(), Rating: 5})
	assert.ErrorIs(t, err, domain.ErrJobNotRatable)
}

func TestSubmitRatingResolvedJobIsRatable(t *testing.T) {
	svc, db := setupRatingService(t)
	job, clientID, _ := seedRatableJob(t, db, jobdomain.StatusResolved)

	ctx := actorcontext.WithActor(context.Background(), actorcontext.Actor{ID: clientID, Role: identitydomain.RoleClient})
	_, err := svc.Submit(ctx, domain.SubmitRatingRequest{JobID: job.ID.String(), Rating: 2})
	require.NoError(t, err)
}

func TestSubmitRatingBounds(t *testing.T) {
	svc, db := setupRatingService(t)
	job, clientID, _ := seedRatableJob(t, db, jobdomain.StatusAccepted)

	ctx := actorcontext.WithActor(context.Background(), actorcontext.Actor{ID: clientID, Role: identitydomain.RoleClient})

	_, err := svc.Submit(ctx, domain.SubmitRatingRequest{JobID: job.ID.String(), Rating: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidRating)

	_, err = svc.Submit(ctx, domain.SubmitRatingRequest{JobID: job.ID.String(), Rating: 6})
	assert.ErrorIs(t, err, domain.ErrInvalidRating)
}

func TestSubmitRatingForbiddenForManufacturer(t *testing.T) {
	svc, db := setupRatingService(t)
	job, _, mfrID := seedRatableJob(t, db, jobdomain.StatusAccepted)

	ctx := actorcontext.WithActor(context.Background(), actorcontext.Actor{ID: mfrID, Role: identitydomain.RoleManufacturer})
	_, err := svc.Submit(ctx, domain.SubmitRatingRequest{JobID: job.ID.String(), Rating: 5})
	assert.ErrorIs(t, err, jobdomain.ErrForbidden)
}

func TestAggregateLocalMean(t *testing.T) {
	svc, db := setupRatingService(t)
	_, _, mfrID := seedRatableJob(t, db, jobdomain.StatusAccepted)

	for i, v := range []int{5, 4, 3} {
		require.NoError(t, db.Create(&domain.Rating{
			ID:             snowflake.ID(9100 + i),
			JobID:          snowflake.ID(9200 + i),
			ManufacturerID: mfrID,
			ClientID:       snowflake.ID(9300 + i),
			Rating:         v,
		}).Error)
	}

	res, err := svc.Aggregate(context.Background(), mfrID.String())
	require.NoError(t, err)
	assert.InDelta(t, 4.0, res.AverageRating, 1e-9)
	assert.Equal(t, 3, res.TotalRatings)
	assert.Empty(t, res.ModelVersion)

	var m manufacturerdomain.Manufacturer
	require.NoError(t, db.First(&m, "id = ?", mfrID).Error)
	assert.InDelta(t, 4.0, m.AverageRating, 1e-9)
	assert.Equal(t, 3, m.TotalRatingsReceived)
}

func TestAggregateUnknownManufacturer(t *testing.T) {
	svc, _ := setupRatingService(t)
	_, err := svc.Aggregate(context.Background(), snowflake.ID(424242).String())
	assert.ErrorIs(t, err, manufacturerdomain.ErrNotFound)
}
