package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/forgenet/forgenet/internal/actorcontext"
	identitydomain "github.com/forgenet/forgenet/internal/identity/domain"
	jobdomain "github.com/forgenet/forgenet/internal/job/domain"
	jobrepo "github.com/forgenet/forgenet/internal/job/repository"
	"github.com/forgenet/forgenet/internal/message/domain"
	messagerepo "github.com/forgenet/forgenet/internal/message/repository"
)

func setupMessageService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&jobdomain.Job{}, &domain.Message{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:      db,
		GenID:   node,
		Repo:    messagerepo.Provide(),
		JobRepo: jobrepo.Provide(),
	})
	return svc, db
}

func seedThreadJob(t *testing.T, db *gorm.DB, assigned bool) (*jobdomain.Job, snowflake.ID, snowflake.ID) {
	t.Helper()
	clientID, mfrID := snowflake.ID(1), snowflake.ID(2)
	job := &jobdomain.Job{
		ID:            snowflake.ID(8001),
		ClientID:      clientID,
		Title:         "gear set",
		Material:      "ABS",
		Quantity:      5,
		ToleranceTier: jobdomain.TierMedium,
		Status:        jobdomain.StatusPosted,
	}
	if assigned {
		job.SelectedManufacturerID = &mfrID
		job.Status = jobdomain.StatusAssigned
	}
	require.NoError(t, db.Create(job).Error)
	return job, clientID, mfrID
}

func TestSendDerivesRecipient(t *testing.T) {
	svc, db := setupMessageService(t)
	job, clientID, mfrID := seedThreadJob(t, db, true)

	clientCtx := actorcontext.WithActor(context.Background(), actorcontext.Actor{ID: clientID, Role: identitydomain.RoleClient})
	msg, err := svc.Send(clientCtx, domain.SendMessageRequest{JobID: job.ID.String(), Body: "any update?"})
	require.NoError(t, err)
	assert.Equal(t, clientID, msg.SenderID)
	assert.Equal(t, mfrID, msg.RecipientID)

	mfrCtx := actorcontext.WithActor(context.Background(), actorcontext.Actor{ID: mfrID, Role: identitydomain.RoleManufacturer})
	reply, err := svc.Send(mfrCtx, domain.SendMessageRequest{JobID: job.ID.String(), Body: "shipping tomorrow"})
	require.NoError(t, err)
	assert.Equal(t, mfrID, reply.SenderID)
	assert.Equal(t, clientID, reply.RecipientID)
}

func TestSendRequiresAssignedManufacturer(t *testing.T) {
	svc, db := setupMessageService(t)
	job, clientID, _ := seedThreadJob(t, db, false)

	ctx := actorcontext.WithActor(context.Background(), actorcontext.Actor{ID: clientID, Role: identitydomain.RoleClient})
	_, err := svc.Send(ctx, domain.SendMessageRequest{JobID: job.ID.String(), Body: "hello?"})
	assert.ErrorIs(t, err, jobdomain.ErrNoManufacturer)
}

func TestSendRejectsEmptyBody(t *testing.T) {
	svc, db := setupMessageService(t)
	job, clientID, _ := seedThreadJob(t, db, true)

	ctx := actorcontext.WithActor(context.Background(), actorcontext.Actor{ID: clientID, Role: identitydomain.RoleClient})
	_, err := svc.Send(ctx, domain.SendMessageRequest{JobID: job.ID.String(), Body: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidBody)
}

func TestSendForbiddenForOutsider(t *testing.T) {
	svc, db := setupMessageService(t)
	job, _, _ := seedThreadJob(t, db, true)

	ctx := actorcontext.WithActor(context.Background(), actorcontext.Actor{ID: snowflake.ID(77), Role: identitydomain.RoleClient})
	_, err := svc.Send(ctx, domain.SendMessageRequest{JobID: job.ID.String(), Body: "let me in"})
	assert.ErrorIs(t, err, jobdomain.ErrForbidden)
}

func TestListForJobReturnsThread(t *testing.T) {
	svc, db := setupMessageService(t)
	job, clientID, mfrID := seedThreadJob(t, db, true)

	clientCtx := actorcontext.WithActor(context.Background(), actorcontext.Actor{ID: clientID, Role: identitydomain.RoleClient})
	mfrCtx := actorcontext.WithActor(context.Background(), actorcontext.Actor{ID: mfrID, Role: identitydomain.RoleManufacturer})

	_, err := svc.Send(clientCtx, domain.SendMessageRequest{JobID: job.ID.String(), Body: "first"})
	require.NoError(t, err)
	_, err = svc.Send(mfrCtx, domain.SendMessageRequest{JobID: job.ID.String(), Body: "second"})
	require.NoError(t, err)

	msgs, err := svc.ListForJob(clientCtx, job.ID.String())
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", msgs[0].Body)
	assert.Equal(t, "second", msgs[1].Body)
}
