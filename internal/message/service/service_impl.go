package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/forgenet/forgenet/internal/actorcontext"
	jobdomain "github.com/forgenet/forgenet/internal/job/domain"
	"github.com/forgenet/forgenet/internal/message/domain"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	GenID   *snowflake.Node
	Repo    domain.Repository
	JobRepo jobdomain.Repository
}

type service struct {
	db      *gorm.DB
	genID   *snowflake.Node
	repo    domain.Repository
	jobRepo jobdomain.Repository
}

func New(p Params) domain.Service {
	return &service{db: p.DB, genID: p.GenID, repo: p.Repo, jobRepo: p.JobRepo}
}

func (s *service) Send(ctx context.Context, req domain.SendMessageRequest) (domain.Message, error) {
	actor, ok := actorcontext.ActorFromContext(ctx)
	if !ok {
		return domain.Message{}, jobdomain.ErrForbidden
	}
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return domain.Message{}, domain.ErrInvalidBody
	}

	job, err := s.loadJob(ctx, req.JobID)
	if err != nil {
		return domain.Message{}, err
	}
	if err := jobdomain.Authorize(actor, job, jobdomain.ActionMessage); err != nil {
		return domain.Message{}, err
	}

	// The other party: client -> assigned manufacturer, manufacturer ->
	// client. A thread cannot start before assignment.
	if job.SelectedManufacturerID == nil {
		return domain.Message{}, jobdomain.ErrNoManufacturer
	}
	recipient := *job.SelectedManufacturerID
	if actor.ID != job.ClientID {
		recipient = job.ClientID
	}

	msg := domain.Message{
		ID:          s.genID.Generate(),
		JobID:       job.ID,
		SenderID:    actor.ID,
		RecipientID: recipient,
		Body:        body,
	}
	if err := s.repo.Insert(ctx, s.db, &msg); err != nil {
		return domain.Message{}, err
	}
	return msg, nil
}

func (s *service) ListForJob(ctx context.Context, jobID string) ([]domain.Message, error) {
	actor, ok := actorcontext.ActorFromContext(ctx)
	if !ok {
		return nil, jobdomain.ErrForbidden
	}
	job, err := s.loadJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if err := jobdomain.Authorize(actor, job, jobdomain.ActionMessage); err != nil {
		return nil, err
	}
	msgs, err := s.repo.ListForJob(ctx, s.db, job.ID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, *m)
	}
	return out, nil
}

func (s *service) loadJob(ctx context.Context, id string) (*jobdomain.Job, error) {
	parsed, err := snowflake.ParseString(id)
	if err != nil {
		return nil, jobdomain.ErrInvalidID
	}
	job, err := s.jobRepo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, jobdomain.ErrNotFound
	}
	return job, nil
}
