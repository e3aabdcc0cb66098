package usecase

import (
	"context"
	"errors"

	"howtoplatform/internal/authz"
	"howtoplatform/internal/domain"
	"howtoplatform/internal/validation"
)

type ForumUseCase struct {
	forum     ForumStore
	gate      *authz.Gate
	validator *validation.Validator
}

func NewForumUseCase(fs ForumStore, g *authz.Gate, v *validation.Validator) *ForumUseCase {
	return &ForumUseCase{forum: fs, gate: g, validator: v}
}

// ListTopics lists every topic, or only those about lessonID when it is set.
func (uc *ForumUseCase) ListTopics(ctx context.Context, lessonID uint) ([]domain.Topic, error) {
	return uc.forum.ListTopics(ctx, lessonID)
}

func (uc *ForumUseCase) GetTopic(ctx context.Context, id uint) (*domain.Topic, error) {
	return uc.forum.GetTopic(ctx, id)
}

func (uc *ForumUseCase) CreateTopic(ctx context.Context, caller domain.Caller, p validation.TopicPayload) (*domain.Topic, error) {
	if err := uc.validator.Struct(p); err != nil {
		return nil, err
	}
	if err := uc.gate.Authorize(authz.Request{
		Caller:    caller,
		Operation: authz.OpCreate,
		Resource:  authz.ResourceTopic,
	}); err != nil {
		return nil, err
	}

	t := &domain.Topic{Title: p.Title, Body: p.Body, UserID: caller.ID, LessonID: p.LessonID}
	if err := uc.forum.CreateTopic(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (uc *ForumUseCase) UpdateTopic(ctx context.Context, caller domain.Caller, id uint, p validation.TopicPatchPayload) (*domain.Topic, error) {
	if err := uc.validator.Struct(p); err != nil {
		return nil, err
	}
	if err := uc.authorize(ctx, caller, authz.OpUpdate, authz.ResourceTopic, id); err != nil {
		return nil, err
	}
	return uc.forum.UpdateTopic(ctx, id, p.Patch())
}

func (uc *ForumUseCase) DeleteTopic(ctx context.Context, caller domain.Caller, id uint) error {
	if err := uc.authorize(ctx, caller, authz.OpDelete, authz.ResourceTopic, id); err != nil {
		return err
	}
	return uc.forum.DeleteTopic(ctx, id)
}

func (uc *ForumUseCase) CreateReply(ctx context.Context, caller domain.Caller, topicID uint, p validation.ReplyPayload) (*domain.Reply, error) {
	if err := uc.validator.Struct(p); err != nil {
		return nil, err
	}
	if err := uc.gate.Authorize(authz.Request{
		Caller:    caller,
		Operation: authz.OpCreate,
		Resource:  authz.ResourceReply,
	}); err != nil {
		return nil, err
	}

	r := &domain.Reply{Body: p.Body, TopicID: topicID, UserID: caller.ID}
	if err := uc.forum.CreateReply(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (uc *ForumUseCase) UpdateReply(ctx context.Context, caller domain.Caller, id uint, p validation.ReplyPayload) (*domain.Reply, error) {
	if err := uc.validator.Struct(p); err != nil {
		return nil, err
	}
	if err := uc.authorize(ctx, caller, authz.OpUpdate, authz.ResourceReply, id); err != nil {
		return nil, err
	}
	return uc.forum.UpdateReply(ctx, id, p.Body)
}

func (uc *ForumUseCase) DeleteReply(ctx context.Context, caller domain.Caller, id uint) error {
	if err := uc.authorize(ctx, caller, authz.OpDelete, authz.ResourceReply, id); err != nil {
		return err
	}
	return uc.forum.DeleteReply(ctx, id)
}

func (uc *ForumUseCase) authorize(ctx context.Context, caller domain.Caller, op authz.Operation, res authz.Resource, id uint) error {
	owner := uc.forum.TopicOwner
	notFound := domain.ErrTopicNotFound
	if res == authz.ResourceReply {
		owner = uc.forum.ReplyOwner
		notFound = domain.ErrReplyNotFound
	}

	req := authz.Request{Caller: caller, Operation: op, Resource: res}
	ownerID, err := owner(ctx, id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		req.Missing = true
	case err != nil:
		return err
	default:
		req.OwnerID = authz.Owned(ownerID)
	}

	if err := uc.gate.Authorize(req); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return notFound
		}
		return err
	}
	return nil
}
