package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/ledger"
	"github.com/GregMSThompson/finance-tracker/internal/models"
	"github.com/GregMSThompson/finance-tracker/pkg/logger"
)

type tagTSStore interface {
	Create(ctx context.Context, t *models.Tag) error
	Get(ctx context.Context, id string) (*models.Tag, error)
	List(ctx context.Context, uid string, search *string) ([]*models.Tag, error)
	Update(ctx context.Context, t *models.Tag) error
	SetActive(ctx context.Context, id string, active bool) error
}

type tagService struct {
	tags tagTSStore
}

func NewTagService(tags tagTSStore) *tagService {
	return &tagService{tags: tags}
}

func (s *tagService) ListTags(ctx context.Context, uid string, search *string) ([]*models.Tag, error) {
	return s.tags.List(ctx, uid, search)
}

func (s *tagService) GetTag(ctx context.Context, uid, id string) (*models.Tag, error) {
	t, err := s.tags.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkReadable(t.UserID, uid, t.IsActive, "tag"); err != nil {
		return nil, err
	}
	return t, nil
}

// CreateTag stores the name trimmed and lower-cased.
func (s *tagService) CreateTag(ctx context.Context, uid string, req dto.TagRequest) (*models.Tag, error) {
	name, err := ledger.NormalizeTagName(req.Name)
	if err != nil {
		return nil, err
	}
	t := &models.Tag{UserID: uid, Name: name}
	t.ID = uuid.New().String()
	t.IsActive = true

	if err := s.tags.Create(ctx, t); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("tag created", "tag_id", t.ID)
	return t, nil
}

func (s *tagService) UpdateTag(ctx context.Context, uid, id string, req dto.TagRequest) (*models.Tag, error) {
	t, err := s.tags.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkWritable(t.UserID, uid, t.IsActive, "tag"); err != nil {
		return nil, err
	}
	if t.Name, err = ledger.NormalizeTagName(req.Name); err != nil {
		return nil, err
	}
	if err := s.tags.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *tagService) DeleteTag(ctx context.Context, uid, id string) error {
	t, err := s.tags.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := checkWritable(t.UserID, uid, t.IsActive, "tag"); err != nil {
		return err
	}
	if err := s.tags.SetActive(ctx, id, false); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("tag deleted", "tag_id", id)
	return nil
}

func (s *tagService) RestoreTag(ctx context.Context, uid, id string) (*models.Tag, error) {
	t, err := s.tags.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkRestorable(t.UserID, uid, t.IsActive, "tag"); err != nil {
		return nil, err
	}
	if err := s.tags.SetActive(ctx, id, true); err != nil {
		return nil, err
	}
	t.IsActive = true
	return t, nil
}
