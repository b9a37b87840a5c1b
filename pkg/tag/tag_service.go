package tag

import (
	"context"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/pkg/recipe"

	"github.com/google/uuid"
)

type (
	TagService interface {
		GetTags(ctx context.Context) ([]domain.Tag, error)
		GetTag(ctx context.Context, tagID string) (domain.Tag, error)
	}

	tagService struct {
		tagRepository TagRepository
	}
)

func NewTagService(tagRepository TagRepository) TagService {
	return &tagService{tagRepository: tagRepository}
}

func (s *tagService) GetTags(ctx context.Context) ([]domain.Tag, error) {
	tags, err := s.tagRepository.GetTags(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Tag, 0, len(tags))
	for _, t := range tags {
		result = append(result, recipe.TagView(t))
	}
	return result, nil
}

func (s *tagService) GetTag(ctx context.Context, tagID string) (domain.Tag, error) {
	id, err := uuid.Parse(tagID)
	if err != nil {
		return domain.Tag{}, domain.ErrTagNotFound
	}

	t, err := s.tagRepository.GetTagByID(ctx, id)
	if err != nil {
		return domain.Tag{}, err
	}
	return recipe.TagView(t), nil
}
