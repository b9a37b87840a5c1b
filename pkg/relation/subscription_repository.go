package relation

import (
	"context"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	// SubscriptionRepository stores follower -> author edges.
	SubscriptionRepository interface {
		Subscribe(ctx context.Context, userID, authorID uuid.UUID) error
		Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) error
		IsSubscribed(ctx context.Context, userID, authorID uuid.UUID) (bool, error)
		SubscribedAuthors(ctx context.Context, userID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error)
		GetAuthors(ctx context.Context, userID uuid.UUID) ([]*entities.User, error)
	}

	subscriptionRepository struct {
		db *gorm.DB
	}
)

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Subscribe(ctx context.Context, userID, authorID uuid.UUID) error {
	if userID == authorID {
		return domain.ErrSelfSubscription
	}

	exists, err := r.IsSubscribed(ctx, userID, authorID)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrAlreadySubscribed
	}

	sub := &entities.Subscription{
		ID:       uuid.New(),
		UserID:   userID,
		AuthorID: authorID,
	}
	if err := r.db.WithContext(ctx).Omit("User", "Author").Create(sub).Error; err != nil {
		if utils.IsUniqueViolation(err) {
			return domain.ErrAlreadySubscribed
		}
		return err
	}
	return nil
}

func (r *subscriptionRepository) Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&entities.Subscription{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrSubscriptionNotFound
	}
	return nil
}

func (r *subscriptionRepository) IsSubscribed(ctx context.Context, userID, authorID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Subscription{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *subscriptionRepository) SubscribedAuthors(ctx context.Context, userID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	subscribed := make(map[uuid.UUID]bool, len(authorIDs))
	if len(authorIDs) == 0 {
		return subscribed, nil
	}

	var found []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&entities.Subscription{}).
		Where("user_id = ? AND author_id IN ?", userID, authorIDs).
		Pluck("author_id", &found).Error; err != nil {
		return nil, err
	}
	for _, id := range found {
		subscribed[id] = true
	}
	return subscribed, nil
}

// GetAuthors returns the users followed by userID ordered by username.
func (r *subscriptionRepository) GetAuthors(ctx context.Context, userID uuid.UUID) ([]*entities.User, error) {
	var authors []*entities.User
	if err := r.db.WithContext(ctx).
		Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.user_id = ?", userID).
		Order("users.username ASC").
		Find(&authors).Error; err != nil {
		return nil, err
	}
	return authors, nil
}
