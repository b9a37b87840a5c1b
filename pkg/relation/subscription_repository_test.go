package relation

import (
	"context"
	"testing"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeToSelfIsRejected(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "narcissus")

	repo := NewSubscriptionRepository(db)
	err := repo.Subscribe(context.Background(), user.ID, user.ID)
	assert.ErrorIs(t, err, domain.ErrSelfSubscription)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	var count int64
	require.NoError(t, db.Model(&entities.Subscription{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSubscribeSelfRowRejectedByStorage(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "narcissus")

	err := db.Omit("User", "Author").Create(&entities.Subscription{
		ID:       uuid.New(),
		UserID:   user.ID,
		AuthorID: user.ID,
	}).Error
	assert.Error(t, err)
}

func TestSubscribeTwiceThenUnsubscribe(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	follower := testutil.CreateUser(t, db, "follower")
	author := testutil.CreateUser(t, db, "chef")

	repo := NewSubscriptionRepository(db)
	require.NoError(t, repo.Subscribe(ctx, follower.ID, author.ID))
	assert.ErrorIs(t, repo.Subscribe(ctx, follower.ID, author.ID), domain.ErrAlreadySubscribed)

	ok, err := repo.IsSubscribed(ctx, follower.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// The edge is directed.
	ok, err = repo.IsSubscribed(ctx, author.ID, follower.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Unsubscribe(ctx, follower.ID, author.ID))
	assert.ErrorIs(t, repo.Unsubscribe(ctx, follower.ID, author.ID), domain.ErrSubscriptionNotFound)
}

func TestGetAuthorsAndSubscribedAuthors(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	follower := testutil.CreateUser(t, db, "follower")
	zed := testutil.CreateUser(t, db, "zed")
	amy := testutil.CreateUser(t, db, "amy")
	other := testutil.CreateUser(t, db, "other")

	repo := NewSubscriptionRepository(db)
	require.NoError(t, repo.Subscribe(ctx, follower.ID, zed.ID))
	require.NoError(t, repo.Subscribe(ctx, follower.ID, amy.ID))

	authors, err := repo.GetAuthors(ctx, follower.ID)
	require.NoError(t, err)
	require.Len(t, authors, 2)
	assert.Equal(t, "amy", authors[0].Username)
	assert.Equal(t, "zed", authors[1].Username)

	subscribed, err := repo.SubscribedAuthors(ctx, follower.ID, []uuid.UUID{zed.ID, other.ID})
	require.NoError(t, err)
	assert.True(t, subscribed[zed.ID])
	assert.False(t, subscribed[other.ID])
}
