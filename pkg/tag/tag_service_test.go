package tag

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

func TestGetTagsOrderedByName(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.CreateTag(t, db, "lunch", 1)
	testutil.CreateTag(t, db, "breakfast", 2)
	testutil.CreateTag(t, db, "dinner", 3)

	svc := NewTagService(NewTagRepository(db))
	tags, err := svc.GetTags(context.Background())
	require.NoError(t, err)
	require.Len(t, tags, 3)
	assert.Equal(t, "breakfast", tags[0].Slug)
	assert.Equal(t, "dinner", tags[1].Slug)
	assert.Equal(t, "lunch", tags[2].Slug)
	assert.Equal(t, "#000002", tags[0].Color)
}

func TestGetTag(t *testing.T) {
	db := testutil.NewDB(t)
	created := testutil.CreateTag(t, db, "vegan", 7)

	svc := NewTagService(NewTagRepository(db))
	got, err := svc.GetTag(context.Background(), created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.Tag{ID: created.ID.String(), Name: "Tag vegan", Slug: "vegan", Color: "#000007"}, got)

	_, err = svc.GetTag(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrTagNotFound)

	_, err = svc.GetTag(context.Background(), "7")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTagSlugCheckedOnSave(t *testing.T) {
	db := testutil.NewDB(t)

	derived := &entities.Tag{ID: uuid.New(), Name: "Sunday Brunch", Color: "#00FF00"}
	require.NoError(t, db.Create(derived).Error)
	assert.Equal(t, "sunday-brunch", derived.Slug)

	mixed := testutil.CreateTag(t, db, "Late_Night", 9)
	assert.Equal(t, "Late_Night", mixed.Slug)

	bad := &entities.Tag{ID: uuid.New(), Name: "Bad", Slug: "bad slug!", Color: "#0000FF"}
	assert.Error(t, db.Create(bad).Error)

	var count int64
	require.NoError(t, db.Model(&entities.Tag{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}
