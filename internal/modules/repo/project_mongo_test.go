package repo

import (
	"context"
	"testing"
	"time"

	"github.com/portfolio-showcase/portfolio-api/internal/modules/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"gorm.io/datatypes"
)

func setupMongoTestCollection(t *testing.T) *mongo.Collection {
	t.Helper()
	client, err := mongo.Connect(options.Client().
		ApplyURI("mongodb://localhost:27017").
		SetServerSelectionTimeout(2 * time.Second))
	if err != nil {
		t.Skip("Test mongo not available, skipping integration tests")
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		t.Skip("Test mongo not available, skipping integration tests")
		return nil
	}
	coll := client.Database("portfolio_test").Collection("projects_" + bson.NewObjectID().Hex())
	t.Cleanup(func() {
		_ = coll.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return coll
}

func TestMongoProjectRepo_InvalidID(t *testing.T) {
	r := NewMongoProjectRepo(nil)
	ctx := context.Background()

	_, err := r.FindByID(ctx, "not-a-valid-id")
	assert.ErrorIs(t, err, ErrInvalidID)
	assert.ErrorIs(t, r.DeleteByID(ctx, "zzz"), ErrInvalidID)
}

func TestPatchToBSON(t *testing.T) {
	others := []string{"d.jpg"}
	set := patchToBSON(&model.ProjectPatch{Title: strPtr("New Bridge"), OtherImages: &others})
	assert.Equal(t, bson.M{"title": "New Bridge", "otherImages": []string{"d.jpg"}}, set)
	assert.Empty(t, patchToBSON(&model.ProjectPatch{}))
}

func TestMongoProjectRepo_CRUD(t *testing.T) {
	coll := setupMongoTestCollection(t)
	if coll == nil {
		return
	}
	r := NewMongoProjectRepo(coll)
	ctx := context.Background()

	p := &model.Project{
		Title:       "Bridge",
		MainImage:   strPtr("a.jpg"),
		OtherImages: datatypes.JSONSlice[string]{"b.jpg", "c.jpg"},
	}
	require.NoError(t, r.Create(ctx, p))
	require.NotEmpty(t, p.ID)

	time.Sleep(5 * time.Millisecond)
	second := &model.Project{Title: "Tower"}
	require.NoError(t, r.Create(ctx, second))

	all, err := r.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, datatypes.JSONSlice[string]{}, all[0].OtherImages)

	updated, err := r.UpdateByID(ctx, p.ID, &model.ProjectPatch{Title: strPtr("New Bridge")})
	require.NoError(t, err)
	assert.Equal(t, "New Bridge", updated.Title)
	assert.Equal(t, "a.jpg", *updated.MainImage)
	assert.Equal(t, datatypes.JSONSlice[string]{"b.jpg", "c.jpg"}, updated.OtherImages)

	missing := bson.NewObjectID().Hex()
	_, err = r.UpdateByID(ctx, missing, &model.ProjectPatch{Title: strPtr("x")})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, r.DeleteByID(ctx, p.ID))
	_, err = r.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, r.DeleteByID(ctx, p.ID), ErrNotFound)
}
