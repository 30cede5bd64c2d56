package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/furnix/furnix-api/internal/model"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	List(ctx context.Context) ([]model.Category, error)
}

type mongoCategoryRepo struct{ col *mongo.Collection }

func NewCategoryRepository(db *mongo.Database) CategoryRepository {
	return &mongoCategoryRepo{col: db.Collection("categories")}
}

func (r *mongoCategoryRepo) Create(ctx context.Context, category *model.Category) error {
	category.ID = primitive.NewObjectID()
	if _, err := r.col.InsertOne(ctx, category); err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *mongoCategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "level", Value: 1}, {Key: "name", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer cur.Close(ctx)

	var categories []model.Category
	if err := cur.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	return categories, nil
}
