package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/furnix/furnix-api/internal/model"
)

// ProductFilter narrows catalog listings. Zero values mean "no restriction".
type ProductFilter struct {
	Query    string
	Material string
	Color    string
	PriceMax float64
	Page     int
	PageSize int
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error)
	GetBySlug(ctx context.Context, slug string) (*model.Product, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error)
	Search(ctx context.Context, query string, limit int64) ([]model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type mongoProductRepo struct{ col *mongo.Collection }

func NewProductRepository(db *mongo.Database) ProductRepository {
	return &mongoProductRepo{col: db.Collection("products")}
}

// EnsureProductIndexes creates the unique sparse slug index.
func EnsureProductIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("products").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true).SetSparse(true),
	})
	if err != nil {
		return fmt.Errorf("create slug index: %w", err)
	}
	return nil
}

func (r *mongoProductRepo) Create(ctx context.Context, product *model.Product) error {
	product.ID = primitive.NewObjectID()
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	if _, err := r.col.InsertOne(ctx, product); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *mongoProductRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoProductRepo) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *mongoProductRepo) findOne(ctx context.Context, filter bson.M) (*model.Product, error) {
	product := &model.Product{}
	err := r.col.FindOne(ctx, filter).Decode(product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

func (r *mongoProductRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"slug": slug}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count slug: %w", err)
	}
	return n > 0, nil
}

func regexMatch(q string) bson.M {
	return bson.M{"$regex": primitive.Regex{Pattern: q, Options: "i"}}
}

func searchFilter(q string) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"title": regexMatch(q)},
		bson.M{"description": regexMatch(q)},
		bson.M{"tags": bson.M{"$elemMatch": regexMatch(q)}},
	}}
}

func (r *mongoProductRepo) List(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error) {
	q := bson.M{}
	if filter.Query != "" {
		q["$or"] = searchFilter(filter.Query)["$or"]
	}
	if filter.Material != "" {
		q["variants.material"] = filter.Material
	}
	if filter.Color != "" {
		q["variants.color"] = filter.Color
	}
	if filter.PriceMax > 0 {
		q["variants.price"] = bson.M{"$lte": filter.PriceMax}
	}

	total, err := r.col.CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.PageSize)).
		SetLimit(int64(filter.PageSize))
	products, err := r.find(ctx, q, opts)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *mongoProductRepo) Search(ctx context.Context, query string, limit int64) ([]model.Product, error) {
	q := bson.M{}
	if query != "" {
		q = searchFilter(query)
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)
	return r.find(ctx, q, opts)
}

func (r *mongoProductRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]model.Product, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer cur.Close(ctx)

	var products []model.Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

func (r *mongoProductRepo) Update(ctx context.Context, product *model.Product) error {
	product.UpdatedAt = time.Now()
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

func (r *mongoProductRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
