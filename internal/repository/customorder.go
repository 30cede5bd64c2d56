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

// CustomOrderFilter narrows custom-order listings. Email restricts the
// listing to one requester (customer-scoped views).
type CustomOrderFilter struct {
	Email    string
	Status   string
	Query    string
	Page     int
	PageSize int
}

type CustomOrderRepository interface {
	Create(ctx context.Context, order *model.CustomOrder) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.CustomOrder, error)
	List(ctx context.Context, filter CustomOrderFilter) ([]model.CustomOrder, int64, error)
	ListByEmail(ctx context.Context, email string) ([]model.CustomOrder, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status model.CustomOrderStatus, adminNotes string) (*model.CustomOrder, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type mongoCustomOrderRepo struct{ col *mongo.Collection }

func NewCustomOrderRepository(db *mongo.Database) CustomOrderRepository {
	return &mongoCustomOrderRepo{col: db.Collection("custom_orders")}
}

func (r *mongoCustomOrderRepo) Create(ctx context.Context, order *model.CustomOrder) error {
	order.ID = primitive.NewObjectID()
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	if order.Status == "" {
		order.Status = model.CustomOrderStatusSubmitted
	}
	if _, err := r.col.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("insert custom order: %w", err)
	}
	return nil
}

func (r *mongoCustomOrderRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.CustomOrder, error) {
	order := &model.CustomOrder{}
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("get custom order: %w", err)
	}
	return order, nil
}

func (r *mongoCustomOrderRepo) List(ctx context.Context, filter CustomOrderFilter) ([]model.CustomOrder, int64, error) {
	q := bson.M{}
	if filter.Email != "" {
		q["email"] = filter.Email
	}
	if filter.Status != "" {
		q["status"] = filter.Status
	}
	if filter.Query != "" {
		q["$or"] = bson.A{
			bson.M{"name": regexMatch(filter.Query)},
			bson.M{"email": regexMatch(filter.Query)},
			bson.M{"phone": regexMatch(filter.Query)},
		}
	}

	total, err := r.col.CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("count custom orders: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.PageSize)).
		SetLimit(int64(filter.PageSize))
	orders, err := r.find(ctx, q, opts)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *mongoCustomOrderRepo) ListByEmail(ctx context.Context, email string) ([]model.CustomOrder, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, bson.M{"email": email}, opts)
}

func (r *mongoCustomOrderRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]model.CustomOrder, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list custom orders: %w", err)
	}
	defer cur.Close(ctx)

	var orders []model.CustomOrder
	if err := cur.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode custom orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus persists the new status (and admin notes when provided) and
// returns the post-update record, or nil when no record matches the id.
func (r *mongoCustomOrderRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status model.CustomOrderStatus, adminNotes string) (*model.CustomOrder, error) {
	set := bson.M{"status": status, "updatedAt": time.Now()}
	if adminNotes != "" {
		set["adminNotes"] = adminNotes
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	order := &model.CustomOrder{}
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("update custom order: %w", err)
	}
	return order, nil
}

func (r *mongoCustomOrderRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete custom order: %w", err)
	}
	return nil
}
