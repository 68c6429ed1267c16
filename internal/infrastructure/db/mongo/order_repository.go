package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/minutehire/auth-gateway/internal/core/domain"
)

const (
	collectionOrders = "orders"
	defaultOpTimeout = 5 * time.Second
	indexTimeout     = 30 * time.Second
)

// orderDocument is the MongoDB representation of an order.
type orderDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	TransactionID string             `bson:"transaction_id"`
	MerchantID    string             `bson:"merchant_id"`
	UserID        string             `bson:"user_id,omitempty"`
	AmountPaise   int64              `bson:"amount_paise"`
	State         string             `bson:"state"`
	PaymentMethod string             `bson:"payment_method,omitempty"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

func (d *orderDocument) toDomain() *domain.Order {
	return &domain.Order{
		ID:            d.ID.Hex(),
		TransactionID: d.TransactionID,
		MerchantID:    d.MerchantID,
		UserID:        d.UserID,
		AmountPaise:   d.AmountPaise,
		State:         domain.PaymentState(d.State),
		PaymentMethod: d.PaymentMethod,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

type OrderRepository struct {
	col *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{col: db.Collection(collectionOrders)}
}

// Upsert writes the order keyed by transaction id. created_at is only set on
// insert so replays keep the original timestamp.
func (r *OrderRepository) Upsert(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultOpTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc orderDocument
	err := r.col.FindOneAndUpdate(ctx, byTransaction(o.TransactionID), upsertUpdate(o), opts).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("upsert order: %w", err)
	}
	return doc.toDomain(), nil
}

// FindByTransactionID retrieves an order by its payment transaction id.
func (r *OrderRepository) FindByTransactionID(ctx context.Context, transactionID string) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultOpTimeout)
	defer cancel()

	var doc orderDocument
	err := r.col.FindOne(ctx, byTransaction(transactionID)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func byTransaction(transactionID string) bson.M {
	return bson.M{"transaction_id": transactionID}
}

// upsertUpdate builds the $set/$setOnInsert document for o. Empty optional
// fields are left out so a replay without them keeps the stored values.
func upsertUpdate(o *domain.Order) bson.M {
	set := bson.M{
		"merchant_id":  o.MerchantID,
		"amount_paise": o.AmountPaise,
		"state":        string(o.State),
		"updated_at":   o.UpdatedAt,
	}
	if o.UserID != "" {
		set["user_id"] = o.UserID
	}
	if o.PaymentMethod != "" {
		set["payment_method"] = o.PaymentMethod
	}
	return bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"created_at": o.CreatedAt},
	}
}

// EnsureIndexes creates the unique transaction index on the orders collection.
func (r *OrderRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "transaction_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
