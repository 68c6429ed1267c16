package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/minutehire/auth-gateway/internal/core/domain"
)

func TestOrderDocument_ToDomain(t *testing.T) {
	id := primitive.NewObjectID()
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	doc := &orderDocument{
		ID:            id,
		TransactionID: "TXN-1",
		MerchantID:    "MH",
		UserID:        "u-1",
		AmountPaise:   99900,
		State:         "COMPLETED",
		PaymentMethod: "UPI",
		CreatedAt:     created,
		UpdatedAt:     created.Add(time.Minute),
	}

	o := doc.toDomain()
	if o.ID != id.Hex() {
		t.Fatalf("id = %q, want %q", o.ID, id.Hex())
	}
	if o.TransactionID != "TXN-1" || o.MerchantID != "MH" || o.UserID != "u-1" {
		t.Fatalf("unexpected identifiers: %+v", o)
	}
	if o.AmountPaise != 99900 || o.State != domain.PaymentCompleted || o.PaymentMethod != "UPI" {
		t.Fatalf("unexpected payment fields: %+v", o)
	}
	if !o.CreatedAt.Equal(created) || !o.UpdatedAt.Equal(created.Add(time.Minute)) {
		t.Fatalf("unexpected timestamps: %+v", o)
	}
}

func TestByTransaction(t *testing.T) {
	f := byTransaction("TXN-9")
	if len(f) != 1 || f["transaction_id"] != "TXN-9" {
		t.Fatalf("unexpected filter: %v", f)
	}
}

func TestUpsertUpdate(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	update := upsertUpdate(&domain.Order{
		TransactionID: "TXN-1",
		MerchantID:    "MH",
		UserID:        "u-1",
		AmountPaise:   500,
		State:         domain.PaymentCompleted,
		PaymentMethod: "CARD",
		CreatedAt:     created,
		UpdatedAt:     created,
	})

	set, ok := update["$set"].(bson.M)
	if !ok {
		t.Fatalf("missing $set: %v", update)
	}
	if set["state"] != "COMPLETED" || set["amount_paise"] != int64(500) || set["merchant_id"] != "MH" {
		t.Fatalf("unexpected $set: %v", set)
	}
	if set["user_id"] != "u-1" || set["payment_method"] != "CARD" {
		t.Fatalf("optional fields missing from $set: %v", set)
	}
	if _, ok := set["created_at"]; ok {
		t.Fatalf("created_at must only be set on insert")
	}
	if _, ok := set["transaction_id"]; ok {
		t.Fatalf("transaction_id comes from the filter, not $set")
	}

	onInsert, ok := update["$setOnInsert"].(bson.M)
	if !ok || !onInsert["created_at"].(time.Time).Equal(created) {
		t.Fatalf("unexpected $setOnInsert: %v", update["$setOnInsert"])
	}
}

func TestUpsertUpdate_OmitsEmptyOptionalFields(t *testing.T) {
	set := upsertUpdate(&domain.Order{TransactionID: "TXN-2", State: domain.PaymentPending})["$set"].(bson.M)
	if _, ok := set["user_id"]; ok {
		t.Fatalf("empty user_id should not overwrite the stored value")
	}
	if _, ok := set["payment_method"]; ok {
		t.Fatalf("empty payment_method should not overwrite the stored value")
	}
}
