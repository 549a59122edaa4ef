package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ecommerce-showcase/storefront/internal/core/domain"
)

func TestObjectID(t *testing.T) {
	oid := primitive.NewObjectID()

	got, ok := objectID(oid.Hex())
	if !ok || got != oid {
		t.Fatalf("expected %s, got %s (ok=%v)", oid.Hex(), got.Hex(), ok)
	}

	for _, id := range []string{"", "alice", "123", oid.Hex() + "00"} {
		if _, ok := objectID(id); ok {
			t.Fatalf("expected %q to be rejected", id)
		}
	}
}

func TestUserDocument_ToDomain(t *testing.T) {
	oid := primitive.NewObjectID()
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.FixedZone("X", 3600))

	doc := userDocument{
		ID:           oid,
		Username:     "alice",
		PasswordHash: "$2a$10$digest",
		Role:         "admin",
		CreatedAt:    created,
	}

	u := doc.toDomain()
	if u.ID != oid.Hex() {
		t.Fatalf("unexpected id: %s", u.ID)
	}
	if u.Role != domain.RoleAdmin {
		t.Fatalf("unexpected role: %s", u.Role)
	}
	if u.CreatedAt.Location() != time.UTC || !u.CreatedAt.Equal(created) {
		t.Fatalf("expected UTC created_at, got %v", u.CreatedAt)
	}
	if u.LastLoginAt != nil {
		t.Fatalf("expected nil last_login_at, got %v", u.LastLoginAt)
	}

	login := created.Add(time.Hour)
	doc.LastLoginAt = &login
	u = doc.toDomain()
	if u.LastLoginAt == nil || !u.LastLoginAt.Equal(login) {
		t.Fatalf("unexpected last_login_at: %v", u.LastLoginAt)
	}
}

func TestProductDocument_RoundTrip(t *testing.T) {
	p := &domain.Product{
		Name:        "Lamp",
		Price:       19.5,
		Description: "desk lamp",
		Image:       "/uploads/lamp.png",
		CreatedAt:   time.Now().UTC(),
	}

	doc := newProductDocument(p)
	doc.ID = primitive.NewObjectID()
	got := doc.toDomain()

	if got.ID != doc.ID.Hex() || got.Name != p.Name || got.Price != p.Price || got.Image != p.Image {
		t.Fatalf("unexpected product: %+v", got)
	}
}
