package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
)

func TestUserStoreWithEmulator(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	ctx := context.Background()
	client, err := firestore.NewClient(ctx, "test-project")
	if err != nil {
		t.Fatalf("firestore client error: %v", err)
	}
	defer client.Close()

	s := NewUserStore(client)
	now := time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC)
	user := &models.User{
		UID:       uuid.New().String(),
		Email:     "jane@example.com",
		FirstName: "Jane",
		LastName:  "Doe",
		Currency:  "XAF",
		Timezone:  "Africa/Douala",
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}
	var exists *errs.AlreadyExistsError
	if err := s.CreateUser(ctx, user); !errors.As(err, &exists) {
		t.Fatalf("second CreateUser error = %v, want AlreadyExistsError", err)
	}

	user.Currency = "USD"
	user.UpdatedAt = now.Add(time.Hour)
	if err := s.UpdateUser(ctx, user); err != nil {
		t.Fatalf("UpdateUser error: %v", err)
	}

	got, err := s.GetUser(ctx, user.UID)
	if err != nil {
		t.Fatalf("GetUser error: %v", err)
	}
	if got.Currency != "USD" || got.Email != "jane@example.com" {
		t.Fatalf("unexpected profile: %+v", got)
	}

	var notFound *errs.NotFoundError
	if _, err := s.GetUser(ctx, "missing-"+user.UID); !errors.As(err, &notFound) {
		t.Fatalf("GetUser(missing) error = %v, want NotFoundError", err)
	}
}
