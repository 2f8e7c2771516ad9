package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
)

// userStore keeps profiles in Firestore, one document per Firebase UID.
type userStore struct {
	collection *firestore.CollectionRef
}

func NewUserStore(client *firestore.Client) *userStore {
	return &userStore{collection: client.Collection("users")}
}

func (s *userStore) CreateUser(ctx context.Context, user *models.User) error {
	_, err := s.collection.Doc(user.UID).Create(ctx, user)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errs.NewAlreadyExistsError("user profile already exists")
		}
		return errs.NewDatabaseError("create", "failed to create user profile", err)
	}
	return nil
}

func (s *userStore) GetUser(ctx context.Context, uid string) (*models.User, error) {
	doc, err := s.collection.Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("user profile not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get user profile", err)
	}
	var user models.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse user profile", err)
	}
	return &user, nil
}

// UpdateUser overwrites the editable profile fields of an existing document.
func (s *userStore) UpdateUser(ctx context.Context, user *models.User) error {
	_, err := s.collection.Doc(user.UID).Update(ctx, []firestore.Update{
		{Path: "firstName", Value: user.FirstName},
		{Path: "lastName", Value: user.LastName},
		{Path: "currency", Value: user.Currency},
		{Path: "timezone", Value: user.Timezone},
		{Path: "avatarUrl", Value: user.AvatarURL},
		{Path: "updatedAt", Value: user.UpdatedAt},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errs.NewNotFoundError("user profile not found")
		}
		return errs.NewDatabaseError("update", "failed to update user profile", err)
	}
	return nil
}
