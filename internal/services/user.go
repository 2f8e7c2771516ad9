package services

import (
	"context"
	"strings"
	"time"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
	"github.com/GregMSThompson/finance-tracker/pkg/logger"
)

const defaultTimezone = "Africa/Douala"

// profileCurrencies are the currencies a profile may be set to.
var profileCurrencies = map[string]bool{"USD": true, "EUR": true, "GBP": true, "XAF": true, "NGN": true}

type userUSStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, uid string) (*models.User, error)
}

type userService struct {
	Store           userUSStore
	defaultCurrency string
	clockNow        func() time.Time
}

func NewUserService(store userUSStore, defaultCurrency string) *userService {
	return &userService{
		Store:           store,
		defaultCurrency: defaultCurrency,
		clockNow:        utcNow,
	}
}

func (s *userService) CreateUser(ctx context.Context, uid, email, first, last string) (*models.User, error) {
	// uid and email are already on the context logger
	log := logger.FromContext(ctx)

	now := s.clockNow()
	user := &models.User{
		UID:       uid,
		Email:     email,
		FirstName: strings.TrimSpace(first),
		LastName:  strings.TrimSpace(last),
		Currency:  s.defaultCurrency,
		Timezone:  defaultTimezone,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.Store.CreateUser(ctx, user); err != nil {
		log.Error("failed to create user in store", "error", err)
		return nil, err
	}

	log.Info("user created successfully", "first_name", user.FirstName, "last_name", user.LastName)
	log.Debug("user created with full details", "user", user)
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, uid string) (*models.User, error) {
	return s.Store.GetUser(ctx, uid)
}

func (s *userService) UpdateProfile(ctx context.Context, uid string, req dto.UpdateProfileRequest) (*models.User, error) {
	user, err := s.Store.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Currency != nil {
		c := strings.ToUpper(strings.TrimSpace(*req.Currency))
		if !profileCurrencies[c] {
			return nil, errs.NewFieldValidationError("currency", "Currency must be one of: USD, EUR, GBP, XAF, NGN.")
		}
		user.Currency = c
	}
	if req.Timezone != nil {
		tz := strings.TrimSpace(*req.Timezone)
		if _, err := time.LoadLocation(tz); err != nil || tz == "" {
			return nil, errs.NewFieldValidationError("timezone", "Timezone must be a valid IANA timezone name.")
		}
		user.Timezone = tz
	}
	if req.AvatarURL != nil {
		user.AvatarURL = strings.TrimSpace(*req.AvatarURL)
	}
	user.UpdatedAt = s.clockNow()

	if err := s.Store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("user profile updated")
	return user, nil
}
