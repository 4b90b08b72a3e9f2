package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/mgoncalves/experia-marketplace/internal/model"
	"github.com/mgoncalves/experia-marketplace/internal/repository"
	"github.com/mgoncalves/experia-marketplace/internal/validation"
)

// ErrInvalidCredentials: unknown email or wrong password. Deliberately one
// error for both so callers cannot probe which part failed.
var ErrInvalidCredentials = errors.New("identity: invalid credentials")

var titleCaser = cases.Title(language.Und)

// IdentityService registers accounts and maintains display profiles.
type IdentityService struct {
	users repository.UserRepository
}

func NewIdentityService(users repository.UserRepository) *IdentityService {
	return &IdentityService{users: users}
}

type registerInput struct {
	EmailAddress string `validate:"required,email"`
	Password     string `validate:"required,min=8"`
}

// Register creates an account with a normalized email and a bcrypt digest.
func (s *IdentityService) Register(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if errs := validation.Struct(registerInput{EmailAddress: email, Password: password}); errs != nil {
		return nil, errs
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &model.User{EmailAddress: email, PasswordDigest: string(digest)}

	if err := duplicateKey(s.users.Create(ctx, user), "email_address", "has already been taken"); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate resolves an email/password pair to the account.
func (s *IdentityService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordDigest), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

type ProfileInput struct {
	FirstName string
	LastName  string
	Bio       string
	Phone     string
	Locale    string
	Timezone  string
}

// UpsertProfile creates or replaces the user's display profile with
// normalized fields: names title-cased, phone reduced to digits with an
// optional leading plus.
func (s *IdentityService) UpsertProfile(ctx context.Context, userID uint, input ProfileInput) (*model.Profile, error) {
	profile := &model.Profile{
		UserID:    userID,
		FirstName: titleize(input.FirstName),
		LastName:  titleize(input.LastName),
		Bio:       input.Bio,
		Phone:     normalizePhone(input.Phone),
		Locale:    input.Locale,
		Timezone:  input.Timezone,
	}

	if errs := validation.Struct(profile); errs != nil {
		return nil, errs
	}
	if err := s.users.UpsertProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func titleize(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return titleCaser.String(name)
}

func normalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}
	b := make([]byte, 0, len(phone))
	for i := 0; i < len(phone); i++ {
		c := phone[i]
		if c >= '0' && c <= '9' {
			b = append(b, c)
			continue
		}
		// A plus survives only as the leading character.
		if c == '+' && len(b) == 0 {
			b = append(b, c)
		}
	}
	return string(b)
}
