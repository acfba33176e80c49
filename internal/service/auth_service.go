package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"task-manager/internal/model"
	"task-manager/internal/repository"
	"task-manager/internal/token"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Name                 string
	Email                string
	Username             string
	Password             string
	PasswordConfirmation string
}

// LoginInput carries the login form fields.
type LoginInput struct {
	Email    string
	Password string
}

// AuthService wraps account and credential logic.
type AuthService struct {
	users  *repository.UserRepository
	tokens *token.Service
}

func NewAuthService(users *repository.UserRepository, tokens *token.Service) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register validates the input, stores the user with a bcrypt hash and issues
// a token for the new account.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*model.User, string, int64, error) {
	vErr := newValidationError()

	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "El nombre es obligatorio")
	}

	email := strings.TrimSpace(input.Email)
	switch {
	case email == "":
		vErr.add("email", "El correo electrónico es obligatorio")
	case !emailPattern.MatchString(email):
		vErr.add("email", "El formato del correo electrónico no es válido")
	default:
		taken, err := s.users.EmailTaken(ctx, email)
		if err != nil {
			return nil, "", 0, err
		}
		if taken {
			vErr.add("email", "El correo electrónico ya está registrado")
		}
	}

	switch {
	case input.Password == "":
		vErr.add("password", "La contraseña es obligatoria")
	case utf8.RuneCountInString(input.Password) < 6:
		vErr.add("password", "La contraseña debe tener al menos 6 caracteres")
	case input.Password != input.PasswordConfirmation:
		vErr.add("password", "La confirmación de contraseña no coincide")
	}

	if !vErr.ok() {
		return nil, "", 0, vErr
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", 0, err
	}

	username := strings.TrimSpace(input.Username)
	if username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}

	user := model.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, &user); err != nil {
		// A concurrent registration can slip past the EmailTaken check and
		// hit the unique index instead; report it like any duplicate email.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			vErr.add("email", "El correo electrónico ya está registrado")
			return nil, "", 0, vErr
		}
		return nil, "", 0, err
	}

	accessToken, expiresIn, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", 0, err
	}
	return &user, accessToken, expiresIn, nil
}

// Login checks the credentials and issues a token. A missing account and a
// wrong password are reported identically.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*model.User, string, int64, error) {
	vErr := newValidationError()

	email := strings.TrimSpace(input.Email)
	switch {
	case email == "":
		vErr.add("email", "El correo electrónico es obligatorio")
	case !emailPattern.MatchString(email):
		vErr.add("email", "El formato del correo electrónico no es válido")
	}

	switch {
	case input.Password == "":
		vErr.add("password", "La contraseña es obligatoria")
	case utf8.RuneCountInString(input.Password) < 6:
		vErr.add("password", "La contraseña debe tener al menos 6 caracteres")
	}

	if !vErr.ok() {
		return nil, "", 0, vErr
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", 0, ErrInvalidCredentials
		}
		return nil, "", 0, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		return nil, "", 0, ErrInvalidCredentials
	}

	accessToken, expiresIn, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", 0, err
	}
	return user, accessToken, expiresIn, nil
}
