package services

import (
	"context"
	"net/mail"
	"strings"

	"github.com/Jshatto/asset-tracker/src/access"
	"github.com/Jshatto/asset-tracker/src/apperrors"
	"github.com/Jshatto/asset-tracker/src/auth"
	"github.com/Jshatto/asset-tracker/src/models"
	"github.com/Jshatto/asset-tracker/src/repositories"
	"github.com/Jshatto/asset-tracker/src/schemas"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type AuthServiceI interface {
	Register(ctx context.Context, caller *access.Actor, req *schemas.RegisterRequest) (*schemas.TokenResponse, error)
	Login(ctx context.Context, req *schemas.LoginRequest) (*schemas.TokenResponse, error)
	EnsureAdmin(ctx context.Context, email, password string) error
}

type AuthService struct {
	users   repositories.UserRepository
	clients repositories.ClientRepository
	tokens  *auth.TokenAuth
	cost    int
}

func NewAuthService(users repositories.UserRepository, clients repositories.ClientRepository, tokens *auth.TokenAuth) *AuthService {
	return &AuthService{
		users:   users,
		clients: clients,
		tokens:  tokens,
		cost:    bcrypt.DefaultCost,
	}
}

// WithHashCost sets the bcrypt cost; tests lower it to bcrypt.MinCost.
func (s *AuthService) WithHashCost(cost int) *AuthService {
	s.cost = cost
	return s
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", apperrors.InvalidRequest("email and password are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", apperrors.InvalidRequest("email is not a valid address")
	}
	return email, nil
}

func (s *AuthService) newUser(email, password string, role models.Role) (*models.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < minPasswordLength {
		return nil, apperrors.InvalidRequest("password must be at least %d characters", minPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, apperrors.Persistence("failed to hash password", err)
	}
	return &models.User{Email: email, PasswordHash: string(hash), Role: role}, nil
}

// Register creates a user and signs them in. Anyone may register a client
// user together with a new tenant; admins, and users joining an existing
// tenant, can only be created by an admin caller.
func (s *AuthService) Register(ctx context.Context, caller *access.Actor, req *schemas.RegisterRequest) (*schemas.TokenResponse, error) {
	role := models.RoleClient
	if strings.TrimSpace(req.Role) != "" {
		parsed, err := models.ParseRole(req.Role)
		if err != nil {
			return nil, apperrors.InvalidRequest("role must be admin or client")
		}
		role = parsed
	}
	callerIsAdmin := caller != nil && caller.IsAdmin()

	user, err := s.newUser(req.Email, req.Password, role)
	if err != nil {
		return nil, err
	}

	switch {
	case role == models.RoleAdmin:
		if !callerIsAdmin {
			return nil, apperrors.Forbidden("only admins can register admins")
		}
		err = s.users.Create(ctx, user)
	case req.ClientID != nil:
		if !callerIsAdmin {
			return nil, apperrors.Forbidden("only admins can add users to an existing client")
		}
		if _, err := s.clients.GetByID(ctx, *req.ClientID); err != nil {
			return nil, err
		}
		clientID := *req.ClientID
		user.ClientID = &clientID
		err = s.users.Create(ctx, user)
	case strings.TrimSpace(req.ClientName) != "":
		err = s.users.CreateWithClient(ctx, user, &models.Client{Name: strings.TrimSpace(req.ClientName)})
	default:
		return nil, apperrors.InvalidRequest("client_name is required")
	}
	if err != nil {
		if apperrors.Is(err, apperrors.KindConflict) {
			return nil, apperrors.Conflict("email or client name already exists")
		}
		return nil, err
	}
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, req *schemas.LoginRequest) (*schemas.TokenResponse, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, apperrors.InvalidRequest("email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if apperrors.Is(err, apperrors.KindNotFound) {
			return nil, apperrors.Unauthorized("invalid credentials")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.Unauthorized("invalid credentials")
	}
	return s.issue(user)
}

// EnsureAdmin creates the bootstrap admin unless a user with that email
// already exists.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	user, err := s.newUser(email, password, models.RoleAdmin)
	if err != nil {
		return err
	}
	if _, err := s.users.GetByEmail(ctx, user.Email); err == nil {
		return nil
	} else if !apperrors.Is(err, apperrors.KindNotFound) {
		return err
	}

	if err := s.users.Create(ctx, user); err != nil && !apperrors.Is(err, apperrors.KindConflict) {
		return err
	}
	return nil
}

func (s *AuthService) issue(user *models.User) (*schemas.TokenResponse, error) {
	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, apperrors.Persistence("failed to issue token", err)
	}
	return &schemas.TokenResponse{
		Token:     token,
		TokenType: auth.TokenType,
		ExpiresAt: expiresAt,
		User:      NewUserResponse(user),
	}, nil
}

func NewUserResponse(user *models.User) schemas.UserResponse {
	return schemas.UserResponse{
		ID:       user.ID,
		Email:    user.Email,
		Role:     string(user.Role),
		ClientID: user.ClientID,
	}
}
