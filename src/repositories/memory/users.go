package memory

import (
	"context"
	"strings"

	"github.com/Jshatto/asset-tracker/src/apperrors"
	"github.com/Jshatto/asset-tracker/src/models"

	"github.com/google/uuid"
)

const userNotFound = "user not found"

type userRepo struct {
	store *Store
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, u := range r.store.users {
		if strings.EqualFold(u.Email, email) {
			user := u
			return &user, nil
		}
	}
	return nil, apperrors.NotFound(userNotFound)
}

func (r *userRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	u, ok := r.store.users[id]
	if !ok {
		return nil, apperrors.NotFound(userNotFound)
	}
	return &u, nil
}

func (s *Store) insertUser(user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if _, exists := s.users[user.ID]; exists {
		return apperrors.Conflict("record already exists")
	}
	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return apperrors.Conflict("record already exists")
		}
	}
	if user.ClientID != nil {
		if _, ok := s.clients[*user.ClientID]; !ok {
			return apperrors.Conflict("record is referenced by other records")
		}
	}
	user.CreatedAt = now()
	s.users[user.ID] = *user
	return nil
}

func (r *userRepo) Create(_ context.Context, user *models.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.insertUser(user)
}

func (r *userRepo) CreateWithClient(_ context.Context, user *models.User, client *models.Client) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.store.insertClient(client); err != nil {
		return err
	}
	clientID := client.ID
	user.ClientID = &clientID
	if err := r.store.insertUser(user); err != nil {
		delete(r.store.clients, client.ID)
		user.ClientID = nil
		return err
	}
	return nil
}
