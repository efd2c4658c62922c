package memory

import (
	"context"
	"sort"

	"github.com/Jshatto/asset-tracker/src/apperrors"
	"github.com/Jshatto/asset-tracker/src/models"

	"github.com/google/uuid"
)

const clientNotFound = "client not found"

type clientRepo struct {
	store *Store
}

func (r *clientRepo) GetAll(_ context.Context) ([]models.Client, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	clients := make([]models.Client, 0, len(r.store.clients))
	for _, c := range r.store.clients {
		clients = append(clients, c)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].Name < clients[j].Name })
	return clients, nil
}

func (r *clientRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Client, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, ok := r.store.clients[id]
	if !ok {
		return nil, apperrors.NotFound(clientNotFound)
	}
	return &c, nil
}

func (s *Store) insertClient(client *models.Client) error {
	if client.ID == uuid.Nil {
		client.ID = uuid.New()
	}
	if _, exists := s.clients[client.ID]; exists || s.clientNameTaken(client.Name, client.ID) {
		return apperrors.Conflict("record already exists")
	}
	client.CreatedAt = now()
	s.clients[client.ID] = *client
	return nil
}

func (r *clientRepo) Create(_ context.Context, client *models.Client) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.insertClient(client)
}

func (r *clientRepo) Update(_ context.Context, client *models.Client) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.clients[client.ID]
	if !ok {
		return apperrors.NotFound(clientNotFound)
	}
	if r.store.clientNameTaken(client.Name, client.ID) {
		return apperrors.Conflict("record already exists")
	}
	client.CreatedAt = existing.CreatedAt
	r.store.clients[client.ID] = *client
	return nil
}

func (r *clientRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.clients[id]; !ok {
		return apperrors.NotFound(clientNotFound)
	}
	for _, record := range r.store.assets {
		if record.asset.ClientID == id {
			return apperrors.Conflict("record is referenced by other records")
		}
	}
	for _, u := range r.store.users {
		if u.ClientID != nil && *u.ClientID == id {
			return apperrors.Conflict("record is referenced by other records")
		}
	}
	delete(r.store.clients, id)
	return nil
}
