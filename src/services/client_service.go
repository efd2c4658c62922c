package services

import (
	"context"
	"strings"

	"github.com/Jshatto/asset-tracker/src/access"
	"github.com/Jshatto/asset-tracker/src/apperrors"
	"github.com/Jshatto/asset-tracker/src/models"
	"github.com/Jshatto/asset-tracker/src/repositories"
	"github.com/Jshatto/asset-tracker/src/schemas"

	"github.com/google/uuid"
)

type ClientServiceI interface {
	List(ctx context.Context, actor access.Actor) ([]models.Client, error)
	Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*models.Client, error)
	Create(ctx context.Context, actor access.Actor, req *schemas.ClientRequest) (*models.Client, error)
	Update(ctx context.Context, actor access.Actor, id uuid.UUID, req *schemas.ClientRequest) (*models.Client, error)
	Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error
}

// ClientService manages tenants. Only admins may list or change them; a
// client actor may read its own tenant.
type ClientService struct {
	clients repositories.ClientRepository
}

func NewClientService(clients repositories.ClientRepository) *ClientService {
	return &ClientService{clients: clients}
}

func requireAdmin(actor access.Actor) error {
	if !actor.IsAdmin() {
		return apperrors.Forbidden("admin role required")
	}
	return nil
}

func clientName(req *schemas.ClientRequest) (string, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return "", apperrors.InvalidRequest("client name is required")
	}
	return name, nil
}

func (s *ClientService) List(ctx context.Context, actor access.Actor) ([]models.Client, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.clients.GetAll(ctx)
}

func (s *ClientService) Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*models.Client, error) {
	if !access.CanAccessClient(actor, id) {
		return nil, apperrors.NotFound("client not found")
	}
	return s.clients.GetByID(ctx, id)
}

func (s *ClientService) Create(ctx context.Context, actor access.Actor, req *schemas.ClientRequest) (*models.Client, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	name, err := clientName(req)
	if err != nil {
		return nil, err
	}

	client := &models.Client{Name: name}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *ClientService) Update(ctx context.Context, actor access.Actor, id uuid.UUID, req *schemas.ClientRequest) (*models.Client, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	name, err := clientName(req)
	if err != nil {
		return nil, err
	}

	client := &models.Client{ID: id, Name: name}
	if err := s.clients.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// Delete removes a tenant that no longer owns assets or users.
func (s *ClientService) Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return s.clients.Delete(ctx, id)
}
