package repositories

import (
	"context"

	"github.com/Jshatto/asset-tracker/src/apperrors"
	"github.com/Jshatto/asset-tracker/src/models"

	"github.com/google/uuid"
)

const clientNotFound = "client not found"

type ClientRepository interface {
	GetAll(ctx context.Context) ([]models.Client, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error)
	Create(ctx context.Context, client *models.Client) error
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type clientRepo struct {
	db DBTX
}

func NewClientRepository(db DBTX) ClientRepository {
	return &clientRepo{db: db}
}

func (r *clientRepo) GetAll(ctx context.Context) ([]models.Client, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, created_at FROM clients ORDER BY name ASC`)
	if err != nil {
		return nil, translate("failed to list clients", err, clientNotFound)
	}
	defer rows.Close()

	clients := []models.Client{}
	for rows.Next() {
		var c models.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, translate("failed to read clients", err, clientNotFound)
		}
		clients = append(clients, c)
	}
	return clients, translate("failed to read clients", rows.Err(), clientNotFound)
}

func (r *clientRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	var c models.Client
	err := r.db.QueryRow(ctx, `SELECT id, name, created_at FROM clients WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		return nil, translate("failed to fetch client", err, clientNotFound)
	}
	return &c, nil
}

func (r *clientRepo) Create(ctx context.Context, client *models.Client) error {
	return translate("failed to create client", insertClient(ctx, r.db, client), clientNotFound)
}

func insertClient(ctx context.Context, db DBTX, client *models.Client) error {
	if client.ID == uuid.Nil {
		client.ID = uuid.New()
	}
	return db.QueryRow(ctx,
		`INSERT INTO clients (id, name) VALUES ($1, $2) RETURNING created_at`,
		client.ID, client.Name,
	).Scan(&client.CreatedAt)
}

func (r *clientRepo) Update(ctx context.Context, client *models.Client) error {
	err := r.db.QueryRow(ctx,
		`UPDATE clients SET name = $2 WHERE id = $1 RETURNING created_at`,
		client.ID, client.Name,
	).Scan(&client.CreatedAt)
	return translate("failed to update client", err, clientNotFound)
}

func (r *clientRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return translate("failed to delete client", err, clientNotFound)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound(clientNotFound)
	}
	return nil
}
