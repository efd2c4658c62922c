package repositories

import (
	"context"

	"github.com/Jshatto/asset-tracker/src/apperrors"
	"github.com/Jshatto/asset-tracker/src/models"

	"github.com/google/uuid"
)

const userNotFound = "user not found"

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	// CreateWithClient registers a tenant and its first user atomically and
	// points user.ClientID at the new tenant.
	CreateWithClient(ctx context.Context, user *models.User, client *models.Client) error
}

type userRepo struct {
	db TxBeginner
}

func NewUserRepository(db TxBeginner) UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, email, password_hash, role, client_id, created_at`

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.ClientID, &u.CreatedAt)
	if err != nil {
		return nil, translate("failed to fetch user", err, userNotFound)
	}
	return &u, nil
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	err := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.ClientID, &u.CreatedAt)
	if err != nil {
		return nil, translate("failed to fetch user", err, userNotFound)
	}
	return &u, nil
}

func insertUser(ctx context.Context, db DBTX, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return db.QueryRow(ctx,
		`INSERT INTO users (id, email, password_hash, role, client_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		user.ID, user.Email, user.PasswordHash, user.Role, user.ClientID,
	).Scan(&user.CreatedAt)
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	return translate("failed to create user", insertUser(ctx, r.db, user), userNotFound)
}

func (r *userRepo) CreateWithClient(ctx context.Context, user *models.User, client *models.Client) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperrors.Persistence("failed to start registration transaction", err)
	}
	defer tx.Rollback(ctx)

	if err := insertClient(ctx, tx, client); err != nil {
		return translate("failed to create client", err, clientNotFound)
	}
	clientID := client.ID
	user.ClientID = &clientID
	if err := insertUser(ctx, tx, user); err != nil {
		return translate("failed to create user", err, userNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.Persistence("failed to commit registration transaction", err)
	}
	return nil
}
