package gormdb

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Apurer/invoicing-api/internal/domains/clients/domain"
	"github.com/Apurer/invoicing-api/internal/domains/clients/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists clients through GORM. Any dialect opened by the platform packages works.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a GORM-backed repository. Caller manages DB lifecycle and schema.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// clientRecord maps the client aggregate to the clients table.
type clientRecord struct {
	ID                   int64     `gorm:"primaryKey;column:id"`
	Name                 string    `gorm:"column:name;size:255;not null"`
	Email                string    `gorm:"column:email;size:255;not null;uniqueIndex"`
	IdentificationNumber string    `gorm:"column:identification_number;size:64;not null;uniqueIndex"`
	CreatedAt            time.Time `gorm:"column:created_at;not null"`
}

func (clientRecord) TableName() string { return "clients" }

// Create inserts a new client. Unique violations surface as ports.ErrDuplicate.
func (r *Repository) Create(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if client == nil {
		return nil, errors.New("client is nil")
	}
	record := toRecord(client)
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrDuplicate
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// GetByID fetches a client by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	return r.first(ctx, "id = ?", id)
}

// GetByEmail fetches a client by its unique email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.Client, error) {
	return r.first(ctx, "email = ?", email)
}

// List returns all clients ordered by identifier.
func (r *Repository) List(ctx context.Context) ([]*domain.Client, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []clientRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	clients := make([]*domain.Client, 0, len(records))
	for i := range records {
		clients = append(clients, records[i].toDomain())
	}
	return clients, nil
}

// Delete removes a client by identifier.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&clientRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) first(ctx context.Context, query string, arg any) (*domain.Client, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record clientRecord
	if err := r.db.WithContext(ctx).Where(query, arg).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("client repository not configured")
	}
	return nil
}

func toRecord(client *domain.Client) clientRecord {
	return clientRecord{
		ID:                   client.ID,
		Name:                 client.Name,
		Email:                client.Email,
		IdentificationNumber: client.IdentificationNumber,
		CreatedAt:            client.CreatedAt,
	}
}

func (r clientRecord) toDomain() *domain.Client {
	return &domain.Client{
		ID:                   r.ID,
		Name:                 r.Name,
		Email:                r.Email,
		IdentificationNumber: r.IdentificationNumber,
		CreatedAt:            r.CreatedAt,
	}
}
