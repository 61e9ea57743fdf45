package gormdb

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	clientdomain "github.com/Apurer/invoicing-api/internal/domains/clients/domain"
	"github.com/Apurer/invoicing-api/internal/domains/invoices/domain"
	"github.com/Apurer/invoicing-api/internal/domains/invoices/ports"
	productdomain "github.com/Apurer/invoicing-api/internal/domains/products/domain"
)

var (
	_ ports.UnitOfWork = (*Store)(nil)
	_ ports.Repository = (*Store)(nil)
)

// Store persists invoices through GORM and implements the invoice unit of work as a
// database transaction. On PostgreSQL and MySQL products are read with SELECT ... FOR
// UPDATE; SQLite serializes writers on its own.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// NewStore wires a GORM-backed invoice store. Caller manages DB lifecycle and schema.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// invoiceRecord maps the invoice aggregate. Client fields are a snapshot taken at issue time.
type invoiceRecord struct {
	ID                         int64               `gorm:"primaryKey;column:id"`
	ClientID                   int64               `gorm:"column:client_id;not null;index"`
	ClientName                 string              `gorm:"column:client_name;size:255;not null"`
	ClientEmail                string              `gorm:"column:client_email;size:255;not null"`
	ClientIdentificationNumber string              `gorm:"column:client_identification_number;size:64;not null"`
	Total                      decimal.Decimal     `gorm:"column:total;type:numeric(14,2);not null"`
	CreatedAt                  time.Time           `gorm:"column:created_at;not null;index"`
	Items                      []invoiceItemRecord `gorm:"foreignKey:InvoiceID"`
}

func (invoiceRecord) TableName() string { return "invoices" }

type invoiceItemRecord struct {
	ID          int64           `gorm:"primaryKey;column:id"`
	InvoiceID   int64           `gorm:"column:invoice_id;not null;index"`
	Position    int             `gorm:"column:position;not null"`
	ProductID   int64           `gorm:"column:product_id;not null;index"`
	ProductName string          `gorm:"column:product_name;size:255;not null"`
	Quantity    int64           `gorm:"column:quantity;not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Subtotal    decimal.Decimal `gorm:"column:subtotal;type:numeric(14,2);not null"`
}

func (invoiceItemRecord) TableName() string { return "invoice_items" }

// clientRow and productRow mirror the tables owned by the clients and products adapters.
type clientRow struct {
	ID                   int64     `gorm:"column:id"`
	Name                 string    `gorm:"column:name"`
	Email                string    `gorm:"column:email"`
	IdentificationNumber string    `gorm:"column:identification_number"`
	CreatedAt            time.Time `gorm:"column:created_at"`
}

func (clientRow) TableName() string { return "clients" }

type productRow struct {
	ID        int64           `gorm:"column:id"`
	Name      string          `gorm:"column:name"`
	Price     decimal.Decimal `gorm:"column:price"`
	Stock     int64           `gorm:"column:stock"`
	Version   int64           `gorm:"column:version"`
	CreatedAt time.Time       `gorm:"column:created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at"`
}

func (productRow) TableName() string { return "products" }

// Within runs fn inside a database transaction.
func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx ports.TxStore) error) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &txStore{db: tx, now: s.now, lockRows: supportsRowLocks(tx)})
	})
}

// GetByID fetches an invoice with its lines.
func (s *Store) GetByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var record invoiceRecord
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// List returns all invoices ordered by ID.
func (s *Store) List(ctx context.Context) ([]*domain.Invoice, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	return s.find(ctx, s.db.WithContext(ctx))
}

// ListByClient returns the invoices issued to a client ordered by ID.
func (s *Store) ListByClient(ctx context.Context, clientID int64) ([]*domain.Invoice, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	return s.find(ctx, s.db.WithContext(ctx).Where("client_id = ?", clientID))
}

func (s *Store) find(ctx context.Context, query *gorm.DB) ([]*domain.Invoice, error) {
	var records []invoiceRecord
	if err := query.Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []*domain.Invoice{}, nil
	}
	ids := make([]int64, 0, len(records))
	for i := range records {
		ids = append(ids, records[i].ID)
	}
	var items []invoiceItemRecord
	if err := s.whereInvoiceIn(ctx, ids).Order("invoice_id, position").Find(&items).Error; err != nil {
		return nil, err
	}
	byInvoice := make(map[int64][]invoiceItemRecord, len(records))
	for _, item := range items {
		byInvoice[item.InvoiceID] = append(byInvoice[item.InvoiceID], item)
	}
	invoices := make([]*domain.Invoice, 0, len(records))
	for i := range records {
		records[i].Items = byInvoice[records[i].ID]
		invoices = append(invoices, records[i].toDomain())
	}
	return invoices, nil
}

// whereInvoiceIn filters line items by invoice. PostgreSQL gets a single array parameter
// instead of an expanded IN list.
func (s *Store) whereInvoiceIn(ctx context.Context, ids []int64) *gorm.DB {
	query := s.db.WithContext(ctx)
	if query.Dialector.Name() == "postgres" {
		return query.Where("invoice_id = ANY(?)", pq.Array(ids))
	}
	return query.Where("invoice_id IN ?", ids)
}

func (s *Store) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("invoice store not configured")
	}
	return nil
}

func supportsRowLocks(db *gorm.DB) bool {
	switch db.Dialector.Name() {
	case "postgres", "mysql":
		return true
	default:
		return false
	}
}

type txStore struct {
	db       *gorm.DB
	now      func() time.Time
	lockRows bool
}

func (t *txStore) FindClientByID(ctx context.Context, id int64) (*clientdomain.Client, error) {
	var row clientRow
	if err := t.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return &clientdomain.Client{
		ID:                   row.ID,
		Name:                 row.Name,
		Email:                row.Email,
		IdentificationNumber: row.IdentificationNumber,
		CreatedAt:            row.CreatedAt,
	}, nil
}

func (t *txStore) FindProductByID(ctx context.Context, id int64) (*productdomain.Product, error) {
	query := t.db.WithContext(ctx)
	if t.lockRows {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row productRow
	if err := query.First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return &productdomain.Product{
		ID:        row.ID,
		Name:      row.Name,
		Price:     row.Price,
		Stock:     row.Stock,
		Version:   row.Version,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

// SaveProduct performs a conditional stock write keyed on the version read earlier.
func (t *txStore) SaveProduct(ctx context.Context, product productdomain.Product) error {
	if product.Stock < 0 {
		return productdomain.ErrNegativeStock
	}
	result := t.db.WithContext(ctx).
		Model(&productRow{}).
		Where("id = ? AND version = ?", product.ID, product.Version).
		Updates(map[string]any{
			"stock":      product.Stock,
			"version":    gorm.Expr("version + 1"),
			"updated_at": t.now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrConcurrentUpdate
	}
	return nil
}

func (t *txStore) SaveInvoice(ctx context.Context, invoice *domain.Invoice) (*domain.Invoice, error) {
	if invoice == nil {
		return nil, errors.New("invoice is nil")
	}
	if err := invoice.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(invoice)
	record.ID = 0
	record.CreatedAt = t.now().UTC()
	if err := t.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func toRecord(invoice *domain.Invoice) invoiceRecord {
	items := make([]invoiceItemRecord, 0, len(invoice.Items))
	for i, item := range invoice.Items {
		items = append(items, invoiceItemRecord{
			Position:    i,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		})
	}
	return invoiceRecord{
		ID:                         invoice.ID,
		ClientID:                   invoice.Client.ID,
		ClientName:                 invoice.Client.Name,
		ClientEmail:                invoice.Client.Email,
		ClientIdentificationNumber: invoice.Client.IdentificationNumber,
		Total:                      invoice.Total,
		CreatedAt:                  invoice.CreatedAt,
		Items:                      items,
	}
}

func (r invoiceRecord) toDomain() *domain.Invoice {
	items := make([]domain.LineItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, domain.LineItem{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		})
	}
	return &domain.Invoice{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		Client: domain.ClientSnapshot{
			ID:                   r.ClientID,
			Name:                 r.ClientName,
			Email:                r.ClientEmail,
			IdentificationNumber: r.ClientIdentificationNumber,
		},
		Items: items,
		Total: r.Total,
	}
}
