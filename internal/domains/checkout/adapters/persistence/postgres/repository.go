package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/Apurer/gift-registry/internal/domains/checkout/domain"
	"github.com/Apurer/gift-registry/internal/domains/checkout/ports"
	"github.com/Apurer/gift-registry/internal/shared/projection"
)

var _ ports.OrderRepository = (*Repository)(nil)

// Repository persists orders and their lines in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Schema is owned by platform/migrations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type orderRecord struct {
	ID            string         `gorm:"primaryKey;column:id;type:uuid"`
	SessionCode   string         `gorm:"column:session_code"`
	GuestName     string         `gorm:"column:guest_name"`
	GuestEmail    string         `gorm:"column:guest_email"`
	GuestMessage  string         `gorm:"column:guest_message"`
	ExperienceIDs pq.StringArray `gorm:"column:experience_ids;type:text[]"`
	TotalPackages int            `gorm:"column:total_packages"`
	CreatedAt     time.Time      `gorm:"column:created_at"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID            int64     `gorm:"primaryKey;autoIncrement;column:id"`
	OrderID       string    `gorm:"column:order_id;type:uuid"`
	ExperienceID  string    `gorm:"column:experience_id"`
	PackagesCount int       `gorm:"column:packages_count"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// Create writes the order and its lines in one transaction and returns the stored order.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(order)
	record.ID = uuid.NewString()
	record.CreatedAt = time.Now().UTC()
	items := make([]orderItemRecord, 0, len(order.Lines))
	for _, line := range order.Lines {
		items = append(items, orderItemRecord{
			OrderID:       record.ID,
			ExperienceID:  line.ExperienceID,
			PackagesCount: line.PackagesCount,
			CreatedAt:     record.CreatedAt,
		})
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return nil, err
	}
	return record.toDomain(items), nil
}

func (r *Repository) GetBySessionCode(ctx context.Context, code string) (*projection.Projection[*domain.Order], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).
		Where("session_code = ?", code).
		Order("created_at DESC").
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	var items []orderItemRecord
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", record.ID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return projection.Of(record.toDomain(items), record.CreatedAt), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	return orderRecord{
		SessionCode:   order.SessionCode,
		GuestName:     order.Guest.Name,
		GuestEmail:    order.Guest.Email,
		GuestMessage:  order.Guest.Message,
		ExperienceIDs: pq.StringArray(order.ExperienceIDs()),
		TotalPackages: order.TotalPackages,
	}
}

// toDomain prefers the order_items rows and falls back to the denormalized experience_ids.
func (r orderRecord) toDomain(items []orderItemRecord) *domain.Order {
	order := &domain.Order{
		ID:          r.ID,
		SessionCode: r.SessionCode,
		Guest: domain.Guest{
			Name:    r.GuestName,
			Email:   r.GuestEmail,
			Message: r.GuestMessage,
		},
		TotalPackages: r.TotalPackages,
		CreatedAt:     r.CreatedAt,
	}
	if len(items) > 0 {
		for _, item := range items {
			order.Lines = append(order.Lines, domain.Line{ExperienceID: item.ExperienceID, PackagesCount: item.PackagesCount})
		}
		return order
	}
	for _, id := range r.ExperienceIDs {
		order.Lines = append(order.Lines, domain.Line{ExperienceID: id, PackagesCount: 1})
	}
	return order
}
