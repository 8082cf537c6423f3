package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/gift-registry/internal/domains/catalog/domain"
	"github.com/Apurer/gift-registry/internal/domains/catalog/ports"
)

// undefinedFunction is the SQLSTATE Postgres returns when increment_packages_sold is not installed.
const undefinedFunction = "42883"

var (
	_ ports.Repository     = (*Repository)(nil)
	_ ports.InventoryStore = (*Repository)(nil)
)

// Repository reads experiences and mutates inventory in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Schema is owned by platform/migrations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type experienceRecord struct {
	ID            string              `gorm:"primaryKey;column:id"`
	Title         string              `gorm:"column:title"`
	Description   string              `gorm:"column:description"`
	ImageURL      string              `gorm:"column:image_url"`
	UnitPrice     decimal.NullDecimal `gorm:"column:unit_price;type:numeric(10,2)"`
	TotalPackages int                 `gorm:"column:total_packages"`
	PackagesSold  int                 `gorm:"column:packages_sold"`
	DisplayOrder  int                 `gorm:"column:display_order"`
	IsActive      bool                `gorm:"column:is_active"`
	CreatedAt     time.Time           `gorm:"column:created_at"`
	UpdatedAt     time.Time           `gorm:"column:updated_at"`
}

func (experienceRecord) TableName() string { return "experiences" }

func (r *Repository) FetchCatalog(ctx context.Context) ([]domain.Item, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []experienceRecord
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("display_order ASC").
		Order("id ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	items := make([]domain.Item, 0, len(records))
	for i := range records {
		items = append(items, records[i].toDomain())
	}
	return items, nil
}

func (r *Repository) Get(ctx context.Context, id string) (*domain.Item, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record experienceRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	item := record.toDomain()
	return &item, nil
}

// Upsert inserts or replaces an experience. packages_sold is only written on insert so reseeding
// never rewinds sales.
func (r *Repository) Upsert(ctx context.Context, item domain.Item) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if err := item.Validate(); err != nil {
		return err
	}
	record := toRecord(item)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"title":          record.Title,
				"description":    record.Description,
				"image_url":      record.ImageURL,
				"unit_price":     record.UnitPrice,
				"total_packages": record.TotalPackages,
				"display_order":  record.DisplayOrder,
				"is_active":      record.IsActive,
				"updated_at":     gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error
}

// IncrementSold calls the increment_packages_sold function, which updates the row in one statement.
func (r *Repository) IncrementSold(ctx context.Context, id string, by int, enforceLimit bool) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if by <= 0 {
		return domain.ErrInvalidIncrement
	}
	var newSold sql.NullInt64
	row := r.db.WithContext(ctx).Raw("SELECT increment_packages_sold(?, ?, ?)", id, by, enforceLimit).Row()
	if err := row.Scan(&newSold); err != nil {
		if isUndefinedFunction(err) {
			return ports.ErrOperationUnavailable
		}
		return err
	}
	if newSold.Valid {
		return nil
	}
	// No row updated: either the id is unknown or the limit refused the increment.
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}
	return domain.ErrInsufficientInventory
}

func (r *Repository) SoldCount(ctx context.Context, id string) (int, int, error) {
	item, err := r.Get(ctx, id)
	if err != nil {
		return 0, 0, err
	}
	return item.PackagesSold, item.TotalPackages, nil
}

func (r *Repository) UpdateSoldCount(ctx context.Context, id string, newValue int) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if newValue < 0 {
		return domain.ErrNegativePackages
	}
	result := r.db.WithContext(ctx).Model(&experienceRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{"packages_sold": newValue, "updated_at": gorm.Expr("NOW()")})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) SupportsAtomicIncrement(ctx context.Context) (bool, error) {
	if err := r.ensureDB(); err != nil {
		return false, err
	}
	var exists bool
	err := r.db.WithContext(ctx).
		Raw("SELECT EXISTS (SELECT 1 FROM pg_proc WHERE proname = ?)", "increment_packages_sold").
		Scan(&exists).Error
	return exists, err
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres catalog repository not configured")
	}
	return nil
}

func isUndefinedFunction(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == undefinedFunction
}

func toRecord(item domain.Item) experienceRecord {
	rec := experienceRecord{
		ID:            item.ID,
		Title:         item.Title,
		Description:   item.Description,
		ImageURL:      item.ImageURL,
		TotalPackages: item.TotalPackages,
		PackagesSold:  item.PackagesSold,
		DisplayOrder:  item.DisplayOrder,
		IsActive:      item.Active,
	}
	if item.UnitPrice != nil {
		rec.UnitPrice = decimal.NullDecimal{Decimal: *item.UnitPrice, Valid: true}
	}
	return rec
}

func (r experienceRecord) toDomain() domain.Item {
	item := domain.Item{
		ID:            r.ID,
		Title:         r.Title,
		Description:   r.Description,
		ImageURL:      r.ImageURL,
		TotalPackages: r.TotalPackages,
		PackagesSold:  r.PackagesSold,
		DisplayOrder:  r.DisplayOrder,
		Active:        r.IsActive,
	}
	if r.UnitPrice.Valid {
		price := r.UnitPrice.Decimal
		item.UnitPrice = &price
	}
	return item
}
