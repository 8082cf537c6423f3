package migrations

import (
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts and installs the atomic increment function.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	if err := db.AutoMigrate(
		&experienceRecord{},
		&orderRecord{},
		&orderItemRecord{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return InstallIncrementFunction(db)
}

// incrementFunctionSQL updates packages_sold in a single statement. It returns the new count, or NULL
// when the id is unknown or enforce_limit refused the increment.
const incrementFunctionSQL = `
CREATE OR REPLACE FUNCTION increment_packages_sold(experience_id text, increment_by integer, enforce_limit boolean DEFAULT true)
RETURNS integer
LANGUAGE sql
AS $$
	UPDATE experiences
	   SET packages_sold = packages_sold + increment_by,
	       updated_at = NOW()
	 WHERE id = experience_id
	   AND (NOT enforce_limit OR packages_sold + increment_by <= total_packages)
	RETURNING packages_sold;
$$`

// InstallIncrementFunction creates or replaces increment_packages_sold.
func InstallIncrementFunction(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	if err := db.Exec(incrementFunctionSQL).Error; err != nil {
		return fmt.Errorf("install increment_packages_sold: %w", err)
	}
	return nil
}

// DropIncrementFunction removes increment_packages_sold, leaving only the read-modify-write path.
func DropIncrementFunction(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.Exec("DROP FUNCTION IF EXISTS increment_packages_sold(text, integer, boolean)").Error
}

// Experience schema mirrors the catalog Postgres adapter.
type experienceRecord struct {
	ID            string              `gorm:"primaryKey;column:id"`
	Title         string              `gorm:"column:title;not null"`
	Description   string              `gorm:"column:description"`
	ImageURL      string              `gorm:"column:image_url"`
	UnitPrice     decimal.NullDecimal `gorm:"column:unit_price;type:numeric(10,2)"`
	TotalPackages int                 `gorm:"column:total_packages;not null;default:0;check:chk_experiences_total,total_packages >= 0"`
	PackagesSold  int                 `gorm:"column:packages_sold;not null;default:0;check:chk_experiences_sold,packages_sold >= 0"`
	DisplayOrder  int                 `gorm:"column:display_order;index"`
	IsActive      bool                `gorm:"column:is_active;not null;default:true;index"`
	CreatedAt     time.Time           `gorm:"column:created_at"`
	UpdatedAt     time.Time           `gorm:"column:updated_at"`
}

func (experienceRecord) TableName() string { return "experiences" }

// Order schema mirrors the checkout Postgres adapter.
type orderRecord struct {
	ID            string         `gorm:"primaryKey;column:id;type:uuid"`
	SessionCode   string         `gorm:"column:session_code;size:16;index"`
	GuestName     string         `gorm:"column:guest_name;not null"`
	GuestEmail    string         `gorm:"column:guest_email"`
	GuestMessage  string         `gorm:"column:guest_message"`
	ExperienceIDs pq.StringArray `gorm:"column:experience_ids;type:text[]"`
	TotalPackages int            `gorm:"column:total_packages"`
	CreatedAt     time.Time      `gorm:"column:created_at;index"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID            int64     `gorm:"primaryKey;autoIncrement;column:id"`
	OrderID       string    `gorm:"column:order_id;type:uuid;index;not null"`
	ExperienceID  string    `gorm:"column:experience_id;not null"`
	PackagesCount int       `gorm:"column:packages_count;not null"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (orderItemRecord) TableName() string { return "order_items" }
