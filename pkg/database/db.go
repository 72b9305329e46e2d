package database

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/arnavshah/night-scheduler-api/internal/config"
)

// Doctor represents the doctors table
type Doctor struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Initials  string    `gorm:"size:10;unique;not null" json:"initials"`
	Active    bool      `gorm:"default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// Preference represents the preferences table. One row per doctor and month.
type Preference struct {
	ID            uint                        `gorm:"primaryKey" json:"id"`
	DoctorID      uint                        `gorm:"uniqueIndex:idx_doctor_month;not null" json:"doctor_id"`
	Doctor        *Doctor                     `json:"-"`
	Month         string                      `gorm:"size:7;uniqueIndex:idx_doctor_month;not null" json:"month"`
	Unavailable   datatypes.JSONSlice[string] `json:"unavailable"`
	Preferred     datatypes.JSONSlice[string] `json:"preferred"`
	DesiredShifts int                         `gorm:"default:0" json:"desired_shifts"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

// ScheduleEntry represents the schedule table: one doctor per night.
type ScheduleEntry struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	DoctorID   uint      `gorm:"not null;index" json:"doctor_id"`
	Doctor     *Doctor   `json:"-"`
	Date       string    `gorm:"size:10;unique;not null" json:"date"`
	Month      string    `gorm:"size:7;index;not null" json:"month"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `gorm:"autoUpdateTime" json:"modified_at"`
}

// TableName keeps the table name used by the existing deployments.
func (ScheduleEntry) TableName() string {
	return "schedule"
}

// APIKey represents the api_keys table
type APIKey struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Key        string     `gorm:"unique;not null" json:"-"`
	KeyPreview string     `json:"key_preview"`
	Name       string     `gorm:"not null" json:"name"`
	RateLimit  int        `gorm:"default:10000" json:"rate_limit"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsed   *time.Time `json:"last_used"`
}

// APIUsage represents the api_usage table
type APIUsage struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	KeyID        uint   `gorm:"uniqueIndex:idx_key_date;not null" json:"key_id"`
	Date         string `gorm:"uniqueIndex:idx_key_date;not null" json:"date"`
	RequestCount int    `gorm:"default:0" json:"request_count"`
	TotalDates   int    `gorm:"default:0" json:"total_dates"`
	TotalDoctors int    `gorm:"default:0" json:"total_doctors"`
}

// MasterUser represents the master_users table
type MasterUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// InitDB opens postgres when a URL is configured, otherwise the sqlite file.
func InitDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	if cfg.URL != "" {
		return Open(postgres.New(postgres.Config{
			DSN:                  cfg.URL,
			PreferSimpleProtocol: true,
		}), &gorm.Config{PrepareStmt: false})
	}
	return Open(sqlite.Open(cfg.Path), &gorm.Config{})
}

// Open connects with the given dialector and migrates the schema.
func Open(dialector gorm.Dialector, gormCfg *gorm.Config) (*gorm.DB, error) {
	if gormCfg.Logger == nil {
		gormCfg.Logger = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// OpenInMemory opens a migrated sqlite database that lives as long as the
// process. Connections opened with the same name share the data.
func OpenInMemory(name string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	return Open(sqlite.Open(dsn), &gorm.Config{})
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&Doctor{},
		&Preference{},
		&ScheduleEntry{},
		&APIKey{},
		&APIUsage{},
		&MasterUser{},
	); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}
