package repository

import (
	"time"

	"gorm.io/gorm"
)

// userRecord mirrors the users table for the gorm backend.
type userRecord struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Email        string    `gorm:"not null;uniqueIndex"`
	PasswordHash string    `gorm:"not null"`
	FullName     string    `gorm:"not null;default:''"`
	Role         string    `gorm:"not null;default:user;check:chk_users_role,role IN ('admin','user')"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (userRecord) TableName() string { return "users" }

// ticketRecord mirrors the tickets table. Timestamps are written by the service clock.
type ticketRecord struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Title       string `gorm:"not null"`
	Description string `gorm:"not null"`
	Status      string `gorm:"not null;default:open;check:chk_tickets_status,status IN ('open','in_progress','resolved','closed')"`
	Priority    string `gorm:"not null;default:medium;check:chk_tickets_priority,priority IN ('low','medium','high')"`
	UserID      int64  `gorm:"not null;index"`
	AssignedTo  *int64
	CreatedAt   time.Time `gorm:"not null;index;autoCreateTime:false"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime:false"`

	Owner    *userRecord `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
	Assignee *userRecord `gorm:"foreignKey:AssignedTo;constraint:OnDelete:SET NULL"`
}

func (ticketRecord) TableName() string { return "tickets" }

// ticketViewRow receives the joined ticket listing.
type ticketViewRow struct {
	ID           int64
	Title        string
	Description  string
	Status       string
	Priority     string
	UserID       int64
	AssignedTo   *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
	UserName     string
	UserEmail    string
	AssignedName *string
}

type statusCountRow struct {
	Status string
	Count  int64
}

// AutoMigrate creates the users and tickets tables for the gorm backend.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&userRecord{}, &ticketRecord{})
}
