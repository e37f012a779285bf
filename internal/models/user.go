package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"type:varchar(16);not null;default:user" json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// AdminIdentity is a single-row table pointing at the one admin account.
// The fixed primary key makes a second claim fail at the database level.
type AdminIdentity struct {
	ID        uint `gorm:"primaryKey;autoIncrement:false;check:chk_admin_identities_single,id = 1"`
	UserID    uint `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
}

const AdminIdentityID uint = 1
