// Package models contains data structures for the application's domain models.
package models

import "time"

// User represents a registered author.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Username    string    `gorm:"size:150;not null;uniqueIndex" json:"username"`
	DisplayName string    `gorm:"size:120" json:"display_name"`
	Password    string    `gorm:"not null" json:"-"`
	IsAdmin     bool      `gorm:"default:false" json:"is_admin"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
