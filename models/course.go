// course.go - Defines the Course model for the database

package models

import (
	"time"

	"gorm.io/gorm"
)

// Course is owned by exactly one User.
type Course struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"not null" json:"title" validate:"required,notblank"`
	Description     string    `gorm:"type:text;not null" json:"description" validate:"required,notblank"`
	EstimatedTime   string    `json:"estimatedTime"`
	MaterialsNeeded string    `gorm:"type:text" json:"materialsNeeded"`
	UserID          uint      `gorm:"not null;index" json:"userId"` // Foreign key to users table
	User            *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt       time.Time `json:"-"`
	UpdatedAt       time.Time `json:"-"`
}

// OwnerID returns the id of the owning user.
func (c *Course) OwnerID() uint { return c.UserID }

// Validate runs the field rules.
func (c *Course) Validate() error {
	messages := structMessages(c)
	if c.UserID == 0 {
		messages = append(messages, `Please provide a value for "userId"`)
	}
	return validationError(messages)
}

func (c *Course) BeforeSave(tx *gorm.DB) error {
	return c.Validate()
}
