// user.go - Defines the User model for the database

package models

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"
)

// HashCost is the bcrypt cost used when a new password is set.
var HashCost = bcrypt.DefaultCost

// User is an account that can authenticate and own courses.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	FirstName    string    `gorm:"not null" json:"firstName" validate:"required,notblank"`
	LastName     string    `gorm:"not null" json:"lastName" validate:"required,notblank"`
	EmailAddress string    `gorm:"uniqueIndex;not null" json:"emailAddress" validate:"required,notblank,email"`
	Password     string    `gorm:"not null" json:"-"` // bcrypt hash, never the plaintext
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`

	Courses []Course `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	plainPassword string // pending plaintext, hashed by BeforeSave
	passwordSet   bool
}

// SetPassword stages a new plaintext password. It is validated and hashed
// on the next save; nothing is hashed for saves that did not call this.
func (u *User) SetPassword(plain string) {
	u.plainPassword = plain
	u.passwordSet = true
}

// CheckPassword reports whether plain matches the stored hash.
func (u *User) CheckPassword(plain string) bool {
	if u.Password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}

// Validate runs the field rules. The returned error, if any, is an
// *apierror.ValidationError listing every failed rule.
func (u *User) Validate() error {
	messages := structMessages(u)
	if !u.passwordSet {
		if u.Password == "" { // never set and nothing stored
			messages = append(messages, MsgPasswordRequired)
		}
		return validationError(messages)
	}

	// An empty password fails both rules, like a missing value would
	if u.plainPassword == "" {
		messages = append(messages, MsgPasswordRequired)
	}
	chars := utf8.RuneCountInString(u.plainPassword)
	if chars < PasswordMinLen || chars > PasswordMaxLen || len(u.plainPassword) > PasswordMaxBytes {
		messages = append(messages, MsgPasswordLength)
	}
	return validationError(messages)
}

// BeforeSave validates the record and, only when a new password was staged,
// replaces it with its hash.
func (u *User) BeforeSave(tx *gorm.DB) error {
	if err := u.Validate(); err != nil {
		return err
	}
	if !u.passwordSet {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(u.plainPassword), HashCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.Password = string(hash)
	u.plainPassword = ""
	u.passwordSet = false
	return nil
}

// BeforeCreate enforces email uniqueness with a readable message. The unique
// index still backs this up for concurrent inserts.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	var count int64
	err := tx.Session(&gorm.Session{NewDB: true}).
		Model(&User{}).
		Where("email_address = ?", u.EmailAddress).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("check email uniqueness: %w", err)
	}
	if count > 0 {
		return validationError([]string{MsgEmailTaken})
	}
	return nil
}

// IsDuplicateKey reports whether err is a unique constraint violation.
func IsDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
