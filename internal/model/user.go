package model

import (
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is an account allowed to sign in to the admin surface.
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"size:80;uniqueIndex;not null" json:"username"`
	PasswordHash string     `gorm:"column:password_hash;size:256;not null" json:"-"`
	Name         string     `gorm:"column:nombre_completo;size:150;not null" json:"name"`
	Role         Role       `gorm:"column:rol;size:30;not null;index" json:"role"`
	Active       bool       `gorm:"column:activo;not null;index" json:"active"`
	CreatedAt    time.Time  `gorm:"column:fecha_creacion;not null;autoCreateTime" json:"created_at"`
	LastLogin    *time.Time `gorm:"column:ultimo_login" json:"last_login,omitempty"`
}

func (User) TableName() string {
	return "usuarios"
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// placeholderHash is hashed once, on the first login for an unknown user, at
// the cost SetPassword uses.
var placeholderHash = sync.OnceValue(func() []byte {
	hash, _ := bcrypt.GenerateFromPassword([]byte("sin-usuario"), bcrypt.DefaultCost)
	return hash
})

// CheckPasswordWithoutUser spends the same bcrypt work as CheckPassword and
// always fails. Call it when no user matches a login so that unknown and
// known usernames take equally long to reject.
func CheckPasswordWithoutUser(password string) bool {
	_ = bcrypt.CompareHashAndPassword(placeholderHash(), []byte(password))
	return false
}
