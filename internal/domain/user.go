package domain

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID           uint64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Username     string     `json:"username" gorm:"size:50;not null;uniqueIndex"`
	Email        string     `json:"email" gorm:"size:100;not null;uniqueIndex"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"`
	CreatedAt    time.Time  `json:"createdAt" gorm:"autoCreateTime"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
	IsActive     bool       `json:"isActive" gorm:"default:true"`

	Orders []Order `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
}

// Password wraps a bcrypt hash together with the plaintext it was derived
// from, so handlers never touch raw hashes directly.
type Password struct {
	Plaintext *string
	Hash      string
}

func (p *Password) Set(plaintext string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.Hash = string(hash)
	p.Plaintext = &plaintext
	return nil
}

func (p *Password) Matches(plaintext string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(p.Hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
