package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// VPNUser is a remote-access account record. The panel manages the records
// only; tunnel authentication happens on the gateway.
type VPNUser struct {
	ID            string     `json:"id" gorm:"primaryKey;size:36"`
	Username      string     `json:"username" gorm:"uniqueIndex;size:50;not null"`
	FullName      string     `json:"full_name" gorm:"size:100"`
	Email         string     `json:"email" gorm:"size:100"`
	PasswordHash  string     `json:"-" gorm:"size:255"`
	Enabled       bool       `json:"enabled" gorm:"default:true"`
	Connected     bool       `json:"connected" gorm:"default:false"`
	LastLoginAt   *time.Time `json:"last_login_at"`
	BytesSent     int64      `json:"bytes_sent"`
	BytesReceived int64      `json:"bytes_received"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (u *VPNUser) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

func (u *VPNUser) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}
