package model

import "time"

// Session is the server-side auth record. Token is the opaque key carried in
// the signed bearer token; the row is the source of truth so logout and
// expiry revoke access immediately.
type Session struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Token       string    `gorm:"size:64;not null;uniqueIndex" json:"-"`
	ClientID    uint      `gorm:"not null;index" json:"client_id"`
	Email       string    `gorm:"size:128;not null" json:"email"`
	Name        string    `gorm:"size:128;not null" json:"name"`
	Role        string    `gorm:"size:32;not null" json:"role"`
	ClientGroup string    `gorm:"size:64" json:"client_group"`
	ExpiresAt   time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Session) TableName() string { return "sessions" }

func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
