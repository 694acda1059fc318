package auth

import "time"

// RevokedToken: jti токена, отозванного через logout.
// Строка живёт до истечения самого токена, после чего её удаляет token_cleanup.
type RevokedToken struct {
	JTI       string    `json:"jti" gorm:"primaryKey;size:36"`
	UserID    int64     `json:"user_id" gorm:"index;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (RevokedToken) TableName() string {
	return "revoked_tokens"
}

func (t *RevokedToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

func Models() []any {
	return []any{&RevokedToken{}}
}
