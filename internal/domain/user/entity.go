package user

import "time"

// User: пользователь. Логин по email, username отображается в интерфейсе.
type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"size:254;not null;uniqueIndex"`
	Username     string    `json:"username" gorm:"size:150;not null;uniqueIndex"`
	FirstName    string    `json:"first_name" gorm:"size:150;not null"`
	LastName     string    `json:"last_name" gorm:"size:150;not null"`
	PasswordHash string    `json:"-" gorm:"size:150;not null"`
	IsStaff      bool      `json:"is_staff" gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Subscribe: подписка пользователя на автора. Подписка на себя запрещена на уровне БД.
type Subscribe struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"not null;index;uniqueIndex:idx_subscribe_user_author"`
	AuthorID  int64     `json:"author_id" gorm:"not null;index;uniqueIndex:idx_subscribe_user_author;check:chk_subscribe_not_self,user_id <> author_id"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	User   *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Author *User `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}

func (Subscribe) TableName() string {
	return "subscribes"
}

// Models lists the tables owned by this package, in migration order.
func Models() []any {
	return []any{&User{}, &Subscribe{}}
}
