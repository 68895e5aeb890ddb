package model

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User 交易参与者（身份校验由外层中间件完成，核心只认 UserID）
type User struct {
	UserID    string `gorm:"primaryKey;column:user_id" json:"user_id"`
	Name      string `gorm:"column:name;uniqueIndex;not null" json:"name"`
	Role      string `gorm:"column:role;not null;default:USER" json:"role"`
	APIKey    string `gorm:"column:api_key;uniqueIndex;not null" json:"api_key"`
	IsActive  bool   `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt int64  `gorm:"column:created_at" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
