package dto

// ── 线路模块 DTO ──

// CreateRouteRequest 创建线路请求
type CreateRouteRequest struct {
	Code                     string  `json:"code"        binding:"required,min=1,max=20"`
	Name                     string  `json:"name"        binding:"required,min=2,max=200"`
	Origin                   string  `json:"origin"      binding:"required,max=200"`
	Destination              string  `json:"destination" binding:"required,max=200"`
	EstimatedDurationMinutes *int    `json:"estimated_duration_minutes" binding:"omitempty,min=1"`
	BaseFare                 float64 `json:"base_fare"   binding:"omitempty,min=0"`
}

// UpdateRouteRequest 更新线路请求
type UpdateRouteRequest struct {
	Name                     *string  `json:"name"        binding:"omitempty,min=2,max=200"`
	Origin                   *string  `json:"origin"      binding:"omitempty,max=200"`
	Destination              *string  `json:"destination" binding:"omitempty,max=200"`
	EstimatedDurationMinutes *int     `json:"estimated_duration_minutes" binding:"omitempty,min=1"`
	BaseFare                 *float64 `json:"base_fare"   binding:"omitempty,min=0"`
	IsActive                 *bool    `json:"is_active"`
}

// RouteListRequest 线路列表查询参数
type RouteListRequest struct {
	Keyword string `form:"keyword"`
	Active  *bool  `form:"active"`
	PaginationRequest
}

// RouteResponse 线路信息响应
type RouteResponse struct {
	ID                       string  `json:"id"`
	Code                     string  `json:"code"`
	Name                     string  `json:"name"`
	Origin                   string  `json:"origin"`
	Destination              string  `json:"destination"`
	EstimatedDurationMinutes *int    `json:"estimated_duration_minutes,omitempty"`
	BaseFare                 float64 `json:"base_fare"`
	IsActive                 bool    `json:"is_active"`
	CreatedAt                string  `json:"created_at"`
	UpdatedAt                string  `json:"updated_at"`
}

// RouteBrief 线路简要信息
type RouteBrief struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

// [自证通过] internal/dto/route.go
