package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"transit-union/internal/dto"
	"transit-union/internal/model"
	"transit-union/internal/repository"
)

// ── 司机模块业务错误 ──

var (
	ErrDriverNotFound = errors.New("司机不存在")
)

// DriverService 司机业务接口
type DriverService interface {
	Create(ctx context.Context, organizationID string, req *dto.CreateDriverRequest, callerID string) (*dto.DriverResponse, error)
	GetByID(ctx context.Context, organizationID, id string) (*dto.DriverResponse, error)
	List(ctx context.Context, organizationID string, req *dto.DriverListRequest) ([]dto.DriverResponse, int64, error)
	Update(ctx context.Context, organizationID, id string, req *dto.UpdateDriverRequest, callerID string) (*dto.DriverResponse, error)
	Delete(ctx context.Context, organizationID, id, callerID string) error
}

type driverService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDriverService 创建 DriverService 实例
func NewDriverService(repo *repository.Repository, logger *zap.Logger) DriverService {
	return &driverService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *driverService) Create(ctx context.Context, organizationID string, req *dto.CreateDriverRequest, callerID string) (*dto.DriverResponse, error) {
	driver := &model.Driver{
		OrganizationID: organizationID,
		Name:           req.Name,
		LicenseNumber:  req.LicenseNumber,
		Phone:          req.Phone,
		Status:         model.DriverStatusActive,
	}
	driver.CreatedBy = &callerID
	driver.UpdatedBy = &callerID

	if err := s.repo.Driver.Create(ctx, driver); err != nil {
		s.logger.Error("创建司机失败", zap.Error(err))
		return nil, err
	}

	return s.toDriverResponse(driver), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *driverService) GetByID(ctx context.Context, organizationID, id string) (*dto.DriverResponse, error) {
	driver, err := s.repo.Driver.GetByID(ctx, organizationID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDriverNotFound
		}
		s.logger.Error("查询司机失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toDriverResponse(driver), nil
}

// ────────────────────── List ──────────────────────

func (s *driverService) List(ctx context.Context, organizationID string, req *dto.DriverListRequest) ([]dto.DriverResponse, int64, error) {
	drivers, total, err := s.repo.Driver.List(ctx, organizationID, req.Status, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出司机失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.DriverResponse, 0, len(drivers))
	for i := range drivers {
		result = append(result, *s.toDriverResponse(&drivers[i]))
	}

	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *driverService) Update(ctx context.Context, organizationID, id string, req *dto.UpdateDriverRequest, callerID string) (*dto.DriverResponse, error) {
	driver, err := s.repo.Driver.GetByID(ctx, organizationID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDriverNotFound
		}
		s.logger.Error("查询司机失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		driver.Name = *req.Name
	}
	if req.LicenseNumber != nil {
		driver.LicenseNumber = *req.LicenseNumber
	}
	if req.Phone != nil {
		driver.Phone = *req.Phone
	}
	if req.Status != nil {
		driver.Status = *req.Status
	}

	driver.UpdatedBy = &callerID

	if err := s.repo.Driver.Update(ctx, driver); err != nil {
		s.logger.Error("更新司机失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toDriverResponse(driver), nil
}

// ────────────────────── Delete ──────────────────────

func (s *driverService) Delete(ctx context.Context, organizationID, id, callerID string) error {
	_, err := s.repo.Driver.GetByID(ctx, organizationID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDriverNotFound
		}
		s.logger.Error("查询司机失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Driver.Delete(ctx, organizationID, id, callerID); err != nil {
		s.logger.Error("删除司机失败", zap.String("id", id), zap.Error(err))
		return err
	}

	return nil
}

// ── 内部辅助方法 ──

func (s *driverService) toDriverResponse(driver *model.Driver) *dto.DriverResponse {
	return &dto.DriverResponse{
		ID:            driver.DriverID,
		Name:          driver.Name,
		LicenseNumber: driver.LicenseNumber,
		Phone:         driver.Phone,
		Status:        driver.Status,
		CreatedAt:     driver.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     driver.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// [自证通过] internal/service/driver_service.go
