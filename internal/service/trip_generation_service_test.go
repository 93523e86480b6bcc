package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"transit-union/config"
	"transit-union/internal/dto"
	"transit-union/internal/model"
	"transit-union/internal/repository"
)

// ── 测试辅助 ──

const testOrgID = "org-001"

func testTripConfig() *config.Config {
	return &config.Config{
		Trip: config.TripConfig{
			DefaultDurationMinutes: 120,
			MaxGenerationDays:      366,
		},
	}
}

func setupGenerationService() (TripGenerationService, *repository.Repository, *mockTripRepo) {
	repo, tripRepo := newTestRepository()
	svc := NewTripGenerationService(testTripConfig(), repo, zap.NewNop())
	return svc, repo, tripRepo
}

// seedRouteAndSchedule 种入一条线路与一条每日班次，返回班次 ID
func seedRouteAndSchedule(repo *repository.Repository, recurrence string) string {
	route := &model.Route{
		RouteID:        "route-001",
		OrganizationID: testOrgID,
		Code:           "G101",
		Name:           "市区快线",
		Origin:         "北站",
		Destination:    "南站",
		BaseFare:       25.0,
		IsActive:       true,
	}
	_ = repo.Route.Create(context.Background(), route)

	schedule := &model.RouteSchedule{
		ScheduleID:     "sch-001",
		OrganizationID: testOrgID,
		RouteID:        "route-001",
		RecurrenceType: recurrence,
		DepartureTime:  "08:30",
		ValidFrom:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		IsActive:       true,
		Route:          route,
	}
	_ = repo.Schedule.Create(context.Background(), schedule)
	return schedule.ScheduleID
}

func genReq(scheduleID, start, end string) *dto.GenerateTripsRequest {
	return &dto.GenerateTripsRequest{ScheduleID: scheduleID, StartDate: start, EndDate: end}
}

// ── GenerateTrips 测试 ──

func TestGenerateTrips_Daily_CreatesAll(t *testing.T) {
	svc, repo, tripRepo := setupGenerationService()
	schID := seedRouteAndSchedule(repo, model.RecurrenceDaily)

	result, err := svc.GenerateTrips(context.Background(), testOrgID, genReq(schID, "2024-06-01", "2024-06-05"), "admin-001")
	if err != nil {
		t.Fatalf("GenerateTrips 应成功: %v", err)
	}

	if result.Created != 5 {
		t.Errorf("期望Created=5，实际=%d", result.Created)
	}
	if result.Skipped != 0 || len(result.Errors) != 0 {
		t.Errorf("期望无跳过无错误，实际 skipped=%d errors=%v", result.Skipped, result.Errors)
	}
	if len(tripRepo.trips) != 5 {
		t.Errorf("期望落库5条行程，实际=%d", len(tripRepo.trips))
	}
}

func TestGenerateTrips_SecondRunIsIdempotent(t *testing.T) {
	svc, repo, _ := setupGenerationService()
	schID := seedRouteAndSchedule(repo, model.RecurrenceDaily)
	req := genReq(schID, "2024-06-01", "2024-06-05")

	first, err := svc.GenerateTrips(context.Background(), testOrgID, req, "admin-001")
	if err != nil {
		t.Fatalf("首轮生成应成功: %v", err)
	}
	second, err := svc.GenerateTrips(context.Background(), testOrgID, req, "admin-001")
	if err != nil {
		t.Fatalf("二轮生成应成功: %v", err)
	}

	if first.Created != 5 {
		t.Errorf("首轮期望Created=5，实际=%d", first.Created)
	}
	if second.Created != 0 || second.Skipped != 5 {
		t.Errorf("二轮期望Created=0/Skipped=5，实际 created=%d skipped=%d", second.Created, second.Skipped)
	}
}

func TestGenerateTrips_PartialFailureContinues(t *testing.T) {
	svc, repo, tripRepo := setupGenerationService()
	schID := seedRouteAndSchedule(repo, model.RecurrenceDaily)
	tripRepo.failDates["2024-06-03"] = true

	result, err := svc.GenerateTrips(context.Background(), testOrgID, genReq(schID, "2024-06-01", "2024-06-05"), "admin-001")
	if err != nil {
		t.Fatalf("批次不应因单日失败而整体报错: %v", err)
	}

	if result.Created != 4 {
		t.Errorf("期望Created=4，实际=%d", result.Created)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("期望1条错误，实际=%v", result.Errors)
	}
	if !strings.HasPrefix(result.Errors[0], "2024-06-03: ") {
		t.Errorf("错误应带日期前缀，实际=%s", result.Errors[0])
	}
	// 已创建的行程不回滚
	if len(tripRepo.trips) != 4 {
		t.Errorf("失败日期不应影响已落库行程，实际=%d", len(tripRepo.trips))
	}
}

func TestGenerateTrips_PanicIsIsolated(t *testing.T) {
	svc, repo, _ := setupGenerationService()
	schID := seedRouteAndSchedule(repo, model.RecurrenceDaily)
	repoTrip := repo.Trip.(*mockTripRepo)
	repoTrip.panicDates["2024-06-02"] = true

	result, err := svc.GenerateTrips(context.Background(), testOrgID, genReq(schID, "2024-06-01", "2024-06-03"), "admin-001")
	if err != nil {
		t.Fatalf("单日 panic 不应中断批次: %v", err)
	}

	if result.Created != 2 {
		t.Errorf("期望Created=2，实际=%d", result.Created)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("期望1条错误，实际=%v", result.Errors)
	}
	// panic 对外表现为通用错误文案，不泄露内部细节
	if result.Errors[0] != "2024-06-02: 意外错误" {
		t.Errorf("期望通用错误文案，实际=%s", result.Errors[0])
	}
}

func TestGenerateTrips_TripFieldsFromScheduleAndRoute(t *testing.T) {
	svc, repo, tripRepo := setupGenerationService()
	schID := seedRouteAndSchedule(repo, model.RecurrenceDaily)

	// 班次覆盖票价与座位
	sch, _ := repo.Schedule.GetByID(context.Background(), testOrgID, schID)
	seats := 45
	fare := 19.5
	arrival := "10:10"
	sch.AvailableSeats = &seats
	sch.FareOverride = &fare
	sch.ArrivalTime = &arrival

	result, err := svc.GenerateTrips(context.Background(), testOrgID, genReq(schID, "2024-06-01", "2024-06-01"), "admin-001")
	if err != nil || result.Created != 1 {
		t.Fatalf("生成失败: %v result=%+v", err, result)
	}

	var trip *model.Trip
	for _, tr := range tripRepo.trips {
		trip = tr
	}
	if trip.TripCode != "ROUTE-00-20240601-0830" {
		t.Errorf("行程编号派生错误: %s", trip.TripCode)
	}
	if trip.BaseFare != 19.5 {
		t.Errorf("期望票价取班次覆盖值19.5，实际=%v", trip.BaseFare)
	}
	if trip.TotalSeats != 45 || trip.AvailableSeats != 45 {
		t.Errorf("期望座位=45，实际 total=%d avail=%d", trip.TotalSeats, trip.AvailableSeats)
	}
	if trip.ScheduledArrival == nil || *trip.ScheduledArrival != "10:10" {
		t.Errorf("期望到达时刻取班次显式值10:10，实际=%v", trip.ScheduledArrival)
	}
	if trip.Status != model.TripStatusScheduled {
		t.Errorf("新行程应为 scheduled，实际=%s", trip.Status)
	}
	if trip.ScheduleID == nil || *trip.ScheduleID != schID {
		t.Errorf("行程应回链班次，实际=%v", trip.ScheduleID)
	}
}

func TestGenerateTrips_SeatsFromDefaultVehicle(t *testing.T) {
	svc, repo, tripRepo := setupGenerationService()
	schID := seedRouteAndSchedule(repo, model.RecurrenceDaily)

	vehicle := &model.Vehicle{
		VehicleID:      "veh-001",
		OrganizationID: testOrgID,
		PlateNumber:    "京A12345",
		Capacity:       52,
		Status:         model.VehicleStatusActive,
	}
	_ = repo.Vehicle.Create(context.Background(), vehicle)

	sch, _ := repo.Schedule.GetByID(context.Background(), testOrgID, schID)
	vid := "veh-001"
	sch.DefaultVehicleID = &vid

	result, err := svc.GenerateTrips(context.Background(), testOrgID, genReq(schID, "2024-06-01", "2024-06-01"), "admin-001")
	if err != nil || result.Created != 1 {
		t.Fatalf("生成失败: %v", err)
	}

	for _, tr := range tripRepo.trips {
		if tr.TotalSeats != 52 {
			t.Errorf("期望座位取默认车辆容量52，实际=%d", tr.TotalSeats)
		}
		if tr.VehicleID == nil || *tr.VehicleID != "veh-001" {
			t.Errorf("期望行程携带默认车辆，实际=%v", tr.VehicleID)
		}
	}
}

func TestGenerateTrips_ArrivalFromRouteDuration(t *testing.T) {
	svc, repo, tripRepo := setupGenerationService()
	schID := seedRouteAndSchedule(repo, model.RecurrenceDaily)

	route, _ := repo.Route.GetByID(context.Background(), testOrgID, "route-001")
	dur := 95
	route.EstimatedDurationMinutes = &dur

	result, err := svc.GenerateTrips(context.Background(), testOrgID, genReq(schID, "2024-06-01", "2024-06-01"), "admin-001")
	if err != nil || result.Created != 1 {
		t.Fatalf("生成失败: %v", err)
	}

	for _, tr := range tripRepo.trips {
		// 08:30 + 95min = 10:05
		if tr.ScheduledArrival == nil || *tr.ScheduledArrival != "10:05" {
			t.Errorf("期望到达=10:05，实际=%v", tr.ScheduledArrival)
		}
	}
}

func TestGenerateTrips_ArrivalStaysEmptyWithoutDuration(t *testing.T) {
	svc, repo, tripRepo := setupGenerationService()
	schID := seedRouteAndSchedule(repo, model.RecurrenceDaily)

	// 班次无显式到达时刻，线路也无预计时长：到达时刻保持为空，不得用默认时长推算
	result, err := svc.GenerateTrips(context.Background(), testOrgID, genReq(schID, "2024-06-01", "2024-06-01"), "admin-001")
	if err != nil || result.Created != 1 {
		t.Fatalf("生成失败: %v", err)
	}

	for _, tr := range tripRepo.trips {
		if tr.ScheduledArrival != nil {
			t.Errorf("期望到达时刻为空，实际=%q", *tr.ScheduledArrival)
		}
	}
}

func TestGenerateTrips_ScheduleNotFound(t *testing.T) {
	svc, _, _ := setupGenerationService()

	_, err := svc.GenerateTrips(context.Background(), testOrgID, genReq("nonexistent", "2024-06-01", "2024-06-05"), "admin-001")
	if !errors.Is(err, ErrScheduleNotFound) {
		t.Errorf("期望 ErrScheduleNotFound，实际: %v", err)
	}
}

func TestGenerateTrips_TenantIsolation(t *testing.T) {
	svc, repo, _ := setupGenerationService()
	schID := seedRouteAndSchedule(repo, model.RecurrenceDaily)

	_, err := svc.GenerateTrips(context.Background(), "org-other", genReq(schID, "2024-06-01", "2024-06-05"), "admin-001")
	if !errors.Is(err, ErrScheduleNotFound) {
		t.Errorf("跨组织访问班次应视为不存在，实际: %v", err)
	}
}

func TestGenerateTrips_InactiveSchedule(t *testing.T) {
	svc, repo, _ := setupGenerationService()
	schID := seedRouteAndSchedule(repo, model.RecurrenceDaily)

	sch, _ := repo.Schedule.GetByID(context.Background(), testOrgID, schID)
	sch.IsActive = false

	_, err := svc.GenerateTrips(context.Background(), testOrgID, genReq(schID, "2024-06-01", "2024-06-05"), "admin-001")
	if !errors.Is(err, ErrScheduleInactive) {
		t.Errorf("期望 ErrScheduleInactive，实际: %v", err)
	}
}

func TestGenerateTrips_InvertedWindow(t *testing.T) {
	svc, repo, _ := setupGenerationService()
	schID := seedRouteAndSchedule(repo, model.RecurrenceDaily)

	_, err := svc.GenerateTrips(context.Background(), testOrgID, genReq(schID, "2024-06-10", "2024-06-01"), "admin-001")
	if !errors.Is(err, ErrGenerationWindowInverted) {
		t.Errorf("期望 ErrGenerationWindowInverted，实际: %v", err)
	}
}

func TestGenerateTrips_WindowTooWide(t *testing.T) {
	svc, repo, _ := setupGenerationService()
	schID := seedRouteAndSchedule(repo, model.RecurrenceDaily)

	_, err := svc.GenerateTrips(context.Background(), testOrgID, genReq(schID, "2024-01-01", "2025-06-01"), "admin-001")
	if !errors.Is(err, ErrGenerationWindowTooWide) {
		t.Errorf("期望 ErrGenerationWindowTooWide，实际: %v", err)
	}
}

// ── PreviewDates 测试 ──

func TestPreviewDates_DoesNotPersist(t *testing.T) {
	svc, repo, tripRepo := setupGenerationService()
	schID := seedRouteAndSchedule(repo, model.RecurrenceDaily)

	dates, err := svc.PreviewDates(context.Background(), testOrgID, genReq(schID, "2024-06-01", "2024-06-05"))
	if err != nil {
		t.Fatalf("PreviewDates 应成功: %v", err)
	}
	if len(dates) != 5 {
		t.Errorf("期望5个日期，实际=%v", dates)
	}
	if len(tripRepo.trips) != 0 {
		t.Errorf("预览不应落库，实际=%d", len(tripRepo.trips))
	}
}
