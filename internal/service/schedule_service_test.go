package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"transit-union/internal/dto"
	"transit-union/internal/model"
	"transit-union/internal/repository"
)

// ── 测试辅助 ──

func setupScheduleService() (ScheduleService, *repository.Repository, *mockTripRepo) {
	repo, tripRepo := newTestRepository()
	svc := NewScheduleService(testTripConfig(), repo, zap.NewNop())
	return svc, repo, tripRepo
}

func seedRoute(repo *repository.Repository) {
	_ = repo.Route.Create(context.Background(), &model.Route{
		RouteID:        "route-001",
		OrganizationID: testOrgID,
		Code:           "G101",
		Name:           "市区快线",
		Origin:         "北站",
		Destination:    "南站",
		IsActive:       true,
	})
}

func seedTrip(tripRepo *mockTripRepo, id, date, departure, arrival string, vehicleID, driverID *string) {
	d, _ := time.Parse(dateLayout, date)
	var arr *string
	if arrival != "" {
		arr = &arrival
	}
	tripRepo.trips[id] = &model.Trip{
		TripID:             id,
		OrganizationID:     testOrgID,
		RouteID:            "route-001",
		TripCode:           "ROUTE-00-" + date + "-" + departure,
		TripDate:           d,
		ScheduledDeparture: departure,
		ScheduledArrival:   arr,
		VehicleID:          vehicleID,
		DriverID:           driverID,
		Status:             model.TripStatusScheduled,
	}
}

// ── Create 测试 ──

func TestScheduleService_Create_Daily(t *testing.T) {
	svc, repo, _ := setupScheduleService()
	seedRoute(repo)

	req := &dto.CreateScheduleRequest{
		RouteID:        "route-001",
		RecurrenceType: model.RecurrenceDaily,
		DepartureTime:  "08:30",
		ValidFrom:      "2024-06-01",
	}

	result, err := svc.Create(context.Background(), testOrgID, req, "admin-001")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if result.RecurrenceType != model.RecurrenceDaily {
		t.Errorf("期望recurrence=daily，实际=%s", result.RecurrenceType)
	}
	if !result.IsActive {
		t.Error("新班次应为启用状态")
	}
}

func TestScheduleService_Create_WeeklyWithoutDays(t *testing.T) {
	svc, repo, _ := setupScheduleService()
	seedRoute(repo)

	req := &dto.CreateScheduleRequest{
		RouteID:        "route-001",
		RecurrenceType: model.RecurrenceWeekly,
		DepartureTime:  "08:30",
		ValidFrom:      "2024-06-01",
	}

	_, err := svc.Create(context.Background(), testOrgID, req, "admin-001")
	if !errors.Is(err, ErrScheduleWeeklyDaysEmpty) {
		t.Errorf("期望 ErrScheduleWeeklyDaysEmpty，实际: %v", err)
	}
}

func TestScheduleService_Create_SpecificDatesWithoutDates(t *testing.T) {
	svc, repo, _ := setupScheduleService()
	seedRoute(repo)

	req := &dto.CreateScheduleRequest{
		RouteID:        "route-001",
		RecurrenceType: model.RecurrenceSpecificDates,
		DepartureTime:  "08:30",
		ValidFrom:      "2024-06-01",
	}

	_, err := svc.Create(context.Background(), testOrgID, req, "admin-001")
	if !errors.Is(err, ErrScheduleDatesEmpty) {
		t.Errorf("期望 ErrScheduleDatesEmpty，实际: %v", err)
	}
}

func TestScheduleService_Create_InvertedValidity(t *testing.T) {
	svc, repo, _ := setupScheduleService()
	seedRoute(repo)

	until := "2024-05-01"
	req := &dto.CreateScheduleRequest{
		RouteID:        "route-001",
		RecurrenceType: model.RecurrenceDaily,
		DepartureTime:  "08:30",
		ValidFrom:      "2024-06-01",
		ValidUntil:     &until,
	}

	_, err := svc.Create(context.Background(), testOrgID, req, "admin-001")
	if !errors.Is(err, ErrScheduleValidityInverted) {
		t.Errorf("期望 ErrScheduleValidityInverted，实际: %v", err)
	}
}

func TestScheduleService_Create_RouteNotFound(t *testing.T) {
	svc, _, _ := setupScheduleService()

	req := &dto.CreateScheduleRequest{
		RouteID:        "nonexistent",
		RecurrenceType: model.RecurrenceDaily,
		DepartureTime:  "08:30",
		ValidFrom:      "2024-06-01",
	}

	_, err := svc.Create(context.Background(), testOrgID, req, "admin-001")
	if !errors.Is(err, ErrScheduleRouteNotFound) {
		t.Errorf("期望 ErrScheduleRouteNotFound，实际: %v", err)
	}
}

// ── Update 测试 ──

func TestScheduleService_Update_SwitchToWeekly(t *testing.T) {
	svc, repo, _ := setupScheduleService()
	seedRoute(repo)

	created, err := svc.Create(context.Background(), testOrgID, &dto.CreateScheduleRequest{
		RouteID:        "route-001",
		RecurrenceType: model.RecurrenceDaily,
		DepartureTime:  "08:30",
		ValidFrom:      "2024-06-01",
	}, "admin-001")
	if err != nil {
		t.Fatalf("前置创建失败: %v", err)
	}

	weekly := model.RecurrenceWeekly
	result, err := svc.Update(context.Background(), testOrgID, created.ID, &dto.UpdateScheduleRequest{
		RecurrenceType: &weekly,
		DaysOfWeek:     []int{1, 3, 5},
	}, "admin-001")
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if result.RecurrenceType != model.RecurrenceWeekly || len(result.DaysOfWeek) != 3 {
		t.Errorf("期望weekly+3天，实际=%s %v", result.RecurrenceType, result.DaysOfWeek)
	}
}

func TestScheduleService_Update_SwitchToWeeklyWithoutDays(t *testing.T) {
	svc, repo, _ := setupScheduleService()
	seedRoute(repo)

	created, _ := svc.Create(context.Background(), testOrgID, &dto.CreateScheduleRequest{
		RouteID:        "route-001",
		RecurrenceType: model.RecurrenceDaily,
		DepartureTime:  "08:30",
		ValidFrom:      "2024-06-01",
	}, "admin-001")

	weekly := model.RecurrenceWeekly
	_, err := svc.Update(context.Background(), testOrgID, created.ID, &dto.UpdateScheduleRequest{
		RecurrenceType: &weekly,
	}, "admin-001")
	if !errors.Is(err, ErrScheduleWeeklyDaysEmpty) {
		t.Errorf("切换为 weekly 缺星期列表应被拦截，实际: %v", err)
	}
}

// ── CheckAvailability 测试 ──

func TestCheckAvailability_VehicleConflict(t *testing.T) {
	svc, repo, tripRepo := setupScheduleService()
	seedRoute(repo)

	vid := "veh-001"
	// 已有行程占用 [09:00, 11:00)
	seedTrip(tripRepo, "trip-001", "2024-06-03", "09:00", "11:00", &vid, nil)

	resp, err := svc.CheckAvailability(context.Background(), testOrgID, &dto.CheckAvailabilityRequest{
		VehicleID:     &vid,
		Date:          "2024-06-03",
		DepartureTime: "10:00",
	})
	if err != nil {
		t.Fatalf("CheckAvailability 应成功: %v", err)
	}
	if resp.VehicleAvailable {
		t.Error("[10:00,12:00) 与 [09:00,11:00) 重叠，车辆应不可用")
	}
	if len(resp.Conflicts) != 1 {
		t.Errorf("期望1条冲突明细，实际=%v", resp.Conflicts)
	}
}

func TestCheckAvailability_AdjacentIntervalsNoConflict(t *testing.T) {
	svc, repo, tripRepo := setupScheduleService()
	seedRoute(repo)

	vid := "veh-001"
	seedTrip(tripRepo, "trip-001", "2024-06-03", "09:00", "10:00", &vid, nil)

	resp, err := svc.CheckAvailability(context.Background(), testOrgID, &dto.CheckAvailabilityRequest{
		VehicleID:     &vid,
		Date:          "2024-06-03",
		DepartureTime: "10:00",
	})
	if err != nil {
		t.Fatalf("CheckAvailability 应成功: %v", err)
	}
	if !resp.VehicleAvailable {
		t.Error("半开区间首尾相接不算冲突，车辆应可用")
	}
}

func TestCheckAvailability_IndependentVehicleAndDriver(t *testing.T) {
	svc, repo, tripRepo := setupScheduleService()
	seedRoute(repo)

	vid := "veh-001"
	did := "drv-001"
	// 仅司机被占用
	seedTrip(tripRepo, "trip-001", "2024-06-03", "09:30", "11:30", nil, &did)

	resp, err := svc.CheckAvailability(context.Background(), testOrgID, &dto.CheckAvailabilityRequest{
		VehicleID:     &vid,
		DriverID:      &did,
		Date:          "2024-06-03",
		DepartureTime: "10:00",
	})
	if err != nil {
		t.Fatalf("CheckAvailability 应成功: %v", err)
	}
	if !resp.VehicleAvailable {
		t.Error("车辆未被占用，应可用")
	}
	if resp.DriverAvailable {
		t.Error("司机被占用，应不可用")
	}
}

func TestCheckAvailability_DefaultDurationApplied(t *testing.T) {
	svc, repo, tripRepo := setupScheduleService()
	seedRoute(repo)

	vid := "veh-001"
	// 已有行程无到达时刻：按默认120分钟推算为 [08:00, 10:00)
	seedTrip(tripRepo, "trip-001", "2024-06-03", "08:00", "", &vid, nil)

	resp, err := svc.CheckAvailability(context.Background(), testOrgID, &dto.CheckAvailabilityRequest{
		VehicleID:     &vid,
		Date:          "2024-06-03",
		DepartureTime: "09:30",
	})
	if err != nil {
		t.Fatalf("CheckAvailability 应成功: %v", err)
	}
	if resp.VehicleAvailable {
		t.Error("默认时长推算后 [08:00,10:00) 与 [09:30,11:30) 重叠，应不可用")
	}
}

func TestCheckAvailability_CancelledTripIgnored(t *testing.T) {
	svc, repo, tripRepo := setupScheduleService()
	seedRoute(repo)

	vid := "veh-001"
	seedTrip(tripRepo, "trip-001", "2024-06-03", "09:00", "11:00", &vid, nil)
	tripRepo.trips["trip-001"].Status = model.TripStatusCancelled

	resp, err := svc.CheckAvailability(context.Background(), testOrgID, &dto.CheckAvailabilityRequest{
		VehicleID:     &vid,
		Date:          "2024-06-03",
		DepartureTime: "10:00",
	})
	if err != nil {
		t.Fatalf("CheckAvailability 应成功: %v", err)
	}
	if !resp.VehicleAvailable {
		t.Error("已取消行程不应参与冲突判定")
	}
}

func TestCheckAvailability_ExcludeOwnSchedule(t *testing.T) {
	svc, repo, tripRepo := setupScheduleService()
	seedRoute(repo)

	vid := "veh-001"
	seedTrip(tripRepo, "trip-001", "2024-06-03", "09:00", "11:00", &vid, nil)
	schID := "sch-001"
	tripRepo.trips["trip-001"].ScheduleID = &schID

	resp, err := svc.CheckAvailability(context.Background(), testOrgID, &dto.CheckAvailabilityRequest{
		VehicleID:         &vid,
		Date:              "2024-06-03",
		DepartureTime:     "10:00",
		ExcludeScheduleID: &schID,
	})
	if err != nil {
		t.Fatalf("CheckAvailability 应成功: %v", err)
	}
	if !resp.VehicleAvailable {
		t.Error("编辑班次时应排除自身已生成的行程")
	}
}
