package tests

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"fleet/internal/domain"
	"fleet/internal/redis"
	"fleet/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK VEHICLE REPOSITORY
// ──────────────────────────────────────────────

// MockVehicleRepository is a mock implementation of VehicleRepository.
type MockVehicleRepository struct {
	mu       sync.RWMutex
	vehicles map[string]*domain.Vehicle

	// Counters for verification
	CreateCallCount      int32
	UpdateStateCallCount int32
	FindCallCount        int32

	// Error injection
	CreateError error
	FindError   error
}

// NewMockVehicleRepository creates a new mock vehicle repository.
func NewMockVehicleRepository() *MockVehicleRepository {
	return &MockVehicleRepository{
		vehicles: make(map[string]*domain.Vehicle),
	}
}

// AddVehicle adds a vehicle to the mock repository.
func (m *MockVehicleRepository) AddVehicle(vehicle *domain.Vehicle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vehicles[vehicle.Plate] = vehicle
}

func (m *MockVehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vehicles[vehicle.Plate] = vehicle
	return nil
}

func (m *MockVehicleRepository) GetByPlate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	vehicle, ok := m.vehicles[plate]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *vehicle
	return &copy, nil
}

func (m *MockVehicleRepository) GetActive(ctx context.Context) ([]*domain.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Vehicle, 0, len(m.vehicles))
	for _, v := range m.vehicles {
		if !v.Active {
			continue
		}
		copy := *v
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockVehicleRepository) Update(ctx context.Context, vehicle *domain.Vehicle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.vehicles[vehicle.Plate]; !ok {
		return repository.ErrNotFound
	}
	m.vehicles[vehicle.Plate] = vehicle
	return nil
}

func (m *MockVehicleRepository) Decommission(ctx context.Context, plate string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	vehicle, ok := m.vehicles[plate]
	if !ok {
		return repository.ErrNotFound
	}
	vehicle.Active = false
	vehicle.State = domain.VehicleStateDecommissioned
	return nil
}

func (m *MockVehicleRepository) UpdateState(ctx context.Context, plate string, state domain.VehicleState) error {
	atomic.AddInt32(&m.UpdateStateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	vehicle, ok := m.vehicles[plate]
	if !ok {
		return repository.ErrNotFound
	}
	vehicle.State = state
	return nil
}

func (m *MockVehicleRepository) FindAvailableForCargo(ctx context.Context, cargo *domain.Cargo) (*domain.Vehicle, error) {
	atomic.AddInt32(&m.FindCallCount, 1)
	if m.FindError != nil {
		return nil, m.FindError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	plates := make([]string, 0, len(m.vehicles))
	for plate := range m.vehicles {
		plates = append(plates, plate)
	}
	sort.Strings(plates)
	for _, plate := range plates {
		v := m.vehicles[plate]
		if !v.Active || v.State != domain.VehicleStateAvailable {
			continue
		}
		if v.CargoType != cargo.Type {
			continue
		}
		if v.RemainingWeightKg < cargo.WeightKg || v.RemainingVolumeM3 < cargo.VolumeM3 {
			continue
		}
		copy := *v
		return &copy, nil
	}
	return nil, repository.ErrNotFound
}

// GetVehicle returns a vehicle for test assertions.
func (m *MockVehicleRepository) GetVehicle(plate string) *domain.Vehicle {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.vehicles[plate]
}

// ──────────────────────────────────────────────
// MOCK CARGO REPOSITORY
// ──────────────────────────────────────────────

// MockCargoRepository is a mock implementation of CargoRepository.
type MockCargoRepository struct {
	mu        sync.RWMutex
	cargo     map[string]*domain.Cargo
	tripCargo map[string][]string // trip ID -> cargo IDs

	// Counters for verification
	CreateCallCount       int32
	UpdateStatusCallCount int32

	// Error injection
	CreateError       error
	UpdateStatusError error
}

// NewMockCargoRepository creates a new mock cargo repository.
func NewMockCargoRepository() *MockCargoRepository {
	return &MockCargoRepository{
		cargo:     make(map[string]*domain.Cargo),
		tripCargo: make(map[string][]string),
	}
}

// AddCargoItem adds a cargo item to the mock repository.
func (m *MockCargoRepository) AddCargoItem(cargo *domain.Cargo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cargo[cargo.ID] = cargo
}

// BundleCargo records a cargo item as bundled into a trip.
func (m *MockCargoRepository) BundleCargo(tripID, cargoID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tripCargo[tripID] = append(m.tripCargo[tripID], cargoID)
}

func (m *MockCargoRepository) Create(ctx context.Context, cargo *domain.Cargo) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cargo[cargo.ID] = cargo
	return nil
}

func (m *MockCargoRepository) GetByID(ctx context.Context, id string) (*domain.Cargo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cargo, ok := m.cargo[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *cargo
	return &copy, nil
}

func (m *MockCargoRepository) GetAll(ctx context.Context) ([]*domain.Cargo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Cargo, 0, len(m.cargo))
	for _, c := range m.cargo {
		copy := *c
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockCargoRepository) GetByTripID(ctx context.Context, tripID string) ([]*domain.Cargo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Cargo
	for _, cargoID := range m.tripCargo[tripID] {
		if c, ok := m.cargo[cargoID]; ok {
			copy := *c
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockCargoRepository) UpdateStatus(ctx context.Context, id string, status domain.CargoStatus) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cargo, ok := m.cargo[id]
	if !ok {
		return repository.ErrNotFound
	}
	cargo.Status = status
	return nil
}

// GetCargoItem returns a cargo item for test assertions.
func (m *MockCargoRepository) GetCargoItem(id string) *domain.Cargo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cargo[id]
}

// ──────────────────────────────────────────────
// MOCK TRIP REPOSITORY
// ──────────────────────────────────────────────

// MockTripRepository is a mock implementation of TripRepository.
type MockTripRepository struct {
	mu    sync.RWMutex
	trips map[string]*domain.Trip

	// Counters for verification
	CreateCallCount   int32
	UpdateCallCount   int32
	AddCargoCallCount int32

	// Error injection
	CreateError   error
	UpdateError   error
	AddCargoError error
}

// NewMockTripRepository creates a new mock trip repository.
func NewMockTripRepository() *MockTripRepository {
	return &MockTripRepository{
		trips: make(map[string]*domain.Trip),
	}
}

// AddTrip adds a trip to the mock repository.
func (m *MockTripRepository) AddTrip(trip *domain.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
}

func (m *MockTripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
	return nil
}

func (m *MockTripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	trip, ok := m.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *trip
	return &copy, nil
}

func (m *MockTripRepository) GetOpen(ctx context.Context) ([]*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Trip
	for _, t := range m.trips {
		if t.Status != domain.TripStatusAssigned {
			continue
		}
		copy := *t
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MockTripRepository) GetAll(ctx context.Context) ([]*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Trip, 0, len(m.trips))
	for _, t := range m.trips {
		copy := *t
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MockTripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[trip.ID]; !ok {
		return repository.ErrNotFound
	}
	m.trips[trip.ID] = trip
	return nil
}

func (m *MockTripRepository) AddCargo(ctx context.Context, tripID, cargoID string) error {
	atomic.AddInt32(&m.AddCargoCallCount, 1)
	if m.AddCargoError != nil {
		return m.AddCargoError
	}
	return nil
}

func (m *MockTripRepository) GetActiveByVehicle(ctx context.Context, plate string) (*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.trips {
		if t.VehiclePlate == plate && t.Status != domain.TripStatusCompleted {
			copy := *t
			return &copy, nil
		}
	}
	return nil, nil
}

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

// AddUser adds a user to the mock repository.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *user
	return &copy, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) GetAll(ctx context.Context) ([]*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		copy := *u
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.users[user.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if user.PasswordHash == "" {
		user.PasswordHash = existing.PasswordHash
	}
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

// ──────────────────────────────────────────────
// MOCK ALERT REPOSITORY
// ──────────────────────────────────────────────

// MockAlertRepository is a mock implementation of AlertRepository.
type MockAlertRepository struct {
	mu     sync.RWMutex
	alerts []*domain.Alert

	// Error injection
	CreateError error
}

// NewMockAlertRepository creates a new mock alert repository.
func NewMockAlertRepository() *MockAlertRepository {
	return &MockAlertRepository{}
}

func (m *MockAlertRepository) Create(ctx context.Context, alert *domain.Alert) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts = append(m.alerts, alert)
	return nil
}

func (m *MockAlertRepository) GetAll(ctx context.Context) ([]*domain.Alert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Alert, len(m.alerts))
	for i := range m.alerts {
		copy := *m.alerts[len(m.alerts)-1-i]
		result[i] = &copy
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]bool

	// Counters for verification
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]bool),
	}
}

func (m *MockLockStore) AcquireCargoLock(ctx context.Context, cargoID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[cargoID] {
		return false, nil
	}
	m.locks[cargoID] = true
	return true, nil
}

func (m *MockLockStore) ReleaseCargoLock(ctx context.Context, cargoID string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, cargoID)
	return nil
}

// HoldLock pre-acquires a lock so the next caller is refused.
func (m *MockLockStore) HoldLock(cargoID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locks[cargoID] = true
}

// ──────────────────────────────────────────────
// MOCK LOCATION STORE
// ──────────────────────────────────────────────

// MockLocationStore is a mock implementation of LocationStoreInterface.
type MockLocationStore struct {
	mu        sync.RWMutex
	positions map[string]redis.VehicleLocation

	// Counters for verification
	UpdateCallCount int32
	RemoveCallCount int32

	// Error injection
	UpdateError error
}

// NewMockLocationStore creates a new mock location store.
func NewMockLocationStore() *MockLocationStore {
	return &MockLocationStore{
		positions: make(map[string]redis.VehicleLocation),
	}
}

func (m *MockLocationStore) UpdateLocation(ctx context.Context, plate string, lat, lng float64) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positions[plate] = redis.VehicleLocation{Plate: plate, Lat: lat, Lng: lng}
	return nil
}

func (m *MockLocationStore) GetPositions(ctx context.Context, plates []string) ([]redis.VehicleLocation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []redis.VehicleLocation
	for _, plate := range plates {
		if pos, ok := m.positions[plate]; ok {
			result = append(result, pos)
		}
	}
	return result, nil
}

func (m *MockLocationStore) FindNearbyVehicles(ctx context.Context, lat, lng, radiusKm float64) ([]redis.VehicleLocation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []redis.VehicleLocation
	for _, pos := range m.positions {
		result = append(result, pos)
	}
	return result, nil
}

func (m *MockLocationStore) RemoveLocation(ctx context.Context, plate string) error {
	atomic.AddInt32(&m.RemoveCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.positions, plate)
	return nil
}
