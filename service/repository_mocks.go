package service

import (
	"context"
	"time"

	"luckydraw/events"
	"luckydraw/models"

	"github.com/stretchr/testify/mock"
)

// MockDrawRepository is a mock implementation of DrawRepository
type MockDrawRepository struct {
	mock.Mock
}

func (m *MockDrawRepository) GetByID(ctx context.Context, id int64) (*models.Draw, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Draw), args.Error(1)
}

func (m *MockDrawRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Draw, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Draw), args.Error(1)
}

func (m *MockDrawRepository) SetWinner(ctx context.Context, drawID, supporterID, ticketNumber int64, decidedAt time.Time) (bool, error) {
	args := m.Called(ctx, drawID, supporterID, ticketNumber, decidedAt)
	return args.Bool(0), args.Error(1)
}

// MockOrderRepository is a mock implementation of OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) ListSucceededTickets(ctx context.Context, fundraiserID int64) ([]*models.TicketEntry, error) {
	args := m.Called(ctx, fundraiserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TicketEntry), args.Error(1)
}

// MockSupporterRepository is a mock implementation of SupporterRepository
type MockSupporterRepository struct {
	mock.Mock
}

func (m *MockSupporterRepository) GetByID(ctx context.Context, id int64) (*models.Supporter, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Supporter), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
	drawRepo      DrawRepository
	orderRepo     OrderRepository
	supporterRepo SupporterRepository
	eventBus      EventPublisher
}

// SetRepositories wires the repositories returned by the getters
func (m *MockUnitOfWork) SetRepositories(drawRepo DrawRepository, orderRepo OrderRepository, supporterRepo SupporterRepository, eventBus EventPublisher) {
	m.drawRepo = drawRepo
	m.orderRepo = orderRepo
	m.supporterRepo = supporterRepo
	m.eventBus = eventBus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) DrawRepository() DrawRepository {
	return m.drawRepo
}

func (m *MockUnitOfWork) OrderRepository() OrderRepository {
	return m.orderRepo
}

func (m *MockUnitOfWork) SupporterRepository() SupporterRepository {
	return m.supporterRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}

// MockTicketPoolService is a mock implementation of TicketPoolService
type MockTicketPoolService struct {
	mock.Mock
}

func (m *MockTicketPoolService) ResolvePool(ctx context.Context, fundraiserID int64) ([]*models.TicketEntry, error) {
	args := m.Called(ctx, fundraiserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TicketEntry), args.Error(1)
}

// MockDrawService is a mock implementation of DrawService
type MockDrawService struct {
	mock.Mock
}

func (m *MockDrawService) SelectWinner(ctx context.Context, drawID int64) (*models.WinnerResult, error) {
	args := m.Called(ctx, drawID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WinnerResult), args.Error(1)
}

func (m *MockDrawService) GetWinner(ctx context.Context, drawID int64) (*models.WinnerResult, error) {
	args := m.Called(ctx, drawID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WinnerResult), args.Error(1)
}

// FixedRandom is a RandomSource that replays a fixed sequence of values, modulo n
type FixedRandom struct {
	values []int
	next   int
}

// NewFixedRandom creates a RandomSource returning values in order, wrapping around
func NewFixedRandom(values ...int) *FixedRandom {
	return &FixedRandom{values: values}
}

func (f *FixedRandom) IntN(n int) int {
	v := f.values[f.next%len(f.values)]
	f.next++
	return v % n
}
