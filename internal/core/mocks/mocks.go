package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lorrc/ticket-dashboard/internal/core/domain"
	"github.com/lorrc/ticket-dashboard/internal/core/ports"
	"github.com/stretchr/testify/mock"
)

// MockSessionStore is a mock implementation of ports.SessionStore
type MockSessionStore struct {
	mock.Mock
}

var (
	_ ports.SessionStore  = (*MockSessionStore)(nil)
	_ ports.SessionPurger = (*MockSessionStore)(nil)
)

func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{}
}

func (m *MockSessionStore) Load(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionStore) Save(ctx context.Context, session *domain.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionStore) Clear(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSessionStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// PurgeExpired lets MockSessionStore stand in for ports.SessionPurger.
func (m *MockSessionStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockParticipantSource is a mock implementation of ports.ParticipantSource
type MockParticipantSource struct {
	mock.Mock
}

var _ ports.ParticipantSource = (*MockParticipantSource)(nil)

func NewMockParticipantSource() *MockParticipantSource {
	return &MockParticipantSource{}
}

func (m *MockParticipantSource) FetchParticipants(ctx context.Context) (*domain.ParticipantPage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParticipantPage), args.Error(1)
}

func (m *MockParticipantSource) FetchRaw(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockParticipantSource) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}

// MockSummaryBroadcaster is a mock implementation of ports.SummaryBroadcaster
type MockSummaryBroadcaster struct {
	mock.Mock
}

var _ ports.SummaryBroadcaster = (*MockSummaryBroadcaster)(nil)

func NewMockSummaryBroadcaster() *MockSummaryBroadcaster {
	return &MockSummaryBroadcaster{}
}

func (m *MockSummaryBroadcaster) Broadcast(event domain.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockTokenManager is a mock implementation of ports.TokenManager
type MockTokenManager struct {
	mock.Mock
}

var _ ports.TokenManager = (*MockTokenManager)(nil)

func NewMockTokenManager() *MockTokenManager {
	return &MockTokenManager{}
}

func (m *MockTokenManager) GenerateToken(sessionID uuid.UUID, email string, expiresAt time.Time) (string, error) {
	args := m.Called(sessionID, email, expiresAt)
	return args.String(0), args.Error(1)
}

func (m *MockTokenManager) SessionIDFromToken(token string) (uuid.UUID, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

// MockCredentialVerifier is a mock implementation of ports.CredentialVerifier
type MockCredentialVerifier struct {
	mock.Mock
}

var _ ports.CredentialVerifier = (*MockCredentialVerifier)(nil)

func NewMockCredentialVerifier() *MockCredentialVerifier {
	return &MockCredentialVerifier{}
}

func (m *MockCredentialVerifier) Verify(email, password string) bool {
	args := m.Called(email, password)
	return args.Bool(0)
}

// MockDashboardService is a mock implementation of ports.DashboardService
type MockDashboardService struct {
	mock.Mock
}

var _ ports.DashboardService = (*MockDashboardService)(nil)

func NewMockDashboardService() *MockDashboardService {
	return &MockDashboardService{}
}

func (m *MockDashboardService) Refresh(ctx context.Context) (*ports.SummarySnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.SummarySnapshot), args.Error(1)
}

func (m *MockDashboardService) Latest() (*ports.SummarySnapshot, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.SummarySnapshot), args.Error(1)
}

func (m *MockDashboardService) Run(ctx context.Context, interval time.Duration) {
	m.Called(ctx, interval)
}
