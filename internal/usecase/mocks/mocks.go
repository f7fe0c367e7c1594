package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iho/cashflow/internal/domain"
	"github.com/iho/cashflow/internal/usecase"
)

// MockFlowRepository is a mock implementation of FlowRepository.
type MockFlowRepository struct {
	mu    sync.RWMutex
	flows map[string]*domain.Flow

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, flow *domain.Flow) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Flow, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Flow, error)
	UpdateFunc           func(ctx context.Context, tx usecase.Transaction, flow *domain.Flow) error
	DeleteFunc           func(ctx context.Context, tx usecase.Transaction, id string) error
	ListFunc             func(ctx context.Context, limit, offset int) ([]*domain.Flow, error)
	ListByUserFunc       func(ctx context.Context, userID string, limit, offset int) ([]*domain.Flow, error)
	ListByDateRangeFunc  func(ctx context.Context, from, to time.Time) ([]*domain.Flow, error)
}

func NewMockFlowRepository() *MockFlowRepository {
	return &MockFlowRepository{flows: make(map[string]*domain.Flow)}
}

func (m *MockFlowRepository) Create(ctx context.Context, tx usecase.Transaction, flow *domain.Flow) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, flow)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *flow
	m.flows[flow.ID] = &copied
	return nil
}

func (m *MockFlowRepository) GetByID(ctx context.Context, id string) (*domain.Flow, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	flow, ok := m.flows[id]
	if !ok {
		return nil, domain.ErrFlowNotFound
	}
	copied := *flow
	return &copied, nil
}

func (m *MockFlowRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Flow, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockFlowRepository) Update(ctx context.Context, tx usecase.Transaction, flow *domain.Flow) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, flow)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.flows[flow.ID]; !ok {
		return domain.ErrFlowNotFound
	}
	copied := *flow
	m.flows[flow.ID] = &copied
	return nil
}

func (m *MockFlowRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.flows[id]; !ok {
		return domain.ErrFlowNotFound
	}
	delete(m.flows, id)
	return nil
}

func (m *MockFlowRepository) List(ctx context.Context, limit, offset int) ([]*domain.Flow, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var flows []*domain.Flow
	for _, f := range m.flows {
		copied := *f
		flows = append(flows, &copied)
	}
	return flows, nil
}

func (m *MockFlowRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Flow, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var flows []*domain.Flow
	for _, f := range m.flows {
		if f.UserID == userID {
			copied := *f
			flows = append(flows, &copied)
		}
	}
	return flows, nil
}

func (m *MockFlowRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]*domain.Flow, error) {
	if m.ListByDateRangeFunc != nil {
		return m.ListByDateRangeFunc(ctx, from, to)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var flows []*domain.Flow
	for _, f := range m.flows {
		if !f.MovementDate.Before(from) && f.MovementDate.Before(to) {
			copied := *f
			flows = append(flows, &copied)
		}
	}
	return flows, nil
}

// MockSnapshotRepository is a mock implementation of SnapshotRepository. The
// default behavior keeps an in-memory append-only history.
type MockSnapshotRepository struct {
	mu        sync.RWMutex
	snapshots []*domain.Snapshot

	GetLatestFunc       func(ctx context.Context) (*domain.Snapshot, error)
	GetLatestLockedFunc func(ctx context.Context, tx usecase.Transaction) (*domain.Snapshot, error)
	AppendFunc          func(ctx context.Context, tx usecase.Transaction, snapshot *domain.Snapshot) error
	ListFunc            func(ctx context.Context, limit, offset int) ([]*domain.Snapshot, error)
}

func NewMockSnapshotRepository() *MockSnapshotRepository {
	return &MockSnapshotRepository{}
}

func (m *MockSnapshotRepository) GetLatest(ctx context.Context) (*domain.Snapshot, error) {
	if m.GetLatestFunc != nil {
		return m.GetLatestFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.snapshots) == 0 {
		return nil, nil
	}
	copied := *m.snapshots[len(m.snapshots)-1]
	return &copied, nil
}

func (m *MockSnapshotRepository) GetLatestLocked(ctx context.Context, tx usecase.Transaction) (*domain.Snapshot, error) {
	if m.GetLatestLockedFunc != nil {
		return m.GetLatestLockedFunc(ctx, tx)
	}
	return m.GetLatest(ctx)
}

func (m *MockSnapshotRepository) Append(ctx context.Context, tx usecase.Transaction, snapshot *domain.Snapshot) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, tx, snapshot)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *snapshot
	m.snapshots = append(m.snapshots, &copied)
	return nil
}

func (m *MockSnapshotRepository) List(ctx context.Context, limit, offset int) ([]*domain.Snapshot, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Snapshot, 0, len(m.snapshots))
	for i := len(m.snapshots) - 1; i >= 0; i-- {
		copied := *m.snapshots[i]
		out = append(out, &copied)
	}
	return out, nil
}

// Count returns how many snapshots were appended.
func (m *MockSnapshotRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.snapshots)
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	CreateFunc          func(ctx context.Context, user *domain.User) error
	GetByIDFunc         func(ctx context.Context, id string) (*domain.User, error)
	GetByEmailFunc      func(ctx context.Context, email string) (*domain.User, error)
	GetByResetTokenFunc func(ctx context.Context, token string) (*domain.User, error)
	UpdateFunc          func(ctx context.Context, user *domain.User) error
	DeleteFunc          func(ctx context.Context, id string) error
	ListFunc            func(ctx context.Context, limit, offset int) ([]*domain.User, error)
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]*domain.User)}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, user := range m.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) GetByResetToken(ctx context.Context, token string) (*domain.User, error) {
	if m.GetByResetTokenFunc != nil {
		return m.GetByResetTokenFunc(ctx, token)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, user := range m.users {
		if user.ResetToken == token && token != "" {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
	return nil
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var users []*domain.User
	for _, u := range m.users {
		copied := *u
		users = append(users, &copied)
	}
	return users, nil
}

// MockTransaction is a mock transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	Committed  bool
	RolledBack bool
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	t.Committed = true
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if t.RollbackFunc != nil {
		return t.RollbackFunc(ctx)
	}
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}

// MockTransactionManager is a mock transaction manager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockIDGenerator is a mock ID generator producing sequential IDs.
type MockIDGenerator struct {
	mu           sync.Mutex
	n            int
	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.n++
	return fmt.Sprintf("id-%04d", m.n)
}

// MockRetrier runs the operation once without retrying.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}

// MockTokenStore is an in-memory refresh token store.
type MockTokenStore struct {
	mu     sync.RWMutex
	tokens map[string]string

	SaveFunc   func(ctx context.Context, tokenID, userID string, ttl time.Duration) error
	GetFunc    func(ctx context.Context, tokenID string) (string, error)
	DeleteFunc func(ctx context.Context, tokenID string) error
}

func NewMockTokenStore() *MockTokenStore {
	return &MockTokenStore{tokens: make(map[string]string)}
}

func (m *MockTokenStore) Save(ctx context.Context, tokenID, userID string, ttl time.Duration) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tokenID, userID, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[tokenID] = userID
	return nil
}

func (m *MockTokenStore) Get(ctx context.Context, tokenID string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, tokenID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tokens[tokenID], nil
}

func (m *MockTokenStore) Delete(ctx context.Context, tokenID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tokenID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, tokenID)
	return nil
}
