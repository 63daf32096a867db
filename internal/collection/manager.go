package collection

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rofergon/seadrop/internal/drop"
	"github.com/rofergon/seadrop/internal/identity"
)

var (
	// ErrCollectionExists indicates a create for an identity that is already registered.
	ErrCollectionExists = errors.New("collection: already exists")
	// ErrCollectionNotFound indicates a lookup for an unknown identity.
	ErrCollectionNotFound = errors.New("collection: not found")
)

const (
	opManagerNew    = "collection.manager.new"
	opManagerCreate = "collection.manager.create"
)

// ManagerConfig describes the dependencies shared by every hosted collection.
type ManagerConfig struct {
	Database     *gorm.DB
	Store        *drop.Store
	LogicVersion string
	Logger       *zap.Logger
	Clock        func() time.Time
}

// Manager hosts the collections known to this registry instance. Existing
// collections are reopened from the database at construction, which is also
/// where a logic upgrade lands: reopening under a newer LogicVersion bumps
// every collection's version tag while leaving its state intact.
type Manager struct {
	cfg         ManagerConfig
	mu          sync.Mutex
	collections map[identity.Address]*Collection
}

// NewManager reopens every persisted collection under the configured logic
// version.
func NewManager(cfg ManagerConfig) (*Manager, error) {
	if cfg.Database == nil {
		return nil, newOperationError(opManagerNew, "missing_database", errMissingDatabase)
	}
	if cfg.Store == nil {
		return nil, newOperationError(opManagerNew, "missing_store", errMissingStore)
	}
	if cfg.LogicVersion == "" {
		return nil, newOperationError(opManagerNew, "missing_logic_version", errMissingLogicVersion)
	}
	if cfg.Logger == nil {
		cfg.Logger = noOpLogger
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	manager := &Manager{
		cfg:         cfg,
		collections: make(map[identity.Address]*Collection),
	}

	var states []StateRecord
	if err := cfg.Database.Find(&states).Error; err != nil {
		return nil, newOperationError(opManagerNew, "states_query_failed", err)
	}
	for _, state := range states {
		opened, err := New(Config{
			Database:     cfg.Database,
			Store:        cfg.Store,
			Identity:     identity.Address(state.Tenant),
			LogicVersion: cfg.LogicVersion,
			Logger:       cfg.Logger,
			Clock:        cfg.Clock,
		})
		if err != nil {
			return nil, newOperationError(opManagerNew, "reopen_failed", fmt.Errorf("tenant %s: %w", state.Tenant, err))
		}
		manager.collections[opened.Identity()] = opened
	}

	return manager, nil
}

// CreateRequest describes a new collection.
type CreateRequest struct {
	Identity  identity.Address
	Owner     identity.Address
	Name      string
	Symbol    string
	MaxSupply MaxSupply
}

// Create registers a new collection owned by request.Owner.
func (m *Manager) Create(_ context.Context, request CreateRequest) (*Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.collections[request.Identity]; ok {
		return nil, newOperationError(opManagerCreate, "already_exists", ErrCollectionExists)
	}

	created, err := New(Config{
		Database:     m.cfg.Database,
		Store:        m.cfg.Store,
		Identity:     request.Identity,
		Owner:        request.Owner,
		Name:         request.Name,
		Symbol:       request.Symbol,
		MaxSupply:    request.MaxSupply,
		LogicVersion: m.cfg.LogicVersion,
		Logger:       m.cfg.Logger,
		Clock:        m.cfg.Clock,
	})
	if err != nil {
		return nil, err
	}

	m.collections[request.Identity] = created
	return created, nil
}

// Collection returns the hosted collection for the identity.
func (m *Manager) Collection(id identity.Address) (*Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	hosted, ok := m.collections[id]
	if !ok {
		return nil, ErrCollectionNotFound
	}
	return hosted, nil
}

// Identities returns the identities of every hosted collection in arbitrary
// order.
func (m *Manager) Identities() []identity.Address {
	m.mu.Lock()
	defer m.mu.Unlock()
	identities := make([]identity.Address, 0, len(m.collections))
	for id := range m.collections {
		identities = append(identities, id)
	}
	return identities
}
