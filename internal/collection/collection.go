package collection

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rofergon/seadrop/internal/addrset"
	"github.com/rofergon/seadrop/internal/authz"
	"github.com/rofergon/seadrop/internal/drop"
	"github.com/rofergon/seadrop/internal/identity"
)

var (
	errMissingDatabase     = errors.New("database handle is required")
	errMissingStore        = errors.New("drop store is required")
	errMissingIdentity     = errors.New("collection identity is required")
	errMissingOwner        = errors.New("collection owner is required")
	errMissingLogicVersion = errors.New("logic version is required")
	errMissingRecipient    = errors.New("mint recipient is required")
	errZeroQuantity        = errors.New("mint quantity must be positive")
	noOpLogger             = zap.NewNop()
)

// OperationError carries an operation-scoped failure code alongside the cause.
type OperationError struct {
	code string
	err  error
}

func (e *OperationError) Error() string {
	if e.err == nil {
		return e.code
	}
	return fmt.Sprintf("%s: %v", e.code, e.err)
}

func (e *OperationError) Unwrap() error {
	return e.err
}

// Code returns the machine-readable failure code.
func (e *OperationError) Code() string {
	return e.code
}

const (
	opCollectionNew       = "collection.new"
	opMint                = "collection.mint"
	opSetBaseURI          = "collection.set_base_uri"
	opSetContractURI      = "collection.set_contract_uri"
	opSetMaxSupply        = "collection.set_max_supply"
	opSetAllowedDelegate  = "collection.set_allowed_delegate"
	opUpdatePublicDrop    = "collection.update_public_drop"
	opUpdateCreatorPayout = "collection.update_creator_payout"
	opUpdateFeeRecipient  = "collection.update_allowed_fee_recipient"
	opUpdateAllowList     = "collection.update_allow_list"
	opUpdateTokenGated    = "collection.update_token_gated_drop"
	opUpdateSignedParams  = "collection.update_signed_mint_validation_params"
	opUpdatePayer         = "collection.update_payer"
	opUpdateDropURI       = "collection.update_drop_uri"
)

func newOperationError(operation, reason string, cause error) error {
	return &OperationError{code: fmt.Sprintf("%s.%s", operation, reason), err: cause}
}

// Config describes the dependencies and identity of one minting collection.
type Config struct {
	Database     *gorm.DB
	Store        *drop.Store
	Identity     identity.Address
	Owner        identity.Address
	Name         string
	Symbol       string
	MaxSupply    MaxSupply
	LogicVersion string
	Logger       *zap.Logger
	Clock        func() time.Time
}

// Collection is the tenant-facing identity of one minting drop. It owns its
// mirrored configuration (URIs, supply bound, minted counters, delegate set)
// and forwards store mutations keyed by its own identity only; a collection
// can never address another tenant's entry.
type Collection struct {
	db     *gorm.DB
	store  *drop.Store
	logger *zap.Logger
	clock  func() time.Time
	id     identity.Address

	mu           sync.Mutex
	owner        identity.Address
	name         string
	symbol       string
	baseURI      string
	contractURI  string
	maxSupply    MaxSupply
	totalMinted  uint64
	balances     map[identity.Address]uint64
	delegates    *addrset.Set
	logicVersion string
}

// New opens the collection, creating its persisted row on first use. When a
// row already exists every persisted field wins over the supplied Config
// except LogicVersion, which is bumped to the supplied value: this is the
// logic-upgrade path, and it must leave all other columns untouched.
func New(cfg Config) (*Collection, error) {
	if cfg.Database == nil {
		return nil, newOperationError(opCollectionNew, "missing_database", errMissingDatabase)
	}
	if cfg.Store == nil {
		return nil, newOperationError(opCollectionNew, "missing_store", errMissingStore)
	}
	if cfg.Identity.IsZero() {
		return nil, newOperationError(opCollectionNew, "missing_identity", errMissingIdentity)
	}
	if cfg.LogicVersion == "" {
		return nil, newOperationError(opCollectionNew, "missing_logic_version", errMissingLogicVersion)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}

	c := &Collection{
		db:        cfg.Database,
		store:     cfg.Store,
		logger:    logger,
		clock:     clock,
		id:        cfg.Identity,
		balances:  make(map[identity.Address]uint64),
		delegates: addrset.New(),
	}

	var state StateRecord
	err := cfg.Database.Where("tenant = ?", cfg.Identity.String()).Take(&state).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if cfg.Owner.IsZero() {
			return nil, newOperationError(opCollectionNew, "missing_owner", errMissingOwner)
		}
		state = StateRecord{
			Tenant:           cfg.Identity.String(),
			Owner:            cfg.Owner.String(),
			Name:             cfg.Name,
			Symbol:           cfg.Symbol,
			SupplyLimited:    cfg.MaxSupply.Limited,
			SupplyCap:        cfg.MaxSupply.Cap,
			LogicVersion:     cfg.LogicVersion,
			CreatedAtSeconds: clock().UTC().Unix(),
		}
		if err := cfg.Database.Create(&state).Error; err != nil {
			return nil, newOperationError(opCollectionNew, "create_failed", err)
		}
	case err != nil:
		return nil, newOperationError(opCollectionNew, "state_query_failed", err)
	default:
		if state.LogicVersion != cfg.LogicVersion {
			if err := cfg.Database.Model(&StateRecord{}).
				Where("tenant = ?", cfg.Identity.String()).
				Update("logic_version", cfg.LogicVersion).Error; err != nil {
				return nil, newOperationError(opCollectionNew, "version_bump_failed", err)
			}
			state.LogicVersion = cfg.LogicVersion
		}
	}

	c.owner = identity.Address(state.Owner)
	c.name = state.Name
	c.symbol = state.Symbol
	c.baseURI = state.BaseURI
	c.contractURI = state.ContractURI
	c.maxSupply = MaxSupply{Limited: state.SupplyLimited, Cap: state.SupplyCap}
	c.totalMinted = state.TotalMinted
	c.logicVersion = state.LogicVersion

	var balances []BalanceRecord
	if err := cfg.Database.Where("tenant = ?", cfg.Identity.String()).Find(&balances).Error; err != nil {
		return nil, newOperationError(opCollectionNew, "balances_query_failed", err)
	}
	for _, record := range balances {
		c.balances[identity.Address(record.Holder)] = record.Minted
	}

	var delegates []DelegateRecord
	if err := cfg.Database.Where("tenant = ?", cfg.Identity.String()).Find(&delegates).Error; err != nil {
		return nil, newOperationError(opCollectionNew, "delegates_query_failed", err)
	}
	for _, record := range delegates {
		c.delegates.Insert(identity.Address(record.Delegate))
	}

	return c, nil
}

// Mint credits quantity newly minted items to the recipient. Only allow-listed
// delegates may call it, and the new total must stay within the supply bound.
func (c *Collection) Mint(ctx context.Context, caller, recipient identity.Address, quantity uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !authz.IsAllowedDelegate(caller, c.delegates) {
		c.logger.Warn("mint rejected",
			zap.String("collection", c.id.String()),
			zap.String("caller", caller.String()),
			zap.String("reason", "delegate_not_allowed"))
		return newOperationError(opMint, "delegate_not_allowed", authz.ErrDelegateNotAllowed)
	}
	if recipient.IsZero() {
		return newOperationError(opMint, "missing_recipient", errMissingRecipient)
	}
	if quantity == 0 {
		return newOperationError(opMint, "zero_quantity", errZeroQuantity)
	}
	if !c.maxSupply.Allows(c.totalMinted, quantity) {
		return newOperationError(opMint, "supply_exceeded", authz.ErrSupplyExceeded)
	}

	newTotal := c.totalMinted + quantity
	newBalance := c.balances[recipient] + quantity
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&StateRecord{}).
			Where("tenant = ?", c.id.String()).
			Update("total_minted", newTotal).Error; err != nil {
			return err
		}
		balance := BalanceRecord{Tenant: c.id.String(), Holder: recipient.String(), Minted: newBalance}
		return tx.Save(&balance).Error
	})
	if err != nil {
		c.logError(opMint, "persist_failed", err)
		return newOperationError(opMint, "persist_failed", err)
	}

	c.totalMinted = newTotal
	c.balances[recipient] = newBalance
	return nil
}

// SetBaseURI replaces the collection's token metadata base URI.
func (c *Collection) SetBaseURI(ctx context.Context, caller identity.Address, uri string) error {
	return c.setStateField(ctx, caller, opSetBaseURI, "base_uri", uri, func() {
		c.baseURI = uri
	})
}

// SetContractURI replaces the collection-level metadata URI.
func (c *Collection) SetContractURI(ctx context.Context, caller identity.Address, uri string) error {
	return c.setStateField(ctx, caller, opSetContractURI, "contract_uri", uri, func() {
		c.contractURI = uri
	})
}

// SetMaxSupply replaces the supply bound. An unlimited bound is legal and
// distinct from a cap of zero.
func (c *Collection) SetMaxSupply(ctx context.Context, caller identity.Address, supply MaxSupply) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !authz.IsOwner(caller, c.owner) {
		return newOperationError(opSetMaxSupply, "unauthorized", authz.ErrUnauthorized)
	}

	err := c.db.WithContext(ctx).Model(&StateRecord{}).
		Where("tenant = ?", c.id.String()).
		Updates(map[string]any{
			"supply_limited": supply.Limited,
			"supply_cap":     supply.Cap,
		}).Error
	if err != nil {
		c.logError(opSetMaxSupply, "persist_failed", err)
		return newOperationError(opSetMaxSupply, "persist_failed", err)
	}

	c.maxSupply = supply
	return nil
}

// SetAllowedDelegate grants or revokes a minting delegate. Granting an
// existing delegate or revoking an absent one is a no-op.
func (c *Collection) SetAllowedDelegate(ctx context.Context, caller, delegate identity.Address, allowed bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !authz.IsOwner(caller, c.owner) {
		return newOperationError(opSetAllowedDelegate, "unauthorized", authz.ErrUnauthorized)
	}
	if delegate.IsZero() {
		return newOperationError(opSetAllowedDelegate, "missing_delegate", errMissingRecipient)
	}
	if allowed == c.delegates.Contains(delegate) {
		return nil
	}

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if allowed {
			record := DelegateRecord{Tenant: c.id.String(), Delegate: delegate.String()}
			return tx.Create(&record).Error
		}
		return tx.Where("tenant = ? AND delegate = ?", c.id.String(), delegate.String()).
			Delete(&DelegateRecord{}).Error
	})
	if err != nil {
		c.logError(opSetAllowedDelegate, "persist_failed", err)
		return newOperationError(opSetAllowedDelegate, "persist_failed", err)
	}

	if allowed {
		c.delegates.Insert(delegate)
	} else {
		c.delegates.Remove(delegate)
	}
	return nil
}

// UpdatePublicDrop forwards the tenant's public drop configuration to the
// store, keyed by this collection's identity.
func (c *Collection) UpdatePublicDrop(ctx context.Context, caller identity.Address, config drop.PublicDropConfig) error {
	return c.forward(caller, opUpdatePublicDrop, func() error {
		return c.store.SetPublicDrop(ctx, c.id, config)
	})
}

// UpdateCreatorPayout forwards the creator payout address to the store.
func (c *Collection) UpdateCreatorPayout(ctx context.Context, caller, payout identity.Address) error {
	return c.forward(caller, opUpdateCreatorPayout, func() error {
		return c.store.SetCreatorPayout(ctx, c.id, payout)
	})
}

// UpdateAllowedFeeRecipient forwards a fee recipient grant or revocation.
func (c *Collection) UpdateAllowedFeeRecipient(ctx context.Context, caller, member identity.Address, allowed bool) error {
	return c.forward(caller, opUpdateFeeRecipient, func() error {
		return c.store.SetFeeRecipientAllowed(ctx, c.id, member, allowed)
	})
}

// UpdateAllowList forwards the allow-list descriptor to the store.
func (c *Collection) UpdateAllowList(ctx context.Context, caller identity.Address, descriptor drop.AllowListDescriptor) error {
	return c.forward(caller, opUpdateAllowList, func() error {
		return c.store.SetAllowList(ctx, c.id, descriptor)
	})
}

// UpdateTokenGatedDrop forwards a token-gated stage upsert or tombstone.
func (c *Collection) UpdateTokenGatedDrop(ctx context.Context, caller, gatingToken identity.Address, stage drop.TokenGatedDropStage) error {
	return c.forward(caller, opUpdateTokenGated, func() error {
		return c.store.UpdateTokenGatedDrop(ctx, c.id, gatingToken, stage)
	})
}

// UpdateSignedMintValidationParams forwards a signer registration.
func (c *Collection) UpdateSignedMintValidationParams(ctx context.Context, caller, signer identity.Address, params drop.SignedMintValidationParams) error {
	return c.forward(caller, opUpdateSignedParams, func() error {
		return c.store.UpsertSignerParams(ctx, c.id, signer, params)
	})
}

// UpdatePayer forwards a payer grant or revocation.
func (c *Collection) UpdatePayer(ctx context.Context, caller, member identity.Address, allowed bool) error {
	return c.forward(caller, opUpdatePayer, func() error {
		return c.store.SetPayerAllowed(ctx, c.id, member, allowed)
	})
}

// UpdateDropURI forwards the drop metadata URI.
func (c *Collection) UpdateDropURI(ctx context.Context, caller identity.Address, uri string) error {
	return c.forward(caller, opUpdateDropURI, func() error {
		return c.store.SetDropURI(ctx, c.id, uri)
	})
}

// Identity returns the collection's own tenant identity.
func (c *Collection) Identity() identity.Address {
	return c.id
}

// Owner returns the owning identity.
func (c *Collection) Owner() identity.Address {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.owner
}

// Name returns the collection name.
func (c *Collection) Name() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.name
}

// Symbol returns the collection symbol.
func (c *Collection) Symbol() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.symbol
}

// BaseURI returns the token metadata base URI.
func (c *Collection) BaseURI() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.baseURI
}

// ContractURI returns the collection-level metadata URI.
func (c *Collection) ContractURI() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.contractURI
}

// MaxSupply returns the supply bound.
func (c *Collection) MaxSupply() MaxSupply {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.maxSupply
}

// TotalMinted returns the total minted count.
func (c *Collection) TotalMinted() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalMinted
}

// BalanceOf returns the number of items minted to the holder.
func (c *Collection) BalanceOf(holder identity.Address) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.balances[holder]
}

// Delegates returns the allowed minting delegates in arbitrary order.
func (c *Collection) Delegates() []identity.Address {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.delegates.Members()
}

// LogicVersion returns the persisted logic version tag.
func (c *Collection) LogicVersion() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.logicVersion
}

func (c *Collection) forward(caller identity.Address, operation string, call func() error) error {
	c.mu.Lock()
	owner := c.owner
	c.mu.Unlock()
	if !authz.IsOwner(caller, owner) {
		c.logger.Warn("owner-gated call rejected",
			zap.String("collection", c.id.String()),
			zap.String("operation", operation),
			zap.String("caller", caller.String()))
		return newOperationError(operation, "unauthorized", authz.ErrUnauthorized)
	}
	return call()
}

func (c *Collection) setStateField(ctx context.Context, caller identity.Address, operation, column, value string, apply func()) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !authz.IsOwner(caller, c.owner) {
		return newOperationError(operation, "unauthorized", authz.ErrUnauthorized)
	}

	err := c.db.WithContext(ctx).Model(&StateRecord{}).
		Where("tenant = ?", c.id.String()).
		Update(column, value).Error
	if err != nil {
		c.logError(operation, "persist_failed", err)
		return newOperationError(operation, "persist_failed", err)
	}

	apply()
	return nil
}

func (c *Collection) logError(operation, reason string, err error) {
	c.logger.Error("collection error",
		zap.String("collection", c.id.String()),
		zap.String("operation", operation),
		zap.String("reason", reason),
		zap.Error(err))
}
