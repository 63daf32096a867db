package drop

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rofergon/seadrop/internal/addrset"
	"github.com/rofergon/seadrop/internal/identity"
)

var (
	errMissingDatabase   = errors.New("database handle is required")
	errMissingIDProvider = errors.New("id provider is required")
	errMissingTenant     = errors.New("tenant identity is required")
	errMissingMember     = errors.New("member identity is required")
	noOpLogger           = zap.NewNop()
)

// StoreError carries an operation-scoped failure code alongside the cause.
type StoreError struct {
	code string
	err  error
}

func (e *StoreError) Error() string {
	if e.err == nil {
		return e.code
	}
	return fmt.Sprintf("%s: %v", e.code, e.err)
}

func (e *StoreError) Unwrap() error {
	return e.err
}

// Code returns the machine-readable failure code.
func (e *StoreError) Code() string {
	return e.code
}

const (
	opStoreNew           = "drop.store.new"
	opSetPublicDrop      = "drop.set_public_drop"
	opSetCreatorPayout   = "drop.set_creator_payout"
	opSetAllowList       = "drop.set_allow_list"
	opSetDropURI         = "drop.set_drop_uri"
	opUpdateGatedStage   = "drop.update_token_gated_drop"
	opSetFeeRecipient    = "drop.set_fee_recipient_allowed"
	opSetPayer           = "drop.set_payer_allowed"
	opUpsertSignerParams = "drop.upsert_signer_params"
	opListChanges        = "drop.list_changes"
	opLoadPersistedState = "drop.load_persisted_state"
)

const (
	setKindFeeRecipient = "fee_recipient"
	setKindPayer        = "payer"
)

func newStoreError(operation, reason string, cause error) error {
	return &StoreError{code: fmt.Sprintf("%s.%s", operation, reason), err: cause}
}

// StoreConfig describes the dependencies of the tenant configuration store.
type StoreConfig struct {
	Database   *gorm.DB
	Clock      func() time.Time
	IDProvider IDProvider
	Logger     *zap.Logger
}

// Store owns every tenant-scoped drop configuration resource. All state is
// held in memory for constant-time access and written through to the database
// inside a transaction before it becomes visible; a failed write leaves both
// views untouched. Operations on distinct tenants never serialize against
// each other.
type Store struct {
	db      *gorm.DB
	clock   func() time.Time
	ids     IDProvider
	logger  *zap.Logger
	mu      sync.Mutex
	tenants map[identity.Address]*tenantState
}

type tenantState struct {
	mu sync.Mutex

	publicDrop    PublicDropConfig
	publicDropSet bool

	allowList    AllowListDescriptor
	allowListSet bool

	creatorPayout    identity.Address
	creatorPayoutSet bool

	dropURI    string
	dropURISet bool

	feeRecipients *addrset.Set
	payers        *addrset.Set
	signers       *addrset.Set
	gatedTokens   *addrset.Set

	stages       map[identity.Address]TokenGatedDropStage
	signerParams map[identity.Address]SignedMintValidationParams
}

func newTenantState() *tenantState {
	return &tenantState{
		feeRecipients: addrset.New(),
		payers:        addrset.New(),
		signers:       addrset.New(),
		gatedTokens:   addrset.New(),
		stages:        make(map[identity.Address]TokenGatedDropStage),
		signerParams:  make(map[identity.Address]SignedMintValidationParams),
	}
}

// NewStore constructs the store and loads all previously persisted tenant
// state so that a logic replacement observes the exact configuration the old
// logic wrote.
func NewStore(cfg StoreConfig) (*Store, error) {
	if cfg.Database == nil {
		return nil, newStoreError(opStoreNew, "missing_database", errMissingDatabase)
	}
	if cfg.IDProvider == nil {
		return nil, newStoreError(opStoreNew, "missing_id_provider", errMissingIDProvider)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}

	store := &Store{
		db:      cfg.Database,
		clock:   clock,
		ids:     cfg.IDProvider,
		logger:  logger,
		tenants: make(map[identity.Address]*tenantState),
	}
	if err := store.loadPersistedState(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *Store) state(tenant identity.Address) *tenantState {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.tenants[tenant]
	if !ok {
		state = newTenantState()
		s.tenants[tenant] = state
	}
	return state
}

// SetPublicDrop replaces the tenant's public drop configuration wholesale.
func (s *Store) SetPublicDrop(ctx context.Context, tenant identity.Address, config PublicDropConfig) error {
	if tenant.IsZero() {
		return newStoreError(opSetPublicDrop, "missing_tenant", errMissingTenant)
	}
	state := s.state(tenant)
	state.mu.Lock()
	defer state.mu.Unlock()

	record := PublicDropRecord{
		Tenant:                tenant.String(),
		MintPrice:             config.MintPrice,
		MaxMintablePerWallet:  config.MaxMintablePerWallet,
		StartTimeSeconds:      config.StartTimeSeconds,
		EndTimeSeconds:        config.EndTimeSeconds,
		FeeBps:                config.FeeBps,
		RestrictFeeRecipients: config.RestrictFeeRecipients,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&record).Error; err != nil {
			return err
		}
		return s.appendChange(tx, tenant, opSetPublicDrop, config)
	})
	if err != nil {
		s.logError(opSetPublicDrop, "persist_failed", err, tenant)
		return newStoreError(opSetPublicDrop, "persist_failed", err)
	}

	state.publicDrop = config
	state.publicDropSet = true
	return nil
}

// PublicDrop returns the tenant's public drop configuration. The second
// result reports whether it was ever set; a never-set tenant reads as the
// zero configuration.
func (s *Store) PublicDrop(tenant identity.Address) (PublicDropConfig, bool) {
	state := s.state(tenant)
	state.mu.Lock()
	defer state.mu.Unlock()
	return state.publicDrop, state.publicDropSet
}

// SetCreatorPayout replaces the tenant's creator payout address.
func (s *Store) SetCreatorPayout(ctx context.Context, tenant, payout identity.Address) error {
	if tenant.IsZero() {
		return newStoreError(opSetCreatorPayout, "missing_tenant", errMissingTenant)
	}
	state := s.state(tenant)
	state.mu.Lock()
	defer state.mu.Unlock()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.saveTenantMeta(tx, tenant, func(meta *TenantMetaRecord) {
			meta.CreatorPayout = payout.String()
			meta.CreatorPayoutSet = true
		}); err != nil {
			return err
		}
		return s.appendChange(tx, tenant, opSetCreatorPayout, map[string]string{"payout": payout.String()})
	})
	if err != nil {
		s.logError(opSetCreatorPayout, "persist_failed", err, tenant)
		return newStoreError(opSetCreatorPayout, "persist_failed", err)
	}

	state.creatorPayout = payout
	state.creatorPayoutSet = true
	return nil
}

// CreatorPayout returns the tenant's creator payout address and whether it
// was ever set.
func (s *Store) CreatorPayout(tenant identity.Address) (identity.Address, bool) {
	state := s.state(tenant)
	state.mu.Lock()
	defer state.mu.Unlock()
	return state.creatorPayout, state.creatorPayoutSet
}

// SetAllowList replaces the tenant's allow-list descriptor. The caller
// computes the public-key URI count; only the count is retained.
func (s *Store) SetAllowList(ctx context.Context, tenant identity.Address, descriptor AllowListDescriptor) error {
	if tenant.IsZero() {
		return newStoreError(opSetAllowList, "missing_tenant", errMissingTenant)
	}
	state := s.state(tenant)
	state.mu.Lock()
	defer state.mu.Unlock()

	record := AllowListRecord{
		Tenant:            tenant.String(),
		MerkleRoot:        descriptor.MerkleRoot.String(),
		URI:               descriptor.URI,
		PublicKeyURICount: descriptor.PublicKeyURICount,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&record).Error; err != nil {
			return err
		}
		return s.appendChange(tx, tenant, opSetAllowList, descriptor)
	})
	if err != nil {
		s.logError(opSetAllowList, "persist_failed", err, tenant)
		return newStoreError(opSetAllowList, "persist_failed", err)
	}

	state.allowList = descriptor
	state.allowListSet = true
	return nil
}

// AllowList returns the tenant's allow-list descriptor and whether it was
// ever set.
func (s *Store) AllowList(tenant identity.Address) (AllowListDescriptor, bool) {
	state := s.state(tenant)
	state.mu.Lock()
	defer state.mu.Unlock()
	return state.allowList, state.allowListSet
}

// SetDropURI replaces the tenant's drop metadata URI.
func (s *Store) SetDropURI(ctx context.Context, tenant identity.Address, uri string) error {
	if tenant.IsZero() {
		return newStoreError(opSetDropURI, "missing_tenant", errMissingTenant)
	}
	state := s.state(tenant)
	state.mu.Lock()
	defer state.mu.Unlock()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.saveTenantMeta(tx, tenant, func(meta *TenantMetaRecord) {
			meta.DropURI = uri
			meta.DropURISet = true
		}); err != nil {
			return err
		}
		return s.appendChange(tx, tenant, opSetDropURI, map[string]string{"uri": uri})
	})
	if err != nil {
		s.logError(opSetDropURI, "persist_failed", err, tenant)
		return newStoreError(opSetDropURI, "persist_failed", err)
	}

	state.dropURI = uri
	state.dropURISet = true
	return nil
}

// DropURI returns the tenant's drop metadata URI and whether it was ever set.
func (s *Store) DropURI(tenant identity.Address) (string, bool) {
	state := s.state(tenant)
	state.mu.Lock()
	defer state.mu.Unlock()
	return state.dropURI, state.dropURISet
}

// UpdateTokenGatedDrop inserts or replaces the stage gated by gatingToken. A
// stage with MaxMintablePerWallet == 0 is a deletion request: the stage is
// dropped and the gating token leaves the tenant's gated-token set. Deleting
// an absent stage is a no-op.
func (s *Store) UpdateTokenGatedDrop(ctx context.Context, tenant, gatingToken identity.Address, stage TokenGatedDropStage) error {
	if tenant.IsZero() {
		return newStoreError(opUpdateGatedStage, "missing_tenant", errMissingTenant)
	}
	if gatingToken.IsZero() {
		return newStoreError(opUpdateGatedStage, "missing_gating_token", errMissingMember)
	}
	state := s.state(tenant)
	state.mu.Lock()
	defer state.mu.Unlock()

	_, present := state.stages[gatingToken]

	if stage.MaxMintablePerWallet == 0 {
		if !present {
			return nil
		}
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			result := tx.Where("tenant = ? AND gating_token = ?", tenant.String(), gatingToken.String()).
				Delete(&GatedStageRecord{})
			if result.Error != nil {
				return result.Error
			}
			return s.appendChange(tx, tenant, opUpdateGatedStage, map[string]string{
				"gating_token": gatingToken.String(),
				"action":       "delete",
			})
		})
		if err != nil {
			s.logError(opUpdateGatedStage, "persist_failed", err, tenant)
			return newStoreError(opUpdateGatedStage, "persist_failed", err)
		}
		delete(state.stages, gatingToken)
		state.gatedTokens.Remove(gatingToken)
		return nil
	}

	record := GatedStageRecord{
		Tenant:                tenant.String(),
		GatingToken:           gatingToken.String(),
		MintPrice:             stage.MintPrice,
		MaxMintablePerWallet:  stage.MaxMintablePerWallet,
		StartTimeSeconds:      stage.StartTimeSeconds,
		EndTimeSeconds:        stage.EndTimeSeconds,
		FeeBps:                stage.FeeBps,
		RestrictFeeRecipients: stage.RestrictFeeRecipients,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&record).Error; err != nil {
			return err
		}
		return s.appendChange(tx, tenant, opUpdateGatedStage, stage)
	})
	if err != nil {
		s.logError(opUpdateGatedStage, "persist_failed", err, tenant)
		return newStoreError(opUpdateGatedStage, "persist_failed", err)
	}

	state.stages[gatingToken] = stage
	if !present {
		state.gatedTokens.Insert(gatingToken)
	}
	return nil
}

// TokenGatedDrop returns the stage gated by gatingToken and whether one is
// registered.
func (s *Store) TokenGatedDrop(tenant, gatingToken identity.Address) (TokenGatedDropStage, bool) {
	state := s.state(tenant)
	state.mu.Lock()
	defer state.mu.Unlock()
	stage, ok := state.stages[gatingToken]
	return stage, ok
}

// GatedTokens returns the tenant's gating-token identities in arbitrary order.
func (s *Store) GatedTokens(tenant identity.Address) []identity.Address {
	state := s.state(tenant)
	state.mu.Lock()
	defer state.mu.Unlock()
	return state.gatedTokens.Members()
}

// SetFeeRecipientAllowed grants or revokes a fee recipient. Granting an
// already-allowed member or revoking an absent one is a no-op.
func (s *Store) SetFeeRecipientAllowed(ctx context.Context, tenant, member identity.Address, allowed bool) error {
	return s.setMemberAllowed(ctx, opSetFeeRecipient, setKindFeeRecipient, tenant, member, allowed)
}

// FeeRecipientAllowed reports whether the member is an allowed fee recipient.
func (s *Store) FeeRecipientAllowed(tenant, member identity.Address) bool {
	state := s.state(tenant)
	state.mu.Lock()
	defer state.mu.Unlock()
	return state.feeRecipients.Contains(member)
}

// FeeRecipients returns the tenant's allowed fee recipients in arbitrary order.
func (s *Store) FeeRecipients(tenant identity.Address) []identity.Address {
	state := s.state(tenant)
	state.mu.Lock()
	defer state.mu.Unlock()
	return state.feeRecipients.Members()
}

// SetPayerAllowed grants or revokes a payer, with the same no-op semantics as
// SetFeeRecipientAllowed.
func (s *Store) SetPayerAllowed(ctx context.Context, tenant, member identity.Address, allowed bool) error {
	return s.setMemberAllowed(ctx, opSetPayer, setKindPayer, tenant, member, allowed)
}

// PayerAllowed reports whether the member is an allowed payer.
func (s *Store) PayerAllowed(tenant, member identity.Address) bool {
	state := s.state(tenant)
	state.mu.Lock()
	defer state.mu.Unlock()
	return state.payers.Contains(member)
}

// Payers returns the tenant's allowed payers in arbitrary order.
func (s *Store) Payers(tenant identity.Address) []identity.Address {
	state := s.state(tenant)
	state.mu.Lock()
	defer state.mu.Unlock()
	return state.payers.Members()
}

func (s *Store) setMemberAllowed(ctx context.Context, operation, kind string, tenant, member identity.Address, allowed bool) error {
	if tenant.IsZero() {
		return newStoreError(operation, "missing_tenant", errMissingTenant)
	}
	if member.IsZero() {
		return newStoreError(operation, "missing_member", errMissingMember)
	}
	state := s.state(tenant)
	state.mu.Lock()
	defer state.mu.Unlock()

	set := state.feeRecipients
	if kind == setKindPayer {
		set = state.payers
	}
	present := set.Contains(member)
	if allowed == present {
		return nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if allowed {
			record := SetMemberRecord{Tenant: tenant.String(), Kind: kind, Member: member.String()}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
		} else {
			result := tx.Where("tenant = ? AND kind = ? AND member = ?", tenant.String(), kind, member.String()).
				Delete(&SetMemberRecord{})
			if result.Error != nil {
				return result.Error
			}
		}
		return s.appendChange(tx, tenant, operation, map[string]any{
			"member":  member.String(),
			"allowed": allowed,
		})
	})
	if err != nil {
		s.logError(operation, "persist_failed", err, tenant)
		return newStoreError(operation, "persist_failed", err)
	}

	if allowed {
		set.Insert(member)
	} else {
		set.Remove(member)
	}
	return nil
}

// UpsertSignerParams registers the signer if it is not yet known and stores
// its validation bounds unconditionally. There is no removal operation for
// signers.
func (s *Store) UpsertSignerParams(ctx context.Context, tenant, signer identity.Address, params SignedMintValidationParams) error {
	if tenant.IsZero() {
		return newStoreError(opUpsertSignerParams, "missing_tenant", errMissingTenant)
	}
	if signer.IsZero() {
		return newStoreError(opUpsertSignerParams, "missing_signer", errMissingMember)
	}
	state := s.state(tenant)
	state.mu.Lock()
	defer state.mu.Unlock()

	_, present := state.signerParams[signer]

	record := SignerParamsRecord{
		Tenant:                  tenant.String(),
		Signer:                  signer.String(),
		MinMintPrice:            params.MinMintPrice,
		MaxMaxMintablePerWallet: params.MaxMaxMintablePerWallet,
		MinStartTimeSeconds:     params.MinStartTimeSeconds,
		MaxEndTimeSeconds:       params.MaxEndTimeSeconds,
		MinFeeBps:               params.MinFeeBps,
		MaxFeeBps:               params.MaxFeeBps,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&record).Error; err != nil {
			return err
		}
		return s.appendChange(tx, tenant, opUpsertSignerParams, params)
	})
	if err != nil {
		s.logError(opUpsertSignerParams, "persist_failed", err, tenant)
		return newStoreError(opUpsertSignerParams, "persist_failed", err)
	}

	state.signerParams[signer] = params
	if !present {
		state.signers.Insert(signer)
	}
	return nil
}

// SignerParams returns the signer's validation bounds and whether the signer
// is registered.
func (s *Store) SignerParams(tenant, signer identity.Address) (SignedMintValidationParams, bool) {
	state := s.state(tenant)
	state.mu.Lock()
	defer state.mu.Unlock()
	params, ok := state.signerParams[signer]
	return params, ok
}

// Signers returns the tenant's registered signers in arbitrary order.
func (s *Store) Signers(tenant identity.Address) []identity.Address {
	state := s.state(tenant)
	state.mu.Lock()
	defer state.mu.Unlock()
	return state.signers.Members()
}

// Changes returns the tenant's configuration audit trail, oldest first.
func (s *Store) Changes(ctx context.Context, tenant identity.Address) ([]ChangeRecord, error) {
	if tenant.IsZero() {
		return nil, newStoreError(opListChanges, "missing_tenant", errMissingTenant)
	}
	var records []ChangeRecord
	if err := s.db.WithContext(ctx).
		Where("tenant = ?", tenant.String()).
		Order("applied_at_s ASC, change_id ASC").
		Find(&records).Error; err != nil {
		s.logError(opListChanges, "query_failed", err, tenant)
		return nil, newStoreError(opListChanges, "query_failed", err)
	}
	return records, nil
}

func (s *Store) saveTenantMeta(tx *gorm.DB, tenant identity.Address, mutate func(*TenantMetaRecord)) error {
	var meta TenantMetaRecord
	err := tx.Where("tenant = ?", tenant.String()).Take(&meta).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		meta = TenantMetaRecord{Tenant: tenant.String()}
	} else if err != nil {
		return err
	}
	mutate(&meta)
	return tx.Save(&meta).Error
}

func (s *Store) appendChange(tx *gorm.DB, tenant identity.Address, operation string, payload any) error {
	changeID, err := s.ids.NewID()
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	record := ChangeRecord{
		ChangeID:         changeID,
		Tenant:           tenant.String(),
		Operation:        operation,
		AppliedAtSeconds: s.clock().UTC().Unix(),
		PayloadJSON:      string(encoded),
	}
	return tx.Create(&record).Error
}

func (s *Store) loadPersistedState() error {
	var publicDrops []PublicDropRecord
	if err := s.db.Find(&publicDrops).Error; err != nil {
		return newStoreError(opLoadPersistedState, "public_drops_query_failed", err)
	}
	for _, record := range publicDrops {
		state := s.state(identity.Address(record.Tenant))
		state.publicDrop = PublicDropConfig{
			MintPrice:             record.MintPrice,
			MaxMintablePerWallet:  record.MaxMintablePerWallet,
			StartTimeSeconds:      record.StartTimeSeconds,
			EndTimeSeconds:        record.EndTimeSeconds,
			FeeBps:                record.FeeBps,
			RestrictFeeRecipients: record.RestrictFeeRecipients,
		}
		state.publicDropSet = true
	}

	var allowLists []AllowListRecord
	if err := s.db.Find(&allowLists).Error; err != nil {
		return newStoreError(opLoadPersistedState, "allow_lists_query_failed", err)
	}
	for _, record := range allowLists {
		state := s.state(identity.Address(record.Tenant))
		state.allowList = AllowListDescriptor{
			MerkleRoot:        MerkleRoot(record.MerkleRoot),
			URI:               record.URI,
			PublicKeyURICount: record.PublicKeyURICount,
		}
		state.allowListSet = true
	}

	var metas []TenantMetaRecord
	if err := s.db.Find(&metas).Error; err != nil {
		return newStoreError(opLoadPersistedState, "tenant_meta_query_failed", err)
	}
	for _, record := range metas {
		state := s.state(identity.Address(record.Tenant))
		state.creatorPayout = identity.Address(record.CreatorPayout)
		state.creatorPayoutSet = record.CreatorPayoutSet
		state.dropURI = record.DropURI
		state.dropURISet = record.DropURISet
	}

	var stages []GatedStageRecord
	if err := s.db.Find(&stages).Error; err != nil {
		return newStoreError(opLoadPersistedState, "gated_stages_query_failed", err)
	}
	for _, record := range stages {
		state := s.state(identity.Address(record.Tenant))
		gatingToken := identity.Address(record.GatingToken)
		state.stages[gatingToken] = TokenGatedDropStage{
			MintPrice:             record.MintPrice,
			MaxMintablePerWallet:  record.MaxMintablePerWallet,
			StartTimeSeconds:      record.StartTimeSeconds,
			EndTimeSeconds:        record.EndTimeSeconds,
			FeeBps:                record.FeeBps,
			RestrictFeeRecipients: record.RestrictFeeRecipients,
		}
		state.gatedTokens.Insert(gatingToken)
	}

	var signerRecords []SignerParamsRecord
	if err := s.db.Find(&signerRecords).Error; err != nil {
		return newStoreError(opLoadPersistedState, "signer_params_query_failed", err)
	}
	for _, record := range signerRecords {
		state := s.state(identity.Address(record.Tenant))
		signer := identity.Address(record.Signer)
		state.signerParams[signer] = SignedMintValidationParams{
			MinMintPrice:            record.MinMintPrice,
			MaxMaxMintablePerWallet: record.MaxMaxMintablePerWallet,
			MinStartTimeSeconds:     record.MinStartTimeSeconds,
			MaxEndTimeSeconds:       record.MaxEndTimeSeconds,
			MinFeeBps:               record.MinFeeBps,
			MaxFeeBps:               record.MaxFeeBps,
		}
		state.signers.Insert(signer)
	}

	var members []SetMemberRecord
	if err := s.db.Find(&members).Error; err != nil {
		return newStoreError(opLoadPersistedState, "set_members_query_failed", err)
	}
	for _, record := range members {
		state := s.state(identity.Address(record.Tenant))
		switch record.Kind {
		case setKindFeeRecipient:
			state.feeRecipients.Insert(identity.Address(record.Member))
		case setKindPayer:
			state.payers.Insert(identity.Address(record.Member))
		default:
			s.logger.Warn("skipping unknown set member kind",
				zap.String("tenant", record.Tenant),
				zap.String("kind", record.Kind))
		}
	}

	return nil
}

func (s *Store) logError(operation, reason string, err error, tenant identity.Address) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
		zap.String("tenant", tenant.String()),
	}
	if err != nil {
		attrs = append(attrs, zap.Error(err))
	}
	s.logger.Error("drop store error", attrs...)
}
