package drop

import (
	"errors"
	"fmt"
	"strings"
)

const merkleRootHexLength = 64

// ErrInvalidMerkleRoot indicates that a raw value is not a well formed
// 32-byte hex digest.
var ErrInvalidMerkleRoot = errors.New("drop: invalid merkle root")

// MerkleRoot is a validated hex-encoded 32-byte allow-list digest. The empty
// value means "no allow list".
type MerkleRoot string

// NewMerkleRoot validates raw input and returns a canonical MerkleRoot.
func NewMerkleRoot(rawInput string) (MerkleRoot, error) {
	trimmed := strings.TrimSpace(rawInput)
	if trimmed == "" {
		return "", nil
	}
	if !strings.HasPrefix(strings.ToLower(trimmed), "0x") {
		return "", fmt.Errorf("%w: missing 0x prefix", ErrInvalidMerkleRoot)
	}
	digits := trimmed[2:]
	if len(digits) != merkleRootHexLength {
		return "", fmt.Errorf("%w: expected %d hex digits, got %d", ErrInvalidMerkleRoot, merkleRootHexLength, len(digits))
	}
	for _, r := range digits {
		isHex := (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
		if !isHex {
			return "", fmt.Errorf("%w: non-hex digit %q", ErrInvalidMerkleRoot, r)
		}
	}
	return MerkleRoot(strings.ToLower(trimmed)), nil
}

// String returns the canonical hex form.
func (r MerkleRoot) String() string {
	return string(r)
}

// PublicDropConfig holds a tenant's public drop stage parameters. Updates
// replace the whole value; there is no partial patch.
type PublicDropConfig struct {
	MintPrice             uint64
	MaxMintablePerWallet  uint32
	StartTimeSeconds      int64
	EndTimeSeconds        int64
	FeeBps                uint16
	RestrictFeeRecipients bool
}

// AllowListDescriptor describes a tenant's allow list. Only the count of
// public-key URIs is retained, not the URIs themselves.
type AllowListDescriptor struct {
	MerkleRoot        MerkleRoot
	URI               string
	PublicKeyURICount int
}

// TokenGatedDropStage holds the drop parameters gated by an external token
// collection. A stage submitted with MaxMintablePerWallet == 0 is a deletion
// request, not a stored value.
type TokenGatedDropStage struct {
	MintPrice             uint64
	MaxMintablePerWallet  uint32
	StartTimeSeconds      int64
	EndTimeSeconds        int64
	FeeBps                uint16
	RestrictFeeRecipients bool
}

// SignedMintValidationParams bounds what a registered signer may authorize.
type SignedMintValidationParams struct {
	MinMintPrice            uint64
	MaxMaxMintablePerWallet uint32
	MinStartTimeSeconds     int64
	MaxEndTimeSeconds       int64
	MinFeeBps               uint16
	MaxFeeBps               uint16
}

// PublicDropRecord is the persisted form of PublicDropConfig.
type PublicDropRecord struct {
	Tenant                string `gorm:"column:tenant;primaryKey;size:64;not null"`
	MintPrice             uint64 `gorm:"column:mint_price;not null"`
	MaxMintablePerWallet  uint32 `gorm:"column:max_mintable_per_wallet;not null"`
	StartTimeSeconds      int64  `gorm:"column:start_time_s;not null"`
	EndTimeSeconds        int64  `gorm:"column:end_time_s;not null"`
	FeeBps                uint16 `gorm:"column:fee_bps;not null"`
	RestrictFeeRecipients bool   `gorm:"column:restrict_fee_recipients;not null;default:false"`
}

// TableName provides the explicit table binding for GORM.
func (PublicDropRecord) TableName() string {
	return "drop_public_configs"
}

// AllowListRecord is the persisted form of AllowListDescriptor.
type AllowListRecord struct {
	Tenant            string `gorm:"column:tenant;primaryKey;size:64;not null"`
	MerkleRoot        string `gorm:"column:merkle_root;size:66;not null;default:''"`
	URI               string `gorm:"column:uri;type:text;not null;default:''"`
	PublicKeyURICount int    `gorm:"column:public_key_uri_count;not null;default:0"`
}

// TableName provides the explicit table binding for GORM.
func (AllowListRecord) TableName() string {
	return "drop_allow_lists"
}

// TenantMetaRecord persists the tenant-scoped scalar resources that are not
// part of a stage: the creator payout address and the drop URI.
type TenantMetaRecord struct {
	Tenant           string `gorm:"column:tenant;primaryKey;size:64;not null"`
	CreatorPayout    string `gorm:"column:creator_payout;size:64;not null;default:''"`
	CreatorPayoutSet bool   `gorm:"column:creator_payout_set;not null;default:false"`
	DropURI          string `gorm:"column:drop_uri;type:text;not null;default:''"`
	DropURISet       bool   `gorm:"column:drop_uri_set;not null;default:false"`
}

// TableName provides the explicit table binding for GORM.
func (TenantMetaRecord) TableName() string {
	return "drop_tenant_meta"
}

// GatedStageRecord is the persisted form of a token-gated stage. Row existence
// is the presence fact; no field doubles as a tombstone.
type GatedStageRecord struct {
	Tenant                string `gorm:"column:tenant;primaryKey;size:64;not null"`
	GatingToken           string `gorm:"column:gating_token;primaryKey;size:64;not null"`
	MintPrice             uint64 `gorm:"column:mint_price;not null"`
	MaxMintablePerWallet  uint32 `gorm:"column:max_mintable_per_wallet;not null"`
	StartTimeSeconds      int64  `gorm:"column:start_time_s;not null"`
	EndTimeSeconds        int64  `gorm:"column:end_time_s;not null"`
	FeeBps                uint16 `gorm:"column:fee_bps;not null"`
	RestrictFeeRecipients bool   `gorm:"column:restrict_fee_recipients;not null;default:false"`
}

// TableName provides the explicit table binding for GORM.
func (GatedStageRecord) TableName() string {
	return "drop_gated_stages"
}

// SignerParamsRecord is the persisted form of SignedMintValidationParams.
type SignerParamsRecord struct {
	Tenant                  string `gorm:"column:tenant;primaryKey;size:64;not null"`
	Signer                  string `gorm:"column:signer;primaryKey;size:64;not null"`
	MinMintPrice            uint64 `gorm:"column:min_mint_price;not null"`
	MaxMaxMintablePerWallet uint32 `gorm:"column:max_max_mintable_per_wallet;not null"`
	MinStartTimeSeconds     int64  `gorm:"column:min_start_time_s;not null"`
	MaxEndTimeSeconds       int64  `gorm:"column:max_end_time_s;not null"`
	MinFeeBps               uint16 `gorm:"column:min_fee_bps;not null"`
	MaxFeeBps               uint16 `gorm:"column:max_fee_bps;not null"`
}

// TableName provides the explicit table binding for GORM.
func (SignerParamsRecord) TableName() string {
	return "drop_signer_params"
}

// SetMemberRecord persists membership of the flag-backed sets (fee recipients
// and payers). Row existence is the allowed flag.
type SetMemberRecord struct {
	Tenant string `gorm:"column:tenant;primaryKey;size:64;not null"`
	Kind   string `gorm:"column:kind;primaryKey;size:32;not null"`
	Member string `gorm:"column:member;primaryKey;size:64;not null"`
}

// TableName provides the explicit table binding for GORM.
func (SetMemberRecord) TableName() string {
	return "drop_set_members"
}

// ChangeRecord captures an append-only audit trail of configuration mutations.
type ChangeRecord struct {
	ChangeID         string `gorm:"column:change_id;primaryKey;size:190;not null"`
	Tenant           string `gorm:"column:tenant;size:64;not null;index:idx_drop_changes_tenant_time,priority:1"`
	Operation        string `gorm:"column:op;size:64;not null"`
	AppliedAtSeconds int64  `gorm:"column:applied_at_s;not null;index:idx_drop_changes_tenant_time,priority:2"`
	PayloadJSON      string `gorm:"column:payload_json;type:text;not null"`
}

// TableName provides the explicit table binding for GORM.
func (ChangeRecord) TableName() string {
	return "drop_config_changes"
}
