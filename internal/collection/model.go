package collection

// MaxSupply is an explicit supply bound. The zero value is unlimited; a
// limited bound with Cap == 0 is a collection that can never mint, which is
// distinct from "no bound configured".
type MaxSupply struct {
	Limited bool
	Cap     uint64
}

// UnlimitedSupply returns the absent bound.
func UnlimitedSupply() MaxSupply {
	return MaxSupply{}
}

// LimitedSupply returns a bound capping total mints at cap.
func LimitedSupply(cap uint64) MaxSupply {
	return MaxSupply{Limited: true, Cap: cap}
}

// Allows reports whether minting quantity on top of total stays within the
// bound.
func (m MaxSupply) Allows(total, quantity uint64) bool {
	if !m.Limited {
		return true
	}
	if quantity > m.Cap {
		return false
	}
	return total <= m.Cap-quantity
}

// StateRecord persists a collection's own configuration. Columns are
// append-only: new fields go after existing ones so a logic replacement reads
// back exactly what the previous logic wrote.
type StateRecord struct {
	Tenant           string `gorm:"column:tenant;primaryKey;size:64;not null"`
	Owner            string `gorm:"column:owner;size:64;not null"`
	Name             string `gorm:"column:name;size:190;not null;default:''"`
	Symbol           string `gorm:"column:symbol;size:32;not null;default:''"`
	BaseURI          string `gorm:"column:base_uri;type:text;not null;default:''"`
	ContractURI      string `gorm:"column:contract_uri;type:text;not null;default:''"`
	SupplyLimited    bool   `gorm:"column:supply_limited;not null;default:false"`
	SupplyCap        uint64 `gorm:"column:supply_cap;not null;default:0"`
	TotalMinted      uint64 `gorm:"column:total_minted;not null;default:0"`
	LogicVersion     string `gorm:"column:logic_version;size:64;not null"`
	CreatedAtSeconds int64  `gorm:"column:created_at_s;not null"`
}

// TableName provides the explicit table binding for GORM.
func (StateRecord) TableName() string {
	return "collection_states"
}

// BalanceRecord persists per-recipient minted counts.
type BalanceRecord struct {
	Tenant string `gorm:"column:tenant;primaryKey;size:64;not null"`
	Holder string `gorm:"column:holder;primaryKey;size:64;not null"`
	Minted uint64 `gorm:"column:minted;not null;default:0"`
}

// TableName provides the explicit table binding for GORM.
func (BalanceRecord) TableName() string {
	return "collection_balances"
}

// DelegateRecord persists membership of a collection's allowed-delegate set.
type DelegateRecord struct {
	Tenant   string `gorm:"column:tenant;primaryKey;size:64;not null"`
	Delegate string `gorm:"column:delegate;primaryKey;size:64;not null"`
}

// TableName provides the explicit table binding for GORM.
func (DelegateRecord) TableName() string {
	return "collection_delegates"
}
