package drop

import (
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/rofergon/seadrop/internal/identity"
)

func mustAddress(t *testing.T, raw string) identity.Address {
	t.Helper()
	address, err := identity.NewAddress(raw)
	if err != nil {
		t.Fatalf("unexpected address error: %v", err)
	}
	return address
}

func mustMerkleRoot(t *testing.T, raw string) MerkleRoot {
	t.Helper()
	root, err := NewMerkleRoot(raw)
	if err != nil {
		t.Fatalf("unexpected merkle root error: %v", err)
	}
	return root
}

func openTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:drop_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("unexpected sqlite error: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unexpected handle error: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := db.AutoMigrate(
		&PublicDropRecord{},
		&AllowListRecord{},
		&TenantMetaRecord{},
		&GatedStageRecord{},
		&SignerParamsRecord{},
		&SetMemberRecord{},
		&ChangeRecord{},
	); err != nil {
		t.Fatalf("unexpected migration error: %v", err)
	}
	return db
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(StoreConfig{
		Database:   openTestDatabase(t),
		IDProvider: NewUUIDProvider(),
	})
	if err != nil {
		t.Fatalf("unexpected store error: %v", err)
	}
	return store
}
