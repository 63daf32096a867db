package collection

import (
	"context"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/rofergon/seadrop/internal/drop"
	"github.com/rofergon/seadrop/internal/identity"
)

const (
	collectionIdentity = "0xc000000000000000000000000000000000000001"
	ownerIdentity      = "0xa000000000000000000000000000000000000001"
	delegateIdentity   = "0xd000000000000000000000000000000000000001"
	strangerIdentity   = "0xe000000000000000000000000000000000000001"
	recipientIdentity  = "0xf000000000000000000000000000000000000001"
)

func mustAddress(t *testing.T, raw string) identity.Address {
	t.Helper()
	address, err := identity.NewAddress(raw)
	if err != nil {
		t.Fatalf("unexpected address error: %v", err)
	}
	return address
}

func openTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:collection_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	return openDatabaseAt(t, dsn)
}

func openDatabaseAt(t *testing.T, dsn string) *gorm.DB {
	t.Helper()
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
		&drop.PublicDropRecord{},
		&drop.AllowListRecord{},
		&drop.TenantMetaRecord{},
		&drop.GatedStageRecord{},
		&drop.SignerParamsRecord{},
		&drop.SetMemberRecord{},
		&drop.ChangeRecord{},
		&StateRecord{},
		&BalanceRecord{},
		&DelegateRecord{},
	); err != nil {
		t.Fatalf("unexpected migration error: %v", err)
	}
	return db
}

func newTestStore(t *testing.T, db *gorm.DB) *drop.Store {
	t.Helper()
	store, err := drop.NewStore(drop.StoreConfig{
		Database:   db,
		IDProvider: drop.NewUUIDProvider(),
	})
	if err != nil {
		t.Fatalf("unexpected store error: %v", err)
	}
	return store
}

type testFixture struct {
	db         *gorm.DB
	store      *drop.Store
	collection *Collection
	owner      identity.Address
	delegate   identity.Address
}

func newTestCollection(t *testing.T) *testFixture {
	t.Helper()
	db := openTestDatabase(t)
	store := newTestStore(t, db)
	owner := mustAddress(t, ownerIdentity)
	opened, err := New(Config{
		Database:     db,
		Store:        store,
		Identity:     mustAddress(t, collectionIdentity),
		Owner:        owner,
		Name:         "Sea Creatures",
		Symbol:       "SEA",
		LogicVersion: "v1",
	})
	if err != nil {
		t.Fatalf("unexpected collection error: %v", err)
	}

	delegate := mustAddress(t, delegateIdentity)
	if err := opened.SetAllowedDelegate(context.Background(), owner, delegate, true); err != nil {
		t.Fatalf("unexpected delegate grant error: %v", err)
	}

	return &testFixture{
		db:         db,
		store:      store,
		collection: opened,
		owner:      owner,
		delegate:   delegate,
	}
}
