package collection

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rofergon/seadrop/internal/authz"
	"github.com/rofergon/seadrop/internal/drop"
)

func TestMintRequiresAllowedDelegate(t *testing.T) {
	fixture := newTestCollection(t)
	ctx := context.Background()
	stranger := mustAddress(t, strangerIdentity)
	recipient := mustAddress(t, recipientIdentity)

	err := fixture.collection.Mint(ctx, stranger, recipient, 1)
	if !errors.Is(err, authz.ErrDelegateNotAllowed) {
		t.Fatalf("expected ErrDelegateNotAllowed, got %v", err)
	}
	if fixture.collection.TotalMinted() != 0 {
		t.Fatalf("rejected mint must not change total minted")
	}
	if fixture.collection.BalanceOf(recipient) != 0 {
		t.Fatalf("rejected mint must not credit the recipient")
	}
}

func TestOwnerCannotMintWithoutDelegateGrant(t *testing.T) {
	fixture := newTestCollection(t)

	err := fixture.collection.Mint(context.Background(), fixture.owner, mustAddress(t, recipientIdentity), 1)
	if !errors.Is(err, authz.ErrDelegateNotAllowed) {
		t.Fatalf("owner identity is not implicitly a delegate, got %v", err)
	}
}

func TestMintCreditsRecipientAndTotal(t *testing.T) {
	fixture := newTestCollection(t)
	ctx := context.Background()
	recipient := mustAddress(t, recipientIdentity)

	if err := fixture.collection.Mint(ctx, fixture.delegate, recipient, 2); err != nil {
		t.Fatalf("unexpected mint error: %v", err)
	}
	if fixture.collection.TotalMinted() != 2 {
		t.Fatalf("expected total minted 2, got %d", fixture.collection.TotalMinted())
	}
	if fixture.collection.BalanceOf(recipient) != 2 {
		t.Fatalf("expected recipient balance 2, got %d", fixture.collection.BalanceOf(recipient))
	}
}

func TestMintEnforcesSupplyBound(t *testing.T) {
	fixture := newTestCollection(t)
	ctx := context.Background()
	recipient := mustAddress(t, recipientIdentity)

	if err := fixture.collection.SetMaxSupply(ctx, fixture.owner, LimitedSupply(5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := fixture.collection.Mint(ctx, fixture.delegate, recipient, 4); err != nil {
		t.Fatalf("unexpected mint error: %v", err)
	}

	err := fixture.collection.Mint(ctx, fixture.delegate, recipient, 2)
	if !errors.Is(err, authz.ErrSupplyExceeded) {
		t.Fatalf("expected ErrSupplyExceeded, got %v", err)
	}
	if fixture.collection.TotalMinted() != 4 {
		t.Fatalf("failed mint must not change total minted, got %d", fixture.collection.TotalMinted())
	}

	if err := fixture.collection.Mint(ctx, fixture.delegate, recipient, 1); err != nil {
		t.Fatalf("mint up to the cap must succeed: %v", err)
	}
}

func TestZeroCapIsNotUnlimited(t *testing.T) {
	fixture := newTestCollection(t)
	ctx := context.Background()

	if err := fixture.collection.SetMaxSupply(ctx, fixture.owner, LimitedSupply(0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := fixture.collection.Mint(ctx, fixture.delegate, mustAddress(t, recipientIdentity), 1)
	if !errors.Is(err, authz.ErrSupplyExceeded) {
		t.Fatalf("cap of zero must reject every mint, got %v", err)
	}

	if err := fixture.collection.SetMaxSupply(ctx, fixture.owner, UnlimitedSupply()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := fixture.collection.Mint(ctx, fixture.delegate, mustAddress(t, recipientIdentity), 1); err != nil {
		t.Fatalf("unlimited supply must allow minting: %v", err)
	}
}

func TestConfigSettersRequireOwner(t *testing.T) {
	fixture := newTestCollection(t)
	ctx := context.Background()
	stranger := mustAddress(t, strangerIdentity)

	err := fixture.collection.SetBaseURI(ctx, stranger, "ipfs://intruder/")
	if !errors.Is(err, authz.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if fixture.collection.BaseURI() != "" {
		t.Fatalf("rejected setter must leave state unchanged, got %q", fixture.collection.BaseURI())
	}

	if err := fixture.collection.SetBaseURI(ctx, fixture.owner, "ipfs://base/"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fixture.collection.BaseURI() != "ipfs://base/" {
		t.Fatalf("expected base uri to update, got %q", fixture.collection.BaseURI())
	}
}

func TestForwardedUpdatesReachStoreUnderOwnIdentity(t *testing.T) {
	fixture := newTestCollection(t)
	ctx := context.Background()

	config := drop.PublicDropConfig{
		MintPrice:            100_000_000_000_000_000,
		MaxMintablePerWallet: 10,
		FeeBps:               1000,
	}
	if err := fixture.collection.UpdatePublicDrop(ctx, fixture.owner, config); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, ok := fixture.store.PublicDrop(fixture.collection.Identity())
	if !ok {
		t.Fatalf("expected forwarded config to be stored")
	}
	if stored.MintPrice != config.MintPrice || stored.MaxMintablePerWallet != 10 || stored.FeeBps != 1000 {
		t.Fatalf("stored config mismatch: %+v", stored)
	}
}

func TestForwardedUpdateRejectionLeavesStoreUnchanged(t *testing.T) {
	fixture := newTestCollection(t)
	ctx := context.Background()

	before := drop.PublicDropConfig{MintPrice: 7, MaxMintablePerWallet: 1}
	if err := fixture.collection.UpdatePublicDrop(ctx, fixture.owner, before); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := fixture.collection.UpdatePublicDrop(ctx, mustAddress(t, strangerIdentity), drop.PublicDropConfig{MintPrice: 999})
	if !errors.Is(err, authz.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	stored, _ := fixture.store.PublicDrop(fixture.collection.Identity())
	if stored != before {
		t.Fatalf("rejected forward must leave stored config unchanged: %+v", stored)
	}
}

func TestAllForwardersEnforceOwnerGate(t *testing.T) {
	fixture := newTestCollection(t)
	ctx := context.Background()
	stranger := mustAddress(t, strangerIdentity)
	member := mustAddress(t, recipientIdentity)

	calls := []struct {
		name string
		call func() error
	}{
		{"creator payout", func() error { return fixture.collection.UpdateCreatorPayout(ctx, stranger, member) }},
		{"fee recipient", func() error { return fixture.collection.UpdateAllowedFeeRecipient(ctx, stranger, member, true) }},
		{"allow list", func() error { return fixture.collection.UpdateAllowList(ctx, stranger, drop.AllowListDescriptor{URI: "x"}) }},
		{"token gated drop", func() error {
			return fixture.collection.UpdateTokenGatedDrop(ctx, stranger, member, drop.TokenGatedDropStage{MaxMintablePerWallet: 1})
		}},
		{"signer params", func() error {
			return fixture.collection.UpdateSignedMintValidationParams(ctx, stranger, member, drop.SignedMintValidationParams{})
		}},
		{"payer", func() error { return fixture.collection.UpdatePayer(ctx, stranger, member, true) }},
		{"drop uri", func() error { return fixture.collection.UpdateDropURI(ctx, stranger, "ipfs://x") }},
		{"contract uri", func() error { return fixture.collection.SetContractURI(ctx, stranger, "ipfs://x") }},
		{"max supply", func() error { return fixture.collection.SetMaxSupply(ctx, stranger, LimitedSupply(1)) }},
		{"delegate", func() error { return fixture.collection.SetAllowedDelegate(ctx, stranger, member, true) }},
	}

	for _, tc := range calls {
		if err := tc.call(); !errors.Is(err, authz.ErrUnauthorized) {
			t.Fatalf("%s: expected ErrUnauthorized, got %v", tc.name, err)
		}
	}
}

func TestReopenWithNewLogicVersionPreservesState(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "seadrop.db")
	db := openDatabaseAt(t, databasePath)
	store := newTestStore(t, db)
	ctx := context.Background()
	owner := mustAddress(t, ownerIdentity)
	delegate := mustAddress(t, delegateIdentity)
	recipient := mustAddress(t, recipientIdentity)

	first, err := New(Config{
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
	if err := first.SetBaseURI(ctx, owner, "ipfs://base/"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := first.SetContractURI(ctx, owner, "ipfs://contract.json"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := first.SetMaxSupply(ctx, owner, LimitedSupply(10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := first.SetAllowedDelegate(ctx, owner, delegate, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := New(Config{
		Database:     db,
		Store:        store,
		Identity:     mustAddress(t, collectionIdentity),
		LogicVersion: "v2",
	})
	if err != nil {
		t.Fatalf("unexpected reopen error: %v", err)
	}

	if second.LogicVersion() != "v2" {
		t.Fatalf("expected bumped logic version, got %s", second.LogicVersion())
	}
	if second.BaseURI() != "ipfs://base/" {
		t.Fatalf("base uri lost across upgrade: %q", second.BaseURI())
	}
	if second.ContractURI() != "ipfs://contract.json" {
		t.Fatalf("contract uri lost across upgrade: %q", second.ContractURI())
	}
	if supply := second.MaxSupply(); !supply.Limited || supply.Cap != 10 {
		t.Fatalf("max supply lost across upgrade: %+v", supply)
	}
	if second.Name() != "Sea Creatures" || second.Symbol() != "SEA" {
		t.Fatalf("name/symbol lost across upgrade: %s/%s", second.Name(), second.Symbol())
	}
	if second.Owner() != owner {
		t.Fatalf("owner lost across upgrade: %s", second.Owner())
	}

	if err := second.Mint(ctx, delegate, recipient, 1); err != nil {
		t.Fatalf("replaced logic must keep mutating the same storage: %v", err)
	}
	if second.TotalMinted() != 1 {
		t.Fatalf("expected total minted 1 after upgrade, got %d", second.TotalMinted())
	}
}

func TestMaxSupplyAllows(t *testing.T) {
	tests := []struct {
		name     string
		supply   MaxSupply
		total    uint64
		quantity uint64
		want     bool
	}{
		{name: "unlimited", supply: UnlimitedSupply(), total: 1 << 60, quantity: 1 << 60, want: true},
		{name: "within cap", supply: LimitedSupply(10), total: 8, quantity: 2, want: true},
		{name: "over cap", supply: LimitedSupply(10), total: 8, quantity: 3, want: false},
		{name: "zero cap", supply: LimitedSupply(0), total: 0, quantity: 1, want: false},
		{name: "quantity exceeds cap alone", supply: LimitedSupply(5), total: 0, quantity: 6, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.supply.Allows(tc.total, tc.quantity); got != tc.want {
				t.Fatalf("Allows(%d, %d) = %v, want %v", tc.total, tc.quantity, got, tc.want)
			}
		})
	}
}
