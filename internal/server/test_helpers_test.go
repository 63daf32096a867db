package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rofergon/seadrop/internal/auth"
	"github.com/rofergon/seadrop/internal/collection"
	"github.com/rofergon/seadrop/internal/drop"
	"github.com/rofergon/seadrop/internal/identity"
)

const (
	testCollectionIdentity = "0xc000000000000000000000000000000000000001"
	testOwnerIdentity      = "0xa000000000000000000000000000000000000001"
	testDelegateIdentity   = "0xd000000000000000000000000000000000000001"
	testStrangerIdentity   = "0xe000000000000000000000000000000000000001"
	testRecipientIdentity  = "0xf000000000000000000000000000000000000001"
	testSigningSecret      = "server-test-secret"
)

func init() {
	gin.SetMode(gin.TestMode)
}

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
	dsn := fmt.Sprintf("file:server_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
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
		&collection.StateRecord{},
		&collection.BalanceRecord{},
		&collection.DelegateRecord{},
	); err != nil {
		t.Fatalf("unexpected migration error: %v", err)
	}
	return db
}

type serverFixture struct {
	handler http.Handler
	issuer  *auth.TokenIssuer
	store   *drop.Store
	manager *collection.Manager
	events  *EventDispatcher
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()
	db := openTestDatabase(t)
	store, err := drop.NewStore(drop.StoreConfig{
		Database:   db,
		IDProvider: drop.NewUUIDProvider(),
	})
	if err != nil {
		t.Fatalf("unexpected store error: %v", err)
	}
	manager, err := collection.NewManager(collection.ManagerConfig{
		Database:     db,
		Store:        store,
		LogicVersion: "v1",
	})
	if err != nil {
		t.Fatalf("unexpected manager error: %v", err)
	}
	issuer := auth.NewTokenIssuer(auth.TokenIssuerConfig{
		SigningSecret: []byte(testSigningSecret),
		Issuer:        "seadrop-test",
		Audience:      "seadrop-test",
	})
	events := NewEventDispatcher()
	handler, err := NewHTTPHandler(Dependencies{
		TokenManager: issuer,
		Manager:      manager,
		Store:        store,
		Events:       events,
	})
	if err != nil {
		t.Fatalf("unexpected handler error: %v", err)
	}
	return &serverFixture{
		handler: handler,
		issuer:  issuer,
		store:   store,
		manager: manager,
		events:  events,
	}
}

func (f *serverFixture) tokenFor(t *testing.T, caller string) string {
	t.Helper()
	token, _, err := f.issuer.IssueCallerToken(context.Background(), mustAddress(t, caller))
	if err != nil {
		t.Fatalf("unexpected token error: %v", err)
	}
	return token
}

func (f *serverFixture) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("unexpected encode error: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	request := httptest.NewRequest(method, path, reader)
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	f.handler.ServeHTTP(recorder, request)
	return recorder
}

func (f *serverFixture) createCollection(t *testing.T, ownerToken string) {
	t.Helper()
	recorder := f.request(t, http.MethodPost, "/collections", ownerToken, map[string]any{
		"address": testCollectionIdentity,
		"name":    "Sea Creatures",
		"symbol":  "SEA",
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", recorder.Code, recorder.Body.String())
	}
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	decoded := map[string]any{}
	if err := json.Unmarshal(recorder.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	return decoded
}
