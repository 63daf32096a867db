package database

import (
	"fmt"

	sqlite "github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rofergon/seadrop/internal/collection"
	"github.com/rofergon/seadrop/internal/drop"
)

// OpenSQLite establishes a SQLite connection and performs schema migrations.
func OpenSQLite(path string, logger *zap.Logger) (*gorm.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(registrySchema()...); err != nil {
		return nil, err
	}

	if err := applyMigrations(db, logger); err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Info("database initialized", zap.String("path", path))
	}

	return db, nil
}

// registrySchema lists every persisted model. Columns within each model are
// append-only so replaced logic keeps reading the layout its predecessor
// wrote.
func registrySchema() []any {
	return []any{
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
		&migrationRecord{},
	}
}
