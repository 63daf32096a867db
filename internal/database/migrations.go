package database

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const migrationBackfillTenantMetaPresence = "2026-07-21_backfill_tenant_meta_presence_flags"

type migrationRecord struct {
	Name             string `gorm:"column:name;primaryKey;size:190;not null"`
	AppliedAtSeconds int64  `gorm:"column:applied_at_s;not null"`
}

func (migrationRecord) TableName() string {
	return "db_migrations"
}

type migrationDefinition struct {
	name  string
	apply func(*gorm.DB) error
}

func applyMigrations(db *gorm.DB, logger *zap.Logger) error {
	migrations := []migrationDefinition{
		{name: migrationBackfillTenantMetaPresence, apply: backfillTenantMetaPresence},
	}

	for _, migration := range migrations {
		var record migrationRecord
		err := db.Where("name = ?", migration.name).Take(&record).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := migration.apply(db); err != nil {
			return err
		}
		appliedAt := time.Now().UTC().Unix()
		if err := db.Create(&migrationRecord{Name: migration.name, AppliedAtSeconds: appliedAt}).Error; err != nil {
			return err
		}
		if logger != nil {
			logger.Info("database migration applied", zap.String("migration", migration.name))
		}
	}
	return nil
}

// backfillTenantMetaPresence repairs rows written before presence flags
// existed, when a non-empty value was the only signal that a resource had been
// configured.
func backfillTenantMetaPresence(db *gorm.DB) error {
	if err := db.Exec("UPDATE drop_tenant_meta SET creator_payout_set = 1 WHERE creator_payout <> '' AND creator_payout_set = 0;").Error; err != nil {
		return err
	}
	return db.Exec("UPDATE drop_tenant_meta SET drop_uri_set = 1 WHERE drop_uri <> '' AND drop_uri_set = 0;").Error
}
