package gorm

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// runMigrations runs all database migrations using gormigrate.
func runMigrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		// Migration 001: Core tables (Client, Interaction)
		{
			ID: "001_core_tables",
			Migrate: func(tx *gorm.DB) error {
				// AutoMigrate creates tables with all indexes from struct tags
				if err := tx.AutoMigrate(&Client{}); err != nil {
					return err
				}
				return tx.AutoMigrate(&Interaction{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("interactions", "clients")
			},
		},

		// Migration 002: Trigram indexes for text search
		{
			ID: "002_search_indexes",
			Migrate: func(tx *gorm.DB) error {
				sqls := []string{
					`CREATE EXTENSION IF NOT EXISTS pg_trgm`,
					`CREATE INDEX IF NOT EXISTS idx_clients_name_trgm
						ON clients USING gin (lower(name) gin_trgm_ops)`,
					`CREATE INDEX IF NOT EXISTS idx_clients_company_trgm
						ON clients USING gin (lower(company) gin_trgm_ops)`,
					`CREATE INDEX IF NOT EXISTS idx_interactions_subject_trgm
						ON interactions USING gin (lower(subject) gin_trgm_ops)`,
				}
				for _, s := range sqls {
					if err := tx.Exec(s).Error; err != nil {
						return err
					}
				}
				return nil
			},
			Rollback: func(tx *gorm.DB) error {
				sqls := []string{
					`DROP INDEX IF EXISTS idx_interactions_subject_trgm`,
					`DROP INDEX IF EXISTS idx_clients_company_trgm`,
					`DROP INDEX IF EXISTS idx_clients_name_trgm`,
				}
				for _, s := range sqls {
					if err := tx.Exec(s).Error; err != nil {
						return err
					}
				}
				return nil
			},
		},
	})

	return m.Migrate()
}
