package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukikurage/tenant-task-api/internal/models"
)

// Models lists every table owned by the service, parents first.
func Models() []interface{} {
	return []interface{}{
		&models.Tenant{},
		&models.User{},
		&models.Project{},
		&models.Task{},
		&models.AuditLog{},
	}
}

// Migrate creates or updates the schema and its secondary indexes.
func Migrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("Running database migrations")
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := AddIndexes(db, log); err != nil {
		return err
	}
	log.Info("Database migrations completed")
	return nil
}

// AddIndexes adds the composite indexes used by scoped list queries.
func AddIndexes(db *gorm.DB, log *zap.Logger) error {
	indexes := []struct {
		model   interface{}
		name    string
		table   string
		columns string
	}{
		{&models.Project{}, "idx_projects_tenant_created", "projects", "tenant_id, created_at"},
		{&models.Task{}, "idx_tasks_project_created", "tasks", "project_id, created_at"},
		{&models.Task{}, "idx_tasks_tenant_status", "tasks", "tenant_id, status"},
		{&models.User{}, "idx_users_tenant_role", "users", "tenant_id, role"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
		log.Debug("Created index", zap.String("index", idx.name), zap.String("table", idx.table))
	}

	return nil
}
