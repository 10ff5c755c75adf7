package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yukikurage/tenant-task-api/internal/models"
	"github.com/yukikurage/tenant-task-api/internal/testutil"
)

type countingFailures struct{ n int }

func (c *countingFailures) IncAuditFailure() { c.n++ }

func TestRecorder_Record(t *testing.T) {
	db := testutil.NewDB(t)
	tenant := testutil.CreateTenant(t, db, "acme")
	rec := NewRecorder(db, zap.NewNop(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	rec.Record(ctx, Entry{
		TenantID:   &tenant.ID,
		UserID:     "user-1",
		Action:     ActionCreateProject,
		EntityType: EntityProject,
		EntityID:   "project-1",
		IPAddress:  "10.0.0.1",
	})
	// the write must survive the end of the request
	cancel()
	rec.Flush()

	var logs []models.AuditLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, ActionCreateProject, logs[0].Action)
	assert.Equal(t, tenant.ID, *logs[0].TenantID)
	assert.Equal(t, "user-1", *logs[0].UserID)
	assert.Equal(t, "10.0.0.1", logs[0].IPAddress)
}

func TestRecorder_RecordSwallowsStorageFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO "audit_logs"`).WillReturnError(errors.New("connection refused"))

	core, observed := observer.New(zapcore.ErrorLevel)
	failures := &countingFailures{}
	rec := NewRecorder(db, zap.New(core), failures)

	assert.NotPanics(t, func() {
		rec.Record(context.Background(), Entry{UserID: "user-1", Action: ActionDeleteTask, EntityType: EntityTask, EntityID: "task-1"})
		rec.Flush()
	})

	assert.Equal(t, 1, failures.n)
	entries := observed.FilterMessage("Failed to write audit log").All()
	require.Len(t, entries, 1)
	assert.Equal(t, ActionDeleteTask, entries[0].ContextMap()["action"])
}

func TestRecorder_RecordTxRollsBackWithBusinessChange(t *testing.T) {
	db := testutil.NewDB(t)
	tenant := testutil.CreateTenant(t, db, "acme")
	rec := NewRecorder(db, zap.NewNop(), nil)

	errBusiness := errors.New("business failure")
	err := db.Transaction(func(tx *gorm.DB) error {
		rec.RecordTx(tx, Entry{TenantID: &tenant.ID, UserID: "user-1", Action: ActionDeleteUser, EntityType: EntityUser, EntityID: "user-2"})
		return errBusiness
	})
	require.ErrorIs(t, err, errBusiness)

	var count int64
	require.NoError(t, db.Model(&models.AuditLog{}).Count(&count).Error)
	assert.Zero(t, count)

	err = db.Transaction(func(tx *gorm.DB) error {
		rec.RecordTx(tx, Entry{TenantID: &tenant.ID, UserID: "user-1", Action: ActionDeleteUser, EntityType: EntityUser, EntityID: "user-2"})
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.AuditLog{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRecorder_RecordTxFailureKeepsBusinessChange(t *testing.T) {
	db := testutil.NewDB(t)
	require.NoError(t, db.Migrator().DropTable(&models.AuditLog{}))

	failures := &countingFailures{}
	rec := NewRecorder(db, zap.NewNop(), failures)

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models.Tenant{Name: "Acme", Subdomain: "acme", MaxUsers: 5, MaxProjects: 3}).Error; err != nil {
			return err
		}
		rec.RecordTx(tx, Entry{UserID: "user-1", Action: ActionRegisterTenant, EntityType: EntityTenant})
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, failures.n)

	var count int64
	require.NoError(t, db.Model(&models.Tenant{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
