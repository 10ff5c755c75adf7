package audit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukikurage/tenant-task-api/internal/constants"
	"github.com/yukikurage/tenant-task-api/internal/models"
)

// Actions
const (
	ActionRegisterTenant     = "REGISTER_TENANT"
	ActionLogin              = "LOGIN"
	ActionLogout             = "LOGOUT"
	ActionCreateProject      = "CREATE_PROJECT"
	ActionUpdateProject      = "UPDATE_PROJECT"
	ActionDeleteProject      = "DELETE_PROJECT"
	ActionCreateTask         = "CREATE_TASK"
	ActionUpdateTask         = "UPDATE_TASK"
	ActionUpdateTaskStatus   = "UPDATE_TASK_STATUS"
	ActionDeleteTask         = "DELETE_TASK"
	ActionCreateUser         = "CREATE_USER"
	ActionUpdateUser         = "UPDATE_USER"
	ActionDeleteUser         = "DELETE_USER"
	ActionUpdateTenant       = "UPDATE_TENANT"
	ActionUpdateTenantStatus = "UPDATE_TENANT_STATUS"
)

// Entity types
const (
	EntityTenant  = "tenant"
	EntityUser    = "user"
	EntityProject = "project"
	EntityTask    = "task"
)

const savepointName = "audit_log"

// Entry is one observed state change.
type Entry struct {
	TenantID   *string
	UserID     string
	Action     string
	EntityType string
	EntityID   string
	IPAddress  string
}

func (e Entry) row() *models.AuditLog {
	row := &models.AuditLog{
		TenantID:   e.TenantID,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		IPAddress:  e.IPAddress,
	}
	if e.UserID != "" {
		userID := e.UserID
		row.UserID = &userID
	}
	return row
}

// FailureRecorder counts lost audit records; implemented by *metrics.Metrics.
type FailureRecorder interface {
	IncAuditFailure()
}

// Recorder appends audit records. None of its methods report errors to the
// caller: a failed write is logged and counted, and the business operation
// carries on.
type Recorder struct {
	db       *gorm.DB
	log      *zap.Logger
	failures FailureRecorder
	timeout  time.Duration

	wg sync.WaitGroup
}

// NewRecorder creates a Recorder; failures may be nil.
func NewRecorder(db *gorm.DB, log *zap.Logger, failures FailureRecorder) *Recorder {
	return &Recorder{
		db:       db,
		log:      log,
		failures: failures,
		timeout:  constants.AuditWriteTimeout,
	}
}

// Record writes the entry in the background on its own connection.
// The write outlives the request context but is bounded by its own timeout.
func (r *Recorder) Record(ctx context.Context, e Entry) {
	detached := context.WithoutCancel(ctx)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if p := recover(); p != nil {
				r.fail(e, fmt.Errorf("panic: %v", p))
			}
		}()

		writeCtx, cancel := context.WithTimeout(detached, r.timeout)
		defer cancel()

		if err := r.db.WithContext(writeCtx).Create(e.row()).Error; err != nil {
			r.fail(e, err)
		}
	}()
}

// RecordTx writes the entry inside tx so it commits or rolls back with the
// surrounding business change. The insert runs behind a savepoint; if it
// fails, only the audit row is undone.
func (r *Recorder) RecordTx(tx *gorm.DB, e Entry) {
	defer func() {
		if p := recover(); p != nil {
			r.fail(e, fmt.Errorf("panic: %v", p))
		}
	}()

	if err := tx.SavePoint(savepointName).Error; err != nil {
		r.fail(e, fmt.Errorf("savepoint: %w", err))
		return
	}

	if err := tx.Create(e.row()).Error; err != nil {
		if rbErr := tx.RollbackTo(savepointName).Error; rbErr != nil {
			err = fmt.Errorf("%w (rollback to savepoint: %v)", err, rbErr)
		}
		r.fail(e, err)
	}
}

// Flush blocks until background writes have finished.
func (r *Recorder) Flush() {
	r.wg.Wait()
}

func (r *Recorder) fail(e Entry, err error) {
	if r.failures != nil {
		r.failures.IncAuditFailure()
	}
	r.log.Error("Failed to write audit log",
		zap.String("action", e.Action),
		zap.String("entity_type", e.EntityType),
		zap.String("entity_id", e.EntityID),
		zap.String("user_id", e.UserID),
		zap.Error(err),
	)
}
