package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// newID assigns a UUID primary key when none was set by the caller.
func newID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// BeforeCreate hooks

func (t *Tenant) BeforeCreate(_ *gorm.DB) error   { newID(&t.ID); return nil }
func (u *User) BeforeCreate(_ *gorm.DB) error     { newID(&u.ID); return nil }
func (p *Project) BeforeCreate(_ *gorm.DB) error  { newID(&p.ID); return nil }
func (t *Task) BeforeCreate(_ *gorm.DB) error     { newID(&t.ID); return nil }
func (a *AuditLog) BeforeCreate(_ *gorm.DB) error { newID(&a.ID); return nil }
