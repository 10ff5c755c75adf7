package database

import (
	"strings"

	"gorm.io/gorm"

	"github.com/yukikurage/tenant-task-api/internal/access"
	"github.com/yukikurage/tenant-task-api/internal/utils"
)

// Paginate applies pagination to a GORM query; unpaged params leave it untouched.
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if params.All {
			return db
		}
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// TenantScoped restricts column to the scope's tenant. An all-tenants scope adds no predicate.
func TenantScoped(scope access.Scope, column string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if tenantID, ok := scope.TenantID(); ok {
			return db.Where(column+" = ?", tenantID)
		}
		return db
	}
}

// Search adds a case-insensitive substring match over the given columns.
// Column names come from code, never from the request.
func Search(term string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(columns) == 0 {
			return db
		}

		pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
		clauses := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, col := range columns {
			clauses[i] = "LOWER(" + col + ") LIKE ? ESCAPE '!'"
			args[i] = pattern
		}
		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}

// Newest orders by creation time, most recent first.
func Newest(column string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(column + " DESC")
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}
