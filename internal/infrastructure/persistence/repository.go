package persistence

import (
	"errors"
	"fmt"
	"strings"

	"github.com/erp/tilestock/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// newOptimisticLockError reports a row that changed between load and save
func newOptimisticLockError(entity string) *shared.DomainError {
	return shared.NewDomainError("OPTIMISTIC_LOCK_FAILED", fmt.Sprintf("%s was modified by another transaction", entity))
}

// saveVersioned inserts the aggregate row when it does not exist yet. Otherwise the
// row is updated only if its stored version still equals the aggregate's version,
// and the version is bumped. Associations are never written here.
func saveVersioned(db *gorm.DB, table, entity string, model shared.Versioned) error {
	var versions []int
	if err := db.Table(table).Where("id = ?", model.GetID()).Pluck("version", &versions).Error; err != nil {
		return err
	}

	if len(versions) == 0 {
		return db.Select("*").Omit(clause.Associations).Create(model).Error
	}

	current := versions[0]
	if current != model.GetVersion() {
		return newOptimisticLockError(entity)
	}

	model.IncrementVersion()
	result := db.Model(model).
		Where("version = ?", current).
		Select("*").
		Omit(clause.Associations, "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return newOptimisticLockError(entity)
	}
	return nil
}

// findOne runs a single-row query and maps a missing row to shared.ErrNotFound
func findOne(query *gorm.DB, dest any, conds ...any) error {
	if err := query.First(dest, conds...).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.ErrNotFound
		}
		return err
	}
	return nil
}

// exists reports whether any row of model matches the condition
func exists(db *gorm.DB, model any, query string, args ...any) (bool, error) {
	var count int64
	if err := db.Model(model).Where(query, args...).Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// deleteByID removes a row by primary key; a missing row is shared.ErrNotFound
func deleteByID(db *gorm.DB, model any, id uuid.UUID) error {
	result := db.Delete(model, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// paginate counts the filtered query, then applies ordering and paging to it.
// The sort field is checked against the whitelist before it reaches SQL.
func paginate(query *gorm.DB, filter shared.Filter, allowed SortFields, defaultField string) (*gorm.DB, int64, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order(orderClause(filter.OrderBy, filter.OrderDir, allowed, defaultField))

	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query, total, nil
}

// likePattern wraps a lower-cased search term for a contains match
func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}
