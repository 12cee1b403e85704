package persistence

import (
	"errors"
	"strings"

	"github.com/shopapi/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// sortColumns maps public sort keys to column names for one table.
// Keys outside the map fall back to the default order.
type sortColumns map[string]string

// applyPage adds ORDER BY and LIMIT/OFFSET. A filter with PageSize <= 0
// returns every row.
func applyPage(query *gorm.DB, filter shared.Filter, columns sortColumns, defaultOrder string) *gorm.DB {
	if column, ok := columns[filter.OrderBy]; ok {
		dir := "DESC"
		if strings.EqualFold(filter.OrderDir, "asc") {
			dir = "ASC"
		}
		query = query.Order(column + " " + dir)
		// Stable paging when the sort column has ties
		if column != "id" {
			query = query.Order("id ASC")
		}
	} else {
		query = query.Order(defaultOrder)
	}

	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// likePattern builds a case-insensitive LIKE pattern. It is matched against
// LOWER(column) so the query runs on both PostgreSQL and SQLite.
func likePattern(search string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(strings.ToLower(strings.TrimSpace(search))) + "%"
}

// translateError maps GORM errors onto domain errors
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	default:
		return err
	}
}
