package persistence

import (
	"strings"

	"github.com/studyreuse/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder normalizes the sort order to ASC or DESC, defaulting to DESC
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField if it is whitelisted, else defaultField
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed != "" && allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"created_at":    true,
	"updated_at":    true,
	"name":          true,
	"email":         true,
	"role":          true,
	"last_login_at": true,
}

// ItemSortFields contains allowed sort fields for items
var ItemSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"title":      true,
	"price":      true,
	"views":      true,
	"category":   true,
}

// BarterSortFields contains allowed sort fields for barters
var BarterSortFields = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"status":       true,
	"responded_at": true,
}

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"total_amount": true,
	"state":        true,
	"order_number": true,
}

// ReviewSortFields contains allowed sort fields for reviews
var ReviewSortFields = map[string]bool{
	"created_at": true,
	"rating":     true,
}

// NotificationSortFields contains allowed sort fields for notifications
var NotificationSortFields = map[string]bool{
	"created_at": true,
	"is_read":    true,
}

// paginate applies whitelisted ordering and the page window of filter.
// id breaks ties so pages are stable.
func paginate(query *gorm.DB, filter shared.Filter, allowed map[string]bool) *gorm.DB {
	f := filter.Normalize()
	field := ValidateSortField(f.OrderBy, allowed, "created_at")
	return query.
		Order(field + " " + ValidateSortOrder(f.OrderDir)).
		Order("id ASC").
		Offset(f.Offset()).
		Limit(f.PageSize)
}

// likePattern builds a case-insensitive LIKE pattern that works on both
// postgres and sqlite when compared against LOWER(column)
func likePattern(search string) string {
	s := strings.ToLower(strings.TrimSpace(search))
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}
