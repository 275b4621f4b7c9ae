package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "DESC"},
		{"ASC", "ASC"},
		{"asc", "ASC"},
		{"  asc  ", "ASC"},
		{"desc", "DESC"},
		{"INVALID", "DESC"},
		{"ASC; DROP TABLE users;--", "DESC"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, ValidateSortOrder(tt.input), tt.input)
	}
}

func TestValidateSortField(t *testing.T) {
	assert.Equal(t, "price", ValidateSortField("price", ItemSortFields, "created_at"))
	assert.Equal(t, "price", ValidateSortField("  price ", ItemSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("", ItemSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("password_hash", UserSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("price; DROP TABLE items", ItemSortFields, "created_at"))
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%physics%", likePattern("  Physics "))
	assert.Equal(t, `%100\%%`, likePattern("100%"))
	assert.Equal(t, `%a\_b%`, likePattern("a_b"))
}
