package utils

import "strconv"

const (
	DefaultPageLimit = 4
	MaxPageLimit     = 100
)

// Pagination turns the page and limit query values into a page, a limit and
// a row offset. Missing or invalid values fall back to the first page with
// the default limit.
func Pagination(pageStr, limitStr string) (page, limit, offset int) {
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit, (page - 1) * limit
}

// FormatID renders a database id the way it travels on the wire.
func FormatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseID parses a wire id. Zero is not a valid id.
func ParseID(s string) (uint, bool) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
