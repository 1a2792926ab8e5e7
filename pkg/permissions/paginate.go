package permissions

// DefaultPageSize is used when a caller passes a non-positive page size.
const DefaultPageSize = 10

// paginate clamps the requested page against the total row count. Pages are
// one-based; out-of-range requests resolve to the nearest valid page instead
// of failing, so a listing never errors just because rows were deleted
// between requests. A zero total yields ok=false and callers return an empty
// page with hasMore=false.
func paginate(total int64, page, pageSize int) (offset, size int, hasMore, ok bool) {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if total <= 0 {
		return 0, pageSize, false, false
	}
	lastPage := int((total + int64(pageSize) - 1) / int64(pageSize))
	if page < 1 {
		page = 1
	}
	if page > lastPage {
		page = lastPage
	}
	offset = (page - 1) * pageSize
	hasMore = total > int64(page)*int64(pageSize)
	return offset, pageSize, hasMore, true
}
