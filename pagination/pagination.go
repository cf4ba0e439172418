// SPDX-License-Identifier: GPL-3.0-or-later
package pagination

const DefaultLimit = 20

// Page returns the ids of one page with the newest (highest) id first and the total number of ids.
// allIds must be in ascending server order and is not modified.
func Page(allIds []uint32, offset, limit int) ([]uint32, int) {
	total := len(allIds)
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	if offset >= total {
		return []uint32{}, total
	}

	end := offset + limit
	if end > total || end < offset {
		end = total
	}

	page := make([]uint32, 0, end-offset)
	for i := offset; i < end; i++ {
		page = append(page, allIds[total-1-i])
	}

	return page, total
}
