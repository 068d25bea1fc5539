package pipeline

import "xanddash/models"

// Paginate slices the sorted/filtered collection into the requested
// 1-indexed page. Out-of-range pages (page < 1 or beyond the last page)
// yield an empty sequence rather than an error.
func Paginate(nodes []*models.Node, pageSize, page int) []*models.Node {
	if pageSize < 1 || page < 1 {
		return []*models.Node{}
	}

	start := (page - 1) * pageSize
	if start >= len(nodes) {
		return []*models.Node{}
	}

	end := start + pageSize
	if end > len(nodes) {
		end = len(nodes)
	}

	return nodes[start:end]
}

// TotalPages reports ceil(count/pageSize), with 0 items yielding 0 pages.
func TotalPages(count, pageSize int) int {
	if pageSize < 1 || count < 1 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}
