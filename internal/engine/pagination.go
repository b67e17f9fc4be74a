package engine

import "github.com/medinfo/medinfo-api/internal/model"

// PageSize is the fixed number of records per result page.
const PageSize = 10

// Page is one slice of a multi-match result set.
type Page struct {
	Items      []*model.DrugRecord
	Number     int
	Total      int
	TotalPages int
}

// Paginate slices results into the fixed-size page identified by number.
// The requested number is clamped into [1, TotalPages], never rejected. An
// empty result set yields page 1 of 0 total pages with no items.
func Paginate(results []*model.DrugRecord, number int) Page {
	total := len(results)
	totalPages := (total + PageSize - 1) / PageSize

	if totalPages == 0 {
		return Page{Number: 1, Total: 0, TotalPages: 0}
	}

	if number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}

	start := (number - 1) * PageSize
	end := start + PageSize
	if end > total {
		end = total
	}

	return Page{
		Items:      results[start:end],
		Number:     number,
		Total:      total,
		TotalPages: totalPages,
	}
}
