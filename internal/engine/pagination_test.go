package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medinfo/medinfo-api/internal/model"
)

func catalogOfSize(n int) []*model.DrugRecord {
	records := make([]*model.DrugRecord, n)
	for i := range records {
		records[i] = &model.DrugRecord{Name: fmt.Sprintf("Drug-%02d", i)}
	}
	return records
}

func TestPaginateTotalPages(t *testing.T) {
	tests := []struct {
		count      int
		totalPages int
	}{
		{0, 0},
		{1, 1},
		{9, 1},
		{10, 1},
		{11, 2},
		{25, 3},
		{30, 3},
	}

	for _, tt := range tests {
		page := Paginate(catalogOfSize(tt.count), 1)
		assert.Equal(t, tt.totalPages, page.TotalPages, "count=%d", tt.count)
		assert.Equal(t, tt.count, page.Total)
	}
}

func TestPaginateSliceBounds(t *testing.T) {
	records := catalogOfSize(25)

	first := Paginate(records, 1)
	assert.Len(t, first.Items, 10)
	assert.Equal(t, "Drug-00", first.Items[0].Name)

	last := Paginate(records, 3)
	assert.Len(t, last.Items, 5)
	assert.Equal(t, "Drug-20", last.Items[0].Name)
	assert.Equal(t, "Drug-24", last.Items[4].Name)
}

func TestPaginateConcatenationReproducesInput(t *testing.T) {
	records := catalogOfSize(37)

	var reassembled []*model.DrugRecord
	total := Paginate(records, 1).TotalPages
	for p := 1; p <= total; p++ {
		reassembled = append(reassembled, Paginate(records, p).Items...)
	}

	assert.Equal(t, records, reassembled)
}

func TestPaginateClampsOutOfRange(t *testing.T) {
	records := catalogOfSize(25)

	below := Paginate(records, 0)
	assert.Equal(t, 1, below.Number)
	assert.Equal(t, "Drug-00", below.Items[0].Name)

	negative := Paginate(records, -3)
	assert.Equal(t, 1, negative.Number)

	above := Paginate(records, 99)
	assert.Equal(t, 3, above.Number)
	assert.Equal(t, "Drug-20", above.Items[0].Name)
}

func TestPaginateEmptyResult(t *testing.T) {
	page := Paginate(nil, 1)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 0, page.TotalPages)
	assert.Equal(t, 0, page.Total)
	assert.Empty(t, page.Items)

	// Navigation on an empty set stays put regardless of the request.
	assert.Equal(t, 1, Paginate(nil, 7).Number)
}
