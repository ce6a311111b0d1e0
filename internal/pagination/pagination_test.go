package pagination

import (
	"errors"
	"testing"
)

func TestDefaults(t *testing.T) {
	var tx PageRequest
	tx.Defaults(TransactionSorting)
	if tx.Page != 1 || tx.PageSize != DefaultPageSize || tx.Sort != "-date" {
		t.Errorf("unexpected transaction defaults %+v", tx)
	}

	cat := PageRequest{Page: 3, PageSize: 5, Sort: " -created "}
	cat.Defaults(CategorySorting)
	if cat.Page != 3 || cat.PageSize != 5 || cat.Sort != "-created" {
		t.Errorf("explicit values overwritten: %+v", cat)
	}
	if cat.Offset() != 10 {
		t.Errorf("expected offset 10, got %d", cat.Offset())
	}
}

func TestOrderBy(t *testing.T) {
	tests := []struct {
		sorting Sorting
		sort    string
		want    string
		wantErr bool
	}{
		{sorting: TransactionSorting, sort: "", want: "date DESC, id DESC"},
		{sorting: TransactionSorting, sort: "date", want: "date ASC, id ASC"},
		{sorting: TransactionSorting, sort: "-amount", want: "amount DESC, id DESC"},
		{sorting: CategorySorting, sort: "", want: "name ASC, id ASC"},
		{sorting: CategorySorting, sort: "-created", want: "created_at DESC, id DESC"},
		{sorting: AuditSorting, sort: "", want: "created_at DESC, id DESC"},
		{sorting: TransactionSorting, sort: "name", wantErr: true},
		{sorting: TransactionSorting, sort: "-", wantErr: true},
		{sorting: CategorySorting, sort: "date; DROP TABLE categories", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.sort, func(t *testing.T) {
			req := PageRequest{Sort: tt.sort}
			got, err := req.OrderBy(tt.sorting)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownSort) {
					t.Fatalf("expected ErrUnknownSort, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNewPageResponse(t *testing.T) {
	req := PageRequest{Page: 2, PageSize: 20, Sort: "-date"}
	resp := NewPageResponse[string](nil, req, 41)

	if resp.Data == nil || len(resp.Data) != 0 {
		t.Errorf("expected empty non-nil data, got %#v", resp.Data)
	}
	if resp.TotalPages != 3 {
		t.Errorf("expected 3 pages, got %d", resp.TotalPages)
	}
	if resp.Page != 2 || resp.Sort != "-date" {
		t.Errorf("request metadata not carried: %+v", resp)
	}
}

func TestMap(t *testing.T) {
	page := NewPageResponse([]int{1, 2, 3}, PageRequest{Page: 1, PageSize: 3, Sort: "amount"}, 7)
	doubled := Map(page, func(n *int) int { return *n * 2 })

	want := []int{2, 4, 6}
	for i, n := range doubled.Data {
		if n != want[i] {
			t.Errorf("item %d: expected %d, got %d", i, want[i], n)
		}
	}
	if doubled.TotalItems != 7 || doubled.TotalPages != 3 || doubled.Sort != "amount" {
		t.Errorf("metadata not kept: %+v", doubled)
	}
}
