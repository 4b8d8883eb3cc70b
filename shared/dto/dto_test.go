package dto_test

import (
	"net/http/httptest"
	"sizopi/shared/constant"
	"sizopi/shared/dto"
	"sizopi/shared/model"
	"sizopi/shared/timezone"
	"testing"
	"time"
)

func TestMetadata_FromModel(t *testing.T) {
	createdAt := time.Date(2024, 5, 20, 3, 0, 0, 0, time.UTC)
	modifiedAt := time.Date(2024, 5, 21, 9, 30, 0, 0, time.UTC)

	var metadata dto.Metadata
	metadata.FromModel(model.Metadata{
		CreatedAt:  createdAt,
		ModifiedAt: modifiedAt,
		CreatedBy:  "sari_admin",
		ModifiedBy: "budi_admin",
	})

	location := timezone.GetLocation()

	want := dto.Metadata{
		CreatedAt:  createdAt.In(location).Format(constant.DateFormat),
		ModifiedAt: modifiedAt.In(location).Format(constant.DateFormat),
		CreatedBy:  "sari_admin",
		ModifiedBy: "budi_admin",
	}

	if metadata != want {
		t.Errorf("expected %+v, got %+v", want, metadata)
	}
}

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		withDefaults bool
		expected     dto.QueryParams
	}{
		{
			name:     "all parameters",
			query:    "page=2&limit=20&sort_by=nama&sort_dir=asc",
			expected: dto.QueryParams{Page: 2, Limit: 20, SortBy: "nama", SortDir: dto.SortDirAsc},
		},
		{
			name:         "defaults fill missing paging",
			withDefaults: true,
			expected:     dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:     "no defaults leaves zero values",
			expected: dto.QueryParams{},
		},
		{
			name:         "malformed numbers are ignored",
			query:        "page=dua&limit=-5",
			withDefaults: true,
			expected:     dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:     "limit is capped",
			query:    "limit=5000",
			expected: dto.QueryParams{Limit: constant.MaxValueLimit},
		},
		{
			name:     "unknown sort direction is dropped",
			query:    "sort_by=tanggal_kunjungan&sort_dir=sideways",
			expected: dto.QueryParams{SortBy: "tanggal_kunjungan"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/reservasi/admin?"+tt.query, nil)

			var params dto.QueryParams
			params.FromRequest(request, tt.withDefaults)

			if params != tt.expected {
				t.Errorf("expected %+v, got %+v", tt.expected, params)
			}
		})
	}
}

func TestQueryParams_RestrictSort(t *testing.T) {
	allowed := []string{"nama", "tanggal_kunjungan"}

	q := dto.QueryParams{SortBy: "nama; DROP TABLE reservasi", SortDir: dto.SortDirAsc}
	q.RestrictSort(allowed, "tanggal_kunjungan", dto.SortDirDesc)

	if q.SortBy != "tanggal_kunjungan" || q.SortDir != dto.SortDirDesc {
		t.Errorf("expected fallback sort, got %s %s", q.SortBy, q.SortDir)
	}

	q = dto.QueryParams{SortBy: "nama"}
	q.RestrictSort(allowed, "tanggal_kunjungan", dto.SortDirDesc)

	if q.SortBy != "nama" || q.SortDir != dto.SortDirAsc {
		t.Errorf("expected nama ASC, got %s %s", q.SortBy, q.SortDir)
	}
}

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name      string
		filter    dto.Filter
		wantWhere string
		wantArg   any
	}{
		{
			name:      "equality with table",
			filter:    dto.Filter{Field: "status", Value: "Terjadwal", Operator: dto.FilterOperatorEq, Table: "reservasi"},
			wantWhere: "reservasi.status = :status",
			wantArg:   "Terjadwal",
		},
		{
			name:      "case-insensitive like",
			filter:    dto.Filter{Field: "lokasi", Value: "Barat", Operator: dto.FilterOperatorLike},
			wantWhere: "LOWER(lokasi) LIKE LOWER(:lokasi)",
			wantArg:   "%Barat%",
		},
		{
			name:      "unknown operator renders nothing",
			filter:    dto.Filter{Field: "nama", Value: "x", Operator: "between"},
			wantWhere: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			if where != tt.wantWhere {
				t.Errorf("expected %q, got %q", tt.wantWhere, where)
			}

			if tt.wantArg != nil && args[tt.filter.Field] != tt.wantArg {
				t.Errorf("expected arg %v, got %v", tt.wantArg, args[tt.filter.Field])
			}
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	group := dto.FilterGroup{
		Filters: []any{
			dto.Filter{Field: "nama_fasilitas", Value: "Kolam Paus", Operator: dto.FilterOperatorEq, Table: "reservasi"},
			dto.FilterGroup{
				Filters: []any{
					dto.Filter{Field: "status", Value: "Terjadwal", Operator: dto.FilterOperatorEq},
					dto.Filter{Field: "username_p", Value: "budi", Operator: dto.FilterOperatorLike},
				},
			},
			dto.Filter{Field: "ignored", Value: "x", Operator: "unknown"},
			"not a filter",
		},
	}

	where, args := group.GetWhereClause()

	expected := "(reservasi.nama_fasilitas = :nama_fasilitas AND (status = :status AND LOWER(username_p) LIKE LOWER(:username_p)))"
	if where != expected {
		t.Errorf("expected %q, got %q", expected, where)
	}

	if len(args) != 3 || args["nama_fasilitas"] != "Kolam Paus" || args["username_p"] != "%budi%" {
		t.Errorf("unexpected args %v", args)
	}
}

func TestFilterGroup_EmptyDefaultsToNoClause(t *testing.T) {
	group := dto.FilterGroup{}

	where, args := group.GetWhereClause()
	if where != "" || len(args) != 0 {
		t.Errorf("expected empty clause, got %q %v", where, args)
	}
}
