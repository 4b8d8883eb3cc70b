package repository

import (
	"sizopi/shared/dto"
	"testing"

	"github.com/stretchr/testify/assert"
)

type audit struct {
	CreatedBy string `db:"created_by"`
}

type booking struct {
	audit

	Visitor  string `db:"username_p"`
	Facility string `db:"nama_fasilitas"`
	Tickets  int    `db:"jumlah_tiket"`
	Schedule string `db:"jadwal"  table:"fasilitas"`
	Kind     string `db:"jenis"   table:"fasilitas" column:"tipe"`
	Ignored  string `db:"-"`
	Scratch  string
}

func (booking) GetJoinQuery() string {
	return "JOIN fasilitas ON fasilitas.nama = reservasi.nama_fasilitas"
}

type plain struct {
	Name string `db:"nama"`
}

func TestDescribe(t *testing.T) {
	s := describe[booking]("reservasi", "username_p")

	assert.Equal(t, []string{"created_by", "username_p", "nama_fasilitas", "jumlah_tiket"}, s.owned)
	assert.Equal(t, " JOIN fasilitas ON fasilitas.nama = reservasi.nama_fasilitas", s.join)

	assert.Equal(t,
		"SELECT reservasi.created_by, reservasi.username_p, reservasi.nama_fasilitas, reservasi.jumlah_tiket, "+
			"fasilitas.jadwal, fasilitas.tipe AS jenis FROM reservasi JOIN fasilitas ON fasilitas.nama = reservasi.nama_fasilitas",
		s.selectQuery(nil))

	assert.Equal(t,
		"SELECT reservasi.jumlah_tiket FROM reservasi JOIN fasilitas ON fasilitas.nama = reservasi.nama_fasilitas",
		s.selectQuery([]string{"jumlah_tiket"}))

	assert.Equal(t,
		"INSERT INTO reservasi (created_by, username_p, nama_fasilitas, jumlah_tiket) "+
			"VALUES (:created_by, :username_p, :nama_fasilitas, :jumlah_tiket)",
		s.insertQuery())
}

func TestDescribe_NoJoin(t *testing.T) {
	s := describe[plain]("wahana", "nama")

	assert.Empty(t, s.join)
	assert.Equal(t, "SELECT wahana.nama FROM wahana", s.selectQuery(nil))
}

func TestWhereClause(t *testing.T) {
	where, args := whereClause(dto.FilterGroup{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args = whereClause(dto.FilterGroup{Filters: []any{
		dto.Filter{Field: "nama", Value: "Kolam Paus", Operator: dto.FilterOperatorEq},
	}})
	assert.Equal(t, " WHERE (nama = :nama)", where)
	assert.Equal(t, map[string]any{"nama": "Kolam Paus"}, args)
}

func TestSetClause(t *testing.T) {
	args := map[string]any{"status": "Terjadwal"}

	set := setClause(map[string]any{"status": "Dibatalkan", "jumlah_tiket": 4}, args)

	assert.Equal(t, "jumlah_tiket = :set_jumlah_tiket, status = :set_status", set)
	assert.Equal(t, map[string]any{
		"status":           "Terjadwal",
		"set_status":       "Dibatalkan",
		"set_jumlah_tiket": 4,
	}, args)
}

func TestPageClause(t *testing.T) {
	tests := []struct {
		name   string
		params dto.QueryParams
		want   string
		args   map[string]any
	}{
		{name: "nothing", params: dto.QueryParams{}, want: "", args: map[string]any{}},
		{
			name:   "sorted page",
			params: dto.QueryParams{Page: 3, Limit: 10, SortBy: "tanggal_kunjungan", SortDir: dto.SortDirDesc},
			want:   " ORDER BY tanggal_kunjungan DESC LIMIT :limit OFFSET :offset",
			args:   map[string]any{"limit": 10, "offset": 20},
		},
		{
			name:   "limit without page",
			params: dto.QueryParams{Limit: 5},
			want:   " LIMIT :limit",
			args:   map[string]any{"limit": 5},
		},
		{
			name:   "sort needs a direction",
			params: dto.QueryParams{SortBy: "nama"},
			want:   "",
			args:   map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := map[string]any{}

			assert.Equal(t, tt.want, pageClause(tt.params, args))
			assert.Equal(t, tt.args, args)
		})
	}
}
