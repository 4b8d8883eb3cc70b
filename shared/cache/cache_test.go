package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slot struct {
	Facility  string `json:"nama_fasilitas"`
	Available int    `json:"tersedia"`
}

func TestEncodeDecode(t *testing.T) {
	raw, err := encode(slot{Facility: "Kolam Paus", Available: 12})
	require.NoError(t, err)
	assert.JSONEq(t, `{"nama_fasilitas":"Kolam Paus","tersedia":12}`, string(raw))

	var got slot
	require.NoError(t, decode(string(raw), &got))
	assert.Equal(t, slot{Facility: "Kolam Paus", Available: 12}, got)
}

func TestStringsAreStoredVerbatim(t *testing.T) {
	raw, err := encode("staf_admin")
	require.NoError(t, err)
	assert.Equal(t, "staf_admin", string(raw))

	var role string
	require.NoError(t, decode("staf_admin", &role))
	assert.Equal(t, "staf_admin", role)
}

func TestDecodeRejectsStaleShape(t *testing.T) {
	var got slot
	assert.Error(t, decode(`["not", "a", "slot"]`, &got))
}
