package docs

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetadata_Accessors(t *testing.T) {
	m := Metadata{"title": "  Intro ", "description": "About", "order": 3}

	assert.Equal(t, "Intro", m.Title())
	assert.Equal(t, "About", m.Description())
	order, ok := m.Order()
	assert.True(t, ok)
	assert.InDelta(t, 3, order, 0)
}

func TestMetadata_OrderVariants(t *testing.T) {
	cases := []struct {
		name string
		meta Metadata
		want float64
		ok   bool
	}{
		{"int", Metadata{"order": 2}, 2, true},
		{"int64", Metadata{"order": int64(7)}, 7, true},
		{"float", Metadata{"order": 1.5}, 1.5, true},
		{"numeric string", Metadata{"order": " 10 "}, 10, true},
		{"weight alias", Metadata{"weight": 4}, 4, true},
		{"order beats weight", Metadata{"order": 1, "weight": 9}, 1, true},
		{"non numeric", Metadata{"order": "first"}, 0, false},
		{"bool", Metadata{"order": true}, 0, false},
		{"nan", Metadata{"order": math.NaN()}, 0, false},
		{"infinity", Metadata{"order": math.Inf(-1)}, 0, false},
		{"nan string", Metadata{"order": "NaN"}, 0, false},
		{"inf string", Metadata{"order": "Inf"}, 0, false},
		{"non finite order hides weight", Metadata{"order": math.NaN(), "weight": 3}, 0, false},
		{"absent", Metadata{}, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tc.meta.Order()
			assert.Equal(t, tc.ok, ok)
			assert.InDelta(t, tc.want, got, 0)
		})
	}
}

func TestMetadata_NonStringTitleIgnored(t *testing.T) {
	assert.Equal(t, "", Metadata{"title": 42}.Title())
	assert.Equal(t, "", Metadata(nil).Title())
}

func TestFingerprint_StableAndContentSensitive(t *testing.T) {
	meta := Metadata{"title": "A", "order": 1}

	first := Fingerprint(meta, "body")
	assert.NotEmpty(t, first)
	assert.Equal(t, first, Fingerprint(Metadata{"order": 1, "title": "A"}, "body"))
	assert.NotEqual(t, first, Fingerprint(meta, "other body"))
	assert.NotEqual(t, first, Fingerprint(Metadata{"title": "B", "order": 1}, "body"))
}

func TestFingerprint_IgnoresStoredFingerprintField(t *testing.T) {
	plain := Fingerprint(Metadata{"title": "A"}, "body")
	withStored := Fingerprint(Metadata{"title": "A", "fingerprint": "stale"}, "body")
	assert.Equal(t, plain, withStored)
}
