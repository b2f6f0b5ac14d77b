package kernel_test

import (
	"testing"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeoPoint(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		lng     float64
		wantErr bool
	}{
		{name: "city centre", lat: 12.9716, lng: 77.5946},
		{name: "south west corner", lat: -90, lng: -180},
		{name: "north east corner", lat: 90, lng: 180},
		{name: "latitude too large", lat: 90.0001, lng: 0, wantErr: true},
		{name: "longitude too small", lat: 0, lng: -180.5, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := kernel.NewGeoPoint(tt.lat, tt.lng)

			if tt.wantErr {
				require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
				assert.Error(t, p.Validate())
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.lat, p.Lat(), 1e-9)
			assert.InDelta(t, tt.lng, p.Lng(), 1e-9)
		})
	}

	t.Run("reports both violations", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(100, 200)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "lat")
		assert.Contains(t, err.Error(), "lng")
	})
}

func TestParseGeoPoint(t *testing.T) {
	t.Run("extracts pair embedded in an address", func(t *testing.T) {
		p, err := kernel.ParseGeoPoint("Flat 4B, Indiranagar (12.9784, 77.6408)")

		require.NoError(t, err)
		assert.InDelta(t, 12.9784, p.Lat(), 1e-9)
		assert.InDelta(t, 77.6408, p.Lng(), 1e-9)
	})

	t.Run("ignores plain house numbers", func(t *testing.T) {
		_, err := kernel.ParseGeoPoint("House 12, 5th Cross, Koramangala")

		require.ErrorIs(t, err, kernel.ErrNoCoordinatesInText)
	})

	t.Run("rejects out of range pair", func(t *testing.T) {
		_, err := kernel.ParseGeoPoint("99.1,10.2")

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestGeoPoint_DistanceKm(t *testing.T) {
	t.Run("zero for identical points", func(t *testing.T) {
		p, _ := kernel.NewGeoPoint(28.6139, 77.2090)

		d, err := p.DistanceKm(p)

		require.NoError(t, err)
		assert.InDelta(t, 0, d, 1e-9)
	})

	t.Run("one degree of latitude is about 111 km", func(t *testing.T) {
		a, _ := kernel.NewGeoPoint(10, 77)
		b, _ := kernel.NewGeoPoint(11, 77)

		d, err := a.DistanceKm(b)

		require.NoError(t, err)
		assert.InDelta(t, 111.19, d, 0.05)
	})

	t.Run("is symmetric", func(t *testing.T) {
		a, _ := kernel.NewGeoPoint(12.9716, 77.5946)
		b, _ := kernel.NewGeoPoint(12.9352, 77.6245)

		ab, _ := a.DistanceKm(b)
		ba, _ := b.DistanceKm(a)

		assert.InDelta(t, ab, ba, 1e-9)
	})

	t.Run("fails for zero value", func(t *testing.T) {
		a, _ := kernel.NewGeoPoint(1, 1)

		_, err := a.DistanceKm(kernel.GeoPoint{})

		require.ErrorIs(t, err, kernel.ErrGeoPointIsNotConstructed)
	})
}

func TestGeoPoint_String(t *testing.T) {
	p, _ := kernel.NewGeoPoint(12.5, -0.25)

	assert.Equal(t, "12.500000,-0.250000", p.String())
}
