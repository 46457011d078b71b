package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance_SamePointIsZero(t *testing.T) {
	points := [][2]float64{
		{0, 0},
		{40.712800, -74.006000},
		{-33.865143, 151.209900},
	}

	for _, p := range points {
		assert.Zero(t, Distance(p[0], p[1], p[0], p[1], UnitKilometers))
		assert.Zero(t, Distance(p[0], p[1], p[0], p[1], UnitMiles))
	}
}

func TestDistance_Symmetric(t *testing.T) {
	d1 := Distance(40.712800, -74.006000, 51.507400, -0.127800, UnitKilometers)
	d2 := Distance(51.507400, -0.127800, 40.712800, -74.006000, UnitKilometers)
	assert.Equal(t, d1, d2)
}

func TestDistance_OneDegreeLatitudeAtEquator(t *testing.T) {
	// one degree of latitude is roughly 111km
	d := Distance(0, 0, 1, 0, UnitKilometers)
	assert.InDelta(t, 111.19, d, 0.5)
}

func TestDistance_MilesConversion(t *testing.T) {
	km := Distance(0, 0, 1, 0, UnitKilometers)
	miles := Distance(0, 0, 1, 0, UnitMiles)
	assert.InDelta(t, km/1.60934, miles, 1e-9)
}

func TestParseUnit(t *testing.T) {
	unit, err := ParseUnit("km")
	assert.NoError(t, err)
	assert.Equal(t, UnitKilometers, unit)

	unit, err = ParseUnit("miles")
	assert.NoError(t, err)
	assert.Equal(t, UnitMiles, unit)

	_, err = ParseUnit("furlongs")
	assert.Error(t, err)
}
