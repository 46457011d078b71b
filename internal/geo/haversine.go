package geo

import (
	"fmt"
	"math"
)

type Unit string

const (
	UnitKilometers Unit = "km"
	UnitMiles      Unit = "miles"
)

const (
	earthRadiusKm = 6371.0
	kmPerMile     = 1.60934
)

func ParseUnit(s string) (Unit, error) {
	switch Unit(s) {
	case UnitKilometers, UnitMiles:
		return Unit(s), nil
	default:
		return "", fmt.Errorf("unknown distance unit %q", s)
	}
}

// Distance returns the great-circle distance between two coordinates in the
// requested unit.
func Distance(lat1, lng1, lat2, lng2 float64, unit Unit) float64 {
	radius := earthRadiusKm
	if unit == UnitMiles {
		radius = earthRadiusKm / kmPerMile
	}

	phi1 := radians(lat1)
	phi2 := radians(lat2)
	dPhi := radians(lat2 - lat1)
	dLambda := radians(lng2 - lng1)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return radius * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
