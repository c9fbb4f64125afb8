package service

import (
	"math"

	"foodhub/food-svc/internal/domain"
)

const earthRadiusKm = 6371.0

// Geofence bounds delivery to a radius around the shop.
type Geofence struct {
	Latitude      float64
	Longitude     float64
	MaxDistanceKm float64
}

func (g Geofence) Check(lat, lng float64) (domain.DistanceCheck, error) {
	if err := domain.ValidateCoordinates(lat, lng); err != nil {
		return domain.DistanceCheck{}, err
	}
	d := HaversineKm(g.Latitude, g.Longitude, lat, lng)
	return domain.DistanceCheck{
		DistanceKm:    math.Round(d*100) / 100,
		MaxDistanceKm: g.MaxDistanceKm,
		CanDeliver:    d <= g.MaxDistanceKm,
	}, nil
}

func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
