package domain

import "context"

// Geocoder resolves a street address to a geographic point.
type Geocoder interface {
	Geocode(ctx context.Context, address Address) (*GeoPoint, error)
}
