package ports

import "context"

// GeoLocation is the subset of lookup data stored on ledger rows.
type GeoLocation struct {
	City    string
	Country string
	Lat     float64
	Lon     float64
}

// GeoLocator resolves a public IP address to a coarse location.
type GeoLocator interface {
	Lookup(ctx context.Context, ip string) (GeoLocation, error)
}
