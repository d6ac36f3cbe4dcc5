// Package geo resolves client IP addresses to coarse locations.
package geo

import (
	"fmt"
	"net"

	"github.com/oschwald/geoip2-golang"

	"github.com/abhms/alter/internal/model"
)

// Resolver looks up the location of an IP address.
// Lookup never fails: unresolved fields are model.UnknownLocation.
type Resolver interface {
	Lookup(ip string) model.Location
}

// GeoIPResolver resolves locations from a MaxMind City database.
type GeoIPResolver struct {
	reader *geoip2.Reader
}

// Open loads a MaxMind City database from path.
func Open(path string) (*GeoIPResolver, error) {
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geoip database: %w", err)
	}
	return &GeoIPResolver{reader: reader}, nil
}

// Lookup returns the location of ip.
func (g *GeoIPResolver) Lookup(ip string) model.Location {
	loc := model.UnknownLocationValue()

	parsed := net.ParseIP(ip)
	if parsed == nil {
		return loc
	}

	record, err := g.reader.City(parsed)
	if err != nil {
		return loc
	}

	if name, ok := record.Country.Names["en"]; ok && name != "" {
		loc.Country = name
	}
	if len(record.Subdivisions) > 0 {
		if name, ok := record.Subdivisions[0].Names["en"]; ok && name != "" {
			loc.Region = name
		}
	}
	if name, ok := record.City.Names["en"]; ok && name != "" {
		loc.City = name
	}

	return loc
}

// Close releases the database.
func (g *GeoIPResolver) Close() error {
	return g.reader.Close()
}

// UnknownResolver resolves every address to an unknown location.
// Used when no database is configured.
type UnknownResolver struct{}

// Lookup always returns an unknown location.
func (UnknownResolver) Lookup(string) model.Location {
	return model.UnknownLocationValue()
}
