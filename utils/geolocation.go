package utils

import (
	"log"
	"net"
	"sync"

	"github.com/oschwald/geoip2-golang"
)

type GeoLocation struct {
	Country string
	City    string
	Lat     float64
	Lng     float64
}

// GeoResolver resolves node IPs to coordinates from a local GeoIP database,
// used only as a fallback for nodes the backend reports without lat/lng.
type GeoResolver struct {
	db    *geoip2.Reader
	cache sync.Map // map[string]GeoLocation
}

// NewGeoResolver opens the GeoIP database at dbPath. An empty or unreadable
// path yields a resolver that returns zero locations; geolocation is a
// supplementary feature, so open failures are logged, not propagated.
func NewGeoResolver(dbPath string) *GeoResolver {
	var db *geoip2.Reader

	if dbPath != "" {
		var err error
		db, err = geoip2.Open(dbPath)
		if err != nil {
			log.Printf("⚠️ Could not open GeoIP database at %s: %v (geolocation fallback disabled)", dbPath, err)
			db = nil
		}
	}

	return &GeoResolver{db: db}
}

func (g *GeoResolver) Close() {
	if g != nil && g.db != nil {
		g.db.Close()
	}
}

// Lookup resolves an IP to a location. Safe on a nil receiver and with no
// database loaded; unresolvable IPs return the zero location.
func (g *GeoResolver) Lookup(ipStr string) (GeoLocation, bool) {
	if g == nil || g.db == nil || ipStr == "" {
		return GeoLocation{}, false
	}

	if val, ok := g.cache.Load(ipStr); ok {
		return val.(GeoLocation), true
	}

	ip := net.ParseIP(ipStr)
	if ip == nil {
		return GeoLocation{}, false
	}

	record, err := g.db.City(ip)
	if err != nil {
		return GeoLocation{}, false
	}

	loc := GeoLocation{
		Country: record.Country.Names["en"],
		City:    record.City.Names["en"],
		Lat:     record.Location.Latitude,
		Lng:     record.Location.Longitude,
	}
	g.cache.Store(ipStr, loc)
	return loc, true
}
