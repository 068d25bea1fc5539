package utils

import "testing"

func TestNewGeoResolverDegradesWithoutDatabase(t *testing.T) {
	for _, path := range []string{"", "/nonexistent/GeoLite2-City.mmdb"} {
		g := NewGeoResolver(path)
		if g == nil {
			t.Fatalf("path %q: resolver must be usable even without a database", path)
		}

		if _, ok := g.Lookup("8.8.8.8"); ok {
			t.Errorf("path %q: lookup succeeded without a database", path)
		}
		g.Close()
	}
}

func TestGeoResolverNilReceiverSafe(t *testing.T) {
	var g *GeoResolver

	if _, ok := g.Lookup("8.8.8.8"); ok {
		t.Error("nil resolver must not resolve")
	}
	g.Close()
}
