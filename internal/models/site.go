// Package models holds the shared entities of the heritage discovery flow:
// the raw elements returned by the geodata upstream and the normalized Site
// shape the rest of the application consumes.
package models

import "math"

// Coordinate is a WGS84 point in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether both components are finite numbers.
func (c Coordinate) Valid() bool {
	return isFinite(c.Lat) && isFinite(c.Lon)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// RawElement mirrors a single element of an Overpass JSON response. Point
// features carry lat/lon directly; area features (ways, relations) carry a
// computed center instead. Tags is an open mapping and may be nil.
type RawElement struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat,omitempty"`
	Lon    *float64          `json:"lon,omitempty"`
	Center *Coordinate       `json:"center,omitempty"`
	Tags   map[string]string `json:"tags,omitempty"`
}

// Point resolves the element's coordinate, preferring the direct lat/lon over
// the center. The second return value is false when neither resolves to two
// finite numbers.
func (e RawElement) Point() (Coordinate, bool) {
	if e.Lat != nil && e.Lon != nil {
		c := Coordinate{Lat: *e.Lat, Lon: *e.Lon}
		if c.Valid() {
			return c, true
		}
	}
	if e.Center != nil && e.Center.Valid() {
		return *e.Center, true
	}
	return Coordinate{}, false
}

// OSMRef identifies the upstream feature a Site was derived from.
type OSMRef struct {
	Type string `json:"type"`
	ID   int64  `json:"id"`
}

// Site is the normalized heritage site entity. Instances are created once per
// query response and are immutable afterwards; a new query supersedes the
// previous result set.
type Site struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Category  string            `json:"category"`
	Lat       float64           `json:"lat"`
	Lon       float64           `json:"lon"`
	Wikidata  string            `json:"wikidata,omitempty"`
	Wikipedia string            `json:"wikipedia,omitempty"`
	OSM       OSMRef            `json:"osm"`
	RawTags   map[string]string `json:"rawTags"`
}

// Point returns the site's coordinate.
func (s Site) Point() Coordinate {
	return Coordinate{Lat: s.Lat, Lon: s.Lon}
}
