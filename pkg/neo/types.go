// Package neo defines the Near-Earth-Object data model returned by the
// NeoWs catalog API and the close-approach ranking operations over it.
package neo

import (
	"fmt"
	"strconv"
	"strings"
)

// OrbitingBodyEarth is the orbited-body identifier for Earth approaches.
const OrbitingBodyEarth = "Earth"

// MissDistance holds the miss distance of a close approach in the units
// reported by the API. Values arrive as stringified floats; only the miles
// unit is consulted for ranking.
type MissDistance struct {
	Astronomical string `json:"astronomical,omitempty"`
	Lunar        string `json:"lunar,omitempty"`
	Kilometers   string `json:"kilometers,omitempty"`
	Miles        string `json:"miles"`
}

// CloseApproach is a single recorded pass of a NEO near a celestial body.
type CloseApproach struct {
	CloseApproachDate string       `json:"close_approach_date"`
	MissDistance      MissDistance `json:"miss_distance"`
	OrbitingBody      string       `json:"orbiting_body"`
}

// MissMiles returns the miss distance in miles as a float.
func (a CloseApproach) MissMiles() (float64, error) {
	miles, err := strconv.ParseFloat(a.MissDistance.Miles, 64)
	if err != nil {
		return 0, fmt.Errorf("parse miss distance %q: %w", a.MissDistance.Miles, err)
	}
	return miles, nil
}

// DateMonth returns the zero-padded month segment of the close-approach
// date ("12" for "2020-12-05"). Returns an empty string if the date does
// not have a month segment.
func (a CloseApproach) DateMonth() string {
	parts := strings.Split(a.CloseApproachDate, "-")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// NearEarthObject is one asteroid record from the catalog. Fields beyond
// the identifier and close-approach list are carried verbatim for output
// but never interpreted.
type NearEarthObject struct {
	ID                string          `json:"id"`
	NeoReferenceID    string          `json:"neo_reference_id,omitempty"`
	Name              string          `json:"name,omitempty"`
	AbsoluteMagnitude float64         `json:"absolute_magnitude_h,omitempty"`
	Hazardous         bool            `json:"is_potentially_hazardous_asteroid,omitempty"`
	CloseApproachData []CloseApproach `json:"close_approach_data"`
}

// Clone returns an independent deep copy of the object. Derived views
// replace the close-approach list per copy, so copies must not alias the
// source slice.
func (n NearEarthObject) Clone() NearEarthObject {
	out := n
	out.CloseApproachData = make([]CloseApproach, len(n.CloseApproachData))
	copy(out.CloseApproachData, n.CloseApproachData)
	return out
}

// PageInfo is the pagination metadata of a browse response.
type PageInfo struct {
	Size          int `json:"size"`
	TotalElements int `json:"total_elements"`
	TotalPages    int `json:"total_pages"`
	Number        int `json:"number"`
}

// Page is one unit of paginated browse results. Not persisted.
type Page struct {
	Page             PageInfo          `json:"page"`
	NearEarthObjects []NearEarthObject `json:"near_earth_objects"`
}

// Week is one unit of feed results. The API keys the object lists by every
// date in the 7-day window; callers index by the requested start date.
type Week struct {
	ElementCount     int                          `json:"element_count"`
	NearEarthObjects map[string][]NearEarthObject `json:"near_earth_objects"`
}

// NEOs returns the objects whose close approach falls on the given start
// date. A missing key yields an empty slice.
func (w *Week) NEOs(startDate string) []NearEarthObject {
	return w.NearEarthObjects[startDate]
}

// MonthAggregate accumulates feed results for a calendar month across
// multiple week fetches.
type MonthAggregate struct {
	ElementCount     int               `json:"element_count"`
	NearEarthObjects []NearEarthObject `json:"near_earth_objects"`
}
