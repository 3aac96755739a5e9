// Package gpx parses GPX 1.1 track logs into the point sequence the scoring
// pipeline ingests. Only the fields the engine uses are extracted: position,
// timestamp, and groundspeed when the recorder wrote one. Speed units in GPX
// extensions are m/s (Garmin/most loggers); they are converted to knots here
// so everything downstream speaks knots.
package gpx

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/adequatepilot/nav-scoring-sub000/pkg/nav"
)

// metersPerSecToKnots converts m/s groundspeed to knots.
const metersPerSecToKnots = 1.943844

type gpxFile struct {
	XMLName xml.Name   `xml:"gpx"`
	Tracks  []gpxTrack `xml:"trk"`
}

type gpxTrack struct {
	Name     string       `xml:"name"`
	Segments []gpxSegment `xml:"trkseg"`
}

type gpxSegment struct {
	Points []gpxPoint `xml:"trkpt"`
}

type gpxPoint struct {
	Lat   float64  `xml:"lat,attr"`
	Lon   float64  `xml:"lon,attr"`
	Time  string   `xml:"time"`
	Speed *float64 `xml:"speed"`
	Ele   float64  `xml:"ele"`

	// Garmin-style extension speed, also m/s.
	ExtSpeed *float64 `xml:"extensions>speed"`
}

// Parse decodes a GPX document and flattens all tracks/segments into a single
// ordered point list, preserving document order.
func Parse(data []byte) ([]nav.TrackPoint, error) {
	var doc gpxFile
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse GPX: %w", err)
	}

	var points []nav.TrackPoint
	for _, trk := range doc.Tracks {
		for _, seg := range trk.Segments {
			for _, pt := range seg.Points {
				ts, err := time.Parse(time.RFC3339, pt.Time)
				if err != nil {
					// Some loggers write fractional seconds with a trailing Z
					// variant RFC3339 doesn't cover; retry with nanoseconds.
					ts, err = time.Parse(time.RFC3339Nano, pt.Time)
					if err != nil {
						return nil, fmt.Errorf("trkpt has invalid time %q: %w", pt.Time, err)
					}
				}
				p := nav.TrackPoint{
					Lat:  pt.Lat,
					Lon:  pt.Lon,
					Time: ts.UTC(),
				}
				if pt.Speed != nil {
					p.GroundSpeedKts = *pt.Speed * metersPerSecToKnots
					p.HasSpeed = true
				} else if pt.ExtSpeed != nil {
					p.GroundSpeedKts = *pt.ExtSpeed * metersPerSecToKnots
					p.HasSpeed = true
				}
				points = append(points, p)
			}
		}
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("GPX document contains no track points")
	}
	return points, nil
}
