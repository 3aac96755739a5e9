// Package geoexport renders scored flights as GeoJSON so the flown track and
// checkpoint outcomes can be dropped onto any web map for debriefing.
package geoexport

import (
	"encoding/json"
	"fmt"
	"io"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/adequatepilot/nav-scoring-sub000/pkg/nav"
)

// FeatureCollection builds a GeoJSON document for one scored flight: the
// track as a LineString, the start gate, the planned checkpoints, and the
// resolved crossing locations with their scoring outcomes as properties.
func FeatureCollection(route nav.PlannedRoute, result nav.ScoreResult, points []nav.TrackPoint) (geom.GeoJSONFeatureCollection, error) {
	return buildFeatures(route, result, points, noProjection)
}

// FeatureCollectionProjected builds the same document with every coordinate
// reprojected to EPSG:3857 meters, matching tile-server overlays that expect
// web-mercator axes instead of lon/lat.
func FeatureCollectionProjected(route nav.PlannedRoute, result nav.ScoreResult, points []nav.TrackPoint) (geom.GeoJSONFeatureCollection, error) {
	return buildFeatures(route, result, points, WebMercator)
}

type projection func(lon, lat float64) (x, y float64)

func noProjection(lon, lat float64) (float64, float64) { return lon, lat }

func buildFeatures(route nav.PlannedRoute, result nav.ScoreResult, points []nav.TrackPoint, project projection) (geom.GeoJSONFeatureCollection, error) {
	fc := geom.GeoJSONFeatureCollection{}

	if len(points) > 0 {
		line, err := trackLine(points, project)
		if err != nil {
			return nil, fmt.Errorf("building track line: %w", err)
		}
		fc = append(fc, geom.GeoJSONFeature{
			Geometry: line.AsGeometry(),
			Properties: map[string]interface{}{
				"kind":  "track",
				"route": route.Name,
			},
		})
	}

	gate, err := pointAt(route.Gate.Lon, route.Gate.Lat, project)
	if err != nil {
		return nil, fmt.Errorf("building gate point: %w", err)
	}
	fc = append(fc, geom.GeoJSONFeature{
		Geometry: gate,
		Properties: map[string]interface{}{
			"kind": "gate",
			"name": route.Gate.Name,
		},
	})

	for _, cp := range route.Checkpoints {
		pt, err := pointAt(cp.Lon, cp.Lat, project)
		if err != nil {
			return nil, fmt.Errorf("building checkpoint %s: %w", cp.Name, err)
		}
		fc = append(fc, geom.GeoJSONFeature{
			Geometry: pt,
			Properties: map[string]interface{}{
				"kind":     "checkpoint",
				"name":     cp.Name,
				"seq":      cp.Seq,
				"radiusNM": cp.RadiusNM,
			},
		})
	}

	for _, cr := range result.Checkpoints {
		pt, err := pointAt(cr.Lon, cr.Lat, project)
		if err != nil {
			return nil, fmt.Errorf("building crossing %s: %w", cr.Name, err)
		}
		fc = append(fc, geom.GeoJSONFeature{
			Geometry: pt,
			Properties: map[string]interface{}{
				"kind":             "crossing",
				"checkpoint":       cr.Name,
				"method":           string(cr.Method),
				"distanceNM":       cr.DistanceNM,
				"deviationSec":     cr.DeviationSec,
				"timePenalty":      cr.TimePenalty,
				"offCoursePenalty": cr.OffCoursePenalty,
				"withinRadius":     cr.WithinRadius,
				"unresolved":       cr.Unresolved,
			},
		})
	}

	return fc, nil
}

// Write encodes the feature collection for a scored flight to w.
func Write(w io.Writer, route nav.PlannedRoute, result nav.ScoreResult, points []nav.TrackPoint) error {
	fc, err := FeatureCollection(route, result, points)
	if err != nil {
		return err
	}
	return encode(w, fc)
}

// WriteProjected is Write with EPSG:3857 coordinates.
func WriteProjected(w io.Writer, route nav.PlannedRoute, result nav.ScoreResult, points []nav.TrackPoint) error {
	fc, err := FeatureCollectionProjected(route, result, points)
	if err != nil {
		return err
	}
	return encode(w, fc)
}

func encode(w io.Writer, fc geom.GeoJSONFeatureCollection) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fc); err != nil {
		return fmt.Errorf("encoding geojson: %w", err)
	}
	return nil
}

// trackLine flattens the track into an XY line string, longitude first per
// the GeoJSON axis order.
func trackLine(points []nav.TrackPoint, project projection) (geom.LineString, error) {
	coords := make([]float64, 0, len(points)*2)
	for _, p := range points {
		x, y := project(p.Lon, p.Lat)
		coords = append(coords, x, y)
	}
	seq := geom.NewSequence(coords, geom.DimXY)
	return geom.NewLineString(seq)
}

func pointAt(lon, lat float64, project projection) (geom.Geometry, error) {
	x, y := project(lon, lat)
	pt, err := geom.NewPoint(geom.Coordinates{
		XY:   geom.XY{X: x, Y: y},
		Type: geom.DimXY,
	})
	if err != nil {
		return geom.Geometry{}, err
	}
	return pt.AsGeometry(), nil
}
