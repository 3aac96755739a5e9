package geoexport

import "github.com/wroge/wgs84"

// WebMercator projects a WGS84 coordinate to EPSG:3857 meters for map-tile
// overlays of the track plot.
func WebMercator(lon, lat float64) (x, y float64) {
	epsg := wgs84.EPSG()
	f := epsg.Transform(4326, 3857)
	x, y, _ = f(lon, lat, 0)
	return x, y
}
