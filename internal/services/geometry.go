package services

import (
	"encoding/binary"
	"fmt"

	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"
)

// parseRouteGeometry parses a GeoJSON LineString and returns WKB bytes.
// An empty string clears the geometry.
func parseRouteGeometry(raw string) ([]byte, error) {
	if raw == "" {
		return nil, nil
	}
	var g geom.T
	if err := gjson.Unmarshal([]byte(raw), &g); err != nil {
		return nil, invalid("invalid geometry: %v", err)
	}
	line, ok := g.(*geom.LineString)
	if !ok {
		return nil, invalid("route geometry must be a LineString, got %T", g)
	}
	if line.NumCoords() < 2 {
		return nil, invalid("route geometry needs at least two points")
	}
	if line.SRID() == 0 {
		line.SetSRID(4326)
	}
	b, err := wkb.Marshal(line, binary.LittleEndian)
	if err != nil {
		return nil, fmt.Errorf("encode geometry: %w", err)
	}
	return b, nil
}

// GeometryToGeoJSON converts stored WKB bytes into a GeoJSON string.
func GeometryToGeoJSON(wkbBytes []byte) (string, error) {
	if len(wkbBytes) == 0 {
		return "", nil
	}
	g, err := wkb.Unmarshal(wkbBytes)
	if err != nil {
		return "", err
	}
	b, err := gjson.Marshal(g)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
