package region

import (
	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// Boundary is a region outline loaded from a shapefile, in WGS84.
type Boundary struct {
	polygons *geom.MultiPolygon
}

// LoadBoundary reads all polygon shapes from a shapefile into a Boundary.
func LoadBoundary(path string) (*Boundary, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "region: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(4326)

	for reader.Next() {
		_, shape := reader.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok || poly == nil {
			continue
		}
		for i := int32(0); i < poly.NumParts; i++ {
			start := poly.Parts[i]
			end := int32(len(poly.Points))
			if i+1 < poly.NumParts {
				end = poly.Parts[i+1]
			}

			flat := make([]float64, 0, (end-start)*2)
			for j := start; j < end; j++ {
				flat = append(flat, poly.Points[j].X, poly.Points[j].Y)
			}

			ring := geom.NewLinearRingFlat(geom.XY, flat)
			p := geom.NewPolygon(geom.XY)
			if err := p.Push(ring); err != nil {
				zap.L().Debug("region: skipping malformed polygon ring", zap.Int32("part", i), zap.Error(err))
				continue
			}
			if err := mp.Push(p); err != nil {
				zap.L().Debug("region: skipping malformed polygon part", zap.Int32("part", i), zap.Error(err))
				continue
			}
		}
	}

	if mp.NumPolygons() == 0 {
		return nil, eris.Errorf("region: no polygons in shapefile %s", path)
	}
	return &Boundary{polygons: mp}, nil
}

// NewBoundary wraps an existing MultiPolygon (used in tests).
func NewBoundary(mp *geom.MultiPolygon) *Boundary {
	return &Boundary{polygons: mp}
}

// Contains reports whether the WGS84 point lies inside any boundary polygon.
// Ring 0 is the exterior; further rings are holes.
func (b *Boundary) Contains(lat, lon float64) bool {
	point := geom.Coord{lon, lat}
	for i := 0; i < b.polygons.NumPolygons(); i++ {
		poly := b.polygons.Polygon(i)
		if !poly.Bounds().OverlapsPoint(geom.XY, point) {
			continue
		}
		if poly.NumLinearRings() == 0 {
			continue
		}
		if !pointInRing(point, poly.LinearRing(0)) {
			continue
		}
		inHole := false
		for r := 1; r < poly.NumLinearRings(); r++ {
			if pointInRing(point, poly.LinearRing(r)) {
				inHole = true
				break
			}
		}
		if !inHole {
			return true
		}
	}
	return false
}

// pointInRing runs an even-odd ray cast against one linear ring.
func pointInRing(p geom.Coord, ring *geom.LinearRing) bool {
	coords := ring.FlatCoords()
	stride := ring.Stride()
	n := len(coords) / stride
	if n < 3 {
		return false
	}

	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		xi, yi := coords[i*stride], coords[i*stride+1]
		xj, yj := coords[j*stride], coords[j*stride+1]
		if (yi > p[1]) != (yj > p[1]) &&
			p[0] < (xj-xi)*(p[1]-yi)/(yj-yi)+xi {
			inside = !inside
		}
		j = i
	}
	return inside
}
