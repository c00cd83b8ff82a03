// Package mapper converts coordinates to H3 cells for map points.
package mapper

type Interface interface {
	CellForPoint(lat, lon float64, res int) (string, error)
}
