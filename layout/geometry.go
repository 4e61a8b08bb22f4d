package layout

import (
	"fmt"
	"strings"
)

// Geometry is a physical keyboard shape: rows of XKB key
// names, top row first, keys left to right.
type Geometry struct {
	Name string
	Rows [][]string

	index map[string]Coord
}

// Coord is the row-major place of a key in a geometry.
type Coord struct {
	Row int
	Col int
}

// Less orders coordinates row first, then column.
func (co Coord) Less(other Coord) bool {
	if co.Row != other.Row {
		return co.Row < other.Row
	}

	return co.Col < other.Col
}

// Geometry names.
const (
	ISO  = "ISO"
	ANSI = "ANSI"
	ERGO = "ERGO"
)

func keyRange(prefix string, from, to int) []string {
	out := make([]string, 0, to-from+1)
	for idx := from; idx <= to; idx++ {
		out = append(out, fmt.Sprintf("%s%02d", prefix, idx))
	}

	return out
}

func row(keys ...[]string) []string {
	var out []string
	for _, ks := range keys {
		out = append(out, ks...)
	}

	return out
}

func one(key string) []string {
	return []string{key}
}

func newGeometry(name string, rows ...[]string) *Geometry {
	geo := &Geometry{
		Name:  name,
		Rows:  rows,
		index: make(map[string]Coord),
	}

	for ri, keys := range rows {
		for ci, key := range keys {
			geo.index[key] = Coord{Row: ri, Col: ci}
		}
	}

	return geo
}

//nolint:gochecknoglobals // read-only tables
var geometries = map[string]*Geometry{
	ISO: newGeometry(ISO,
		row(one("TLDE"), keyRange("AE", 1, 12)),
		keyRange("AD", 1, 12),
		row(keyRange("AC", 1, 11), one("BKSL")),
		row(one("LSGT"), keyRange("AB", 1, 10)),
		one("SPCE"),
	),
	ANSI: newGeometry(ANSI,
		row(one("TLDE"), keyRange("AE", 1, 12)),
		row(keyRange("AD", 1, 12), one("BKSL")),
		keyRange("AC", 1, 11),
		keyRange("AB", 1, 10),
		one("SPCE"),
	),
	ERGO: newGeometry(ERGO,
		row(one("TLDE"), keyRange("AE", 1, 10)),
		keyRange("AD", 1, 11),
		keyRange("AC", 1, 11),
		row(one("LSGT"), keyRange("AB", 1, 10)),
		one("SPCE"),
	),
}

// LookupGeometry returns the named geometry. Names are
// case-insensitive; an empty or unknown name yields ISO.
func LookupGeometry(name string) *Geometry {
	if geo, ok := geometries[strings.ToUpper(name)]; ok {
		return geo
	}

	return geometries[ISO]
}

// Coord returns the place of key in the geometry.
func (geo *Geometry) Coord(key string) (Coord, bool) {
	co, ok := geo.index[key]

	return co, ok
}
