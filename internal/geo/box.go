package geo

// Point is a resolved location centroid.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// BoundingBox is a rectangular lat/lon region approximating a named place.
type BoundingBox struct {
	South float64 `json:"south"`
	North float64 `json:"north"`
	West  float64 `json:"west"`
	East  float64 `json:"east"`
}

// UnitedStates replaces geocoder responses for country-level US queries,
// which come back with an overly narrow box.
var UnitedStates = BoundingBox{South: 25.84, North: 49.38, West: -124.67, East: -66.95}

func (b BoundingBox) Contains(lat, lon float64) bool {
	return b.South <= lat && lat <= b.North && b.West <= lon && lon <= b.East
}

// OutsideAll reports whether p lies outside every box in boxes.
func OutsideAll(p Point, boxes []BoundingBox) bool {
	for _, b := range boxes {
		if b.Contains(p.Lat, p.Lon) {
			return false
		}
	}
	return true
}
