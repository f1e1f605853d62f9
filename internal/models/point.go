package models

// Point is a single valid sample of a height grid in (x, y, z) order.
type Point struct {
	Lon    float64 // Lon is the longitude (or mesh x coordinate) in degrees.
	Lat    float64 // Lat is the latitude (or mesh y coordinate) in degrees.
	Height float64 // Height is the sample value in meters.
	Tag    string  // Tag is the sample category, empty when the source has none.
}
