package grid

// ToDMS splits decimal degrees into whole degrees, whole minutes and seconds.
// Degrees and minutes are truncated toward zero.
func ToDMS(degree float64) (int, int, float64) {
	d := int(degree)
	m := int((degree - float64(d)) * 60.0)
	s := (degree - (float64(d) + float64(m)/60.0)) * 3600.0

	return d, m, s
}

// ToDegrees converts degrees, minutes and seconds to decimal degrees.
func ToDegrees(d, m int, s float64) float64 {
	return float64(d) + float64(m)/60.0 + s/3600.0
}
