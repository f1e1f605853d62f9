package grid

// Interpolator computes bilinearly interpolated values over a Source. It holds
// no mutable state and may be shared between goroutines.
//
// NO-DATA samples are not masked: a query whose cell touches a sentinel blends
// the sentinel arithmetically.
type Interpolator struct {
	src Source
	ix  Indexer
}

// NewInterpolator returns an Interpolator reading samples from src.
func NewInterpolator(src Source) *Interpolator {
	return &Interpolator{src: src, ix: NewIndexer(src.Metadata())}
}

// HeightAt returns the value at (lat, lon) in degrees. Grid nodes on the
// origin lines are returned without any arithmetic. Queries outside the domain
// fail with an *OutOfRangeError.
func (in *Interpolator) HeightAt(lat, lon float64) (float64, error) {
	latB, err := in.ix.DegreeToBracket(Latitude, lat)
	if err != nil {
		return 0, err
	}
	lonB, err := in.ix.DegreeToBracket(Longitude, lon)
	if err != nil {
		return 0, err
	}

	s := in.src.Sample
	switch {
	case latB.Exact() && lonB.Exact():
		return s(latB.Lower, lonB.Lower), nil
	case latB.Exact():
		u, err := in.fraction(Longitude, lon, lonB)
		if err != nil {
			return 0, err
		}
		lo := s(latB.Lower, lonB.Lower)
		return u*(s(latB.Lower, lonB.Upper)-lo) + lo, nil
	case lonB.Exact():
		t, err := in.fraction(Latitude, lat, latB)
		if err != nil {
			return 0, err
		}
		lo := s(latB.Lower, lonB.Lower)
		return t*(s(latB.Upper, lonB.Lower)-lo) + lo, nil
	}

	t, err := in.fraction(Latitude, lat, latB)
	if err != nil {
		return 0, err
	}
	u, err := in.fraction(Longitude, lon, lonB)
	if err != nil {
		return 0, err
	}

	return (1-t)*(1-u)*s(latB.Lower, lonB.Lower) +
		(1-t)*u*s(latB.Lower, lonB.Upper) +
		t*(1-u)*s(latB.Upper, lonB.Lower) +
		t*u*s(latB.Upper, lonB.Upper), nil
}

// HeightAtDMS is HeightAt with both coordinates given in degrees, minutes and seconds.
func (in *Interpolator) HeightAtDMS(latD, latM int, latS float64, lonD, lonM int, lonS float64) (float64, error) {
	return in.HeightAt(ToDegrees(latD, latM, latS), ToDegrees(lonD, lonM, lonS))
}

// fraction is the position of value inside bracket b, 0 at Lower and 1 at Upper.
func (in *Interpolator) fraction(axis Axis, value float64, b Bracket) (float64, error) {
	lower, err := in.ix.IndexToDegree(axis, b.Lower)
	if err != nil {
		return 0, err
	}
	upper, err := in.ix.IndexToDegree(axis, b.Upper)
	if err != nil {
		return 0, err
	}

	return (value - lower) / (upper - lower), nil
}
