package domain

// Series is an ordered date-indexed sequence of values. Dates and Values are
// always the same length.
type Series struct {
	Dates  []string
	Values []float64
}

func (s Series) Len() int { return len(s.Values) }

// Diff returns the day-to-day first difference with a leading zero, so the
// result aligns with the source dates.
func (s Series) Diff() Series {
	if s.Len() == 0 {
		return s
	}
	out := Series{Dates: s.Dates, Values: make([]float64, s.Len())}
	for i := 1; i < s.Len(); i++ {
		out.Values[i] = s.Values[i] - s.Values[i-1]
	}
	return out
}

// Normalize rescales the series so it starts at 1.0. A series whose first
// value is zero is returned unchanged.
func (s Series) Normalize() Series {
	if s.Len() == 0 || s.Values[0] == 0 {
		return s
	}
	base := s.Values[0]
	out := Series{Dates: s.Dates, Values: make([]float64, s.Len())}
	for i, v := range s.Values {
		out.Values[i] = v / base
	}
	return out
}

// Min returns the smallest value; zero for an empty series.
func (s Series) Min() float64 {
	if s.Len() == 0 {
		return 0
	}
	min := s.Values[0]
	for _, v := range s.Values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// Max returns the largest value; zero for an empty series.
func (s Series) Max() float64 {
	if s.Len() == 0 {
		return 0
	}
	max := s.Values[0]
	for _, v := range s.Values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}
