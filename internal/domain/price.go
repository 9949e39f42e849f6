package domain

// SpotPrice is one observation of a metal rate from a pricing provider,
// keyed by (Date, Base, Symbol, Source).
type SpotPrice struct {
	Date     string // YYYY-MM-DD
	Base     string
	Symbol   Metal
	Rate     float64
	USDPerOz *float64
	Source   string
	Raw      string // compact provider payload
}

// DeriveUSDPerOz computes the USD price of one troy ounce from the raw rate,
// independent of the request direction. Returns nil when not derivable.
func DeriveUSDPerOz(base string, symbol string, rate float64) *float64 {
	switch {
	case base == "USD" && SupportedMetal[Metal(symbol)] && rate > 0:
		v := 1.0 / rate
		return &v
	case SupportedMetal[Metal(base)] && symbol == "USD":
		v := rate
		return &v
	}
	return nil
}
