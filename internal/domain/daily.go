package domain

// DailyStat is one derived row of the joined gold/silver history.
// PLN columns are nil when no NBP fixing could be resolved for the date.
type DailyStat struct {
	Date   string
	XAUUSD float64
	XAGUSD float64
	GSR    float64
	USDPLN *float64
	XAUPLN *float64
	XAGPLN *float64
}
