package domain

const (
	// Blockchain constants
	ZERO_ADDRESS = "0x0000000000000000000000000000000000000000"

	// DayBucketLayout is the date key format for daily metric buckets (UTC)
	DayBucketLayout = "2006-01-02"
)
