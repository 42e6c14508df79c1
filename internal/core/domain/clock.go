package domain

import "time"

// TimestampPrecision is the resolution record stores keep for timestamps.
// BSON datetimes carry milliseconds.
const TimestampPrecision = time.Millisecond

// Now returns the current UTC time truncated to TimestampPrecision, so a
// timestamp handed back from a write equals the one read back later.
func Now() time.Time {
	return time.Now().UTC().Truncate(TimestampPrecision)
}

// NextTimestamp returns now, or prev advanced by one TimestampPrecision step
// when now does not come after prev. Successive writes to one record keep
// strictly increasing timestamps even within the same millisecond.
func NextTimestamp(now, prev time.Time) time.Time {
	if now.After(prev) {
		return now
	}
	return prev.Add(TimestampPrecision)
}
