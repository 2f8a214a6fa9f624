package types

import "time"

// TimestampLayout is the ISO-8601 form used for generated dates: UTC with
// millisecond precision, so string order matches time order.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Timestamp formats t in TimestampLayout.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp parses an ISO-8601 date as stored by the app. It accepts
// full RFC 3339 timestamps and bare dates (2006-01-02).
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, s)
}
