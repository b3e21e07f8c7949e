package utils

import "time"

// Commission periods run on calendar months in the company timezone.
var bizLoc = func() *time.Location {
	if loc, err := time.LoadLocation("America/New_York"); err == nil {
		return loc
	}
	return time.FixedZone("EST", -5*3600)
}()

// Store seconds consistently in the DB.
func NowUnixSeconds() int64 { return time.Now().Unix() }

// CurrentMonthWindow returns the [start, end) unix-second bounds of the
// calendar month containing now, in the business timezone.
func CurrentMonthWindow(now time.Time) (int64, int64) {
	t := now.In(bizLoc)
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, bizLoc)
	end := start.AddDate(0, 1, 0)
	return start.Unix(), end.Unix()
}

// Returns zero time if t<=0 to let callers decide how to render.
func FromUnixSeconds(t int64) time.Time {
	if t <= 0 {
		return time.Time{}
	}
	return time.Unix(t, 0).In(bizLoc)
}

func FormatRFC3339(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(bizLoc).Format(time.RFC3339)
}
