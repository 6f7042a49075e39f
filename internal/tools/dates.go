package tools

import "time"

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
