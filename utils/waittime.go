package utils

import "fmt"

// FormatWait renders a quoted wait in minutes the way the host UI shows
// it, e.g. 5 -> "5 min", 75 -> "1 h 15 min".
func FormatWait(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	h := minutes / 60
	m := minutes % 60
	if m == 0 {
		return fmt.Sprintf("%d h", h)
	}
	return fmt.Sprintf("%d h %d min", h, m)
}
