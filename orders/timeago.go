package orders

import (
	"fmt"
	"time"
)

// TimeAgo renders the age of ts for the dashboard cards
func TimeAgo(ts, now time.Time) string {
	mins := int(now.Sub(ts) / time.Minute)
	switch {
	case mins < 1:
		return "Just now"
	case mins < 60:
		return fmt.Sprintf("%dm ago", mins)
	}
	hrs := mins / 60
	if hrs < 24 {
		return fmt.Sprintf("%dh %dm ago", hrs, mins%60)
	}
	return fmt.Sprintf("%dd ago", hrs/24)
}
