package session

import (
	"fmt"
	"time"
)

// FormatRemaining renders d as MM:SS, flooring to whole seconds. Negative
// durations render as 00:00.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
