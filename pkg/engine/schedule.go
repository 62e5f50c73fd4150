package engine

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// scheduleMatches reports whether the cron expression fires in the minute
// containing now. Matching granularity is one minute: the expression matches
// iff its next activation at or after the top of that minute is that same
// minute.
func scheduleMatches(expression string, now time.Time) (bool, error) {
	schedule, err := cron.ParseStandard(expression)
	if err != nil {
		return false, fmt.Errorf("failed to parse schedule expression %q: %w", expression, err)
	}

	minute := now.Truncate(time.Minute)

	return schedule.Next(minute.Add(-time.Second)).Equal(minute), nil
}
