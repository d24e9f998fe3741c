package scripted

import (
	"time"

	"github.com/gorhill/cronexpr"
)

// CronNext parses a crontab expression and returns the next time it
// fires after now. It is exposed both to Go callers building timer
// schedules and to the goja interpreter as the _.cronNext() builtin,
// so both sides of the language boundary
// agree on one cron dialect.
//
// Grounded on interpreters/ecmascript/ecmascript.go's cronNext
// builtin, which wraps the same library.
func CronNext(expr string, now time.Time) (time.Time, error) {
	c, err := cronexpr.Parse(expr)
	if err != nil {
		return time.Time{}, err
	}
	return c.Next(now), nil
}
