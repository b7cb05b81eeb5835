package assets

import (
	"strconv"
	"time"
)

// RunToken identifies every asset written by one run. It is created once by
// the orchestrator and passed to each Store call.
type RunToken struct {
	At time.Time
}

func NewRunToken(now time.Time) RunToken {
	return RunToken{At: now}
}

// String is the unix-seconds form embedded in served filenames.
func (t RunToken) String() string {
	return strconv.FormatInt(t.At.Unix(), 10)
}

// Day is the archive key, YYYYMMDD in the token's location.
func (t RunToken) Day() string {
	return t.At.Format("20060102")
}
