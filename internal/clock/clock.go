package clock

import "time"

// NowFunc supplies the timestamps stamped on run records; tests pin it to
// get deterministic CreatedAt/StartedAt/EndedAt values.
var NowFunc = time.Now

// Now returns the current time through NowFunc.
func Now() time.Time { return NowFunc() }
