package harness

import (
	"syscall"
	"time"
)

// Elapsed aggregates the CPU and wall-clock time spent inside one benchmark
// loop.
type Elapsed struct {
	User   time.Duration
	System time.Duration
	Real   time.Duration
}

// Timer captures process rusage and wall-clock time at construction and
// reports the deltas on Elapsed.
type Timer struct {
	start time.Time
	usage syscall.Rusage
}

// StartTimer starts a timer.
func StartTimer() *Timer {
	t := &Timer{start: time.Now()}
	_ = syscall.Getrusage(syscall.RUSAGE_SELF, &t.usage)
	return t
}

// Elapsed returns the user, system and real time since the timer started.
func (t *Timer) Elapsed() Elapsed {
	var now syscall.Rusage
	_ = syscall.Getrusage(syscall.RUSAGE_SELF, &now)
	return Elapsed{
		User:   timevalDuration(now.Utime) - timevalDuration(t.usage.Utime),
		System: timevalDuration(now.Stime) - timevalDuration(t.usage.Stime),
		Real:   time.Since(t.start),
	}
}

func timevalDuration(tv syscall.Timeval) time.Duration {
	return time.Duration(tv.Sec)*time.Second + time.Duration(tv.Usec)*time.Microsecond
}
