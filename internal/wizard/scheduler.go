package wizard

import "time"

// Stopper cancels a scheduled callback. Stop reports whether the call was
// prevented from running.
type Stopper interface {
	Stop() bool
}

// Scheduler runs f once after d
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Stopper
}

// TimerScheduler schedules on the runtime timer
type TimerScheduler struct{}

// AfterFunc wraps time.AfterFunc
func (TimerScheduler) AfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}
