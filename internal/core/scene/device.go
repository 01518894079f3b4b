package scene

import "time"

// Device is the read-only timing source entities and components see.
type Device interface {
	// DeltaTime is the duration of the last frame in seconds.
	DeltaTime() float32
	// Elapsed is the time since the device started.
	Elapsed() time.Duration
	// Frame is the number of frames ticked so far.
	Frame() uint64
}

type nopDevice struct{}

func (nopDevice) DeltaTime() float32     { return 0 }
func (nopDevice) Elapsed() time.Duration { return 0 }
func (nopDevice) Frame() uint64          { return 0 }
