package app

import "time"

// TickMsg triggers a frame update for needle animation.
type TickMsg time.Time
