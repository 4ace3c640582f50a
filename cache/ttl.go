package cache

import "time"

const (
	TTLOneHour   = time.Hour
	TTLSixHours  = 6 * time.Hour
	TTLOneDay    = 24 * time.Hour
	TTLSevenDays = 7 * 24 * time.Hour
)
