package services

import (
	"playtrack/internal/models"
	"playtrack/internal/structures"
	"time"
)

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// referenceClock pins the calendar day while keeping the wall-clock time of day.
type referenceClock struct {
	day time.Time
}

func (c referenceClock) Now() time.Time {
	now := time.Now().UTC()
	return c.day.Add(now.Sub(models.DayStart(now)))
}

// FixedClock always reports the same instant.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time {
	return c.T.UTC()
}

// NewClock honours app.referenceDate when set; the config validator guarantees it parses.
func NewClock(conf *structures.Config) Clock {
	if conf.ReferenceDate == "" {
		return systemClock{}
	}
	day, err := models.ParseDate(conf.ReferenceDate)
	if err != nil {
		return systemClock{}
	}
	return referenceClock{day: day}
}

func today(c Clock) time.Time {
	return models.DayStart(c.Now())
}
