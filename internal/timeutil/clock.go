// Package timeutil дает единые "сейчас" и "сегодня" в организационном
// часовом поясе. Все сравнения дат и времени в рабочем процессе обязаны
// идти через Clock, а не через машинное локальное время.
package timeutil

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout      = "2006-01-02"
	TimeLayout      = "15:04:05"
	SlotLayout      = "03:04 PM"
	HumanDateLayout = "January 2, 2006"
	HumanTimeLayout = "03:04 PM"
)

type Clock struct {
	loc *time.Location
	now func() time.Time
}

func NewClock(timezone string) (*Clock, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", timezone, err)
	}
	return &Clock{loc: loc, now: time.Now}, nil
}

// FixedClock нужен в тестах, чтобы зафиксировать "сейчас"
func FixedClock(at time.Time) *Clock {
	return &Clock{
		loc: at.Location(),
		now: func() time.Time { return at },
	}
}

func (c *Clock) Location() *time.Location {
	return c.loc
}

func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// Today возвращает календарную дату "сегодня" в формате колонки
// fld_booking_date
func (c *Clock) Today() string {
	return c.Now().Format(DateLayout)
}

// NowTime возвращает текущее время в формате колонки fld_booking_time
func (c *Clock) NowTime() string {
	return c.Now().Format(TimeLayout)
}

func (c *Clock) HumanDate(t time.Time) string {
	return t.In(c.loc).Format(HumanDateLayout)
}

func (c *Clock) HumanTime(t time.Time) string {
	return t.In(c.loc).Format(HumanTimeLayout)
}

// ParseSlot разбирает 12-часовой слот вида "03:00 PM" и привязывает его к
// дате date ("2006-01-02") в организационном поясе. Поведение на границах
// окна (полуночный переход) остается за вызывающим: слот всегда трактуется
// как время внутри указанной даты.
func (c *Clock) ParseSlot(date, slot string) (time.Time, error) {
	slot = strings.TrimSpace(slot)
	t, err := time.ParseInLocation(SlotLayout, normalizeSlot(slot), c.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse slot %q: %w", slot, err)
	}

	d, err := time.ParseInLocation(DateLayout, date, c.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date %q: %w", date, err)
	}

	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, c.loc), nil
}

// normalizeSlot приводит "3:00 pm" к "03:00 PM": в унаследованных данных
// регистр и ведущий ноль непостоянны
func normalizeSlot(slot string) string {
	slot = strings.ToUpper(slot)
	if len(slot) > 1 && slot[1] == ':' {
		slot = "0" + slot
	}
	return slot
}
