package main

import (
	"fmt"
	"time"
)

// digits reads up to limit decimal digits from the start of text
func digits(text string, limit int) (value int, rest string, ok bool) {
	count := 0
	for count < limit && count < len(text) && text[count] >= '0' && text[count] <= '9' {
		value = value*10 + int(text[count]-'0')
		count++
	}

	return value, text[count:], count > 0
}

func skip(text string, separators string) string {
	for _, separator := range separators {
		if len(text) > 0 && rune(text[0]) == separator {
			return text[1:]
		}
	}

	return text
}

// ParseDate reads MMDDYY (or M-D-YYYY with '-', '/' or '\' separators).
// Two digit years from 80 on are 19xx, the rest 20xx.
func ParseDate(text string) (year int, month time.Month, day int, err error) {
	invalid := fmt.Errorf("invalid date %q", text)
	m, rest, ok := digits(text, 2)
	if !ok {
		return 0, 0, 0, invalid
	}

	day, rest, ok = digits(skip(rest, `-/\`), 2)
	if !ok {
		return 0, 0, 0, invalid
	}

	year, rest, ok = digits(skip(rest, `-/\`), 4)
	if !ok || rest != "" {
		return 0, 0, 0, invalid
	}

	switch {
	case year < 80:
		year += 2000
	case year < 100:
		year += 1900
	}

	if m < 1 || m > 12 || day < 1 || day > 31 {
		return 0, 0, 0, invalid
	}

	// time.Date moves Feb 31 into March
	if normal := time.Date(year, time.Month(m), day, 0, 0, 0, 0, time.UTC); normal.Day() != day {
		return 0, 0, 0, invalid
	}

	return year, time.Month(m), day, nil
}

// ParseTime reads HHMM in 24 hour format, optionally as HH:MM
func ParseTime(text string) (hour, minute int, err error) {
	invalid := fmt.Errorf("invalid time %q", text)
	hour, rest, ok := digits(text, 2)
	if !ok {
		return 0, 0, invalid
	}

	minute, rest, ok = digits(skip(rest, ":"), 2)
	if !ok || rest != "" || hour > 23 || minute > 59 {
		return 0, 0, invalid
	}

	return hour, minute, nil
}

// Stamp combines an optional date and time with now. Seconds are always
// zero.
func Stamp(now time.Time, date, clock string) (time.Time, error) {
	year, month, day := now.Date()
	hour, minute := now.Hour(), now.Minute()

	var err error
	if date != "" {
		year, month, day, err = ParseDate(date)
		if err != nil {
			return time.Time{}, err
		}
	}

	if clock != "" {
		hour, minute, err = ParseTime(clock)
		if err != nil {
			return time.Time{}, err
		}
	}

	return time.Date(year, month, day, hour, minute, 0, 0, now.Location()), nil
}
