// Package timeslot turns venue-authored opening hours and existing bookings
// into a grid of bookable 30-minute slots. All functions are pure.
package timeslot

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// SlotInterval is the spacing between candidate slots, in minutes.
const SlotInterval = 30

// Default hours applied when a venue's opening-hours text is unparseable.
const (
	DefaultStartTime = "18:00"
	DefaultEndTime   = "02:00"
)

// OpeningHours is a parsed venue day, HH:MM. End earlier than Start means the
// venue closes after midnight.
type OpeningHours struct {
	StartTime string
	EndTime   string
}

// BookingInterval is an existing reservation to test slots against. End
// earlier than Start means the booking runs past midnight.
type BookingInterval struct {
	StartTime string
	EndTime   string
	Status    string
}

// Slot is one candidate booking time with its computed availability.
type Slot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// DefaultBlockingStatuses are the booking statuses that occupy a slot.
var DefaultBlockingStatuses = []string{"pending", "confirmed", "paid"}

var (
	ampmRangeRe = regexp.MustCompile(`(?i)(\d{1,2})(?::(\d{2}))?\s*(am|pm)\s*(?:-|–|to)\s*(\d{1,2})(?::(\d{2}))?\s*(am|pm)`)
	hour24Re    = regexp.MustCompile(`(\d{1,2}):(\d{2})\s*(?:-|–|to)\s*(\d{1,2}):(\d{2})`)
)

// ParseOpeningHours extracts a time range from free-text opening hours. It
// understands AM/PM ranges ("7pm-12am", "9:00 AM - 11:00 PM") and 24-hour
// ranges ("18:00-02:00"). Returns nil when no pattern matches; callers fall
// back to the default 18:00-02:00 hours.
//
// A literal "12pm" end after a PM start is read as midnight, not noon:
// venues writing "7pm-12pm" invariably mean they close at 12 at night.
func ParseOpeningHours(text string) *OpeningHours {
	if m := ampmRangeRe.FindStringSubmatch(text); m != nil {
		startHour := to24Hour(atoi(m[1]), strings.ToLower(m[3]))
		startMin := atoi(m[2])
		endHour := to24Hour(atoi(m[4]), strings.ToLower(m[6]))
		endMin := atoi(m[5])

		if strings.EqualFold(m[3], "pm") && atoi(m[4]) == 12 && strings.EqualFold(m[6], "pm") {
			endHour = 0
		}

		return &OpeningHours{
			StartTime: fmt.Sprintf("%02d:%02d", startHour, startMin),
			EndTime:   fmt.Sprintf("%02d:%02d", endHour, endMin),
		}
	}

	if m := hour24Re.FindStringSubmatch(text); m != nil {
		startHour, startMin := atoi(m[1]), atoi(m[2])
		endHour, endMin := atoi(m[3]), atoi(m[4])
		if startHour < 24 && endHour < 24 && startMin < 60 && endMin < 60 {
			return &OpeningHours{
				StartTime: fmt.Sprintf("%02d:%02d", startHour, startMin),
				EndTime:   fmt.Sprintf("%02d:%02d", endHour, endMin),
			}
		}
	}

	return nil
}

func to24Hour(hour int, meridiem string) int {
	switch {
	case meridiem == "am" && hour == 12:
		return 0
	case meridiem == "pm" && hour != 12:
		return hour + 12
	default:
		return hour
	}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// GenerateTimeSlots produces the 30-minute slot starts between startTime and
// endTime as HH:MM:SS strings. An end earlier than the start is treated as
// next-day, so overnight hours still yield a finite ordered sequence.
func GenerateTimeSlots(startTime, endTime string) []string {
	start := toMinutes(startTime)
	end := toMinutes(endTime)
	if end <= start {
		end += 24 * 60
	}

	var slots []string
	for t := start; t < end; t += SlotInterval {
		m := t % (24 * 60)
		slots = append(slots, fmt.Sprintf("%02d:%02d:00", m/60, m%60))
	}
	return slots
}

// SlotAvailable reports whether slotTime collides with any booking whose
// status is in blockingStatuses. A slot is occupied when it falls inside
// [start, end) of a booking.
//
// Wraparound: a booking ending past midnight has 24h added to its end before
// comparing, and an early-morning slot (before 06:00) tested against such a
// booking has 24h added to itself as well, so a 01:00 slot collides with a
// 23:00-02:00 booking. Both adjustments are required; dropping either one
// silently reopens or blocks slots near midnight.
func SlotAvailable(slotTime string, bookings []BookingInterval, blockingStatuses []string) bool {
	if len(blockingStatuses) == 0 {
		blockingStatuses = DefaultBlockingStatuses
	}

	slot := toMinutes(slotTime)

	for _, b := range bookings {
		if !statusIn(b.Status, blockingStatuses) {
			continue
		}

		start := toMinutes(b.StartTime)
		end := toMinutes(b.EndTime)
		crossesMidnight := end < start
		if crossesMidnight {
			end += 24 * 60
		}

		cmp := slot
		if crossesMidnight && slot < 6*60 {
			cmp += 24 * 60
		}

		if cmp >= start && cmp < end {
			return false
		}
	}
	return true
}

// BuildSlots assembles the availability grid for a venue's opening-hours text
// and its existing bookings. Unparseable hours fall back to 18:00-02:00.
func BuildSlots(openingHours string, bookings []BookingInterval, blockingStatuses []string) []Slot {
	hours := ParseOpeningHours(openingHours)
	if hours == nil {
		hours = &OpeningHours{StartTime: DefaultStartTime, EndTime: DefaultEndTime}
	}

	times := GenerateTimeSlots(hours.StartTime, hours.EndTime)
	slots := make([]Slot, len(times))
	for i, tm := range times {
		available := SlotAvailable(tm, bookings, blockingStatuses)
		slots[i] = Slot{Time: tm, Available: available}
		if !available {
			slots[i].Reason = "booked"
		}
	}
	return slots
}

func statusIn(status string, set []string) bool {
	for _, s := range set {
		if s == status {
			return true
		}
	}
	return false
}

// toMinutes parses "HH:MM" or "HH:MM:SS" into minutes since midnight.
// Seconds are ignored; slots are minute-aligned.
func toMinutes(t string) int {
	parts := strings.SplitN(t, ":", 3)
	if len(parts) < 2 {
		return 0
	}
	return atoi(parts[0])*60 + atoi(parts[1])
}
