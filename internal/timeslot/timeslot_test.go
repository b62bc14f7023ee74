package timeslot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOpeningHours(t *testing.T) {
	t.Run("ampm range", func(t *testing.T) {
		hours := ParseOpeningHours("7pm-12am")
		require.NotNil(t, hours)
		assert.Equal(t, "19:00", hours.StartTime)
		assert.Equal(t, "00:00", hours.EndTime)
	})

	t.Run("ampm range with minutes and spaces", func(t *testing.T) {
		hours := ParseOpeningHours("Open 9:00 AM - 11:00 PM")
		require.NotNil(t, hours)
		assert.Equal(t, "09:00", hours.StartTime)
		assert.Equal(t, "23:00", hours.EndTime)
	})

	t.Run("12pm after an evening start means midnight", func(t *testing.T) {
		hours := ParseOpeningHours("Mon-Fri 7pm-12pm")
		require.NotNil(t, hours)
		assert.Equal(t, "19:00", hours.StartTime)
		assert.Equal(t, "00:00", hours.EndTime)
	})

	t.Run("12pm after a morning start stays noon", func(t *testing.T) {
		hours := ParseOpeningHours("9am-12pm")
		require.NotNil(t, hours)
		assert.Equal(t, "09:00", hours.StartTime)
		assert.Equal(t, "12:00", hours.EndTime)
	})

	t.Run("24-hour range", func(t *testing.T) {
		hours := ParseOpeningHours("18:00-02:00")
		require.NotNil(t, hours)
		assert.Equal(t, "18:00", hours.StartTime)
		assert.Equal(t, "02:00", hours.EndTime)
	})

	t.Run("noon-to-midnight starts at 12pm", func(t *testing.T) {
		hours := ParseOpeningHours("12pm-12am")
		require.NotNil(t, hours)
		assert.Equal(t, "12:00", hours.StartTime)
		assert.Equal(t, "00:00", hours.EndTime)
	})

	t.Run("no pattern yields nil", func(t *testing.T) {
		assert.Nil(t, ParseOpeningHours("open late"))
		assert.Nil(t, ParseOpeningHours(""))
	})
}

func TestGenerateTimeSlots(t *testing.T) {
	t.Run("same-day range", func(t *testing.T) {
		slots := GenerateTimeSlots("18:00", "20:00")
		assert.Equal(t, []string{"18:00:00", "18:30:00", "19:00:00", "19:30:00"}, slots)
	})

	t.Run("overnight range wraps and terminates", func(t *testing.T) {
		slots := GenerateTimeSlots("18:00", "02:00")
		require.NotEmpty(t, slots)
		assert.Equal(t, "18:00:00", slots[0])
		assert.Equal(t, "01:30:00", slots[len(slots)-1])
		assert.Len(t, slots, 16, "8 hours of 30-minute slots")
	})

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, GenerateTimeSlots("18:00", "02:00"), GenerateTimeSlots("18:00", "02:00"))
	})
}

func TestSlotAvailable(t *testing.T) {
	overnight := []BookingInterval{{StartTime: "23:00", EndTime: "02:00", Status: "confirmed"}}

	t.Run("early-morning slot collides with overnight booking", func(t *testing.T) {
		assert.False(t, SlotAvailable("01:00", overnight, nil))
	})

	t.Run("pre-midnight slot collides with overnight booking", func(t *testing.T) {
		assert.False(t, SlotAvailable("23:30", overnight, nil))
	})

	t.Run("booking end is exclusive", func(t *testing.T) {
		assert.True(t, SlotAvailable("02:00", overnight, nil))
	})

	t.Run("daytime slot is free of overnight booking", func(t *testing.T) {
		assert.True(t, SlotAvailable("10:00", overnight, nil))
	})

	t.Run("same-day booking blocks its interval only", func(t *testing.T) {
		bookings := []BookingInterval{{StartTime: "19:00", EndTime: "21:00", Status: "paid"}}
		assert.False(t, SlotAvailable("19:00", bookings, nil))
		assert.False(t, SlotAvailable("20:30", bookings, nil))
		assert.True(t, SlotAvailable("21:00", bookings, nil))
		assert.True(t, SlotAvailable("18:30", bookings, nil))
	})

	t.Run("cancelled bookings do not block", func(t *testing.T) {
		bookings := []BookingInterval{{StartTime: "19:00", EndTime: "21:00", Status: "cancelled"}}
		assert.True(t, SlotAvailable("19:30", bookings, nil))
	})

	t.Run("custom blocking statuses", func(t *testing.T) {
		bookings := []BookingInterval{{StartTime: "19:00", EndTime: "21:00", Status: "pending"}}
		assert.True(t, SlotAvailable("19:30", bookings, []string{"confirmed"}))
		assert.False(t, SlotAvailable("19:30", bookings, []string{"pending"}))
	})
}

func TestBuildSlots(t *testing.T) {
	t.Run("grid marks booked slots with a reason", func(t *testing.T) {
		slots := BuildSlots("7pm-12am", []BookingInterval{
			{StartTime: "20:00", EndTime: "21:00", Status: "confirmed"},
		}, nil)
		require.Len(t, slots, 10, "19:00 through 23:30")

		byTime := map[string]Slot{}
		for _, s := range slots {
			byTime[s.Time] = s
		}
		assert.False(t, byTime["20:00:00"].Available)
		assert.Equal(t, "booked", byTime["20:00:00"].Reason)
		assert.False(t, byTime["20:30:00"].Available)
		assert.True(t, byTime["21:00:00"].Available)
		assert.Empty(t, byTime["21:00:00"].Reason)
	})

	t.Run("unparseable hours fall back to 18:00-02:00", func(t *testing.T) {
		slots := BuildSlots("call for hours", nil, nil)
		require.Len(t, slots, 16)
		assert.Equal(t, "18:00:00", slots[0].Time)
		assert.Equal(t, "01:30:00", slots[len(slots)-1].Time)
	})
}
