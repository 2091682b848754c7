//go:build unit

package slot_test

import (
	"testing"

	"salon-booking/internal/domain/slot"
	"salon-booking/internal/pkg/clock"
	"salon-booking/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrouping(t *testing.T) {
	snap := builder.NewScheduleBuilder().WithBen().Build()
	req := slot.Request{
		From:       builder.ReferenceDay,
		To:         builder.ReferenceDay.AddDate(0, 0, 1),
		ServiceIDs: []uuid.UUID{builder.ServiceCutID},
	}
	slots, res := slot.NewEngine(clock.NewMockClock(builder.ReferenceDay)).ComputeAvailableSlots(req, snap)
	require.True(t, res.Valid)

	t.Run("by day", func(t *testing.T) {
		days := slot.GroupByDay(slots, builder.SalonLocation())
		require.Len(t, days, 2)
		assert.Equal(t, "2025-10-20", days[0].Date)
		assert.Equal(t, "2025-10-21", days[1].Date)
		assert.Len(t, days[0].Slots, 32)
		assert.Equal(t, []string{"2025-10-20", "2025-10-21"}, slot.AvailableDays(slots, builder.SalonLocation()))
	})

	t.Run("by staff", func(t *testing.T) {
		staff := slot.GroupByStaff(slots)
		require.Len(t, staff, 2)
		assert.Equal(t, builder.StaffAnnaID, staff[0].StaffID)
		assert.Equal(t, "Ben", staff[1].StaffName)
		assert.Len(t, staff[1].Slots, 32)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, slot.GroupByDay(nil, builder.SalonLocation()))
		assert.Empty(t, slot.GroupByStaff(nil))
		assert.Empty(t, slot.AvailableDays(nil, builder.SalonLocation()))
	})

	t.Run("find exact slot", func(t *testing.T) {
		found, ok := slot.Find(slots, builder.StaffBenID, builder.At(1, "10:00"), builder.At(1, "10:30"))
		require.True(t, ok)
		assert.Equal(t, "Ben", found.StaffName)

		_, ok = slot.Find(slots, builder.StaffBenID, builder.At(1, "10:00"), builder.At(1, "11:00"))
		assert.False(t, ok)
	})
}
