package hall

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// Property: no sequence of operations can break the room/student invariants,
// and a rejected operation never changes the state.
func TestProperty_InvariantsHoldUnderRandomOperations(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		svc, err := New(ctx, &memGateway{})
		if err != nil {
			t.Fatalf("new service: %v", err)
		}

		studentIDs := []string{"S1", "S2", "S3", "S4", "S5", "S6"}
		roomNumbers := []string{"R101", "R102", "R103"}

		numOps := rapid.IntRange(1, 60).Draw(t, "numOps")
		for i := 0; i < numOps; i++ {
			before := svc.Snapshot()
			id := rapid.SampledFrom(studentIDs).Draw(t, "student")
			number := rapid.SampledFrom(roomNumbers).Draw(t, "room")

			var opErr error
			switch op := rapid.IntRange(0, 7).Draw(t, "op"); op {
			case 0:
				opErr = svc.AddStudent(ctx, Student{
					ID:       id,
					Distance: rapid.IntRange(0, 300).Draw(t, "distance"),
					Merit:    rapid.IntRange(1, 8000).Draw(t, "merit"),
				})
			case 1:
				opErr = svc.AddRoom(ctx, number, rapid.IntRange(1, 3).Draw(t, "capacity"))
			case 2:
				opErr = svc.AssignSeat(ctx, id, number)
			case 3:
				opErr = svc.UnassignSeat(ctx, id)
			case 4:
				opErr = svc.DeleteStudent(ctx, id)
			case 5:
				opErr = svc.DeleteRoom(ctx, number)
			case 6:
				_, opErr = svc.RunAllocation(ctx)
			case 7:
				opErr = svc.UpdateStudent(ctx, id, Student{Name: fmt.Sprintf("updated-%d", i)})
			}

			after := svc.Snapshot()
			if err := after.Validate(); err != nil {
				t.Fatalf("invariant broken after op %d: %v", i, err)
			}
			if opErr != nil {
				if errors.Is(opErr, ErrPersistence) {
					t.Fatalf("unexpected persistence failure: %v", opErr)
				}
				require.Equal(t, before, after, "rejected operation mutated state: %v", opErr)
			}
		}
	})
}

// Property: with no intervening change, allocation is a pure function of the
// current state, and a second batch finds nothing more to place.
func TestProperty_AllocationIsDeterministicAndIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		numStudents := rapid.IntRange(0, 12).Draw(t, "numStudents")
		numRooms := rapid.IntRange(0, 4).Draw(t, "numRooms")

		var students []Student
		for i := 0; i < numStudents; i++ {
			students = append(students, Student{
				ID:       fmt.Sprintf("S%02d", i),
				Distance: rapid.IntRange(0, 5).Draw(t, "distance"),
				Merit:    rapid.IntRange(1, 5).Draw(t, "merit"),
				Income:   rapid.IntRange(0, 2).Draw(t, "income"),
			})
		}
		var rooms []Room
		for i := 0; i < numRooms; i++ {
			rooms = append(rooms, Room{Number: fmt.Sprintf("R%d", 100+i), Capacity: rapid.IntRange(1, 3).Draw(t, "capacity")})
		}
		snap := Snapshot{Students: students, Rooms: rooms}

		first, err := New(ctx, &memGateway{snap: snap})
		require.NoError(t, err)
		second, err := New(ctx, &memGateway{snap: snap})
		require.NoError(t, err)

		r1, err := first.RunAllocation(ctx)
		require.NoError(t, err)
		r2, err := second.RunAllocation(ctx)
		require.NoError(t, err)
		require.Equal(t, r1, r2)
		require.Equal(t, first.Snapshot(), second.Snapshot())
		require.NoError(t, first.Snapshot().Validate())

		capacity := 0
		for _, room := range rooms {
			capacity += room.Capacity
		}
		require.Equal(t, min(capacity, numStudents), len(r1.Placements))

		again, err := first.RunAllocation(ctx)
		require.NoError(t, err)
		require.Empty(t, again.Placements)
		require.Equal(t, r1.Unplaced, again.Unplaced)
	})
}
