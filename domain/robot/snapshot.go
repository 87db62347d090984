package robot

import (
	"encoding/json"
	"time"

	"github.com/felixgeelhaar/tabletop/domain/grid"
)

// Snapshot is a serializable capture of a robot's state, stored in the
// cache under the robot's state key and restored with Restore.
type Snapshot struct {
	X          int            `json:"x"`
	Y          int            `json:"y"`
	Direction  grid.Direction `json:"direction,omitempty"`
	Placed     bool           `json:"placed"`
	GridWidth  int            `json:"grid_width"`
	GridHeight int            `json:"grid_height"`
	TakenAt    time.Time      `json:"taken_at"`
}

// Snapshot captures the robot's current state.
func (r *Robot) Snapshot() Snapshot {
	s := Snapshot{
		Placed:     r.placed,
		GridWidth:  r.surface.Width(),
		GridHeight: r.surface.Height(),
		TakenAt:    time.Now().UTC(),
	}
	if r.placed {
		s.X = r.pos.X
		s.Y = r.pos.Y
		s.Direction = r.facing
	}
	return s
}

// Restore reapplies a snapshot to the robot. An unplaced snapshot clears
// the pose; a placed snapshot is validated against the current grid.
func (r *Robot) Restore(s Snapshot) error {
	if !s.Placed {
		r.placed = false
		r.pos = grid.Position{}
		r.facing = ""
		return nil
	}
	return r.Place(grid.NewPosition(s.X, s.Y), s.Direction)
}

// Marshal serializes the snapshot for cache storage.
func (s Snapshot) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// UnmarshalSnapshot deserializes a snapshot from cache storage.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}
