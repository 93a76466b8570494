package models

import "strings"

// AttentionLane buckets tasks by how soon they need a human decision.
// Lanes are produced by the score provider, never computed by the query
// engine itself.
type AttentionLane string

const (
	LaneNow     AttentionLane = "now"
	LaneNext    AttentionLane = "next"
	LaneSoon    AttentionLane = "soon"
	LaneLater   AttentionLane = "later"
	LaneWaiting AttentionLane = "waiting"
)

// AttentionLanes lists the lanes from most to least pressing.
var AttentionLanes = []AttentionLane{LaneNow, LaneNext, LaneSoon, LaneLater, LaneWaiting}

// ParseAttentionLane converts a string to an AttentionLane,
// case-insensitively. Returns false for unknown lane names.
func ParseAttentionLane(s string) (AttentionLane, bool) {
	for _, lane := range AttentionLanes {
		if strings.EqualFold(s, string(lane)) {
			return lane, true
		}
	}
	return "", false
}
