package domain

import (
	"fmt"
	"strings"
)

// SnapshotVersion is written into every Snapshot.
const SnapshotVersion = 1

// Snapshot is the full, serializable engine state. A persistence
// collaborator stores it as an opaque bundle and hands it back at startup.
// Collections are in storage order.
type Snapshot struct {
	Version      int            `json:"version"`
	Projects     []Project      `json:"projects"`
	Issues       []Issue        `json:"issues"`
	Cycles       []Cycle        `json:"cycles"`
	Members      []Member       `json:"members"`
	Goals        []Goal         `json:"goals"`
	Milestones   []Milestone    `json:"milestones"`
	Activities   []Activity     `json:"activities,omitempty"`
	Relations    []Relation     `json:"relations,omitempty"`
	SubTasks     []SubTask      `json:"subtasks,omitempty"`
	TimeTracking []TimeTracking `json:"time_tracking,omitempty"`
	SavedViews   []SavedView    `json:"saved_views,omitempty"`
}

// FormatMinutes renders minutes as "2h 5m", "45m" or "3h".
func FormatMinutes(m int) string {
	if m < 0 {
		return "-" + FormatMinutes(-m)
	}
	h, rem := m/60, m%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", rem)
	case rem == 0:
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, rem)
}

// ParseMinutes accepts "90", "90m", "1h", "1h30m" or "1h 30m".
func ParseMinutes(s string) (int, error) {
	s = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "")
	if s == "" {
		return 0, fmt.Errorf("empty duration: %w", ErrValidation)
	}
	total, num, sawUnit := 0, -1, false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			if num < 0 {
				num = 0
			}
			num = num*10 + int(r-'0')
		case (r == 'h' || r == 'm') && num >= 0:
			if r == 'h' {
				total += num * 60
			} else {
				total += num
			}
			num, sawUnit = -1, true
		default:
			return 0, fmt.Errorf("invalid duration %q: %w", s, ErrValidation)
		}
	}
	if num >= 0 {
		if sawUnit {
			return 0, fmt.Errorf("invalid duration %q: %w", s, ErrValidation)
		}
		total += num
	}
	return total, nil
}
