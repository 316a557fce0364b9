package tracker

import (
	"math"
	"strconv"

	"issuetracker/internal/domain"
)

// SetTimeEstimate replaces the issue's estimate and records
// estimate_changed. Negative minutes and unknown issues are ignored.
func (s *Store) SetTimeEstimate(issueID string, minutes int) {
	if minutes < 0 {
		s.log.Debug("ignoring negative estimate", "issue", issueID, "minutes", minutes)
		return
	}
	_ = s.update("set estimate", func(tx *txn) error {
		if !tx.next.issues.has(issueID) {
			return nil
		}
		entry, _ := tx.next.timeTracking.get(issueID)
		entry = entry.Clone()
		entry.IssueID = issueID

		old := domain.NoValue
		if entry.EstimateMinutes != nil {
			old = strconv.Itoa(*entry.EstimateMinutes)
		}
		entry.EstimateMinutes = &minutes
		tx.timeTracking().put(issueID, entry)
		tx.appendActivity(issueID, domain.FieldChangeActivity(domain.ActionEstimateChanged, "estimate",
			old, strconv.Itoa(minutes)))
		return nil
	})
}

// LogTime adds minutes to the issue's logged total and records
// time_logged. Non-positive minutes, unknown issues and increments that
// would overflow the total are ignored.
func (s *Store) LogTime(issueID string, minutes int) {
	if minutes <= 0 {
		s.log.Debug("ignoring non-positive time entry", "issue", issueID, "minutes", minutes)
		return
	}
	_ = s.update("log time", func(tx *txn) error {
		if !tx.next.issues.has(issueID) {
			return nil
		}
		entry, _ := tx.next.timeTracking.get(issueID)
		entry = entry.Clone()
		entry.IssueID = issueID
		if entry.LoggedMinutes > math.MaxInt-minutes {
			tx.store.log.Debug("ignoring time entry past the logged limit", "issue", issueID, "minutes", minutes)
			return nil
		}
		entry.LoggedMinutes += minutes
		tx.timeTracking().put(issueID, entry)
		tx.appendActivity(issueID, domain.TimeLoggedActivity(minutes))
		return nil
	})
}

// TimeTracking returns the issue's ledger entry, or an entry with no
// estimate and zero logged minutes if none exists.
func (s *Store) TimeTracking(issueID string) domain.TimeTracking {
	entry, ok := s.current().timeTracking.get(issueID)
	if !ok {
		return domain.TimeTracking{IssueID: issueID}
	}
	return entry.Clone()
}
