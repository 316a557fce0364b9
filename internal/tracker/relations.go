package tracker

import (
	"issuetracker/internal/domain"
)

// AddRelation stores a directed edge and records a relation_added activity
// on the source issue. Both endpoints must exist. Parallel duplicate edges
// and self-relations are accepted.
func (s *Store) AddRelation(in domain.NewRelation) (string, error) {
	if _, err := domain.ParseRelationType(string(in.Type)); err != nil {
		return "", domain.WrapOp("add", "relation", "", err)
	}
	var id string
	err := s.update("add relation", func(tx *txn) error {
		if !tx.next.issues.has(in.IssueID) {
			return domain.WrapOp("add relation from", "issue", in.IssueID, domain.ErrNotFound)
		}
		target, ok := tx.next.issues.get(in.TargetIssueID)
		if !ok {
			return domain.WrapOp("add relation to", "issue", in.TargetIssueID, domain.ErrNotFound)
		}
		r := domain.Relation{
			ID:            tx.newID(),
			IssueID:       in.IssueID,
			Type:          in.Type,
			TargetIssueID: in.TargetIssueID,
			CreatedAt:     tx.now,
		}
		tx.relations().put(r.ID, r)
		tx.appendActivity(r.IssueID, domain.RelationActivity(domain.ActionRelationAdded, r, describeRelation(r, target)))
		id = r.ID
		return nil
	})
	return id, err
}

// RemoveRelation deletes the edge and records relation_removed on its
// source issue. Unknown IDs are ignored.
func (s *Store) RemoveRelation(id string) {
	_ = s.update("remove relation", func(tx *txn) error {
		r, ok := tx.next.relations.get(id)
		if !ok {
			return nil
		}
		target, _ := tx.next.issues.get(r.TargetIssueID)
		tx.relations().remove(id)
		tx.appendActivity(r.IssueID, domain.RelationActivity(domain.ActionRelationRemoved, r, describeRelation(r, target)))
		return nil
	})
}

// Relation returns the relation with the given ID.
func (s *Store) Relation(id string) (domain.Relation, bool) {
	return s.current().relations.get(id)
}

// RelationsForIssue returns every relation with issueID as source or
// target, in storage order.
func (s *Store) RelationsForIssue(issueID string) []domain.Relation {
	return s.current().relations.filter(func(r domain.Relation) bool {
		return r.Involves(issueID)
	})
}

// describeRelation renders "blocks SO-2", falling back to the raw target ID.
func describeRelation(r domain.Relation, target domain.Issue) string {
	ref := target.Identifier
	if ref == "" {
		ref = r.TargetIssueID
	}
	return r.Type.Label() + " " + ref
}
