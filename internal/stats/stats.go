// Package stats derives box counts from a dataset snapshot. Nothing is cached;
// every call recomputes from the cards it is given.
package stats

import "github.com/sigongjoa/Concept-Gacha/internal/models"

// ForStudent counts the cards of studentID by box.
func ForStudent(cards []models.Card, studentID string) models.StudentStats {
	var st models.StudentStats
	for _, c := range cards {
		if c.StudentID != studentID {
			continue
		}
		st.Total++
		switch c.Box {
		case 1:
			st.Box1++
		case 2:
			st.Box2++
		case 3:
			st.Box3++
		case 4:
			st.Box4++
		}
	}
	return st
}

// All returns one summary per student, in dataset order.
func All(ds models.Dataset) []models.StudentSummary {
	out := make([]models.StudentSummary, 0, len(ds.Students))
	for _, s := range ds.Students {
		st := ForStudent(ds.Cards, s.ID)
		out = append(out, models.StudentSummary{
			Student: s,
			Total:   st.Total,
			Box1:    st.Box1,
			Box4:    st.Box4,
		})
	}
	return out
}
