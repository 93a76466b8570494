package query

import (
	"sort"
	"strings"
	"time"

	"github.com/valter-silva-au/taskquery/pkg/models"
)

// sortFields lists the fields "sort by" accepts.
var sortFields = []string{
	"urgency", "status", "priority", "due", "scheduled", "start",
	"created", "done", "description", "path", "id",
}

func isSortField(field string) bool {
	for _, f := range sortFields {
		if f == field {
			return true
		}
	}
	return false
}

// statusRank orders statuses by lifecycle stage for sorting and grouping.
func statusRank(s models.Status) int {
	switch s.Type {
	case models.StatusTypeTodo:
		return 0
	case models.StatusTypeInProgress:
		return 1
	case models.StatusTypeDone:
		return 2
	case models.StatusTypeCancelled:
		return 3
	default:
		return 4
	}
}

// compareDates orders two optional dates ascending, with absent dates last.
func compareDates(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case a.Before(*b):
		return -1
	case a.After(*b):
		return 1
	default:
		return 0
	}
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// compareTasksBy orders two tasks by the named sort field, ascending. The
// caller flips the sign for descending order and applies the id tie-break.
func compareTasksBy(field string, ec *EvalContext, a, b models.Task) int {
	switch field {
	case "urgency":
		if ec.Urgency == nil {
			return 0
		}
		return compareFloats(ec.Urgency.Urgency(a, ec.Reference), ec.Urgency.Urgency(b, ec.Reference))
	case "status":
		return statusRank(a.Status) - statusRank(b.Status)
	case "priority":
		return int(a.Priority) - int(b.Priority)
	case "due":
		return compareDates(a.DueAt, b.DueAt)
	case "scheduled":
		return compareDates(a.ScheduledAt, b.ScheduledAt)
	case "start":
		return compareDates(a.StartAt, b.StartAt)
	case "created":
		return compareDates(a.CreatedAt, b.CreatedAt)
	case "done":
		return compareDates(a.DoneAt, b.DoneAt)
	case "description":
		return strings.Compare(strings.ToLower(a.SearchText()), strings.ToLower(b.SearchText()))
	case "path":
		return strings.Compare(strings.ToLower(a.Path), strings.ToLower(b.Path))
	case "id":
		return strings.Compare(a.ID, b.ID)
	}
	return 0
}

// sortTasks sorts in place by the given spec. The sort is stable and ties on
// the sort key always break by task id, so results are deterministic across
// runs.
func sortTasks(ec *EvalContext, tasks []models.Task, spec *SortSpec) {
	if spec == nil {
		return
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		c := compareTasksBy(spec.Field, ec, tasks[i], tasks[j])
		if spec.Descending {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		return tasks[i].ID < tasks[j].ID
	})
}
