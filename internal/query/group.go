package query

import (
	"path"
	"sort"
	"time"

	"github.com/valter-silva-au/taskquery/pkg/models"
)

// groupFields lists the fields "group by" accepts.
var groupFields = []string{
	"status", "priority", "tag", "folder", "path", "heading",
	"due", "scheduled", "start", "done",
}

func isGroupField(field string) bool {
	for _, f := range groupFields {
		if f == field {
			return true
		}
	}
	return false
}

// TaskGroup is one group of the grouped result: a key and the filtered,
// sorted tasks that mapped to it.
type TaskGroup struct {
	Key   string
	Tasks []models.Task
}

// noDateKey labels tasks missing the grouped date field. It sorts after all
// ISO date keys.
const noDateKey = "(no date)"

// grouper maps a task to zero or more group keys and orders the keys it
// produces. The tag grouper fans a task out to one key per tag, so a single
// task may appear in several groups.
type grouper struct {
	keys func(t models.Task) []string
	less func(a, b string) bool
}

func dateGrouper(get func(models.Task) *time.Time) grouper {
	return grouper{
		keys: func(t models.Task) []string {
			if d := get(t); d != nil {
				return []string{startOfDay(*d).Format("2006-01-02")}
			}
			return []string{noDateKey}
		},
		less: func(a, b string) bool {
			// ISO date keys sort chronologically as strings; the no-date
			// bucket goes last.
			if a == noDateKey {
				return false
			}
			if b == noDateKey {
				return true
			}
			return a < b
		},
	}
}

// groupers maps group fields to their key functions and key orderings.
var groupers = map[string]grouper{
	"status": {
		keys: func(t models.Task) []string { return []string{t.Status.Name} },
		less: nil, // ordered by lifecycle rank, see orderedKeys
	},
	"priority": {
		keys: func(t models.Task) []string { return []string{t.Priority.String()} },
		less: func(a, b string) bool {
			// Priority buckets order by descending severity.
			pa, _ := models.ParsePriority(a)
			pb, _ := models.ParsePriority(b)
			return pa > pb
		},
	},
	"tag": {
		keys: func(t models.Task) []string {
			// One key per tag: a task with no tags lands in no group.
			return append([]string(nil), t.Tags...)
		},
		less: func(a, b string) bool { return a < b },
	},
	"folder": {
		keys: func(t models.Task) []string {
			if t.Path == "" {
				return []string{"(root)"}
			}
			dir := path.Dir(t.Path)
			if dir == "." || dir == "/" {
				return []string{"(root)"}
			}
			return []string{dir}
		},
		less: func(a, b string) bool { return a < b },
	},
	"path": {
		keys: func(t models.Task) []string {
			if t.Path == "" {
				return []string{"(no path)"}
			}
			return []string{t.Path}
		},
		less: func(a, b string) bool { return a < b },
	},
	"heading": {
		keys: func(t models.Task) []string {
			if t.Heading == "" {
				return []string{"(no heading)"}
			}
			return []string{t.Heading}
		},
		less: func(a, b string) bool { return a < b },
	},
	"due":       dateGrouper(func(t models.Task) *time.Time { return t.DueAt }),
	"scheduled": dateGrouper(func(t models.Task) *time.Time { return t.ScheduledAt }),
	"start":     dateGrouper(func(t models.Task) *time.Time { return t.StartAt }),
	"done":      dateGrouper(func(t models.Task) *time.Time { return t.DoneAt }),
}

// statusKeyRank orders status group keys by their built-in lifecycle rank,
// with unknown names after the built-ins.
func statusKeyRank(name string) int {
	for i, s := range models.DefaultStatuses {
		if s.Name == name {
			return i
		}
	}
	return len(models.DefaultStatuses)
}

// groupTasks partitions the already filtered and sorted tasks by the group
// field. Within a group, tasks keep their sorted order; groups themselves
// follow the grouper's deterministic key ordering.
func groupTasks(tasks []models.Task, spec *GroupSpec) []TaskGroup {
	g, ok := groupers[spec.Field]
	if !ok {
		return nil
	}

	byKey := make(map[string][]models.Task)
	var keys []string
	for _, t := range tasks {
		for _, key := range g.keys(t) {
			if _, seen := byKey[key]; !seen {
				keys = append(keys, key)
			}
			byKey[key] = append(byKey[key], t)
		}
	}

	switch {
	case spec.Field == "status":
		sort.SliceStable(keys, func(i, j int) bool {
			ri, rj := statusKeyRank(keys[i]), statusKeyRank(keys[j])
			if ri != rj {
				return ri < rj
			}
			return keys[i] < keys[j]
		})
	case g.less != nil:
		sort.SliceStable(keys, func(i, j int) bool { return g.less(keys[i], keys[j]) })
	}

	groups := make([]TaskGroup, 0, len(keys))
	for _, key := range keys {
		groups = append(groups, TaskGroup{Key: key, Tasks: byKey[key]})
	}
	return groups
}
