package task

import (
	"time"

	"github.com/Abraxas-365/taskboard/pkg/fnx"
	"github.com/Abraxas-365/taskboard/pkg/kernel"
)

// Entry is one line of a checklist
type Entry struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Checked bool   `json:"checked"`
}

// Checklist groups entries under a title
type Checklist struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Entries []Entry `json:"entries"`
}

// Task is a card on an owner's board
type Task struct {
	ID         kernel.TaskID `json:"id"`
	Owner      kernel.UserID `json:"owner"`
	Title      string        `json:"title"`
	Checklists []Checklist   `json:"checklist"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// UpdateResult is the body returned by the checklist synchronization call
type UpdateResult struct {
	New Task `json:"new"`
}

// Clone returns a deep copy of t
func (t Task) Clone() Task {
	t.Checklists = CloneChecklists(t.Checklists)
	return t
}

// CloneChecklists deep copies a checklist slice. Nil stays nil.
func CloneChecklists(lists []Checklist) []Checklist {
	if lists == nil {
		return nil
	}
	out := make([]Checklist, len(lists))
	for i, l := range lists {
		out[i] = l
		if l.Entries != nil {
			out[i].Entries = append([]Entry(nil), l.Entries...)
		}
	}
	return out
}

// Progress counts checked entries across every checklist
func (t Task) Progress() (done, total int) {
	for _, l := range t.Checklists {
		for _, e := range l.Entries {
			total++
			if e.Checked {
				done++
			}
		}
	}
	return done, total
}

func (t Task) checkedByEntry() map[string]bool {
	m := make(map[string]bool)
	for _, l := range t.Checklists {
		for _, e := range l.Entries {
			m[e.ID] = e.Checked
		}
	}
	return m
}

// CheckedChanges lists the entry IDs that became checked and unchecked going
// from before to after. Entries that only exist on one side count as
// unchecked there.
func CheckedChanges(before, after Task) (checked, unchecked []string) {
	cur, next := before.checkedByEntry(), after.checkedByEntry()
	diff := fnx.DiffBool(cur, next)

	for _, l := range after.Checklists {
		for _, e := range l.Entries {
			id := e.ID
			diff(id, func(_, _ bool) { checked = append(checked, id) }, nil)
		}
	}
	for _, l := range before.Checklists {
		for _, e := range l.Entries {
			id := e.ID
			diff(id, nil, func(_, _ bool) { unchecked = append(unchecked, id) })
		}
	}
	return checked, unchecked
}
