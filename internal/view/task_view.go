package view

import (
	"github.com/PeteerDHeras/proyectoFinal/internal/application"
	"github.com/PeteerDHeras/proyectoFinal/internal/validate"
)

// Task state labels shown to users.
const (
	StateLabelPending   = "Pending"
	StateLabelCompleted = "Completed"
)

// TaskDetail is the normalized display form of a task.
type TaskDetail struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	DueTime     string `json:"due_time"`
	Priority    int    `json:"priority"`
	State       int    `json:"state"`
	StateLabel  string `json:"state_label"`
	OwnerID     int64  `json:"owner_id"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// TaskView wraps one persisted task.
type TaskView struct {
	task application.Task
}

// NewTaskView wraps a task for presentation.
func NewTaskView(task application.Task) TaskView {
	return TaskView{task: task}
}

// Detail returns the full normalized projection with the derived state label.
func (v TaskView) Detail() TaskDetail {
	label := StateLabelPending
	if v.task.State == application.TaskCompleted {
		label = StateLabelCompleted
	}
	created := ""
	if !v.task.CreatedAt.IsZero() {
		created = v.task.CreatedAt.UTC().Format("2006-01-02 15:04")
	}
	return TaskDetail{
		ID:          v.task.ID,
		Name:        v.task.Name,
		Description: v.task.Description,
		DueDate:     validate.NormalizeDate(v.task.DueDate),
		DueTime:     validate.NormalizeTime(v.task.DueTime),
		Priority:    v.task.Priority,
		State:       v.task.State,
		StateLabel:  label,
		OwnerID:     v.task.OwnerID,
		CreatedAt:   created,
	}
}

// Modal cross-maps the task onto the event display shape: the due date is
// surfaced as the start date and the end bounds stay empty.
func (v TaskView) Modal() ModalDetail {
	d := v.Detail()
	return ModalDetail{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		StartDate:   d.DueDate,
		StartTime:   "",
		EndDate:     "",
		EndTime:     "",
		Priority:    d.Priority,
		State:       d.State,
	}
}
