package models

// Task status constants
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusReview     = "review"
	TaskStatusDone       = "done"
)

// Task priority constants
const (
	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
	TaskPriorityUrgent = "urgent"
)

// ValidTaskStatuses lists the accepted task statuses.
var ValidTaskStatuses = []string{TaskStatusTodo, TaskStatusInProgress, TaskStatusReview, TaskStatusDone}

// ValidTaskPriorities lists the accepted task priorities.
var ValidTaskPriorities = []string{TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent}

// PendingTaskStatuses are the statuses counted as pending work.
var PendingTaskStatuses = []string{TaskStatusTodo, TaskStatusInProgress}
