package domain

type PlanStatus string

const (
	PlanDraft            PlanStatus = "draft"
	PlanPending          PlanStatus = "pending"
	PlanApproved         PlanStatus = "approved"
	PlanChangesRequested PlanStatus = "changes_requested"
)

// ValidPlanStatuses is the canonical set of accepted plan status strings.
var ValidPlanStatuses = map[PlanStatus]bool{
	PlanDraft: true, PlanPending: true, PlanApproved: true, PlanChangesRequested: true,
}

type TaskStatus string

const (
	TaskNotStarted TaskStatus = "not-started"
	TaskPartial    TaskStatus = "partial"
	TaskCompleted  TaskStatus = "completed"
)

// ValidTaskStatuses is the canonical set of accepted task status strings.
var ValidTaskStatuses = map[TaskStatus]bool{
	TaskNotStarted: true, TaskPartial: true, TaskCompleted: true,
}

// Next cycles not-started -> partial -> completed -> not-started.
func (s TaskStatus) Next() TaskStatus {
	switch s {
	case TaskNotStarted, "":
		return TaskPartial
	case TaskPartial:
		return TaskCompleted
	default:
		return TaskNotStarted
	}
}

type Role string

const (
	RolePrincipal   Role = "principal"
	RoleCoordinator Role = "coordinator"
)

// ValidRoles is the canonical set of accepted role strings.
var ValidRoles = map[Role]bool{RolePrincipal: true, RoleCoordinator: true}

type NotificationType string

const (
	NotifPlanSubmitted     NotificationType = "plan_submitted"
	NotifSubmissionReceipt NotificationType = "plan_submission_receipt"
	NotifPlanApproved      NotificationType = "plan_approved"
	NotifChangesRequested  NotificationType = "plan_changes_requested"
)

type Transition string

const (
	TransitionSubmit         Transition = "submit"
	TransitionApprove        Transition = "approve"
	TransitionRequestChanges Transition = "request_changes"
)

type InboxFilter string

const (
	FilterAll      InboxFilter = "all"
	FilterUnread   InboxFilter = "unread"
	FilterPinned   InboxFilter = "pinned"
	FilterArchived InboxFilter = "archived"
)

// ValidInboxFilters is the canonical set of accepted inbox filter strings.
var ValidInboxFilters = map[InboxFilter]bool{
	FilterAll: true, FilterUnread: true, FilterPinned: true, FilterArchived: true,
}
