package testutil

import (
	"time"

	"github.com/alexanderramin/planportal/internal/domain"
)

// User options
type UserOption func(*domain.User)

func WithUserName(name string) UserOption {
	return func(u *domain.User) {
		u.Name = name
	}
}

func NewTestUser(id string, role domain.Role, opts ...UserOption) *domain.User {
	u := &domain.User{
		ID:        id,
		Name:      "User " + id,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Plan content options
type ContentOption func(*domain.PlanContent)

func WithProfile(name, subject string) ContentOption {
	return func(c *domain.PlanContent) {
		c.Profile.Name = name
		c.Profile.Subject = subject
	}
}

func WithGoal(title string, tasks ...string) ContentOption {
	return func(c *domain.PlanContent) {
		g := domain.Goal{Title: title}
		for _, t := range tasks {
			g.Tasks = append(g.Tasks, domain.Task{Title: t, Status: domain.TaskNotStarted})
		}
		c.Goals = append(c.Goals, g)
	}
}

func WithStaff(name, role string) ContentOption {
	return func(c *domain.PlanContent) {
		c.TeachingStaff = append(c.TeachingStaff, domain.StaffMember{Name: name, Role: role})
	}
}

// NewTestContent returns plan content with one goal unless options add more.
func NewTestContent(opts ...ContentOption) domain.PlanContent {
	c := domain.PlanContent{
		Profile: domain.Profile{Name: "Ana Coordinator", Subject: "Mathematics", Contact: "ana@school.test"},
		SchoolProfileRows: []domain.SchoolProfileRow{
			{Label: "Students", Value: "420"},
		},
	}
	if len(opts) == 0 {
		opts = []ContentOption{WithGoal("Raise numeracy", "Weekly drills", "Peer tutoring")}
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Notification input options
type NotificationOption func(*domain.NotificationInput)

func WithNotificationType(t domain.NotificationType) NotificationOption {
	return func(n *domain.NotificationInput) {
		n.Type = t
	}
}

func WithLink(link string) NotificationOption {
	return func(n *domain.NotificationInput) {
		n.Link = link
	}
}

func WithNotificationStatus(s domain.PlanStatus) NotificationOption {
	return func(n *domain.NotificationInput) {
		n.Status = s
	}
}

func WithDedupeKey(k string) NotificationOption {
	return func(n *domain.NotificationInput) {
		n.DedupeKey = k
	}
}

func WithTitle(title string) NotificationOption {
	return func(n *domain.NotificationInput) {
		n.Title = title
	}
}

func NewTestNotificationInput(recipientID string, opts ...NotificationOption) domain.NotificationInput {
	in := domain.NotificationInput{
		Type:        domain.NotifPlanSubmitted,
		SenderName:  "Ana Coordinator",
		SenderRole:  domain.RoleCoordinator,
		Title:       "Plan submitted",
		Message:     "Ana submitted the 2026 work plan.",
		RecipientID: recipientID,
	}
	for _, opt := range opts {
		opt(&in)
	}
	return in
}
