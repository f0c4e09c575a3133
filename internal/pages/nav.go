package pages

import "strings"

type ID string

const (
	Overview      ID = "overview"
	Courses       ID = "courses"
	Assignments   ID = "assignments"
	Grades        ID = "grades"
	Calendar      ID = "calendar"
	Notifications ID = "notifications"
	Achievements  ID = "achievements"
	StudyGroups   ID = "study-groups"

	// Role-specific destinations without a page of their own. They
	// render the dashboard.
	Classes   ID = "classes"
	Content   ID = "content"
	Grading   ID = "grading"
	Users     ID = "users"
	Analytics ID = "analytics"
	Settings  ID = "settings"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

func Roles() []Role { return []Role{RoleStudent, RoleTeacher, RoleAdmin} }

type SidebarItem struct {
	Label string
	Page  ID
	Badge string
}

func SidebarItems(role Role) []SidebarItem {
	common := []SidebarItem{
		{Label: "Dashboard", Page: Overview},
		{Label: "Calendar", Page: Calendar, Badge: "2"},
		{Label: "Notifications", Page: Notifications, Badge: "5"},
	}
	switch role {
	case RoleStudent:
		return append(common,
			SidebarItem{Label: "My Courses", Page: Courses},
			SidebarItem{Label: "Assignments", Page: Assignments},
			SidebarItem{Label: "Grades", Page: Grades},
			SidebarItem{Label: "Achievements", Page: Achievements, Badge: "3"},
			SidebarItem{Label: "Study Groups", Page: StudyGroups},
		)
	case RoleTeacher:
		return append(common,
			SidebarItem{Label: "My Classes", Page: Classes},
			SidebarItem{Label: "Content Library", Page: Content},
			SidebarItem{Label: "Grading Center", Page: Grading, Badge: "12"},
		)
	case RoleAdmin:
		return append(common,
			SidebarItem{Label: "User Management", Page: Users},
			SidebarItem{Label: "System Analytics", Page: Analytics},
			SidebarItem{Label: "Platform Settings", Page: Settings},
		)
	default:
		return common
	}
}

func Title(id ID) string {
	switch id {
	case Courses:
		return "My Courses"
	case Assignments:
		return "Assignments"
	case Grades:
		return "Grades"
	case Calendar:
		return "Calendar"
	case Notifications:
		return "Notifications"
	case Achievements:
		return "Achievements"
	case StudyGroups:
		return "Study Groups"
	default:
		return "Dashboard"
	}
}

func Description(id ID) string {
	switch id {
	case Courses:
		return "Track your learning progress and discover new courses"
	case Assignments:
		return "Manage your assignments and deadlines"
	case Grades:
		return "Monitor your academic performance"
	case Calendar:
		return "Stay organized with your academic schedule"
	case Notifications:
		return "Stay updated with important announcements"
	case Achievements:
		return "Track your academic milestones"
	case StudyGroups:
		return "Connect and collaborate with fellow students"
	default:
		return "Welcome to your learning hub"
	}
}

// Tabs lists the filters a page offers, first one being the default.
// Pages without filters return nil.
func Tabs(id ID) []string {
	switch id {
	case Courses:
		return []string{"enrolled", "available"}
	case Assignments:
		return []string{"all", "pending", "submitted", "graded", "overdue"}
	case Notifications:
		return []string{"all", "unread", "assignment", "achievement"}
	case Achievements:
		return []string{"all", "learning", "consistency", "achievement", "social"}
	case StudyGroups:
		return []string{"my-groups", "discover"}
	default:
		return nil
	}
}

// ResolveTab returns tab if the page offers it, otherwise the page's
// default tab.
func ResolveTab(id ID, tab string) string {
	tabs := Tabs(id)
	if len(tabs) == 0 {
		return ""
	}
	for _, t := range tabs {
		if t == tab {
			return tab
		}
	}
	return tabs[0]
}

// TabLabel is the display text for a tab value.
func TabLabel(id ID, tab string) string {
	switch {
	case id == Achievements && tab == "achievement":
		return "Performance"
	case id == Notifications && tab == "assignment":
		return "Assignments"
	case id == Notifications && tab == "achievement":
		return "Achievements"
	case tab == "my-groups":
		return "My Groups"
	case tab == "":
		return ""
	}
	return strings.ToUpper(tab[:1]) + tab[1:]
}
