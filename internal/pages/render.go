package pages

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"studydesk/internal/catalog"
)

// Request selects what Render draws.
type Request struct {
	Page ID
	Tab  string
	Role Role
	Now  time.Time
	// Day is the date the calendar lists events for. Zero means Now.
	Day time.Time
	// Selected is the id of the notification under the cursor.
	Selected string
}

// Render builds the markdown body of a page. Ids without a page of
// their own render the dashboard for the request's role.
func Render(store *catalog.Store, req Request) (string, error) {
	tab := ResolveTab(req.Page, req.Tab)
	var b strings.Builder
	var err error
	switch req.Page {
	case Courses:
		err = renderCourses(&b, store, tab)
	case Assignments:
		err = renderAssignments(&b, store, tab)
	case Grades:
		err = renderGrades(&b, store)
	case Calendar:
		day := req.Day
		if day.IsZero() {
			day = req.Now
		}
		err = renderCalendar(&b, store, req.Now, day)
	case Notifications:
		err = renderNotifications(&b, store, tab, req.Now, req.Selected)
	case Achievements:
		err = renderAchievements(&b, store, tab)
	case StudyGroups:
		err = renderStudyGroups(&b, store, tab, req.Now)
	default:
		err = renderDashboard(&b, store, req.Role)
	}
	if err != nil {
		return "", fmt.Errorf("render %s: %w", req.Page, err)
	}
	return b.String(), nil
}

func renderDashboard(b *strings.Builder, store *catalog.Store, role Role) error {
	dash := store.Dashboard()
	var staff catalog.Overview
	switch role {
	case RoleTeacher:
		staff = dash.Teacher
	case RoleAdmin:
		staff = dash.Admin
	}
	// Datasets without a staff overview show the student dashboard.
	if staff.Heading == "" {
		return renderStudentDashboard(b, store, dash)
	}
	renderOverview(b, staff)
	return nil
}

func renderOverview(b *strings.Builder, o catalog.Overview) {
	fmt.Fprintf(b, "# %s\n\n", o.Heading)
	if o.Summary != "" {
		b.WriteString(o.Summary)
		b.WriteString("\n\n")
	}
	if len(o.Stats) == 0 {
		return
	}
	labels := make([]string, 0, len(o.Stats))
	values := make([]string, 0, len(o.Stats))
	for _, st := range o.Stats {
		labels = append(labels, st.Label)
		values = append(values, st.Value)
	}
	fmt.Fprintf(b, "| %s |\n", strings.Join(labels, " | "))
	fmt.Fprintf(b, "|%s\n", strings.Repeat("---|", len(o.Stats)))
	fmt.Fprintf(b, "| %s |\n", strings.Join(values, " | "))
}

func renderStudentDashboard(b *strings.Builder, store *catalog.Store, dash catalog.Dashboard) error {
	enrolled, err := store.Courses(catalog.EnrolledCourses)
	if err != nil {
		return err
	}
	summary, err := store.GradeSummary()
	if err != nil {
		return err
	}
	unread, err := store.UnreadCount()
	if err != nil {
		return err
	}
	stats := store.AchievementStats()

	b.WriteString("# Welcome back, Alex! 🎓\n\n")
	fmt.Fprintf(b, "You're on a %d-day learning streak. Keep it up!\n\n", dash.Streak)
	b.WriteString("| Active Courses | Achievements | Avg. Score | Unread |\n")
	b.WriteString("|---|---|---|---|\n")
	fmt.Fprintf(b, "| %d | %d | %d%% | %d |\n\n", len(enrolled), stats.AchievementsUnlocked, summary.Percentage, unread)

	b.WriteString("## Recent Activity\n\n")
	for _, a := range dash.Activity {
		fmt.Fprintf(b, "- **%s** · %s · %s", a.Activity, a.Course, a.When)
		if a.Score > 0 {
			fmt.Fprintf(b, " · `%d%%`", a.Score)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n## Upcoming Deadlines\n\n")
	for _, d := range dash.Deadlines {
		marker := ""
		if d.Urgent {
			marker = " ⚠"
		}
		fmt.Fprintf(b, "- **%s** (%s) · due %s%s\n", d.Title, d.Course, d.Due, marker)
	}

	b.WriteString("\n## Course Progress\n\n")
	for _, p := range dash.Progress {
		fmt.Fprintf(b, "- %s `%s` %d%% · %s modules\n", p.Name, ProgressBar(p.Progress, 10), p.Progress, p.Modules)
	}
	return nil
}

func renderCourses(b *strings.Builder, store *catalog.Store, tab string) error {
	filter := catalog.EnrolledCourses
	if tab == "available" {
		filter = catalog.AvailableCourses
	}
	courses, err := store.Courses(filter)
	if err != nil {
		return err
	}
	fmt.Fprintf(b, "# %s\n\n", Title(Courses))
	if len(courses) == 0 {
		b.WriteString("_No courses._\n")
		return nil
	}
	for _, c := range courses {
		fmt.Fprintf(b, "## %s\n\n", c.Title)
		fmt.Fprintf(b, "%s · %s · %d students · ★ %.1f\n\n", c.Instructor, c.Duration, c.Students, c.Rating)
		if c.Enrolled() {
			fmt.Fprintf(b, "`%s` %d%% · %d/%d lessons\n\n", ProgressBar(c.Progress, 20), c.Progress, c.CompletedLessons, c.TotalLessons)
		} else {
			fmt.Fprintf(b, "%d lessons · not started\n\n", c.TotalLessons)
		}
	}
	return nil
}

func renderAssignments(b *strings.Builder, store *catalog.Store, tab string) error {
	counts, err := store.AssignmentCounts()
	if err != nil {
		return err
	}
	list, err := store.Assignments(tab)
	if err != nil {
		return err
	}
	fmt.Fprintf(b, "# %s\n\n", Title(Assignments))
	fmt.Fprintf(b, "Pending **%d** · Submitted **%d** · Graded **%d** · Overdue **%d**\n\n",
		counts["pending"], counts["submitted"], counts["graded"], counts["overdue"])
	if len(list) == 0 {
		b.WriteString("_No assignments._\n")
		return nil
	}
	for _, a := range list {
		fmt.Fprintf(b, "## %s\n\n", a.Title)
		fmt.Fprintf(b, "%s · %s · due %s · `%s`\n\n", a.Course, a.Type, a.DueDate, a.Status)
		if a.Description != "" {
			b.WriteString(a.Description)
			b.WriteString("\n\n")
		}
		if a.Grade != "" {
			fmt.Fprintf(b, "Grade **%s** (%d/%d)\n\n", a.Grade, a.Points, a.MaxPoints)
		} else {
			fmt.Fprintf(b, "%d points\n\n", a.MaxPoints)
		}
	}
	return nil
}

func renderGrades(b *strings.Builder, store *catalog.Store) error {
	summary, err := store.GradeSummary()
	if err != nil {
		return err
	}
	courses, err := store.CourseGrades()
	if err != nil {
		return err
	}
	grades, err := store.Grades()
	if err != nil {
		return err
	}
	fmt.Fprintf(b, "# %s\n\n", Title(Grades))
	fmt.Fprintf(b, "GPA **%.1f** · Overall **%d%%** (%d/%d points)\n\n",
		summary.GPA, summary.Percentage, summary.TotalPoints, summary.TotalMaxPoints)

	b.WriteString("## Course Grades\n\n")
	b.WriteString("| Course | Grade | Percentage | Trend |\n|---|---|---|---|\n")
	for _, c := range courses {
		fmt.Fprintf(b, "| %s | %s | %d%% %s | %s |\n", c.Course, c.Grade, c.Percentage, GradeBand(c.Percentage), trendArrow(c.Trend))
	}

	b.WriteString("\n## Recent Grades\n\n")
	b.WriteString("| Assignment | Course | Type | Date | Score | Grade |\n|---|---|---|---|---|---|\n")
	for _, g := range grades {
		fmt.Fprintf(b, "| %s | %s | %s | %s | %d/%d | %s |\n", g.Assignment, g.Course, g.Type, g.Date, g.Points, g.MaxPoints, g.Grade)
	}
	return nil
}

func renderCalendar(b *strings.Builder, store *catalog.Store, now, day time.Time) error {
	onDay, err := store.EventsOn(day)
	if err != nil {
		return err
	}
	upcoming, err := store.UpcomingEvents(now, 5)
	if err != nil {
		return err
	}
	fmt.Fprintf(b, "# %s\n\n", Title(Calendar))
	if sameDay(day, now) {
		fmt.Fprintf(b, "## Today · %s\n\n", day.Format("Monday, January 2, 2006"))
		writeEvents(b, onDay, "_Nothing scheduled today._")
	} else {
		fmt.Fprintf(b, "## %s\n\n", day.Format("Monday, January 2, 2006"))
		writeEvents(b, onDay, "_Nothing scheduled this day._")
	}
	b.WriteString("\n## Upcoming Events\n\n")
	writeEvents(b, upcoming, "_No upcoming events._")
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func writeEvents(b *strings.Builder, events []catalog.Event, empty string) {
	if len(events) == 0 {
		b.WriteString(empty)
		b.WriteString("\n")
		return
	}
	for _, e := range events {
		fmt.Fprintf(b, "- **%s** · %s %s · %s `%s`\n", e.Title, e.Date, e.Time, e.Course, e.Type)
	}
}

func renderNotifications(b *strings.Builder, store *catalog.Store, tab string, now time.Time, selected string) error {
	unread, err := store.UnreadCount()
	if err != nil {
		return err
	}
	list, err := store.Notifications(tab)
	if err != nil {
		return err
	}
	fmt.Fprintf(b, "# %s\n\n", Title(Notifications))
	fmt.Fprintf(b, "%d unread\n\n", unread)
	if len(list) == 0 {
		b.WriteString("_You're all caught up._\n")
		return nil
	}
	for _, n := range list {
		dot := "○"
		if !n.Read {
			dot = "●"
		}
		cursor := ""
		if n.ID == selected {
			cursor = "▸ "
		}
		fmt.Fprintf(b, "## %s%s %s\n\n", cursor, dot, n.Title)
		b.WriteString(n.Message)
		b.WriteString("\n\n")
		meta := []string{"`" + n.Type + "`", n.Priority + " priority", TimeAgo(now, n.Timestamp)}
		if n.From != "" {
			meta = append(meta, "from "+n.From)
		}
		if n.Course != "" {
			meta = append(meta, n.Course)
		}
		b.WriteString(strings.Join(meta, " · "))
		b.WriteString("\n\n")
	}
	return nil
}

func renderAchievements(b *strings.Builder, store *catalog.Store, tab string) error {
	stats := store.AchievementStats()
	list, err := store.Achievements(tab)
	if err != nil {
		return err
	}
	fmt.Fprintf(b, "# %s\n\n", Title(Achievements))
	fmt.Fprintf(b, "**%d** points · **%d** unlocked · **%d**-day streak · rank **%s**\n\n",
		stats.TotalPoints, stats.AchievementsUnlocked, stats.CurrentStreak, stats.Rank)
	for _, a := range list {
		mark := "🔒"
		if a.Earned {
			mark = "🏆"
		}
		fmt.Fprintf(b, "## %s %s\n\n", mark, a.Title)
		fmt.Fprintf(b, "%s\n\n", a.Description)
		fmt.Fprintf(b, "`%s` · %d pts · %s", a.Rarity, a.Points, a.Category)
		if a.Earned {
			fmt.Fprintf(b, " · earned %s\n\n", a.EarnedDate)
		} else {
			fmt.Fprintf(b, " · `%s` %d%%\n\n", ProgressBar(a.Progress, 10), a.Progress)
		}
	}
	return nil
}

func renderStudyGroups(b *strings.Builder, store *catalog.Store, tab string, now time.Time) error {
	list, err := store.StudyGroups(tab == "my-groups")
	if err != nil {
		return err
	}
	fmt.Fprintf(b, "# %s\n\n", Title(StudyGroups))
	if len(list) == 0 {
		b.WriteString("_No groups._\n")
		return nil
	}
	for _, g := range list {
		fmt.Fprintf(b, "## %s\n\n", g.Name)
		fmt.Fprintf(b, "%s\n\n", g.Description)
		fmt.Fprintf(b, "%s · %d/%d members", g.Subject, g.Members, g.MaxMembers)
		if g.Rating > 0 {
			fmt.Fprintf(b, " · ★ %.1f", g.Rating)
		}
		if g.Owner != "" {
			fmt.Fprintf(b, " · by %s", g.Owner)
		}
		if g.IsOwner {
			b.WriteString(" · `owner`")
		}
		b.WriteString("\n\n")
		if !g.NextSession.IsZero() {
			fmt.Fprintf(b, "Next session %s (%s)\n\n", g.NextSession.Format("Jan 2, 3:04 PM"), timeUntil(now, g.NextSession))
		}
	}
	return nil
}

// GradeBand names the band a percentage falls in: ≥90 excellent,
// ≥80 good, ≥70 fair, otherwise poor.
func GradeBand(percentage int) string {
	switch {
	case percentage >= 90:
		return "excellent"
	case percentage >= 80:
		return "good"
	case percentage >= 70:
		return "fair"
	default:
		return "poor"
	}
}

var bandColors = map[string]lipgloss.Color{
	"excellent": lipgloss.Color("42"),
	"good":      lipgloss.Color("39"),
	"fair":      lipgloss.Color("220"),
	"poor":      lipgloss.Color("196"),
}

func GradeColor(percentage int) lipgloss.Color {
	return bandColors[GradeBand(percentage)]
}

// TimeAgo formats the distance from t to now in whole minutes, hours
// or days.
func TimeAgo(now, t time.Time) string {
	minutes := int(now.Sub(t) / time.Minute)
	if minutes < 0 {
		minutes = 0
	}
	switch {
	case minutes < 60:
		return fmt.Sprintf("%dm ago", minutes)
	case minutes < 1440:
		return fmt.Sprintf("%dh ago", minutes/60)
	default:
		return fmt.Sprintf("%dd ago", minutes/1440)
	}
}

func timeUntil(now, t time.Time) string {
	d := t.Sub(now)
	switch {
	case d <= 0:
		return "started"
	case d < time.Hour:
		return fmt.Sprintf("in %dm", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("in %dh", int(d/time.Hour))
	default:
		return fmt.Sprintf("in %dd", int(d/(24*time.Hour)))
	}
}

// ProgressBar draws pct (clamped to 0..100) as a bar of width cells.
func ProgressBar(pct, width int) string {
	if width <= 0 {
		return ""
	}
	pct = max(0, min(pct, 100))
	filled := pct * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func trendArrow(trend string) string {
	switch trend {
	case "up":
		return "↑"
	case "down":
		return "↓"
	default:
		return "→"
	}
}
