// Package catalog holds the dashboard's mock LMS data in a private
// in-memory SQLite database. Nothing is written to disk; every Store
// starts from its Dataset and forgets all changes on Close.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var ErrNotFound = errors.New("catalog: not found")

const eventLayout = "2006-01-02 3:04 PM"

type CourseFilter int

const (
	AllCourses CourseFilter = iota
	EnrolledCourses
	AvailableCourses
)

type Store struct {
	db *sql.DB
	mu sync.Mutex

	gpa       float64
	stats     AchievementStats
	dashboard Dashboard
}

func Open(ctx context.Context, ds Dataset) (*Store, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// Each connection to :memory: is its own database.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, gpa: ds.GPA, stats: ds.AchievementStats, dashboard: ds.Dashboard}
	if err := s.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := s.seed(ctx, ds); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE courses (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			instructor TEXT NOT NULL,
			progress INTEGER NOT NULL,
			total_lessons INTEGER NOT NULL,
			completed_lessons INTEGER NOT NULL,
			duration TEXT NOT NULL,
			students INTEGER NOT NULL,
			rating REAL NOT NULL,
			seq INTEGER NOT NULL
		);`,
		`CREATE TABLE assignments (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			course TEXT NOT NULL,
			due_date TEXT NOT NULL,
			status TEXT NOT NULL,
			grade TEXT NOT NULL,
			points INTEGER NOT NULL,
			max_points INTEGER NOT NULL,
			type TEXT NOT NULL,
			description TEXT NOT NULL
		);`,
		`CREATE INDEX idx_assignments_status ON assignments(status, due_date);`,
		`CREATE TABLE grades (
			id TEXT PRIMARY KEY,
			course TEXT NOT NULL,
			assignment TEXT NOT NULL,
			grade TEXT NOT NULL,
			points INTEGER NOT NULL,
			max_points INTEGER NOT NULL,
			percentage INTEGER NOT NULL,
			date TEXT NOT NULL,
			type TEXT NOT NULL
		);`,
		`CREATE TABLE course_grades (
			seq INTEGER PRIMARY KEY,
			course TEXT NOT NULL,
			grade TEXT NOT NULL,
			percentage INTEGER NOT NULL,
			trend TEXT NOT NULL
		);`,
		`CREATE TABLE events (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			type TEXT NOT NULL,
			course TEXT NOT NULL,
			date TEXT NOT NULL,
			time TEXT NOT NULL,
			starts_at INTEGER NOT NULL
		);`,
		`CREATE INDEX idx_events_starts_at ON events(starts_at);`,
		`CREATE TABLE notifications (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			title TEXT NOT NULL,
			message TEXT NOT NULL,
			ts INTEGER NOT NULL,
			is_read INTEGER NOT NULL,
			priority TEXT NOT NULL,
			sender TEXT NOT NULL,
			course TEXT NOT NULL
		);`,
		`CREATE TABLE achievements (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			category TEXT NOT NULL,
			points INTEGER NOT NULL,
			earned INTEGER NOT NULL,
			earned_date TEXT NOT NULL,
			rarity TEXT NOT NULL,
			progress INTEGER NOT NULL,
			seq INTEGER NOT NULL
		);`,
		`CREATE TABLE study_groups (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			subject TEXT NOT NULL,
			members INTEGER NOT NULL,
			max_members INTEGER NOT NULL,
			next_session INTEGER NOT NULL,
			description TEXT NOT NULL,
			mine INTEGER NOT NULL,
			is_owner INTEGER NOT NULL,
			owner TEXT NOT NULL,
			last_activity TEXT NOT NULL,
			rating REAL NOT NULL,
			seq INTEGER NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

func (s *Store) seed(ctx context.Context, ds Dataset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, c := range ds.Courses {
		if _, err := tx.ExecContext(ctx, `INSERT INTO courses VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.Title, c.Instructor, c.Progress, c.TotalLessons, c.CompletedLessons, c.Duration, c.Students, c.Rating, i); err != nil {
			return fmt.Errorf("seed course %s: %w", c.ID, err)
		}
	}
	for _, a := range ds.Assignments {
		if _, err := tx.ExecContext(ctx, `INSERT INTO assignments VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			a.ID, a.Title, a.Course, a.DueDate, a.Status, a.Grade, a.Points, a.MaxPoints, a.Type, a.Description); err != nil {
			return fmt.Errorf("seed assignment %s: %w", a.ID, err)
		}
	}
	for _, g := range ds.Grades {
		if _, err := tx.ExecContext(ctx, `INSERT INTO grades VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			g.ID, g.Course, g.Assignment, g.Grade, g.Points, g.MaxPoints, g.Percentage, g.Date, g.Type); err != nil {
			return fmt.Errorf("seed grade %s: %w", g.ID, err)
		}
	}
	for i, cg := range ds.CourseGrades {
		if _, err := tx.ExecContext(ctx, `INSERT INTO course_grades VALUES (?, ?, ?, ?, ?)`,
			i, cg.Course, cg.Grade, cg.Percentage, cg.Trend); err != nil {
			return fmt.Errorf("seed course grade %s: %w", cg.Course, err)
		}
	}
	for _, e := range ds.Events {
		startsAt, err := time.ParseInLocation(eventLayout, e.Date+" "+e.Time, time.UTC)
		if err != nil {
			return fmt.Errorf("seed event %s: parse start: %w", e.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO events VALUES (?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.Title, e.Type, e.Course, e.Date, e.Time, startsAt.Unix()); err != nil {
			return fmt.Errorf("seed event %s: %w", e.ID, err)
		}
	}
	for _, n := range ds.Notifications {
		if _, err := tx.ExecContext(ctx, `INSERT INTO notifications VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			n.ID, n.Type, n.Title, n.Message, n.Timestamp.Unix(), n.Read, n.Priority, n.From, n.Course); err != nil {
			return fmt.Errorf("seed notification %s: %w", n.ID, err)
		}
	}
	for i, a := range ds.Achievements {
		if _, err := tx.ExecContext(ctx, `INSERT INTO achievements VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			a.ID, a.Title, a.Description, a.Category, a.Points, a.Earned, a.EarnedDate, a.Rarity, a.Progress, i); err != nil {
			return fmt.Errorf("seed achievement %s: %w", a.ID, err)
		}
	}
	for i, g := range ds.StudyGroups {
		if _, err := tx.ExecContext(ctx, `INSERT INTO study_groups VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			g.ID, g.Name, g.Subject, g.Members, g.MaxMembers, g.NextSession.Unix(), g.Description,
			g.Mine, g.IsOwner, g.Owner, g.LastActivity, g.Rating, i); err != nil {
			return fmt.Errorf("seed study group %s: %w", g.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}

func (s *Store) Courses(filter CourseFilter) ([]Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	where := ""
	switch filter {
	case EnrolledCourses:
		where = "WHERE progress > 0"
	case AvailableCourses:
		where = "WHERE progress = 0"
	}
	rows, err := s.db.Query(`
		SELECT id, title, instructor, progress, total_lessons, completed_lessons, duration, students, rating
		FROM courses ` + where + `
		ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("query courses: %w", err)
	}
	defer rows.Close()

	var out []Course
	for rows.Next() {
		var c Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Instructor, &c.Progress, &c.TotalLessons, &c.CompletedLessons, &c.Duration, &c.Students, &c.Rating); err != nil {
			return nil, fmt.Errorf("scan course row: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate courses: %w", err)
	}
	return out, nil
}

// Assignments returns assignments with the given status, or all of them
// for "" and "all", soonest due first.
func (s *Store) Assignments(status string) ([]Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status = strings.ToLower(strings.TrimSpace(status))
	query := `
		SELECT id, title, course, due_date, status, grade, points, max_points, type, description
		FROM assignments`
	var args []any
	if status != "" && status != "all" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY due_date, id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query assignments: %w", err)
	}
	defer rows.Close()

	var out []Assignment
	for rows.Next() {
		var a Assignment
		if err := rows.Scan(&a.ID, &a.Title, &a.Course, &a.DueDate, &a.Status, &a.Grade, &a.Points, &a.MaxPoints, &a.Type, &a.Description); err != nil {
			return nil, fmt.Errorf("scan assignment row: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assignments: %w", err)
	}
	return out, nil
}

func (s *Store) AssignmentCounts() (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT status, COUNT(*) FROM assignments GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count assignments: %w", err)
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan assignment count: %w", err)
		}
		out[status] = n
	}
	return out, rows.Err()
}

func (s *Store) Grades() ([]Grade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT id, course, assignment, grade, points, max_points, percentage, date, type
		FROM grades
		ORDER BY date DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query grades: %w", err)
	}
	defer rows.Close()

	var out []Grade
	for rows.Next() {
		var g Grade
		if err := rows.Scan(&g.ID, &g.Course, &g.Assignment, &g.Grade, &g.Points, &g.MaxPoints, &g.Percentage, &g.Date, &g.Type); err != nil {
			return nil, fmt.Errorf("scan grade row: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate grades: %w", err)
	}
	return out, nil
}

func (s *Store) CourseGrades() ([]CourseGrade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT course, grade, percentage, trend FROM course_grades ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query course grades: %w", err)
	}
	defer rows.Close()

	var out []CourseGrade
	for rows.Next() {
		var cg CourseGrade
		if err := rows.Scan(&cg.Course, &cg.Grade, &cg.Percentage, &cg.Trend); err != nil {
			return nil, fmt.Errorf("scan course grade row: %w", err)
		}
		out = append(out, cg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate course grades: %w", err)
	}
	return out, nil
}

func (s *Store) GradeSummary() (GradeSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := GradeSummary{GPA: s.gpa}
	err := s.db.QueryRow(`SELECT COALESCE(SUM(points), 0), COALESCE(SUM(max_points), 0) FROM grades`).
		Scan(&sum.TotalPoints, &sum.TotalMaxPoints)
	if err != nil {
		return GradeSummary{}, fmt.Errorf("sum grades: %w", err)
	}
	if sum.TotalMaxPoints > 0 {
		sum.Percentage = int(float64(sum.TotalPoints)/float64(sum.TotalMaxPoints)*100 + 0.5)
	}
	return sum, nil
}

// UpcomingEvents returns events that start after now, earliest first.
// A non-positive limit means 5.
func (s *Store) UpcomingEvents(now time.Time, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 5
	}
	return s.queryEvents(`WHERE starts_at > ? ORDER BY starts_at, id LIMIT ?`, now.Unix(), limit)
}

func (s *Store) EventsOn(day time.Time) ([]Event, error) {
	return s.queryEvents(`WHERE date = ? ORDER BY starts_at, id`, day.Format("2006-01-02"))
}

func (s *Store) queryEvents(tail string, args ...any) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT id, title, type, course, date, time FROM events `+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Type, &e.Course, &e.Date, &e.Time); err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return out, nil
}

// Notifications returns the notifications for a tab: "all" (or ""),
// "unread", or a notification type. Newest first.
func (s *Store) Notifications(tab string) ([]Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tab = strings.ToLower(strings.TrimSpace(tab))
	query := `SELECT id, type, title, message, ts, is_read, priority, sender, course FROM notifications`
	var args []any
	switch tab {
	case "", "all":
	case "unread":
		query += ` WHERE is_read = 0`
	default:
		query += ` WHERE type = ?`
		args = append(args, tab)
	}
	query += ` ORDER BY ts DESC, id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		var ts int64
		if err := rows.Scan(&n.ID, &n.Type, &n.Title, &n.Message, &ts, &n.Read, &n.Priority, &n.From, &n.Course); err != nil {
			return nil, fmt.Errorf("scan notification row: %w", err)
		}
		n.Timestamp = time.Unix(ts, 0).UTC()
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return out, nil
}

func (s *Store) UnreadCount() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM notifications WHERE is_read = 0`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return n, nil
}

func (s *Store) MarkRead(id string) error {
	return s.execOne(`UPDATE notifications SET is_read = 1 WHERE id = ?`, id)
}

// MarkAllRead marks every notification read and returns how many
// changed.
func (s *Store) MarkAllRead() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`UPDATE notifications SET is_read = 1 WHERE is_read = 0`)
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}
	return int(n), nil
}

func (s *Store) DeleteNotification(id string) error {
	return s.execOne(`DELETE FROM notifications WHERE id = ?`, id)
}

func (s *Store) execOne(stmt, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(stmt, id)
	if err != nil {
		return fmt.Errorf("notification %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("notification %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("notification %s: %w", id, ErrNotFound)
	}
	return nil
}

// Achievements returns achievements in a category, or all of them for
// "" and "all".
func (s *Store) Achievements(category string) ([]Achievement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	category = strings.ToLower(strings.TrimSpace(category))
	query := `
		SELECT id, title, description, category, points, earned, earned_date, rarity, progress
		FROM achievements`
	var args []any
	if category != "" && category != "all" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY seq`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query achievements: %w", err)
	}
	defer rows.Close()

	var out []Achievement
	for rows.Next() {
		var a Achievement
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.Category, &a.Points, &a.Earned, &a.EarnedDate, &a.Rarity, &a.Progress); err != nil {
			return nil, fmt.Errorf("scan achievement row: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate achievements: %w", err)
	}
	return out, nil
}

func (s *Store) AchievementStats() AchievementStats {
	return s.stats
}

func (s *Store) StudyGroups(mine bool) ([]StudyGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT id, name, subject, members, max_members, next_session, description, mine, is_owner, owner, last_activity, rating
		FROM study_groups
		WHERE mine = ?
		ORDER BY seq
	`, mine)
	if err != nil {
		return nil, fmt.Errorf("query study groups: %w", err)
	}
	defer rows.Close()

	var out []StudyGroup
	for rows.Next() {
		var g StudyGroup
		var next int64
		if err := rows.Scan(&g.ID, &g.Name, &g.Subject, &g.Members, &g.MaxMembers, &next, &g.Description, &g.Mine, &g.IsOwner, &g.Owner, &g.LastActivity, &g.Rating); err != nil {
			return nil, fmt.Errorf("scan study group row: %w", err)
		}
		g.NextSession = time.Unix(next, 0).UTC()
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate study groups: %w", err)
	}
	return out, nil
}

func (s *Store) Dashboard() Dashboard {
	return s.dashboard
}

// Search matches every term case-insensitively against the titles and
// descriptions of courses, assignments, events, notifications and study
// groups. A hit must contain all terms.
func (s *Store) Search(query string, limit int) ([]SearchHit, error) {
	terms := tokenizeSearchTerms(query)
	if len(terms) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	const corpus = `
		SELECT 'course' AS kind, id, title, instructor AS detail, title || ' ' || instructor AS haystack FROM courses
		UNION ALL
		SELECT 'assignment', id, title, course, title || ' ' || description || ' ' || course FROM assignments
		UNION ALL
		SELECT 'event', id, title, course || ' ' || date, title || ' ' || course FROM events
		UNION ALL
		SELECT 'notification', id, title, message, title || ' ' || message FROM notifications
		UNION ALL
		SELECT 'study-group', id, name, description, name || ' ' || description || ' ' || subject FROM study_groups`

	var b strings.Builder
	b.WriteString(`SELECT kind, id, title, detail FROM (` + corpus + `) WHERE `)
	args := make([]any, 0, len(terms)+1)
	for i, term := range terms {
		if i > 0 {
			b.WriteString(" AND ")
		}
		b.WriteString("LOWER(haystack) LIKE ?")
		args = append(args, "%"+term+"%")
	}
	b.WriteString(` LIMIT ?`)
	args = append(args, limit)

	rows, err := s.db.Query(b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("search catalog: %w", err)
	}
	defer rows.Close()

	var out []SearchHit
	for rows.Next() {
		var h SearchHit
		if err := rows.Scan(&h.Kind, &h.ID, &h.Title, &h.Detail); err != nil {
			return nil, fmt.Errorf("scan search hit: %w", err)
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search hits: %w", err)
	}
	return out, nil
}

func tokenizeSearchTerms(raw string) []string {
	parts := strings.Fields(strings.ToLower(strings.TrimSpace(raw)))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(p, "`\"'.,:;!?()[]{}<>|")
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
