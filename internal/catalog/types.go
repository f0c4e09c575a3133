package catalog

import "time"

type Course struct {
	ID               string  `yaml:"id"`
	Title            string  `yaml:"title"`
	Instructor       string  `yaml:"instructor"`
	Progress         int     `yaml:"progress"`
	TotalLessons     int     `yaml:"total_lessons"`
	CompletedLessons int     `yaml:"completed_lessons"`
	Duration         string  `yaml:"duration"`
	Students         int     `yaml:"students"`
	Rating           float64 `yaml:"rating"`
}

func (c Course) Enrolled() bool { return c.Progress > 0 }

type Assignment struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Course      string `yaml:"course"`
	DueDate     string `yaml:"due_date"`
	Status      string `yaml:"status"`
	Grade       string `yaml:"grade"`
	Points      int    `yaml:"points"`
	MaxPoints   int    `yaml:"max_points"`
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
}

type Grade struct {
	ID         string `yaml:"id"`
	Course     string `yaml:"course"`
	Assignment string `yaml:"assignment"`
	Grade      string `yaml:"grade"`
	Points     int    `yaml:"points"`
	MaxPoints  int    `yaml:"max_points"`
	Percentage int    `yaml:"percentage"`
	Date       string `yaml:"date"`
	Type       string `yaml:"type"`
}

type CourseGrade struct {
	Course     string `yaml:"course"`
	Grade      string `yaml:"grade"`
	Percentage int    `yaml:"percentage"`
	Trend      string `yaml:"trend"`
}

type GradeSummary struct {
	TotalPoints    int
	TotalMaxPoints int
	Percentage     int
	GPA            float64
}

type Event struct {
	ID     string `yaml:"id"`
	Title  string `yaml:"title"`
	Type   string `yaml:"type"`
	Course string `yaml:"course"`
	Date   string `yaml:"date"`
	Time   string `yaml:"time"`
}

type Notification struct {
	ID        string    `yaml:"id"`
	Type      string    `yaml:"type"`
	Title     string    `yaml:"title"`
	Message   string    `yaml:"message"`
	Timestamp time.Time `yaml:"timestamp"`
	Read      bool      `yaml:"read"`
	Priority  string    `yaml:"priority"`
	From      string    `yaml:"from"`
	Course    string    `yaml:"course"`
}

type Achievement struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
	Points      int    `yaml:"points"`
	Earned      bool   `yaml:"earned"`
	EarnedDate  string `yaml:"earned_date"`
	Rarity      string `yaml:"rarity"`
	Progress    int    `yaml:"progress"`
}

type AchievementStats struct {
	TotalPoints          int    `yaml:"total_points"`
	AchievementsUnlocked int    `yaml:"achievements_unlocked"`
	CurrentStreak        int    `yaml:"current_streak"`
	Rank                 string `yaml:"rank"`
}

type StudyGroup struct {
	ID           string    `yaml:"id"`
	Name         string    `yaml:"name"`
	Subject      string    `yaml:"subject"`
	Members      int       `yaml:"members"`
	MaxMembers   int       `yaml:"max_members"`
	NextSession  time.Time `yaml:"next_session"`
	Description  string    `yaml:"description"`
	Mine         bool      `yaml:"mine"`
	IsOwner      bool      `yaml:"is_owner"`
	Owner        string    `yaml:"owner"`
	LastActivity string    `yaml:"last_activity"`
	Rating       float64   `yaml:"rating"`
}

type Activity struct {
	Course   string `yaml:"course"`
	Activity string `yaml:"activity"`
	// Score is zero for activities that are not scored.
	Score int    `yaml:"score"`
	When  string `yaml:"when"`
}

type Deadline struct {
	Title  string `yaml:"title"`
	Course string `yaml:"course"`
	Due    string `yaml:"due"`
	Urgent bool   `yaml:"urgent"`
}

type CourseProgress struct {
	Name     string `yaml:"name"`
	Progress int    `yaml:"progress"`
	Modules  string `yaml:"modules"`
}

// Stat is one headline figure on a staff dashboard. Values are display
// text ("2,456", "98.5%").
type Stat struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
}

// Overview is the dashboard shown to teachers and admins.
type Overview struct {
	Heading string `yaml:"heading"`
	Summary string `yaml:"summary"`
	Stats   []Stat `yaml:"stats"`
}

type Dashboard struct {
	Streak    int              `yaml:"streak"`
	Activity  []Activity       `yaml:"activity"`
	Deadlines []Deadline       `yaml:"deadlines"`
	Progress  []CourseProgress `yaml:"progress"`
	Teacher   Overview         `yaml:"teacher"`
	Admin     Overview         `yaml:"admin"`
}

// Dataset is the full fixture the store is seeded from.
type Dataset struct {
	Courses          []Course         `yaml:"courses"`
	Assignments      []Assignment     `yaml:"assignments"`
	Grades           []Grade          `yaml:"grades"`
	CourseGrades     []CourseGrade    `yaml:"course_grades"`
	GPA              float64          `yaml:"gpa"`
	Events           []Event          `yaml:"events"`
	Notifications    []Notification   `yaml:"notifications"`
	Achievements     []Achievement    `yaml:"achievements"`
	AchievementStats AchievementStats `yaml:"achievement_stats"`
	StudyGroups      []StudyGroup     `yaml:"study_groups"`
	Dashboard        Dashboard        `yaml:"dashboard"`
}

// SearchHit is one match from Store.Search.
type SearchHit struct {
	Kind   string
	ID     string
	Title  string
	Detail string
}
