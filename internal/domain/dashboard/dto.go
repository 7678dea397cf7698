package dashboard

// ========== LIVE DASHBOARD ==========

// DashboardSummary is the live attendance summary for one school and day
type DashboardSummary struct {
	Present        int                    `json:"present"`
	Absent         int                    `json:"absent"`
	Total          int                    `json:"total"` // distinct students with a known status
	PresentPct     int                    `json:"presentPct"`
	AbsentPct      int                    `json:"absentPct"`
	SubsCount      int                    `json:"subsCount"`
	AbsentStudents []AbsentStudent        `json:"absent_students"`
	PeriodStats    map[string]PeriodStats `json:"periodStats"` // keyed "1".."5"
	Activity       []ActivityItem         `json:"activity"`
	Timestamp      int64                  `json:"timestamp"` // epoch milliseconds
}

// PeriodStats is the present/absent breakdown of a single period
type PeriodStats struct {
	Present    int `json:"present"`
	Absent     int `json:"absent"`
	Total      int `json:"total"`
	PresentPct int `json:"presentPct"`
	AbsentPct  int `json:"absentPct"`
}

// AbsentStudent is a student whose latest status is absent
type AbsentStudent struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Class   string `json:"class,omitempty"`
	Period  string `json:"period,omitempty"`
	Teacher string `json:"teacher,omitempty"`
}

// ActivityItem is one entry of the recent activity feed
type ActivityItem struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Detail    string `json:"detail"`
	CreatedAt string `json:"created_at"` // ISO-8601, UTC
}
