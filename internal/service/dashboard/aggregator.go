package dashboard

import (
	"math"
	"strings"
	"time"

	"github.com/schoolroll/attendance-backend-go/internal/domain/attendance"
	"github.com/schoolroll/attendance-backend-go/internal/domain/dashboard"
	"github.com/schoolroll/attendance-backend-go/internal/pkg/csvtable"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Header aliases per logical field, in priority order.
var (
	studentIDAliases   = []string{"student_id", "studentid", "id"}
	studentNameAliases = []string{"student_name", "name", "student"}
	statusAliases      = []string{"attendance_status", "status", "attendance"}
	classNameAliases   = []string{"class_name", "class"}
	periodAliases      = []string{"period"}
	teacherNameAliases = []string{"teacher_name", "teacher"}
	createdAtAliases   = []string{"created_at", "timestamp", "time", "created"}
)

// TrackedPeriods are the periods reported in periodStats. Other periods still
// count toward the school-wide totals.
var TrackedPeriods = []string{"1", "2", "3", "4", "5"}

const (
	activityLimit = 6
	activityTitle = "Parent notification sent"
)

// latestByStudent holds the winning record per student id in first-seen order.
type latestByStudent = orderedmap.OrderedMap[string, attendance.Record]

// Aggregate builds the live dashboard summary from a raw CSV export and the
// decoded substitute list. It never fails; bad input yields zero counts.
func Aggregate(exportCSV string, substitutes []attendance.SubstituteRecord, now time.Time) dashboard.DashboardSummary {
	overall, byPeriod := resolveLatest(csvtable.Parse(exportCSV))

	present, absent, total := tally(overall)

	absentStudents := make([]dashboard.AbsentStudent, 0)
	for pair := overall.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.Status != attendance.StatusAbsent {
			continue
		}
		absentStudents = append(absentStudents, dashboard.AbsentStudent{
			ID:      pair.Key,
			Name:    pair.Value.StudentName,
			Class:   pair.Value.ClassName,
			Period:  pair.Value.Period,
			Teacher: pair.Value.TeacherName,
		})
	}

	periodStats := make(map[string]dashboard.PeriodStats, len(TrackedPeriods))
	for _, period := range TrackedPeriods {
		var stats dashboard.PeriodStats
		if students, ok := byPeriod[period]; ok {
			stats.Present, stats.Absent, stats.Total = tally(students)
			stats.PresentPct = percent(stats.Present, stats.Total)
			stats.AbsentPct = percent(stats.Absent, stats.Total)
		}
		periodStats[period] = stats
	}

	createdAt := now.UTC().Format("2006-01-02T15:04:05.000Z07:00")
	activity := make([]dashboard.ActivityItem, 0, activityLimit)
	for _, s := range absentStudents {
		if len(activity) == activityLimit {
			break
		}
		activity = append(activity, dashboard.ActivityItem{
			ID:        s.ID,
			Title:     activityTitle,
			Detail:    activityDetail(s),
			CreatedAt: createdAt,
		})
	}

	return dashboard.DashboardSummary{
		Present:        present,
		Absent:         absent,
		Total:          total,
		PresentPct:     percent(present, total),
		AbsentPct:      percent(absent, total),
		SubsCount:      len(attendance.DistinctSubstitutes(substitutes)),
		AbsentStudents: absentStudents,
		PeriodStats:    periodStats,
		Activity:       activity,
		Timestamp:      now.UnixMilli(),
	}
}

// resolveLatest keeps one record per student overall and one per student
// within each period, in a single pass over the rows.
func resolveLatest(rows []csvtable.Row) (*latestByStudent, map[string]*latestByStudent) {
	overall := orderedmap.New[string, attendance.Record]()
	byPeriod := make(map[string]*latestByStudent)

	for _, row := range rows {
		rec, ok := recordFromRow(row)
		if !ok {
			continue
		}

		keepLatest(overall, rec)

		if rec.Period == "" {
			continue
		}
		students, ok := byPeriod[rec.Period]
		if !ok {
			students = orderedmap.New[string, attendance.Record]()
			byPeriod[rec.Period] = students
		}
		keepLatest(students, rec)
	}
	return overall, byPeriod
}

// recordFromRow resolves the logical fields of a row. Rows without a student
// id or with an unknown status are rejected.
func recordFromRow(row csvtable.Row) (attendance.Record, bool) {
	studentID, _ := row.Pick(studentIDAliases...)
	rawStatus, _ := row.Pick(statusAliases...)
	status := attendance.NormalizeStatus(rawStatus)
	if studentID == "" || !status.IsKnown() {
		return attendance.Record{}, false
	}

	name, _ := row.Pick(studentNameAliases...)
	class, _ := row.Pick(classNameAliases...)
	period, _ := row.Pick(periodAliases...)
	teacher, _ := row.Pick(teacherNameAliases...)
	createdAt, _ := row.Pick(createdAtAliases...)

	return attendance.Record{
		StudentID:   studentID,
		StudentName: name,
		ClassName:   class,
		Period:      period,
		TeacherName: teacher,
		Status:      status,
		Timestamp:   attendance.ParseTimestamp(createdAt),
	}, true
}

func keepLatest(students *latestByStudent, rec attendance.Record) {
	prev, ok := students.Get(rec.StudentID)
	if !ok || rec.Supersedes(prev) {
		students.Set(rec.StudentID, rec)
	}
}

// tally counts present and absent students; pending ones only count in total.
func tally(students *latestByStudent) (present, absent, total int) {
	for pair := students.Oldest(); pair != nil; pair = pair.Next() {
		switch pair.Value.Status {
		case attendance.StatusPresent:
			present++
		case attendance.StatusAbsent:
			absent++
		}
	}
	return present, absent, students.Len()
}

// percent is round(part/total*100) with halves rounded up, 0 for an empty total.
func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Floor(float64(part)/float64(total)*100 + 0.5))
}

func activityDetail(s dashboard.AbsentStudent) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{s.Name, s.Class} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if s.Period != "" {
		parts = append(parts, "Period "+s.Period)
	}
	return strings.Join(parts, " - ")
}
