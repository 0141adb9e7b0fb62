package normalize

import "strings"

const (
	WorkFormatOffice = "office"
	WorkFormatRemote = "remote"
	WorkFormatHybrid = "hybrid"
)

// DetectWorkFormat infers the work format from the schedule and the
// description. Remote markers win over hybrid ones; office is the
// default.
func DetectWorkFormat(schedule, description string) string {
	schedule = strings.ToLower(schedule)
	description = strings.ToLower(description)

	switch {
	case strings.Contains(schedule, "удален"),
		strings.Contains(schedule, "remote"),
		strings.Contains(description, "удаленная работа"):
		return WorkFormatRemote
	case strings.Contains(schedule, "гибрид"),
		strings.Contains(description, "гибрид"):
		return WorkFormatHybrid
	default:
		return WorkFormatOffice
	}
}
