package normalize

import "testing"

func TestDetectWorkFormat(t *testing.T) {
	tests := []struct {
		name        string
		schedule    string
		description string
		want        string
	}{
		{name: "remote schedule", schedule: "Удаленная работа", want: WorkFormatRemote},
		{name: "remote english", schedule: "Remote", want: WorkFormatRemote},
		{name: "remote in description", description: "возможна удаленная работа", want: WorkFormatRemote},
		{name: "hybrid schedule", schedule: "Гибрид", want: WorkFormatHybrid},
		{name: "hybrid in description", description: "гибридный график", want: WorkFormatHybrid},
		{name: "remote wins over hybrid", schedule: "удаленно", description: "гибрид", want: WorkFormatRemote},
		{name: "default office", schedule: "Полный день", description: "работа в офисе", want: WorkFormatOffice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectWorkFormat(tt.schedule, tt.description); got != tt.want {
				t.Fatalf("DetectWorkFormat(%q, %q) = %q, want %q", tt.schedule, tt.description, got, tt.want)
			}
		})
	}
}
