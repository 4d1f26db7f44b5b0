package blog

import (
	"fmt"
	"testing"
	"time"
)

func TestMakeSlug(t *testing.T) {
	at := time.Date(2021, time.March, 14, 15, 9, 26, 0, time.UTC)
	ts := at.Unix()

	tests := []struct {
		name  string
		title string
		want  string
	}{
		{name: "simple", title: "Hello World!", want: fmt.Sprintf("hello-world-%d", ts)},
		{name: "punctuation stripped", title: "Maths, Tips & Tricks?", want: fmt.Sprintf("maths-tips-tricks-%d", ts)},
		{name: "extra whitespace", title: "  Exam   Season  ", want: fmt.Sprintf("exam-season-%d", ts)},
		{name: "already hyphenated", title: "exam-prep 101", want: fmt.Sprintf("exam-prep-101-%d", ts)},
		{name: "uppercase", title: "IGCSE RESULTS", want: fmt.Sprintf("igcse-results-%d", ts)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MakeSlug(tt.title, at); got != tt.want {
				t.Errorf("MakeSlug() = %v, want %v", got, tt.want)
			}
		})
	}
}
