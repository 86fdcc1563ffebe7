package practicum

import (
	"errors"
	"strings"
	"testing"
)

func TestParseStatusVerdicts(t *testing.T) {
	t.Parallel()
	tests := []struct {
		status  string
		verdict string
	}{
		{status: StatusApproved, verdict: "Работа проверена: ревьюеру всё понравилось. Ура!"},
		{status: StatusReviewing, verdict: "Работа взята на проверку ревьюером."},
		{status: StatusRejected, verdict: "Работа проверена: у ревьюера есть замечания."},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.status, func(t *testing.T) {
			msg, err := ParseStatus(Homework{HomeworkName: "hw1", Status: tt.status})
			if err != nil {
				t.Fatalf("ParseStatus error: %v", err)
			}
			want := `Изменился статус проверки работы "hw1". ` + tt.verdict
			if msg != want {
				t.Fatalf("message = %q, want %q", msg, want)
			}
		})
	}
}

func TestParseStatusUnknown(t *testing.T) {
	t.Parallel()
	_, err := ParseStatus(Homework{HomeworkName: "hw1", Status: "burned"})
	if !errors.Is(err, ErrUnknownStatus) {
		t.Fatalf("error = %v, want ErrUnknownStatus", err)
	}
	if !strings.Contains(err.Error(), "burned") {
		t.Fatalf("error should name the status: %v", err)
	}
}

func TestParseStatusMissingFields(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		hw    Homework
		field string
	}{
		{name: "no status", hw: Homework{HomeworkName: "hw1"}, field: "status"},
		{name: "no name", hw: Homework{Status: StatusApproved}, field: "homework_name"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseStatus(tt.hw)
			if !errors.Is(err, ErrMissingField) {
				t.Fatalf("error = %v, want ErrMissingField", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Fatalf("error should name the field %q: %v", tt.field, err)
			}
		})
	}
}

func TestVerdictLookup(t *testing.T) {
	t.Parallel()
	if _, ok := Verdict(StatusApproved); !ok {
		t.Fatal("approved should have a verdict")
	}
	if _, ok := Verdict("nope"); ok {
		t.Fatal("unknown status should not have a verdict")
	}
}
