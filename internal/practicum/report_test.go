package practicum

import (
	"errors"
	"testing"
)

func TestParseReportValid(t *testing.T) {
	t.Parallel()
	body := []byte(`{
		"homeworks": [
			{"homework_name": "hw2", "status": "reviewing", "id": 2},
			{"homework_name": "hw1", "status": "approved", "id": 1}
		],
		"current_date": 1700000000
	}`)

	rep, err := ParseReport(body)
	if err != nil {
		t.Fatalf("ParseReport error: %v", err)
	}
	if rep.CurrentDate != 1700000000 {
		t.Fatalf("CurrentDate = %d", rep.CurrentDate)
	}
	if len(rep.Homeworks) != 2 {
		t.Fatalf("len(Homeworks) = %d", len(rep.Homeworks))
	}
	// Order preserved.
	if rep.Homeworks[0].HomeworkName != "hw2" || rep.Homeworks[1].HomeworkName != "hw1" {
		t.Fatalf("order not preserved: %+v", rep.Homeworks)
	}
}

func TestParseReportEmptyList(t *testing.T) {
	t.Parallel()
	rep, err := ParseReport([]byte(`{"homeworks": [], "current_date": 1700000100}`))
	if err != nil {
		t.Fatalf("ParseReport error: %v", err)
	}
	if len(rep.Homeworks) != 0 {
		t.Fatalf("expected empty list, got %+v", rep.Homeworks)
	}
	if rep.CurrentDate != 1700000100 {
		t.Fatalf("CurrentDate = %d", rep.CurrentDate)
	}
}

func TestParseReportShapeErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		body string
		want error
	}{
		{name: "not an object (list)", body: `[1, 2]`, want: ErrNotObject},
		{name: "not an object (string)", body: `"nope"`, want: ErrNotObject},
		{name: "null", body: `null`, want: ErrNotObject},
		{name: "homeworks missing", body: `{"current_date": 1}`, want: ErrBadHomeworks},
		{name: "homeworks not a list", body: `{"homeworks": {"a": 1}, "current_date": 1}`, want: ErrBadHomeworks},
		{name: "malformed record", body: `{"homeworks": [{"homework_name": 5}], "current_date": 1}`, want: ErrBadHomeworks},
		{name: "current_date missing", body: `{"homeworks": []}`, want: ErrBadCurrentDate},
		{name: "current_date string", body: `{"homeworks": [], "current_date": "soon"}`, want: ErrBadCurrentDate},
		{name: "current_date fractional", body: `{"homeworks": [], "current_date": 1700.5}`, want: ErrBadCurrentDate},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseReport([]byte(tt.body))
			if err == nil {
				t.Fatalf("expected error for %s", tt.body)
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
		})
	}
}
