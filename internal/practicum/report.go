package practicum

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Validation failures, one sentinel per shape check so the watcher's error
// messages (and the tests) can tell exactly which contract the API broke.
var (
	ErrNotObject      = errors.New("API response is not a JSON object")
	ErrBadHomeworks   = errors.New(`API response has no "homeworks" list`)
	ErrBadCurrentDate = errors.New(`API response has no integer "current_date"`)
)

// Homework is one record from the "homeworks" list. Only the two fields the
// translator needs are decoded; the API sends more, which we ignore.
type Homework struct {
	HomeworkName string `json:"homework_name"`
	Status       string `json:"status"`
}

// Report is a validated API response.
type Report struct {
	Homeworks   []Homework
	CurrentDate int64
}

// ParseReport decodes and validates a raw API body. It fails closed: any
// structural mismatch returns one of the sentinel errors above, wrapped
// with the offending detail. Record order is preserved; an empty homeworks
// list is valid.
func ParseReport(data []byte) (Report, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return Report{}, fmt.Errorf("%w: %v", ErrNotObject, err)
	}
	if top == nil {
		return Report{}, fmt.Errorf("%w: got null", ErrNotObject)
	}

	rawList, ok := top["homeworks"]
	if !ok {
		return Report{}, fmt.Errorf("%w: key missing", ErrBadHomeworks)
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(rawList, &elems); err != nil {
		return Report{}, fmt.Errorf(`%w: "homeworks" is not a list: %v`, ErrBadHomeworks, err)
	}

	homeworks := make([]Homework, 0, len(elems))
	for i, raw := range elems {
		var hw Homework
		if err := json.Unmarshal(raw, &hw); err != nil {
			return Report{}, fmt.Errorf(`%w: record %d is malformed: %v`, ErrBadHomeworks, i, err)
		}
		homeworks = append(homeworks, hw)
	}

	rawDate, ok := top["current_date"]
	if !ok {
		return Report{}, fmt.Errorf("%w: key missing", ErrBadCurrentDate)
	}
	var current int64
	if err := json.Unmarshal(rawDate, &current); err != nil {
		return Report{}, fmt.Errorf(`%w: "current_date" is not an integer: %v`, ErrBadCurrentDate, err)
	}

	return Report{Homeworks: homeworks, CurrentDate: current}, nil
}
