package practicum

import (
	"errors"
	"fmt"
)

// Translation failures.
var (
	ErrMissingField  = errors.New("homework record is missing a required field")
	ErrUnknownStatus = errors.New("unexpected homework status")
)

// Homework review statuses the API is allowed to report.
const (
	StatusApproved  = "approved"
	StatusReviewing = "reviewing"
	StatusRejected  = "rejected"
)

// verdicts maps a status to its fixed human-readable sentence. The texts
// are frozen: downstream chats (and the tests) match them verbatim.
var verdicts = map[string]string{
	StatusApproved:  "Работа проверена: ревьюеру всё понравилось. Ура!",
	StatusReviewing: "Работа взята на проверку ревьюером.",
	StatusRejected:  "Работа проверена: у ревьюера есть замечания.",
}

// Verdict returns the verdict sentence for a status.
func Verdict(status string) (string, bool) {
	v, ok := verdicts[status]
	return v, ok
}

// ParseStatus composes the chat message for one homework record. Pure
// function: no I/O, no state.
//
// A field that decoded to the empty string counts as missing; the API never
// sends empty names or statuses.
func ParseStatus(hw Homework) (string, error) {
	if hw.Status == "" {
		return "", fmt.Errorf(`%w: "status"`, ErrMissingField)
	}
	if hw.HomeworkName == "" {
		return "", fmt.Errorf(`%w: "homework_name"`, ErrMissingField)
	}
	verdict, ok := verdicts[hw.Status]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, hw.Status)
	}
	return fmt.Sprintf("Изменился статус проверки работы \"%s\". %s", hw.HomeworkName, verdict), nil
}
