package validate

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"taskManager/internal/models/task"
)

// здесь происходит проверка полей задачи до обращения к хранилищу
// все функции чистые: ни логов, ни I/O

var ErrInvalidTitle = errors.New("название не может быть пустым")
var ErrInvalidDescription = errors.New("описание слишком длинное")
var ErrInvalidPriority = errors.New("приоритет должен быть одним из: Low, Medium, High")
var ErrInvalidStatus = errors.New("статус должен быть одним из: Pending, In Progress, Completed")
var ErrInvalidDateFormat = errors.New("неверный формат даты, используйте YYYY-MM-DD или YYYY-MM-DD HH:MM")
var ErrPastDate = errors.New("дедлайн не может быть в прошлом")

const MaxTitleLen = 100
const MaxDescriptionLen = 1000

const layoutDate = "2006-01-02"
const layoutDateTime = "2006-01-02 15:04"

func Title(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrInvalidTitle
	}
	if len([]rune(title)) > MaxTitleLen {
		return "", fmt.Errorf("название длиннее %d символов: %w", MaxTitleLen, ErrInvalidTitle)
	}
	return title, nil
}

// описание необязательно, пустая строка допустима
func Description(description string) (string, error) {
	description = strings.TrimSpace(description)
	if len([]rune(description)) > MaxDescriptionLen {
		return "", fmt.Errorf("описание длиннее %d символов: %w", MaxDescriptionLen, ErrInvalidDescription)
	}
	return description, nil
}

func Priority(priority string) (task.Priority, error) {
	normalized := strings.ToLower(strings.TrimSpace(priority))
	for _, p := range task.Priorities() {
		if normalized == strings.ToLower(string(p)) {
			return p, nil
		}
	}
	return "", ErrInvalidPriority
}

func Status(status string) (task.Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(status))
	for _, s := range task.Statuses() {
		if normalized == strings.ToLower(string(s)) {
			return s, nil
		}
	}
	return "", ErrInvalidStatus
}

// сначала пробуем формат с временем, затем только дату (полночь)
func DueDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)

	if parsed, err := time.ParseInLocation(layoutDateTime, raw, time.Local); err == nil {
		return parsed, nil
	}
	if parsed, err := time.ParseInLocation(layoutDate, raw, time.Local); err == nil {
		return parsed, nil
	}
	return time.Time{}, ErrInvalidDateFormat
}

func NotPast(ts time.Time, now time.Time) error {
	if ts.Before(now) {
		return ErrPastDate
	}
	return nil
}
