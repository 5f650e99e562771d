package query

import (
	"fmt"
	"strings"
	"time"

	"taskManager/internal/models/task"
	"taskManager/internal/validate"
)

// перевод пользовательских критериев фильтрации в предикат,
// который умеет исполнять любое хранилище

// Wildcard - значение "без ограничения" для границы диапазона дат
const Wildcard = "*"

// Filter - сырые критерии от пользователя, любое подмножество полей
type Filter struct {
	Priority string
	Status   string
	Title    string
	DateFrom string
	DateTo   string
}

// Predicate - нормализованный фильтр, критерии объединяются по AND
type Predicate struct {
	Priority *task.Priority
	Status   *task.Status
	Title    string // подстрока в нижнем регистре
	From     *time.Time
	To       *time.Time
}

func Build(filter Filter) (Predicate, error) {
	predicate := Predicate{}

	if filter.Priority != "" {
		priority, err := validate.Priority(filter.Priority)
		if err != nil {
			return Predicate{}, fmt.Errorf("фильтр по приоритету: %w", err)
		}
		predicate.Priority = &priority
	}

	if filter.Status != "" {
		status, err := validate.Status(filter.Status)
		if err != nil {
			return Predicate{}, fmt.Errorf("фильтр по статусу: %w", err)
		}
		predicate.Status = &status
	}

	predicate.Title = strings.ToLower(strings.TrimSpace(filter.Title))

	from, err := parseBound(filter.DateFrom, false)
	if err != nil {
		return Predicate{}, fmt.Errorf("начало диапазона: %w", err)
	}
	predicate.From = from

	to, err := parseBound(filter.DateTo, true)
	if err != nil {
		return Predicate{}, fmt.Errorf("конец диапазона: %w", err)
	}
	predicate.To = to

	return predicate, nil
}

// граница диапазона: пустая строка и * означают отсутствие ограничения,
// прошедшие даты в фильтре допустимы; дата без времени в верхней границе
// накрывает весь день, до 23:59:59
func parseBound(raw string, end bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == Wildcard {
		return nil, nil
	}

	parsed, err := validate.DueDate(raw)
	if err != nil {
		return nil, err
	}

	if end && !strings.Contains(raw, " ") {
		parsed = parsed.Add(24*time.Hour - time.Second)
	}
	return &parsed, nil
}

func (p Predicate) Matches(t *task.Task) bool {
	if p.Priority != nil && t.Priority != *p.Priority {
		return false
	}
	if p.Status != nil && t.Status != *p.Status {
		return false
	}
	if p.Title != "" && !strings.Contains(strings.ToLower(t.Title), p.Title) {
		return false
	}
	if p.From != nil && t.DueDate.Before(*p.From) {
		return false
	}
	if p.To != nil && t.DueDate.After(*p.To) {
		return false
	}
	return true
}

// IsEmpty - нет ни одного критерия, предикат пропускает все задачи
func (p Predicate) IsEmpty() bool {
	return p.Priority == nil && p.Status == nil && p.Title == "" && p.From == nil && p.To == nil
}
