package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"taskManager/internal/handlers"
	"taskManager/internal/logger"
	"taskManager/internal/models/task"
	"taskManager/internal/query"
	"taskManager/internal/service"
	"taskManager/internal/validate"

	"github.com/google/uuid"
)

// интерактивное меню: тонкий слой ввода-вывода, вся логика в сервисе

type menu struct {
	appName string
	service handlers.TaskService
	in      *bufio.Scanner
	out     io.Writer
	eof     bool
}

func newMenu(appName string, svc handlers.TaskService) *menu {
	return newMenuIO(appName, svc, os.Stdin, os.Stdout)
}

func newMenuIO(appName string, svc handlers.TaskService, in io.Reader, out io.Writer) *menu {
	return &menu{
		appName: appName,
		service: svc,
		in:      bufio.NewScanner(in),
		out:     out,
	}
}

func (m *menu) Run(ctx context.Context) {
	for {
		choice := m.displayMenu()

		switch choice {
		case "1":
			m.addTask(ctx)
		case "2":
			m.listTasks(ctx)
		case "3":
			m.updateTask(ctx)
		case "4":
			m.deleteTask(ctx)
		case "5":
			m.markCompleted(ctx)
		case "6":
			m.deleteAllTasks(ctx)
		case "7":
			fmt.Fprintln(m.out, "До встречи!")
			return
		default:
			fmt.Fprintln(m.out, "Неверный пункт меню. Попробуйте ещё раз.")
		}

		// конец ввода посреди операции завершает программу штатно
		if m.eof {
			fmt.Fprintln(m.out, "До встречи!")
			return
		}
	}
}

func (m *menu) displayMenu() string {
	fmt.Fprintf(m.out, "\n%s\n", m.appName)
	fmt.Fprintln(m.out, "1. Добавить задачу")
	fmt.Fprintln(m.out, "2. Список задач")
	fmt.Fprintln(m.out, "3. Обновить задачу")
	fmt.Fprintln(m.out, "4. Удалить задачу")
	fmt.Fprintln(m.out, "5. Отметить задачу выполненной")
	fmt.Fprintln(m.out, "6. Удалить все задачи")
	fmt.Fprintln(m.out, "7. Выход")

	choice, ok := m.prompt("Выберите пункт (1-7): ")
	if !ok {
		return "7"
	}
	return choice
}

// второе значение false означает, что ввод исчерпан
func (m *menu) prompt(label string) (string, bool) {
	if m.eof {
		return "", false
	}
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		m.eof = true
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

// запрашивает значение, пока проверка не пройдёт или не кончится ввод
func (m *menu) promptValidated(label string, check func(string) error) (string, bool) {
	for {
		value, ok := m.prompt(label)
		if !ok {
			return "", false
		}
		if err := check(value); err != nil {
			fmt.Fprintf(m.out, "Ошибка: %s\n", err)
			continue
		}
		return value, true
	}
}

func (m *menu) addTask(ctx context.Context) {
	fmt.Fprintln(m.out, "\nНовая задача")

	title, ok := m.promptValidated("Название: ", func(v string) error {
		_, err := validate.Title(v)
		return err
	})
	if !ok {
		return
	}
	description, ok := m.promptValidated("Описание: ", func(v string) error {
		_, err := validate.Description(v)
		return err
	})
	if !ok {
		return
	}
	dueDate, ok := m.promptValidated("Дедлайн (YYYY-MM-DD или YYYY-MM-DD HH:MM): ", func(v string) error {
		_, err := validate.DueDate(v)
		return err
	})
	if !ok {
		return
	}
	priority, ok := m.promptValidated("Приоритет (Low/Medium/High): ", func(v string) error {
		_, err := validate.Priority(v)
		return err
	})
	if !ok {
		return
	}

	id, err := m.service.CreateNewTask(ctx, title, description, dueDate, priority)
	if err != nil {
		m.printError(err)
		return
	}

	fmt.Fprintln(m.out, "\nЗадача создана!")
	fmt.Fprintf(m.out, "ID: %s\n", id)
}

func (m *menu) listTasks(ctx context.Context) {
	fmt.Fprintln(m.out, "\nСписок задач")
	fmt.Fprintln(m.out, "Фильтры:")
	fmt.Fprintln(m.out, "1. Все задачи")
	fmt.Fprintln(m.out, "2. По приоритету")
	fmt.Fprintln(m.out, "3. По статусу")
	fmt.Fprintln(m.out, "4. По диапазону дедлайнов")

	choice, ok := m.prompt("Выберите фильтр (1-4): ")
	if !ok {
		return
	}
	filter := query.Filter{}

	switch choice {
	case "2":
		filter.Priority, ok = m.promptValidated("Приоритет (Low/Medium/High): ", func(v string) error {
			_, err := validate.Priority(v)
			return err
		})
		if !ok {
			return
		}
	case "3":
		filter.Status, ok = m.promptValidated("Статус (Pending/In Progress/Completed): ", func(v string) error {
			_, err := validate.Status(v)
			return err
		})
		if !ok {
			return
		}
	case "4":
		from, to, ok := m.promptDateRange()
		if !ok {
			return
		}
		filter.DateFrom = from
		filter.DateTo = to
	}

	tasks, err := m.service.GetTasks(ctx, filter)
	if err != nil {
		m.printError(err)
		return
	}

	if len(tasks) == 0 {
		fmt.Fprintln(m.out, "\nЗадач не найдено.")
		return
	}

	fmt.Fprintln(m.out, "\nЗадачи:")
	for _, t := range tasks {
		m.printTask(t)
	}
}

// диапазон дат: * означает открытую границу, хотя бы одна граница обязательна
func (m *menu) promptDateRange() (string, string, bool) {
	fmt.Fprintln(m.out, "\nДиапазон дат (YYYY-MM-DD), * - без границы")

	checkBound := func(v string) error {
		if v == query.Wildcard {
			return nil
		}
		_, err := validate.DueDate(v)
		return err
	}

	for {
		from, ok := m.promptValidated("С даты: ", checkBound)
		if !ok {
			return "", "", false
		}
		to, ok := m.promptValidated("По дату: ", checkBound)
		if !ok {
			return "", "", false
		}

		if from == query.Wildcard && to == query.Wildcard {
			fmt.Fprintln(m.out, "Ошибка: задайте хотя бы одну границу диапазона.")
			continue
		}

		if from != query.Wildcard && to != query.Wildcard {
			fromParsed, _ := validate.DueDate(from)
			toParsed, _ := validate.DueDate(to)
			if fromParsed.After(toParsed) {
				fmt.Fprintln(m.out, "Ошибка: начало диапазона позже конца. Введите даты заново.")
				continue
			}
		}

		return from, to, true
	}
}

// поиск задачи по ID или по подстроке названия
func (m *menu) findTask(ctx context.Context) *task.Task {
	fmt.Fprintln(m.out, "Искать по:")
	fmt.Fprintln(m.out, "1. ID задачи")
	fmt.Fprintln(m.out, "2. Названию")

	choice, ok := m.prompt("Выберите способ поиска (1-2): ")
	if !ok {
		return nil
	}

	if choice == "1" {
		raw, ok := m.prompt("Введите ID задачи: ")
		if !ok {
			return nil
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			fmt.Fprintln(m.out, "Неверный формат ID")
			return nil
		}

		found, err := m.service.GetTaskByID(ctx, id)
		if err != nil {
			m.printError(err)
			return nil
		}
		return found
	}

	title, ok := m.prompt("Введите название задачи: ")
	if !ok {
		return nil
	}
	tasks, err := m.service.GetTasks(ctx, query.Filter{Title: title})
	if err != nil {
		m.printError(err)
		return nil
	}

	if len(tasks) == 0 {
		fmt.Fprintln(m.out, "Задача не найдена.")
		return nil
	}

	if len(tasks) == 1 {
		return tasks[0]
	}

	fmt.Fprintln(m.out, "\nНайдено несколько задач:")
	for i, t := range tasks {
		fmt.Fprintf(m.out, "\n%d.", i+1)
		m.printTask(t)
	}

	for {
		raw, ok := m.prompt("\nНомер задачи: ")
		if !ok {
			return nil
		}
		var num int
		if _, err := fmt.Sscanf(raw, "%d", &num); err != nil || num < 1 || num > len(tasks) {
			fmt.Fprintln(m.out, "Неверный номер. Попробуйте ещё раз.")
			continue
		}
		return tasks[num-1]
	}
}

func (m *menu) updateTask(ctx context.Context) {
	fmt.Fprintln(m.out, "\nОбновление задачи")

	taskToUpdate := m.findTask(ctx)
	if taskToUpdate == nil {
		return
	}

	fmt.Fprintln(m.out, "\nТекущие данные:")
	m.printTask(taskToUpdate)

	fmt.Fprintln(m.out, "\nЧто обновить:")
	fmt.Fprintln(m.out, "1. Название")
	fmt.Fprintln(m.out, "2. Описание")
	fmt.Fprintln(m.out, "3. Дедлайн")
	fmt.Fprintln(m.out, "4. Приоритет")
	fmt.Fprintln(m.out, "5. Статус")

	choice, ok := m.prompt("Выберите поле (1-5): ")
	if !ok {
		return
	}
	update := service.TaskUpdate{}

	switch choice {
	case "1":
		value, ok := m.promptValidated("Новое название: ", func(v string) error {
			_, err := validate.Title(v)
			return err
		})
		if !ok {
			return
		}
		update.Title = &value
	case "2":
		value, ok := m.promptValidated("Новое описание: ", func(v string) error {
			_, err := validate.Description(v)
			return err
		})
		if !ok {
			return
		}
		update.Description = &value
	case "3":
		value, ok := m.promptValidated("Новый дедлайн (YYYY-MM-DD или YYYY-MM-DD HH:MM): ", func(v string) error {
			_, err := validate.DueDate(v)
			return err
		})
		if !ok {
			return
		}
		update.DueDate = &value
	case "4":
		value, ok := m.promptValidated("Новый приоритет (Low/Medium/High): ", func(v string) error {
			_, err := validate.Priority(v)
			return err
		})
		if !ok {
			return
		}
		update.Priority = &value
	case "5":
		value, ok := m.promptValidated("Новый статус (Pending/In Progress/Completed): ", func(v string) error {
			_, err := validate.Status(v)
			return err
		})
		if !ok {
			return
		}
		update.Status = &value
	default:
		fmt.Fprintln(m.out, "Неверный пункт.")
		return
	}

	if err := m.service.UpdateTaskByID(ctx, taskToUpdate.UUID, update); err != nil {
		m.printError(err)
		return
	}
	fmt.Fprintln(m.out, "Задача обновлена")
}

func (m *menu) deleteTask(ctx context.Context) {
	fmt.Fprintln(m.out, "\nУдаление задачи")

	taskToDelete := m.findTask(ctx)
	if taskToDelete == nil {
		return
	}

	fmt.Fprintln(m.out, "\nЗадача к удалению:")
	m.printTask(taskToDelete)

	confirm, ok := m.prompt("\nТочно удалить задачу? (да/нет): ")
	if !ok || strings.ToLower(confirm) != "да" {
		fmt.Fprintln(m.out, "Удаление отменено")
		return
	}

	if err := m.service.DeleteTaskByID(ctx, taskToDelete.UUID); err != nil {
		m.printError(err)
		return
	}
	fmt.Fprintln(m.out, "Задача удалена")
}

func (m *menu) markCompleted(ctx context.Context) {
	fmt.Fprintln(m.out, "\nОтметить задачу выполненной")

	taskToComplete := m.findTask(ctx)
	if taskToComplete == nil {
		return
	}

	if err := m.service.MarkCompleted(ctx, taskToComplete.UUID); err != nil {
		m.printError(err)
		return
	}
	fmt.Fprintln(m.out, "Задача отмечена выполненной")
}

func (m *menu) deleteAllTasks(ctx context.Context) {
	fmt.Fprintln(m.out, "\nУдаление всех задач")
	fmt.Fprintln(m.out, "ВНИМАНИЕ: действие необратимо!")

	confirm, ok := m.prompt("\nТочно удалить ВСЕ задачи? (да/нет): ")
	if !ok || strings.ToLower(confirm) != "да" {
		fmt.Fprintln(m.out, "Операция отменена")
		return
	}

	deleted, err := m.service.DeleteAllTasks(ctx)
	if err != nil {
		m.printError(err)
		return
	}

	if deleted == 0 {
		fmt.Fprintln(m.out, "Задач для удаления не нашлось")
		return
	}
	fmt.Fprintf(m.out, "Удалено задач: %d\n", deleted)
}

func (m *menu) printTask(t *task.Task) {
	fmt.Fprintf(m.out, "\nID: %s\n", t.UUID)
	fmt.Fprintf(m.out, "Название: %s\n", t.Title)
	if t.Description != "" {
		fmt.Fprintf(m.out, "Описание: %s\n", t.Description)
	}
	fmt.Fprintf(m.out, "Дедлайн: %s\n", t.FormatDueDate())
	fmt.Fprintf(m.out, "Приоритет: %s\n", t.Priority)
	fmt.Fprintf(m.out, "Статус: %s\n", t.Status)
	fmt.Fprintf(m.out, "Создана: %s\n", t.CreatedAt.Format("2006-01-02 15:04:05"))
}

// бизнес-ошибки показываем человеку без кода, остальное уходит в лог
func (m *menu) printError(err error) {
	var businessErr *service.BusinessError
	if errors.As(err, &businessErr) {
		msg := businessErr.Message
		if businessErr.Err != nil {
			msg = businessErr.Err.Error()
		}
		fmt.Fprintf(m.out, "Ошибка: %s\n", msg)
		return
	}

	logger.Error("Menu: Ошибка операции", err)
	fmt.Fprintf(m.out, "Ошибка: %s\n", err)
}
