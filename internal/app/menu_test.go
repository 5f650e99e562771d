package app

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"taskManager/internal/query"
	"taskManager/internal/repository/task/inmemory"
	"taskManager/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// меню проверяется целиком: сценарий ввода против реального сервиса
// поверх хранилища в памяти

func newTestMenu(script string) (*menu, *service.TaskService, *bytes.Buffer) {
	svc := service.NewTaskService(inmemory.NewTaskStorage())
	out := &bytes.Buffer{}
	m := newMenuIO("Task Management Application", &svc, strings.NewReader(script), out)
	return m, &svc, out
}

// TestMenu_Exit тестирует выход из меню
func TestMenu_Exit(t *testing.T) {
	m, _, out := newTestMenu("7\n")

	m.Run(context.Background())

	assert.Contains(t, out.String(), "До встречи!")
}

// TestMenu_EOFAtMainMenu тестирует штатный выход при исчерпании ввода
func TestMenu_EOFAtMainMenu(t *testing.T) {
	m, _, out := newTestMenu("")

	m.Run(context.Background())

	assert.Contains(t, out.String(), "До встречи!")
}

// TestMenu_EOFMidOperation тестирует, что конец ввода посреди операции
// прерывает её и завершает меню, а не зацикливает перезапрос
func TestMenu_EOFMidOperation(t *testing.T) {
	m, svc, out := newTestMenu("1\n") // ввод кончается на запросе названия

	done := make(chan struct{})
	go func() {
		m.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("меню не завершилось после конца ввода")
	}

	assert.Contains(t, out.String(), "До встречи!")

	tasks, err := svc.GetTasks(context.Background(), query.Filter{})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

// TestMenu_EOFMidValidatedPrompt тестирует конец ввода после неудачной проверки
func TestMenu_EOFMidValidatedPrompt(t *testing.T) {
	// пустое название не проходит проверку, затем ввод кончается
	m, _, out := newTestMenu("1\n\n")

	done := make(chan struct{})
	go func() {
		m.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("меню не завершилось после конца ввода")
	}

	assert.Contains(t, out.String(), "До встречи!")
}

// TestMenu_InvalidChoice тестирует неверный пункт меню
func TestMenu_InvalidChoice(t *testing.T) {
	m, _, out := newTestMenu("9\n7\n")

	m.Run(context.Background())

	assert.Contains(t, out.String(), "Неверный пункт меню")
}

// TestMenu_AddTask тестирует добавление задачи с повторным запросом
// после неверного приоритета
func TestMenu_AddTask(t *testing.T) {
	script := strings.Join([]string{
		"1",                // добавить задачу
		"Quarterly Report", // название
		"prepare slides",   // описание
		"2030-06-01",       // дедлайн
		"Urgent",           // недопустимый приоритет, будет перезапрошен
		"High",
		"7",
	}, "\n") + "\n"

	m, svc, out := newTestMenu(script)

	m.Run(context.Background())

	output := out.String()
	assert.Contains(t, output, "Задача создана!")
	assert.Contains(t, output, "Ошибка:")

	tasks, err := svc.GetTasks(context.Background(), query.Filter{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Quarterly Report", tasks[0].Title)
}

// TestMenu_ListTasks тестирует список с фильтром по приоритету
func TestMenu_ListTasks(t *testing.T) {
	script := strings.Join([]string{
		"2",    // список задач
		"2",    // фильтр по приоритету
		"high", // регистр не важен
		"7",
	}, "\n") + "\n"

	m, svc, out := newTestMenu(script)

	_, err := svc.CreateNewTask(context.Background(), "Deploy release", "", "2030-06-01", "High")
	require.NoError(t, err)
	_, err = svc.CreateNewTask(context.Background(), "Water plants", "", "2030-06-01", "Low")
	require.NoError(t, err)

	m.Run(context.Background())

	output := out.String()
	assert.Contains(t, output, "Deploy release")
	assert.NotContains(t, output, "Water plants")
}

// TestMenu_ListTasks_Empty тестирует пустой список
func TestMenu_ListTasks_Empty(t *testing.T) {
	script := strings.Join([]string{
		"2",
		"1", // все задачи
		"7",
	}, "\n") + "\n"

	m, _, out := newTestMenu(script)

	m.Run(context.Background())

	assert.Contains(t, out.String(), "Задач не найдено.")
}

// TestMenu_ListTasks_DateRange тестирует диапазон дат с открытой границей
// и отказ на диапазоне из двух звёздочек
func TestMenu_ListTasks_DateRange(t *testing.T) {
	script := strings.Join([]string{
		"2",
		"4",          // по диапазону дедлайнов
		"*",          // обе границы открыты - отказ
		"*",
		"*",          // повтор: открытое начало
		"2030-06-15", // верхняя граница
		"7",
	}, "\n") + "\n"

	m, svc, out := newTestMenu(script)

	_, err := svc.CreateNewTask(context.Background(), "Deploy release", "", "2030-06-10", "High")
	require.NoError(t, err)
	_, err = svc.CreateNewTask(context.Background(), "Quarterly Report", "", "2030-06-20", "Low")
	require.NoError(t, err)

	m.Run(context.Background())

	output := out.String()
	assert.Contains(t, output, "задайте хотя бы одну границу")
	assert.Contains(t, output, "Deploy release")
	assert.NotContains(t, output, "Quarterly Report")
}

// TestMenu_MarkCompleted тестирует завершение задачи через поиск по ID
func TestMenu_MarkCompleted(t *testing.T) {
	taskService := service.NewTaskService(inmemory.NewTaskStorage())
	svc := &taskService
	id, err := svc.CreateNewTask(context.Background(), "Deploy release", "", "2030-06-01", "High")
	require.NoError(t, err)

	script := strings.Join([]string{
		"5",         // отметить выполненной
		"1",         // поиск по ID
		id.String(),
		"7",
	}, "\n") + "\n"

	out := &bytes.Buffer{}
	m := newMenuIO("Task Management Application", svc, strings.NewReader(script), out)

	m.Run(context.Background())

	assert.Contains(t, out.String(), "Задача отмечена выполненной")

	completed, err := svc.GetTaskByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Completed", string(completed.Status))
}

// TestMenu_DeleteTask_Cancelled тестирует отмену удаления
func TestMenu_DeleteTask_Cancelled(t *testing.T) {
	taskService := service.NewTaskService(inmemory.NewTaskStorage())
	svc := &taskService
	id, err := svc.CreateNewTask(context.Background(), "Deploy release", "", "2030-06-01", "High")
	require.NoError(t, err)

	script := strings.Join([]string{
		"4",         // удалить задачу
		"1",         // поиск по ID
		id.String(),
		"нет",       // передумали
		"7",
	}, "\n") + "\n"

	out := &bytes.Buffer{}
	m := newMenuIO("Task Management Application", svc, strings.NewReader(script), out)

	m.Run(context.Background())

	assert.Contains(t, out.String(), "Удаление отменено")

	_, err = svc.GetTaskByID(context.Background(), id)
	assert.NoError(t, err)
}

// TestMenu_UpdateTask тестирует обновление одного поля через поиск по названию
func TestMenu_UpdateTask(t *testing.T) {
	taskService := service.NewTaskService(inmemory.NewTaskStorage())
	svc := &taskService
	id, err := svc.CreateNewTask(context.Background(), "Deploy release", "", "2030-06-01", "High")
	require.NoError(t, err)

	script := strings.Join([]string{
		"3",       // обновить задачу
		"2",       // поиск по названию
		"deploy",  // подстрока без учёта регистра
		"4",       // поле: приоритет
		"Low",
		"7",
	}, "\n") + "\n"

	out := &bytes.Buffer{}
	m := newMenuIO("Task Management Application", svc, strings.NewReader(script), out)

	m.Run(context.Background())

	assert.Contains(t, out.String(), "Задача обновлена")

	updated, err := svc.GetTaskByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Low", string(updated.Priority))
}

// TestMenu_DeleteAllTasks тестирует массовое удаление с подтверждением
func TestMenu_DeleteAllTasks(t *testing.T) {
	taskService := service.NewTaskService(inmemory.NewTaskStorage())
	svc := &taskService
	for i := 0; i < 3; i++ {
		_, err := svc.CreateNewTask(context.Background(), fmt.Sprintf("task-%d", i), "", "2030-06-01", "Low")
		require.NoError(t, err)
	}

	script := strings.Join([]string{
		"6",  // удалить все задачи
		"да",
		"7",
	}, "\n") + "\n"

	out := &bytes.Buffer{}
	m := newMenuIO("Task Management Application", svc, strings.NewReader(script), out)

	m.Run(context.Background())

	assert.Contains(t, out.String(), "Удалено задач: 3")

	tasks, err := svc.GetTasks(context.Background(), query.Filter{})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}
