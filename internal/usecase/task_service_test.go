package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/St1cky1/taskboard/internal/entity"
	"github.com/St1cky1/taskboard/internal/repository"
	"github.com/St1cky1/taskboard/internal/repository/memory"
)

// MockTaskRepository - мок для ITaskRepository
type MockTaskRepository struct {
	CreateFunc      func(ctx context.Context, task *entity.CreateTaskRequest) (*entity.Task, error)
	GetByTaskIdFunc func(ctx context.Context, taskId string) (*entity.Task, error)
	UpdateFunc      func(ctx context.Context, id string, updates map[string]any) (*entity.Task, error)
	DeleteFunc      func(ctx context.Context, id string) error
	ListFunc        func(ctx context.Context, filter entity.TaskFilter) ([]entity.Task, int64, error)
}

var _ repository.ITaskRepository = (*MockTaskRepository)(nil)

func (m *MockTaskRepository) Create(ctx context.Context, task *entity.CreateTaskRequest) (*entity.Task, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, task)
	}
	return nil, nil
}

func (m *MockTaskRepository) GetByTaskId(ctx context.Context, taskId string) (*entity.Task, error) {
	if m.GetByTaskIdFunc != nil {
		return m.GetByTaskIdFunc(ctx, taskId)
	}
	return nil, nil
}

func (m *MockTaskRepository) Update(ctx context.Context, id string, updates map[string]any) (*entity.Task, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, updates)
	}
	return nil, nil
}

func (m *MockTaskRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockTaskRepository) List(ctx context.Context, filter entity.TaskFilter) ([]entity.Task, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}

// MockAuditPublisher - мок для AuditPublisher
type MockAuditPublisher struct {
	mu       sync.Mutex
	messages []*entity.AuditMessage
	err      error
}

func (m *MockAuditPublisher) PublishAuditMessage(ctx context.Context, message *entity.AuditMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, message)
	return m.err
}

func (m *MockAuditPublisher) Messages() []*entity.AuditMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*entity.AuditMessage(nil), m.messages...)
}

var (
	alice = entity.Principal{UserID: "alice", Email: "alice@example.com", Role: entity.RoleUser}
	bob   = entity.Principal{UserID: "bob", Email: "bob@example.com", Role: entity.RoleUser}
	admin = entity.Principal{UserID: "root", Email: "root@example.com", Role: entity.RoleAdmin}
)

func newMemoryService(t *testing.T) (*TaskService, *MockAuditPublisher) {
	t.Helper()
	store := memory.NewStore()
	pub := &MockAuditPublisher{}
	return NewTaskService(store.Tasks(), store.Audits(), pub), pub
}

func createTask(t *testing.T, s *TaskService, p entity.Principal, title string, status entity.TaskStatus) *entity.Task {
	t.Helper()
	task, err := s.CreateTask(context.Background(), p, &entity.CreateTaskRequest{
		Title:       title,
		Description: "description of " + title,
		Status:      status,
	})
	if err != nil {
		t.Fatalf("CreateTask(%q): %v", title, err)
	}
	return task
}

func ptr[T any](v T) *T { return &v }

// Tests

func TestCreateTaskSuccess(t *testing.T) {
	ctx := context.Background()
	var got *entity.CreateTaskRequest

	mockTaskRepo := &MockTaskRepository{
		CreateFunc: func(ctx context.Context, task *entity.CreateTaskRequest) (*entity.Task, error) {
			got = task
			return &entity.Task{
				ID:          "t-1",
				Title:       task.Title,
				Description: task.Description,
				Status:      task.Status,
				OwnerID:     task.OwnerID,
				CreatedAt:   time.Now(),
				UpdatedAt:   time.Now(),
			}, nil
		},
	}

	service := NewTaskService(mockTaskRepo, nil, &MockAuditPublisher{})

	req := &entity.CreateTaskRequest{
		Title:       "  Test Task ",
		Description: "Test Description",
		OwnerID:     "someone-else",
	}

	result, err := service.CreateTask(ctx, alice, req)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	service.Flush()

	if got.OwnerID != alice.UserID {
		t.Errorf("Expected owner %s, got %s", alice.UserID, got.OwnerID)
	}
	if result.Title != "Test Task" {
		t.Errorf("Expected trimmed title, got %q", result.Title)
	}
	if result.Status != entity.StatusPending {
		t.Errorf("Expected default status Pending, got %s", result.Status)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	tests := []struct {
		name string
		req  entity.CreateTaskRequest
	}{
		{"empty title", entity.CreateTaskRequest{Title: "", Description: "d"}},
		{"blank title", entity.CreateTaskRequest{Title: "   ", Description: "d"}},
		{"empty description", entity.CreateTaskRequest{Title: "t", Description: ""}},
		{"unknown status", entity.CreateTaskRequest{Title: "t", Description: "d", Status: "Done"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTaskRepo := &MockTaskRepository{
				CreateFunc: func(ctx context.Context, task *entity.CreateTaskRequest) (*entity.Task, error) {
					t.Fatal("repository must not be called for an invalid request")
					return nil, nil
				},
			}
			service := NewTaskService(mockTaskRepo, nil, nil)

			req := tt.req
			_, err := service.CreateTask(context.Background(), alice, &req)
			if !errors.Is(err, entity.ErrValidation) {
				t.Errorf("Expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestCreateTaskRequiresPrincipal(t *testing.T) {
	service, _ := newMemoryService(t)

	_, err := service.CreateTask(context.Background(), entity.Principal{}, &entity.CreateTaskRequest{Title: "t", Description: "d"})
	if !errors.Is(err, entity.ErrUnauthenticated) {
		t.Errorf("Expected ErrUnauthenticated, got %v", err)
	}
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	service, _ := newMemoryService(t)
	created := createTask(t, service, alice, "round trip", entity.StatusCompleted)

	got, err := service.GetTask(context.Background(), alice, created.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if got.Title != created.Title || got.Description != created.Description ||
		got.Status != created.Status || got.OwnerID != alice.UserID {
		t.Errorf("GetTask() = %+v, want %+v", got, created)
	}
}

func TestGetTaskNotFound(t *testing.T) {
	service, _ := newMemoryService(t)

	for _, id := range []string{"missing", "", "%%%"} {
		if _, err := service.GetTask(context.Background(), alice, id); !errors.Is(err, entity.ErrTaskNotFound) {
			t.Errorf("GetTask(%q) error = %v, want ErrTaskNotFound", id, err)
		}
	}
}

func TestForeignOwnerIsForbidden(t *testing.T) {
	ctx := context.Background()
	service, _ := newMemoryService(t)
	task := createTask(t, service, alice, "private", entity.StatusPending)

	if _, err := service.GetTask(ctx, bob, task.ID); !errors.Is(err, entity.ErrForbidden) {
		t.Errorf("GetTask by non-owner error = %v, want ErrForbidden", err)
	}
	if _, err := service.UpdateTask(ctx, bob, task.ID, &entity.UpdateTaskRequest{Title: ptr("mine")}); !errors.Is(err, entity.ErrForbidden) {
		t.Errorf("UpdateTask by non-owner error = %v, want ErrForbidden", err)
	}
	if _, err := service.TaskHistory(ctx, bob, task.ID); !errors.Is(err, entity.ErrForbidden) {
		t.Errorf("TaskHistory by non-owner error = %v, want ErrForbidden", err)
	}

	// admins delete but do not read other users' tasks
	if _, err := service.GetTask(ctx, admin, task.ID); !errors.Is(err, entity.ErrForbidden) {
		t.Errorf("GetTask by admin error = %v, want ErrForbidden", err)
	}

	got, err := service.GetTask(ctx, alice, task.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if got.Title != "private" {
		t.Errorf("task changed after forbidden update: %+v", got)
	}
}

func TestOwnerIsolation(t *testing.T) {
	ctx := context.Background()
	service, _ := newMemoryService(t)
	for i := 0; i < 3; i++ {
		createTask(t, service, alice, fmt.Sprintf("alice %d", i), entity.StatusPending)
	}
	createTask(t, service, bob, "bob 0", entity.StatusPending)

	page, err := service.ListTasks(ctx, bob, entity.ListTasksQuery{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if page.TotalTasks != 1 || len(page.Tasks) != 1 {
		t.Fatalf("bob sees %d tasks (total %d), want 1", len(page.Tasks), page.TotalTasks)
	}
	for _, task := range page.Tasks {
		if task.OwnerID != bob.UserID {
			t.Errorf("bob sees task owned by %s", task.OwnerID)
		}
	}
}

func TestUpdateTaskPartial(t *testing.T) {
	ctx := context.Background()
	service, pub := newMemoryService(t)
	task := createTask(t, service, alice, "Old Title", entity.StatusPending)

	result, err := service.UpdateTask(ctx, alice, task.ID, &entity.UpdateTaskRequest{
		Title:       ptr("New Title"),
		Description: ptr("   "),
		Status:      ptr(entity.StatusCompleted),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	service.Flush()

	if result.Title != "New Title" {
		t.Errorf("Expected title New Title, got %s", result.Title)
	}
	if result.Description != task.Description {
		t.Errorf("Expected description to be kept, got %q", result.Description)
	}
	if result.Status != entity.StatusCompleted {
		t.Errorf("Expected status Completed, got %s", result.Status)
	}

	var last *entity.AuditMessage
	for _, m := range pub.Messages() {
		if m.Action == entity.ActionUpdate {
			last = m
		}
	}
	if last == nil {
		t.Fatal("no Update audit message published")
	}
	want := map[string]any{"old": "Old Title", "new": "New Title"}
	if got, ok := last.Changes["title"].(map[string]any); !ok || got["old"] != want["old"] || got["new"] != want["new"] {
		t.Errorf("title change = %v, want %v", last.Changes["title"], want)
	}
	if _, ok := last.Changes["description"]; ok {
		t.Error("blank description must not be recorded as a change")
	}
}

func TestUpdateTaskInvalidStatus(t *testing.T) {
	service, _ := newMemoryService(t)
	task := createTask(t, service, alice, "t", entity.StatusPending)

	_, err := service.UpdateTask(context.Background(), alice, task.ID, &entity.UpdateTaskRequest{Status: ptr(entity.TaskStatus("Archived"))})
	if !errors.Is(err, entity.ErrValidation) {
		t.Errorf("Expected ErrValidation, got %v", err)
	}
}

func TestUpdateTaskWithoutChangesSkipsWrite(t *testing.T) {
	current := &entity.Task{ID: "t-1", Title: "Same", Description: "Same", Status: entity.StatusPending, OwnerID: alice.UserID}

	mockTaskRepo := &MockTaskRepository{
		GetByTaskIdFunc: func(ctx context.Context, taskId string) (*entity.Task, error) {
			return current, nil
		},
		UpdateFunc: func(ctx context.Context, id string, updates map[string]any) (*entity.Task, error) {
			t.Fatalf("Update called with %v", updates)
			return nil, nil
		},
	}
	pub := &MockAuditPublisher{}
	service := NewTaskService(mockTaskRepo, nil, pub)

	result, err := service.UpdateTask(context.Background(), alice, "t-1", &entity.UpdateTaskRequest{Title: ptr("Same")})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	service.Flush()

	if result != current {
		t.Errorf("Expected the current task back, got %+v", result)
	}
	if n := len(pub.Messages()); n != 0 {
		t.Errorf("Expected no audit message, got %d", n)
	}
}

func TestUpdateTaskNotFound(t *testing.T) {
	mockTaskRepo := &MockTaskRepository{
		GetByTaskIdFunc: func(ctx context.Context, taskId string) (*entity.Task, error) {
			return nil, nil // Task not found
		},
	}
	service := NewTaskService(mockTaskRepo, nil, nil)

	result, err := service.UpdateTask(context.Background(), alice, "999", &entity.UpdateTaskRequest{Title: ptr("New Title")})
	if err != entity.ErrTaskNotFound {
		t.Errorf("Expected ErrTaskNotFound, got %v", err)
	}
	if result != nil {
		t.Errorf("Expected nil task, got %v", result)
	}
}

func TestDeleteTaskRequiresAdmin(t *testing.T) {
	mockTaskRepo := &MockTaskRepository{
		GetByTaskIdFunc: func(ctx context.Context, taskId string) (*entity.Task, error) {
			t.Fatal("role must be checked before the lookup")
			return nil, nil
		},
	}
	service := NewTaskService(mockTaskRepo, nil, nil)

	// even the owner and even for an id that does not exist
	for _, id := range []string{"t-1", "missing"} {
		if err := service.DeleteTask(context.Background(), alice, id); !errors.Is(err, entity.ErrForbidden) {
			t.Errorf("DeleteTask(%q) by user error = %v, want ErrForbidden", id, err)
		}
	}
}

func TestDeleteTaskTwice(t *testing.T) {
	ctx := context.Background()
	service, pub := newMemoryService(t)
	task := createTask(t, service, alice, "doomed", entity.StatusPending)

	if err := service.DeleteTask(ctx, admin, task.ID); err != nil {
		t.Fatalf("first DeleteTask: %v", err)
	}
	if err := service.DeleteTask(ctx, admin, task.ID); !errors.Is(err, entity.ErrTaskNotFound) {
		t.Errorf("second DeleteTask error = %v, want ErrTaskNotFound", err)
	}
	if _, err := service.GetTask(ctx, alice, task.ID); !errors.Is(err, entity.ErrTaskNotFound) {
		t.Errorf("GetTask after delete error = %v, want ErrTaskNotFound", err)
	}

	service.Flush()
	var deletes int
	for _, m := range pub.Messages() {
		if m.Action == entity.ActionDelete {
			deletes++
			if m.UserID != admin.UserID || m.OldValues["title"] != "doomed" {
				t.Errorf("delete audit = %+v", m)
			}
		}
	}
	if deletes != 1 {
		t.Errorf("got %d delete audits, want 1", deletes)
	}
}

func TestListTasksPagination(t *testing.T) {
	ctx := context.Background()
	service, _ := newMemoryService(t)
	for i := 0; i < 25; i++ {
		createTask(t, service, alice, fmt.Sprintf("task %02d", i), entity.StatusPending)
	}

	seen := make(map[string]bool)
	for page, want := range map[int]int{1: 10, 2: 10, 3: 5, 4: 0} {
		result, err := service.ListTasks(ctx, alice, entity.ListTasksQuery{Page: page, Limit: 10})
		if err != nil {
			t.Fatalf("ListTasks(page %d): %v", page, err)
		}
		if len(result.Tasks) != want {
			t.Errorf("page %d has %d tasks, want %d", page, len(result.Tasks), want)
		}
		if result.TotalPages != 3 || result.TotalTasks != 25 || result.CurrentPage != page {
			t.Errorf("page %d meta = %d/%d/%d, want %d/3/25", page, result.CurrentPage, result.TotalPages, result.TotalTasks, page)
		}
		for _, task := range result.Tasks {
			if seen[task.ID] {
				t.Errorf("task %s appears on two pages", task.ID)
			}
			seen[task.ID] = true
		}
	}
	if len(seen) != 25 {
		t.Errorf("pages cover %d tasks, want 25", len(seen))
	}
}

func TestListTasksHugePageIsPastTheEnd(t *testing.T) {
	ctx := context.Background()
	service, _ := newMemoryService(t)
	for i := 0; i < 3; i++ {
		createTask(t, service, alice, fmt.Sprintf("task %d", i), entity.StatusPending)
	}

	for _, page := range []int{math.MaxInt / 5, math.MaxInt} {
		result, err := service.ListTasks(ctx, alice, entity.ListTasksQuery{Page: page, Limit: 10})
		if err != nil {
			t.Fatalf("ListTasks(page %d): %v", page, err)
		}
		if len(result.Tasks) != 0 {
			t.Errorf("page %d has %d tasks, want 0", page, len(result.Tasks))
		}
		if result.TotalTasks != 3 || result.TotalPages != 1 {
			t.Errorf("page %d meta = %d/%d, want 3/1", page, result.TotalTasks, result.TotalPages)
		}
	}
}

func TestListTasksNewestFirst(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	store := memory.NewStore().WithClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	})
	service := NewTaskService(store.Tasks(), store.Audits(), nil)

	for i := 0; i < 3; i++ {
		createTask(t, service, alice, fmt.Sprintf("task %d", i), entity.StatusPending)
	}

	page, err := service.ListTasks(ctx, alice, entity.ListTasksQuery{})
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if page.Tasks[0].Title != "task 2" || page.Tasks[2].Title != "task 0" {
		t.Errorf("order = %s, %s, %s; want newest first", page.Tasks[0].Title, page.Tasks[1].Title, page.Tasks[2].Title)
	}
	if page.CurrentPage != entity.DefaultPage {
		t.Errorf("CurrentPage = %d, want default %d", page.CurrentPage, entity.DefaultPage)
	}
}

func TestListTasksStatusFilter(t *testing.T) {
	ctx := context.Background()
	service, _ := newMemoryService(t)
	for i := 0; i < 5; i++ {
		createTask(t, service, alice, fmt.Sprintf("pending %d", i), entity.StatusPending)
	}
	for i := 0; i < 3; i++ {
		createTask(t, service, alice, fmt.Sprintf("done %d", i), entity.StatusCompleted)
	}

	tests := []struct {
		status string
		want   int64
	}{
		{"Completed", 3},
		{"Pending", 5},
		{"all", 8},
		{"", 8},
	}
	for _, tt := range tests {
		t.Run("status="+tt.status, func(t *testing.T) {
			page, err := service.ListTasks(ctx, alice, entity.ListTasksQuery{Page: 1, Limit: 10, Status: tt.status})
			if err != nil {
				t.Fatalf("ListTasks: %v", err)
			}
			if page.TotalTasks != tt.want || int64(len(page.Tasks)) != tt.want {
				t.Errorf("got %d tasks (total %d), want %d", len(page.Tasks), page.TotalTasks, tt.want)
			}
		})
	}

	if _, err := service.ListTasks(ctx, alice, entity.ListTasksQuery{Status: "Archived"}); !errors.Is(err, entity.ErrValidation) {
		t.Errorf("unknown status filter error = %v, want ErrValidation", err)
	}
}

// auditRecorder writes audit messages straight into the store.
type auditRecorder struct {
	repo repository.ITaskAuditRepository
}

func (r auditRecorder) PublishAuditMessage(ctx context.Context, message *entity.AuditMessage) error {
	return r.repo.Create(ctx, message.ToTaskAudit())
}

func TestTaskHistory(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	service := NewTaskService(store.Tasks(), store.Audits(), auditRecorder{repo: store.Audits()})

	task := createTask(t, service, alice, "tracked", entity.StatusPending)
	service.Flush()
	if _, err := service.UpdateTask(ctx, alice, task.ID, &entity.UpdateTaskRequest{Status: ptr(entity.StatusCompleted)}); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	service.Flush()

	history, err := service.TaskHistory(ctx, alice, task.ID)
	if err != nil {
		t.Fatalf("TaskHistory: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("got %d history entries, want 2", len(history))
	}
	if history[0].Action != entity.ActionUpdate || history[1].Action != entity.ActionCreate {
		t.Errorf("history actions = %s, %s; want Update, Create", history[0].Action, history[1].Action)
	}
}

func TestAuditFailureDoesNotFailRequest(t *testing.T) {
	store := memory.NewStore()
	pub := &MockAuditPublisher{err: errors.New("broker down")}
	service := NewTaskService(store.Tasks(), store.Audits(), pub)

	createTask(t, service, alice, "still created", entity.StatusPending)
	service.Flush()

	if n := len(pub.Messages()); n != 1 {
		t.Errorf("publish attempts = %d, want 1", n)
	}
}
