package services

import (
	"context"
	"sync"

	"github.com/adanyl0v/go-task-api/internal/models"
	"github.com/adanyl0v/go-task-api/internal/storage"
)

type fakeStore struct {
	mu     sync.RWMutex
	nextID int64
	tasks  map[int64]models.Task
	users  map[string]models.User
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nextID: 1,
		tasks:  make(map[int64]models.Task),
		users:  make(map[string]models.User),
	}
}

func (f *fakeStore) InsertTask(_ context.Context, task *models.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	task.ID = f.nextID
	f.nextID++
	f.tasks[task.ID] = *task
	return nil
}

func (f *fakeStore) SelectTask(_ context.Context, id int64) (*models.Task, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	task, ok := f.tasks[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &task, nil
}

func (f *fakeStore) SelectTasks(_ context.Context, filter models.TaskFilter) ([]*models.Task, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	tasks := make([]*models.Task, 0, len(f.tasks))
	for id := int64(1); id < f.nextID; id++ {
		task, ok := f.tasks[id]
		if !ok {
			continue
		}
		if filter.Status != nil && task.Status != *filter.Status {
			continue
		}
		tasks = append(tasks, &task)
	}
	return tasks, nil
}

func (f *fakeStore) UpdateTask(_ context.Context, task *models.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.tasks[task.ID]; !ok {
		return storage.ErrNotFound
	}
	f.tasks[task.ID] = *task
	return nil
}

func (f *fakeStore) DeleteTask(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.tasks[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.tasks, id)
	return nil
}

func (f *fakeStore) InsertUser(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Username == user.Username {
			return storage.ErrAlreadyExists
		}
	}
	f.users[user.ID] = *user
	return nil
}

func (f *fakeStore) SelectUserByUsername(_ context.Context, username string) (*models.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, u := range f.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) SelectUserByID(_ context.Context, id string) (*models.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	u, ok := f.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &u, nil
}
