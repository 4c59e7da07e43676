package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-api/internal/models"
	"github.com/adanyl0v/go-task-api/internal/storage"
)

// timestampPrecision is the finest resolution every store keeps for
// created_at.
const timestampPrecision = time.Microsecond

type taskServiceImpl struct {
	logger zerolog.Logger
	tasks  storage.TaskRepository
	now    func() time.Time
}

func NewTaskService(
	logger zerolog.Logger,
	tasks storage.TaskRepository,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		tasks:  tasks,
		now:    time.Now,
	}
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	title, err := validateText("title", params.Title, models.TitleMaxLength)
	if err != nil {
		return nil, err
	}
	description, err := validateText("description", params.Description, models.DescriptionMaxLength)
	if err != nil {
		return nil, err
	}

	status := models.StatusOpen
	if params.Status != nil {
		status, err = validateStatus(*params.Status)
		if err != nil {
			return nil, err
		}
	}

	var tags *string
	if params.Tags != nil {
		tags = NormalizeTags(*params.Tags)
	}
	err = validateTags(tags)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:       title,
		Description: description,
		DueDate:     params.DueDate,
		Tags:        tags,
		Status:      status,
		CreatedAt:   s.now().UTC().Truncate(timestampPrecision),
	}

	err = s.tasks.InsertTask(ctx, task)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return nil, err
	}
	s.logger.Debug().
		Int64("task_id", task.ID).
		Str("status", string(task.Status)).
		Msg("inserted task")

	s.logger.Info().
		Int64("task_id", task.ID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	task, err := s.tasks.SelectTask(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Info().
				Int64("task_id", id).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", id).
			Msg("failed to select task")
		return nil, err
	}

	s.logger.Debug().
		Int64("task_id", id).
		Msg("selected task")
	return task, nil
}

func (s *taskServiceImpl) GetTasks(ctx context.Context, filter models.TaskFilter) ([]*models.Task, error) {
	filter.Search = strings.TrimSpace(filter.Search)

	tasks, err := s.tasks.SelectTasks(ctx, filter)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select tasks")
		return nil, err
	}

	s.logger.Debug().
		Int("count", len(tasks)).
		Msg("selected tasks")
	return tasks, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error) {
	task, err := s.GetTask(ctx, params.ID)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		task.Title, err = validateText("title", *params.Title, models.TitleMaxLength)
		if err != nil {
			return nil, err
		}
	}
	if params.Description != nil {
		task.Description, err = validateText("description", *params.Description, models.DescriptionMaxLength)
		if err != nil {
			return nil, err
		}
	}
	if params.Status != nil {
		task.Status, err = validateStatus(*params.Status)
		if err != nil {
			return nil, err
		}
	}
	if params.SetDueDate {
		task.DueDate = params.DueDate
	}

	// A blank value skips normalization and keeps the stored tags,
	// unlike CreateTask which stores nil.
	if params.Tags != nil && strings.TrimSpace(*params.Tags) != "" {
		tags := NormalizeTags(*params.Tags)
		if tags != nil {
			err = validateTags(tags)
			if err != nil {
				return nil, err
			}
			task.Tags = tags
		}
	}

	err = s.tasks.UpdateTask(ctx, task)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Info().
				Int64("task_id", task.ID).
				Msg("task deleted during update")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", task.ID).
			Msg("failed to update task")
		return nil, err
	}
	s.logger.Debug().
		Int64("task_id", task.ID).
		Msg("updated task")

	s.logger.Info().
		Int64("task_id", task.ID).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, id int64) error {
	err := s.tasks.DeleteTask(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Info().
				Int64("task_id", id).
				Msg("task not found")
			return ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", id).
			Msg("failed to delete task")
		return err
	}

	s.logger.Info().
		Int64("task_id", id).
		Msg("deleted task")
	return nil
}
