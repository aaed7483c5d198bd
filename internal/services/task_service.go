package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-manager/internal/clock"
	"github.com/adanyl0v/go-task-manager/internal/models"
	"github.com/adanyl0v/go-task-manager/internal/repository"
)

const msgDueDateInPast = "Due date cannot be in the past."

type taskServiceImpl struct {
	logger   zerolog.Logger
	clock    clock.Clock
	location *time.Location
	guard    Guard
	tasks    TaskRepository
}

// NewTaskService returns a TaskService. Due dates are compared with the
// current date in location, which defaults to UTC.
func NewTaskService(
	logger zerolog.Logger,
	clk clock.Clock,
	location *time.Location,
	guard Guard,
	tasks TaskRepository,
) TaskService {
	if location == nil {
		location = time.UTC
	}
	return &taskServiceImpl{
		logger:   logger,
		clock:    clk,
		location: location,
		guard:    guard,
		tasks:    tasks,
	}
}

type taskInput struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description"`
	Priority    string `json:"priority" validate:"oneof=low medium high"`
	Status      string `json:"status" validate:"oneof=pending in_progress completed"`
}

func (s *taskServiceImpl) ListTasks(ctx context.Context, account *models.Account) ([]*models.Task, error) {
	if account == nil {
		return nil, ErrUnauthenticated
	}

	tasks, err := s.tasks.ListTasksByUserID(ctx, account.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("user_id", account.ID).
			Msg("failed to list tasks")
		return nil, err
	}
	return tasks, nil
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, account *models.Account, params CreateTaskParams) (*models.Task, error) {
	if account == nil {
		return nil, ErrUnauthenticated
	}

	input := taskInput{
		Title:       strings.TrimSpace(params.Title),
		Description: strings.TrimSpace(params.Description),
		Priority:    params.Priority,
		Status:      params.Status,
	}
	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}
	if input.Status == "" {
		input.Status = models.StatusPending
	}

	now := s.clock.Now()
	verr := &ValidationError{}
	if params.Title != "" && input.Title == "" {
		verr.Add("title", msgBlank)
	}
	err := check(verr, input)
	if err != nil {
		return nil, err
	}

	var dueDate *time.Time
	if params.DueDate != nil {
		dueDate = s.checkDueDate(verr, *params.DueDate, now)
	}
	if verr.HasErrors() {
		return nil, verr
	}

	task := &models.Task{
		UserID:      account.ID,
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		Status:      input.Status,
		DueDate:     dueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = s.tasks.CreateTask(ctx, task)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("user_id", account.ID).
			Msg("failed to create task")
		return nil, err
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Int64("user_id", task.UserID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) GetTask(ctx context.Context, account *models.Account, id int64) (*models.Task, error) {
	return s.getOwnedTask(ctx, account, id)
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, account *models.Account, id int64, params UpdateTaskParams) (*models.Task, error) {
	task, err := s.getOwnedTask(ctx, account, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	verr := &ValidationError{}
	input := taskInput{
		Title:       task.Title,
		Description: task.Description,
		Priority:    task.Priority,
		Status:      task.Status,
	}
	params.Title.Value = strings.TrimSpace(params.Title.Value)
	params.Description.Value = strings.TrimSpace(params.Description.Value)
	if params.Title.Set && !params.Title.Null && params.Title.Value == "" {
		verr.Add("title", msgBlank)
	} else {
		mergeString(verr, "title", params.Title, &input.Title)
	}
	mergeString(verr, "description", params.Description, &input.Description)
	mergeString(verr, "priority", params.Priority, &input.Priority)
	mergeString(verr, "status", params.Status, &input.Status)

	err = check(verr, input)
	if err != nil {
		return nil, err
	}

	dueDate := task.DueDate
	if params.DueDate.Set {
		dueDate = nil
		if !params.DueDate.Null {
			dueDate = s.checkDueDate(verr, params.DueDate.Value, now)
		}
	}
	if verr.HasErrors() {
		return nil, verr
	}

	task.Title = input.Title
	task.Description = input.Description
	task.Priority = input.Priority
	task.Status = input.Status
	task.DueDate = dueDate
	task.UpdatedAt = now

	err = s.tasks.UpdateTask(ctx, task)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", task.ID).
			Msg("failed to update task")
		return nil, err
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Int64("user_id", task.UserID).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, account *models.Account, id int64) error {
	task, err := s.getOwnedTask(ctx, account, id)
	if err != nil {
		return err
	}

	err = s.tasks.DeleteTask(ctx, task.ID, task.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", task.ID).
			Msg("failed to delete task")
		return err
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Int64("user_id", task.UserID).
		Msg("deleted task")
	return nil
}

func (s *taskServiceImpl) getOwnedTask(ctx context.Context, account *models.Account, id int64) (*models.Task, error) {
	if account == nil {
		return nil, ErrUnauthenticated
	}

	task, err := s.tasks.GetTaskByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", id).
			Msg("failed to get task")
		return nil, err
	}

	err = s.guard.RequireOwner(account, task.UserID)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// checkDueDate parses value and rejects dates before today.
func (s *taskServiceImpl) checkDueDate(verr *ValidationError, value string, now time.Time) *time.Time {
	dueDate, ok := parseDate(value)
	if !ok {
		verr.Add("due_date", msgInvalidDate)
		return nil
	}
	if dueDate.Before(today(now, s.location)) {
		verr.Add("due_date", msgDueDateInPast)
		return nil
	}
	return dueDate
}

// mergeString copies a set, non-null update into dst. Null is an error for
// fields that cannot be empty.
func mergeString(verr *ValidationError, field string, update Optional[string], dst *string) {
	if !update.Set {
		return
	}
	if update.Null {
		verr.Add(field, msgNotNull)
		return
	}
	*dst = update.Value
}
