package v1

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-task-api/internal/models"
	"github.com/adanyl0v/go-task-api/internal/services"
)

type getTaskResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     *string   `json:"due_date"`
	Tags        *string   `json:"tags"`
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
}

func newGetTaskResponse(task *models.Task) getTaskResponse {
	response := getTaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Tags:        task.Tags,
		Status:      string(task.Status),
		Timestamp:   task.CreatedAt,
	}
	if task.DueDate != nil {
		dueDate := task.DueDate.Format(models.DateLayout)
		response.DueDate = &dueDate
	}
	return response
}

// optionalDate distinguishes an omitted due_date from an explicit null.
type optionalDate struct {
	Set   bool
	Value *time.Time
}

func (d *optionalDate) UnmarshalJSON(data []byte) error {
	d.Set = true
	if bytes.Equal(data, []byte("null")) {
		d.Value = nil
		return nil
	}

	var s string
	err := json.Unmarshal(data, &s)
	if err != nil {
		return &services.ValidationError{Field: "due_date", Message: "due_date must be a string in YYYY-MM-DD format"}
	}
	if s == "" {
		d.Value = nil
		return nil
	}

	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return &services.ValidationError{Field: "due_date", Message: "due_date must be a date in YYYY-MM-DD format"}
	}
	d.Value = &t
	return nil
}

type createTaskRequest struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      *string      `json:"status,omitempty"`
	DueDate     optionalDate `json:"due_date"`
	Tags        *string      `json:"tags,omitempty"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind json")
		abortWithBindError(c, err)
		return
	}

	task, err := h.tasks.CreateTask(c, services.CreateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		DueDate:     req.DueDate.Value,
		Tags:        req.Tags,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newGetTaskResponse(task))
}

type getTasksQuery struct {
	Status  string `form:"status" binding:"omitempty,oneof=OPEN WORKING DONE OVERDUE"`
	DueDate string `form:"due_date" binding:"omitempty,datetime=2006-01-02"`
	Created string `form:"created" binding:"omitempty,datetime=2006-01-02"`
	Search  string `form:"search" binding:"max=100"`
}

func (q getTasksQuery) filter() models.TaskFilter {
	filter := models.TaskFilter{Search: q.Search}
	if q.Status != "" {
		status := models.Status(q.Status)
		filter.Status = &status
	}
	if t, err := time.Parse(models.DateLayout, q.DueDate); err == nil {
		filter.DueDate = &t
	}
	if t, err := time.Parse(models.DateLayout, q.Created); err == nil {
		filter.CreatedOn = &t
	}
	return filter
}

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	var query getTasksQuery
	err := c.ShouldBindQuery(&query)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind query")
		abort(c, newBadRequestError(errInvalidQueryParams.Error()))
		return
	}

	tasks, err := h.tasks.GetTasks(c, query.filter())
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	response := make([]getTaskResponse, len(tasks))
	for i, task := range tasks {
		response[i] = newGetTaskResponse(task)
	}
	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	taskID, ok := parseTaskID(c)
	if !ok {
		abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
		return
	}

	task, err := h.tasks.GetTask(c, taskID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

type updateTaskRequest struct {
	Title       *string      `json:"title,omitempty"`
	Description *string      `json:"description,omitempty"`
	Status      *string      `json:"status,omitempty"`
	DueDate     optionalDate `json:"due_date"`
	Tags        *string      `json:"tags,omitempty"`
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	taskID, ok := parseTaskID(c)
	if !ok {
		abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
		return
	}

	var req updateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind json")
		abortWithBindError(c, err)
		return
	}

	task, err := h.tasks.UpdateTask(c, services.UpdateTaskParams{
		ID:          taskID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Tags:        req.Tags,
		SetDueDate:  req.DueDate.Set,
		DueDate:     req.DueDate.Value,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	taskID, ok := parseTaskID(c)
	if !ok {
		abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
		return
	}

	err := h.tasks.DeleteTask(c, taskID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// parseTaskID reports false for ids that can never match a row.
func parseTaskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
