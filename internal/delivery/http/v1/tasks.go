package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-task-manager/internal/models"
	"github.com/adanyl0v/go-task-manager/internal/services"
)

type getTaskResponse struct {
	ID          int64     `json:"id"`
	User        int64     `json:"user"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	DueDate     *string   `json:"due_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newGetTaskResponse(task *models.Task) getTaskResponse {
	return getTaskResponse{
		ID:          task.ID,
		User:        task.UserID,
		Title:       task.Title,
		Description: task.Description,
		Priority:    task.Priority,
		Status:      task.Status,
		DueDate:     formatDate(task.DueDate),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func parseTaskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	tasks, err := h.tasks.ListTasks(c, mustGetAccount(c))
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	resp := make([]getTaskResponse, 0, len(tasks))
	for _, task := range tasks {
		resp = append(resp, newGetTaskResponse(task))
	}
	c.JSON(http.StatusOK, resp)
}

// HandleCreateTask ignores any owner in the body. The task always belongs
// to the caller.
func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	var req services.CreateTaskParams
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.tasks.CreateTask(c, mustGetAccount(c), req)
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newGetTaskResponse(task))
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	id, ok := parseTaskID(c)
	if !ok {
		abort(c, newNotFoundError())
		return
	}

	task, err := h.tasks.GetTask(c, mustGetAccount(c), id)
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	id, ok := parseTaskID(c)
	if !ok {
		abort(c, newNotFoundError())
		return
	}

	var req services.UpdateTaskParams
	err := bindPartialJSON(c, &req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.tasks.UpdateTask(c, mustGetAccount(c), id, req)
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	id, ok := parseTaskID(c)
	if !ok {
		abort(c, newNotFoundError())
		return
	}

	err := h.tasks.DeleteTask(c, mustGetAccount(c), id)
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
