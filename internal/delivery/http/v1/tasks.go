package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/construct-tasks/internal/models"
	"github.com/adanyl0v/construct-tasks/internal/services"
)

type getTaskResponse struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	AssignedTo string     `json:"assigned_to"`
	Deadline   *string    `json:"deadline"`
	Priority   string     `json:"priority"`
	Progress   int        `json:"progress"`
	CreatedAt  *time.Time `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at"`
}

func newGetTaskResponse(task *models.Task) getTaskResponse {
	resp := getTaskResponse{
		ID:         task.ID,
		Name:       task.Name,
		AssignedTo: task.AssignedTo,
		Priority:   task.Priority,
		Progress:   task.Progress,
		CreatedAt:  task.CreatedAt,
		UpdatedAt:  task.UpdatedAt,
	}
	if task.Deadline != nil {
		deadline := task.Deadline.Format(time.DateOnly)
		resp.Deadline = &deadline
	}
	return resp
}

func (h *handlerImpl) HandleHealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "API is running"})
}

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	logger := requestLogger(c, h.logger)

	tasks, err := h.tasks.ListTasks(c.Request.Context())
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to list tasks")
		abort(c, newServiceError(err))
		return
	}

	response := make([]getTaskResponse, len(tasks))
	for i, task := range tasks {
		response[i] = newGetTaskResponse(task)
	}

	logger.Debug().
		Int("count", len(tasks)).
		Msg("fetched tasks")
	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	logger := requestLogger(c, h.logger)

	taskID, ok := h.bindTaskID(c)
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(c.Request.Context(), taskID)
	if err != nil {
		logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to get task")
		abort(c, newServiceError(err))
		return
	}

	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

type createTaskRequest struct {
	Name       string  `json:"name" binding:"required"`
	AssignedTo string  `json:"assigned_to" binding:"required"`
	Deadline   *string `json:"deadline"`
	Priority   string  `json:"priority" binding:"required"`
	Progress   *int    `json:"progress"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	logger := requestLogger(c, h.logger)

	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to parse deadline")
		abort(c, newBadRequestError(errInvalidDeadline.Error()))
		return
	}

	params := services.CreateTaskParams{
		Name:       req.Name,
		AssignedTo: req.AssignedTo,
		Deadline:   deadline,
		Priority:   req.Priority,
	}
	if req.Progress != nil {
		params.Progress = *req.Progress
	}

	task, err := h.tasks.CreateTask(c.Request.Context(), params)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to create task")
		abort(c, newServiceError(err))
		return
	}

	logger.Info().
		Int64("task_id", task.ID).
		Msg("created task")
	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

type updateTaskProgressRequest struct {
	Progress *int `json:"progress"`
}

func (h *handlerImpl) HandleUpdateTaskProgress(c *gin.Context) {
	logger := requestLogger(c, h.logger)

	taskID, ok := h.bindTaskID(c)
	if !ok {
		return
	}

	progress, err := bindProgress(c)
	if err != nil {
		logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to bind progress")
		abort(c, newBadRequestError(err.Error()))
		return
	}

	task, err := h.tasks.UpdateTaskProgress(c.Request.Context(), taskID, progress)
	if err != nil {
		logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to update task progress")
		abort(c, newServiceError(err))
		return
	}

	logger.Info().
		Int64("task_id", task.ID).
		Int("progress", task.Progress).
		Msg("updated task progress")
	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

type updateTaskRequest struct {
	Name       *string `json:"name" binding:"omitnil,min=1"`
	AssignedTo *string `json:"assigned_to" binding:"omitnil,min=1"`
	Deadline   *string `json:"deadline"`
	Priority   *string `json:"priority" binding:"omitnil,min=1"`
	Progress   *int    `json:"progress"`
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	logger := requestLogger(c, h.logger)

	taskID, ok := h.bindTaskID(c)
	if !ok {
		return
	}

	var req updateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to parse deadline")
		abort(c, newBadRequestError(errInvalidDeadline.Error()))
		return
	}

	task, err := h.tasks.UpdateTask(c.Request.Context(), taskID, services.TaskPatch{
		Name:       req.Name,
		AssignedTo: req.AssignedTo,
		Deadline:   deadline,
		Priority:   req.Priority,
		Progress:   req.Progress,
	})
	if err != nil {
		logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to update task")
		abort(c, newServiceError(err))
		return
	}

	logger.Info().
		Int64("task_id", task.ID).
		Msg("updated task")
	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	logger := requestLogger(c, h.logger)

	taskID, ok := h.bindTaskID(c)
	if !ok {
		return
	}

	err := h.tasks.DeleteTask(c.Request.Context(), taskID)
	if err != nil {
		logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to delete task")
		abort(c, newServiceError(err))
		return
	}

	logger.Info().
		Int64("task_id", taskID).
		Msg("deleted task")
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// bindTaskID aborts with 400 when the :id path parameter isn't an integer.
func (h *handlerImpl) bindTaskID(c *gin.Context) (int64, bool) {
	raw := c.Param("id")
	taskID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		requestLogger(c, h.logger).Error().
			Err(err).
			Str("task_id", raw).
			Msg("invalid task id")
		abort(c, newBadRequestError(errInvalidTaskID.Error()))
		return 0, false
	}
	return taskID, true
}

// bindProgress reads progress from the query string and falls
// back to a {"progress": n} JSON body.
func bindProgress(c *gin.Context) (int, error) {
	if raw, ok := c.GetQuery("progress"); ok {
		progress, err := strconv.Atoi(raw)
		if err != nil {
			return 0, errInvalidProgressValue
		}
		return progress, nil
	}

	if c.Request.ContentLength == 0 {
		return 0, errMissingProgress
	}

	var req updateTaskProgressRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		return 0, errInvalidRequestBody
	}
	if req.Progress == nil {
		return 0, errMissingProgress
	}
	return *req.Progress, nil
}

func parseDeadline(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}

	deadline, err := time.Parse(time.DateOnly, *raw)
	if err != nil {
		return nil, err
	}
	return &deadline, nil
}
