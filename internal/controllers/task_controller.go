package controllers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"tasks-be/internal/middleware"
	"tasks-be/internal/models"
	"tasks-be/internal/service"
)

type TaskController struct {
	taskService service.TaskService
	log         *slog.Logger
}

func NewTaskController(taskService service.TaskService, log *slog.Logger) *TaskController {
	return &TaskController{
		taskService: taskService,
		log:         log,
	}
}

// callerID reads the id set by the auth guard. The guard always runs first;
// a missing id means the route was wired without it.
func callerID(c *gin.Context) (string, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"message": "Not authorized",
		})
	}
	return userID, ok
}

// CreateTask handles POST /api/tasks
func (tc *TaskController) CreateTask(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req models.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid request body",
		})
		return
	}

	task, err := tc.taskService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, tc.log, "create task", err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// GetTasks handles GET /api/tasks - returns all tasks of the caller
func (tc *TaskController) GetTasks(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	tasks, err := tc.taskService.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, tc.log, "list tasks", err)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// UpdateTask handles PUT /api/tasks/:id
func (tc *TaskController) UpdateTask(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req models.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid request body",
		})
		return
	}

	task, err := tc.taskService.Update(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		respondError(c, tc.log, "update task", err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// DeleteTask handles DELETE /api/tasks/:id
func (tc *TaskController) DeleteTask(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	if err := tc.taskService.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, tc.log, "delete task", err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "Task deleted"})
}
