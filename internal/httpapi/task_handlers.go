package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"task-manager/internal/service"
)

// taskRequest holds the only fields a client may write. Description and
// status stay pointers so omitting them on update leaves the stored values
// alone; there is deliberately no user_id field.
type taskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

func (r taskRequest) input() service.TaskInput {
	return service.TaskInput{
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
	}
}

// taskID parses the :id route parameter. Anything non-numeric is treated the
// same as a missing task.
func taskID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Tarea no encontrada"})
		return 0, false
	}
	return uint(id), true
}

func (s *Server) handleListTasks(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	perPage, _ := strconv.Atoi(c.Query("per_page"))

	tasks, err := s.tasks.List(c.Request.Context(), currentUser(c).ID, page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": tasks})
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req taskRequest
	// Malformed or empty bodies bind nothing and fail title validation below.
	if err := c.ShouldBindJSON(&req); err != nil {
		req = taskRequest{}
	}

	task, err := s.tasks.Create(c.Request.Context(), currentUser(c).ID, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Tarea creada exitosamente",
		"data":    task,
	})
}

func (s *Server) handleShowTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	task, err := s.tasks.Get(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": task})
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req = taskRequest{}
	}

	task, err := s.tasks.Update(c.Request.Context(), currentUser(c).ID, id, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Tarea actualizada exitosamente",
		"data":    task,
	})
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	if err := s.tasks.Delete(c.Request.Context(), currentUser(c).ID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Tarea eliminada exitosamente",
	})
}

func (s *Server) handleToggleStatus(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	task, err := s.tasks.ToggleStatus(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Estado de la tarea actualizado exitosamente",
		"data":    task,
	})
}
