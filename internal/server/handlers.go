package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/timeblock/timeblock/internal/logging"
	"github.com/timeblock/timeblock/internal/model"
	"github.com/timeblock/timeblock/internal/storage"
)

// storageError maps a storage failure to the right status and message.
// Missing and foreign-owned records both answer with the permission
// message so record existence is not leaked across owners.
func storageError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, storage.ErrNotOwner):
		respondError(c, http.StatusForbidden, "You do not have permission to "+action)
	case errors.Is(err, storage.ErrDuplicateName):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		logging.Error("server", "%s: %v", action, err)
		respondError(c, http.StatusInternalServerError, err.Error())
	}
}

// --- Settings ---

func (s *Server) handleGetSettings(c *gin.Context) {
	respondOK(c, gin.H{
		"start_time":    s.cfg.StartTime,
		"end_time":      s.cfg.EndTime,
		"hide_weekends": s.cfg.HideWeekends,
	})
}

// --- Tasks ---

func (s *Server) handleListTasks(c *gin.Context) {
	tasks, err := s.store.ListTasks(owner(c))
	if err != nil {
		storageError(c, err, "list tasks")
		return
	}
	respondOK(c, tasks)
}

func (s *Server) handleSaveTask(c *gin.Context) {
	var t model.Task
	if err := c.ShouldBindJSON(&t); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(t.Title) == "" {
		respondError(c, http.StatusBadRequest, "Task title must not be empty")
		return
	}

	id, err := s.store.SaveTask(owner(c), t)
	if err != nil {
		storageError(c, err, "edit this task")
		return
	}
	respondOK(c, gin.H{"task_id": id})
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	if err := s.store.DeleteTask(owner(c), c.Param("id")); err != nil {
		storageError(c, err, "delete this task")
		return
	}
	respondOK(c, nil)
}

// --- Categories ---

func (s *Server) handleListCategories(c *gin.Context) {
	cats, err := s.store.ListCategories(owner(c))
	if err != nil {
		storageError(c, err, "list categories")
		return
	}
	respondOK(c, cats)
}

func (s *Server) handleSaveCategory(c *gin.Context) {
	var cat model.Category
	if err := c.ShouldBindJSON(&cat); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	cat.Name = strings.TrimSpace(cat.Name)
	if cat.Name == "" {
		respondError(c, http.StatusBadRequest, "Category name must not be empty")
		return
	}
	if !model.IsHexColor(cat.Color) {
		respondError(c, http.StatusBadRequest, "Category color must be a hex color")
		return
	}
	if cat.TextColor != "" && !model.IsHexColor(cat.TextColor) {
		respondError(c, http.StatusBadRequest, "Category text color must be a hex color")
		return
	}

	id, err := s.store.SaveCategory(owner(c), cat)
	if err != nil {
		storageError(c, err, "create this category")
		return
	}
	respondOK(c, gin.H{"category_id": id})
}

func (s *Server) handleUpdateCategory(c *gin.Context) {
	var cat model.Category
	if err := c.ShouldBindJSON(&cat); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	cat.ID = c.Param("id")
	cat.Name = strings.TrimSpace(cat.Name)
	if cat.Name == "" || !model.IsHexColor(cat.Color) || !model.IsHexColor(cat.TextColor) {
		respondError(c, http.StatusBadRequest, "Category needs a name and hex colors")
		return
	}

	if err := s.store.UpdateCategory(owner(c), cat); err != nil {
		storageError(c, err, "edit this category")
		return
	}
	respondOK(c, nil)
}

func (s *Server) handleDeleteCategory(c *gin.Context) {
	if err := s.store.DeleteCategory(owner(c), c.Param("id")); err != nil {
		storageError(c, err, "delete this category")
		return
	}
	respondOK(c, nil)
}

// --- Time logs ---

type saveTimeLogRequest struct {
	Duration int    `json:"duration"`
	Note     string `json:"note"`
}

type updateNoteRequest struct {
	Note string `json:"note"`
}

func (s *Server) handleListTimeLogs(c *gin.Context) {
	logs, err := s.store.ListTimeLogs(owner(c), c.Param("id"))
	if err != nil {
		storageError(c, err, "view logs for this task")
		return
	}
	respondOK(c, logs)
}

func (s *Server) handleSaveTimeLog(c *gin.Context) {
	var req saveTimeLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Duration < 0 {
		respondError(c, http.StatusBadRequest, "Duration must not be negative")
		return
	}

	entry, err := s.store.AddTimeLog(owner(c), c.Param("id"), req.Duration, req.Note)
	if err != nil {
		storageError(c, err, "log time for this task")
		return
	}
	respondOK(c, gin.H{"log": entry})
}

func (s *Server) handleUpdateTimeLogNote(c *gin.Context) {
	var req updateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.UpdateTimeLogNote(owner(c), c.Param("id"), c.Param("logID"), req.Note); err != nil {
		storageError(c, err, "update this log")
		return
	}
	respondOK(c, nil)
}

func (s *Server) handleDeleteTimeLog(c *gin.Context) {
	if err := s.store.DeleteTimeLog(owner(c), c.Param("id"), c.Param("logID")); err != nil {
		storageError(c, err, "delete this log")
		return
	}
	respondOK(c, nil)
}

// --- Todos ---

type saveTodoRequest struct {
	Text      string `json:"text"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type reorderRequest struct {
	IDs []string `json:"ids"`
}

func (s *Server) handleListTodos(c *gin.Context) {
	todos, err := s.store.ListTodos(owner(c))
	if err != nil {
		storageError(c, err, "list to-dos")
		return
	}
	respondOK(c, todos)
}

func (s *Server) handleSaveTodo(c *gin.Context) {
	var req saveTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		respondError(c, http.StatusBadRequest, "To-do text must not be empty")
		return
	}

	item, err := s.store.AddTodo(owner(c), req.Text, req.StartDate, req.EndDate)
	if err != nil {
		storageError(c, err, "create this to-do")
		return
	}
	respondOK(c, gin.H{"todo": item})
}

func (s *Server) handleUpdateTodo(c *gin.Context) {
	var upd model.TodoUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.UpdateTodo(owner(c), c.Param("id"), upd); err != nil {
		storageError(c, err, "edit this to-do")
		return
	}
	respondOK(c, nil)
}

func (s *Server) handleDeleteTodo(c *gin.Context) {
	if err := s.store.DeleteTodo(owner(c), c.Param("id")); err != nil {
		storageError(c, err, "delete this to-do")
		return
	}
	respondOK(c, nil)
}

func (s *Server) handleReorderTodos(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.ReorderTodos(owner(c), req.IDs); err != nil {
		storageError(c, err, "reorder to-dos")
		return
	}
	respondOK(c, nil)
}

// --- Data management ---

func (s *Server) handleExport(c *gin.Context) {
	snap, err := s.store.Export(owner(c))
	if err != nil {
		storageError(c, err, "export data")
		return
	}
	respondOK(c, snap)
}

func (s *Server) handleImport(c *gin.Context) {
	var snap storage.Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.Import(owner(c), snap); err != nil {
		storageError(c, err, "import data")
		return
	}
	respondOK(c, nil)
}

func (s *Server) handleDataCounts(c *gin.Context) {
	counts, err := s.store.Counts(owner(c))
	if err != nil {
		storageError(c, err, "count data")
		return
	}
	respondOK(c, counts)
}

func (s *Server) handleClearData(c *gin.Context) {
	if err := s.store.ClearOwnerData(owner(c)); err != nil {
		storageError(c, err, "clear data")
		return
	}
	respondOK(c, nil)
}
