package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Joseda-hg/lazydiary/internal/model"
	"github.com/gin-gonic/gin"
)

type diaryRequest struct {
	OwnerName string `json:"owner_name" binding:"required,max=100"`
}

type noteRequest struct {
	Description string `json:"description"`
}

type pageRequest struct {
	Date string `json:"date" binding:"required"`
}

type copyRequest struct {
	SourceDate string `json:"source_date" binding:"required"`
	TargetDate string `json:"target_date" binding:"required"`
}

type taskRequest struct {
	Title  string `json:"title" binding:"required,max=255"`
	Status string `json:"status" binding:"required,max=50"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required,max=50"`
}

type titleRequest struct {
	Title string `json:"title" binding:"required,max=255"`
}

type rolloverResponse struct {
	Page       model.Page `json:"page"`
	Carried    int        `json:"carried"`
	SourceDate *string    `json:"source_date"`
}

type copyResponse struct {
	Copied        int    `json:"copied"`
	TargetPageID  int64  `json:"target_page_id"`
	TargetCreated bool   `json:"target_created"`
	Message       string `json:"message,omitempty"`
}

type migrationResponse struct {
	Task      model.TaskInstance `json:"task"`
	Relocated bool               `json:"relocated"`
}

func (s *Server) createDiary(c *gin.Context) {
	var req diaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	diary, err := s.store.CreateDiary(c.Request.Context(), req.OwnerName)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, diary)
}

func (s *Server) listDiaries(c *gin.Context) {
	diaries, err := s.store.ListDiaries(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, diaries)
}

func (s *Server) getDiary(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	diary, err := s.store.GetDiary(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, diary)
}

func (s *Server) updateDiary(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req diaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	diary, err := s.store.UpdateDiaryOwner(c.Request.Context(), id, req.OwnerName)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, diary)
}

func (s *Server) deleteDiary(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := s.store.DeleteDiary(c.Request.Context(), id); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) getNote(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	note, err := s.store.GetNote(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

func (s *Server) upsertNote(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	note, err := s.store.UpsertNote(c.Request.Context(), id, req.Description)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

func (s *Server) listPages(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if _, err := s.store.GetDiary(c.Request.Context(), id); err != nil {
		s.writeError(c, err)
		return
	}
	pages, err := s.store.ListPagesByDiary(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pages)
}

func (s *Server) createPage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req pageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	date, err := model.ParseDate(req.Date)
	if err != nil {
		s.writeError(c, err)
		return
	}

	result, err := s.engine.CreatePageWithRollover(c.Request.Context(), id, date)
	if err != nil {
		s.writeError(c, err)
		return
	}

	resp := rolloverResponse{Page: result.Page, Carried: result.Carried}
	if result.SourceDate != nil {
		source := model.FormatDate(*result.SourceDate)
		resp.SourceDate = &source
	}
	c.JSON(http.StatusCreated, resp)
}

func (s *Server) getPageByDate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	date, err := model.ParseDate(c.Param("date"))
	if err != nil {
		s.writeError(c, err)
		return
	}

	page, err := s.store.GetPageByDate(c.Request.Context(), id, date)
	if err != nil {
		s.writeError(c, err)
		return
	}
	result, err := s.store.GetPageWithTasks(c.Request.Context(), page.ID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) copyOpenTasks(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req copyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	source, err := model.ParseDate(req.SourceDate)
	if err != nil {
		s.writeError(c, err)
		return
	}
	target, err := model.ParseDate(req.TargetDate)
	if err != nil {
		s.writeError(c, err)
		return
	}

	result, err := s.engine.CopyOpenTasks(c.Request.Context(), id, source, target)
	if err != nil {
		s.writeError(c, err)
		return
	}

	resp := copyResponse{
		Copied:        result.Copied,
		TargetPageID:  result.TargetPageID,
		TargetCreated: result.TargetCreated,
	}
	if result.NothingToCopy {
		resp.Message = "no open tasks to copy"
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) getPage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := s.store.GetPageWithTasks(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) listPageTasks(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	tasks, err := s.store.ListPageTasks(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (s *Server) createTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	lineage, instance, err := s.store.CreateTask(c.Request.Context(), id, req.Title, req.Status)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"lineage": lineage, "task": instance})
}

// searchTasks lists instances filtered by the optional page_id, date and
// title query parameters.
func (s *Server) searchTasks(c *gin.Context) {
	var filter model.SearchFilter
	if value := strings.TrimSpace(c.Query("page_id")); value != "" {
		pageID, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			badRequest(c, err)
			return
		}
		filter.PageID = &pageID
	}
	if value := strings.TrimSpace(c.Query("date")); value != "" {
		date, err := model.ParseDate(value)
		if err != nil {
			s.writeError(c, err)
			return
		}
		filter.PageDate = &date
	}
	filter.Title = strings.TrimSpace(c.Query("title"))

	rows, err := s.store.SearchInstances(c.Request.Context(), filter)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (s *Server) getTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	instance, err := s.store.GetInstance(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, instance)
}

func (s *Server) updateTaskStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := s.engine.MigrateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		s.writeError(c, err)
		return
	}
	instance, err := s.store.GetInstance(c.Request.Context(), result.InstanceID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, migrationResponse{Task: instance, Relocated: result.Relocated})
}

func (s *Server) updateTaskTitle(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req titleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	instance, err := s.store.UpdateInstanceTitle(c.Request.Context(), id, req.Title)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, instance)
}

func (s *Server) deleteTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := s.store.DeleteInstance(c.Request.Context(), id); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) taskHistory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	history, err := s.engine.GetHistoryByInstance(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

func (s *Server) getLineage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	lineage, err := s.store.GetLineage(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, lineage)
}

func (s *Server) lineageHistory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	history, err := s.engine.GetHistoryByLineage(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}
