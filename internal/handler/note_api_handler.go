package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notekeeper/internal/service"
)

type noteRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	Slug  string `json:"slug"`
}

func (r noteRequest) input() service.NoteInput {
	return service.NoteInput{Title: r.Title, Text: r.Text, Slug: r.Slug}
}

// GetNotes 获取当前用户的笔记列表
func (a *API) GetNotes(c *gin.Context) {
	notes, err := a.notes.ListFor(c.Request.Context(), currentActor(c))
	a.observe(c, "list", err)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list notes")
		return
	}

	c.JSON(http.StatusOK, gin.H{"notes": notes})
}

// GetNote 获取单条笔记
func (a *API) GetNote(c *gin.Context) {
	note, err := a.notes.Get(c.Request.Context(), currentActor(c), c.Param("slug"))
	a.observe(c, "detail", err)
	if err != nil {
		a.respondNoteError(c, err, "failed to load note")
		return
	}

	c.JSON(http.StatusOK, gin.H{"note": note})
}

// CreateNote 创建新笔记
func (a *API) CreateNote(c *gin.Context) {
	var req noteRequest
	if !bindJSON(c, &req, "invalid note payload") {
		return
	}

	note, err := a.notes.Create(c.Request.Context(), currentActor(c), req.input())
	a.observe(c, "create", err)
	if err != nil {
		a.respondNoteError(c, err, "failed to create note")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "note created", "note": note})
}

// UpdateNote 更新笔记
func (a *API) UpdateNote(c *gin.Context) {
	var req noteRequest
	if !bindJSON(c, &req, "invalid note payload") {
		return
	}

	note, err := a.notes.Update(c.Request.Context(), currentActor(c), c.Param("slug"), req.input())
	a.observe(c, "update", err)
	if err != nil {
		a.respondNoteError(c, err, "failed to update note")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "note updated", "note": note})
}

// RemoveNote 删除笔记
func (a *API) RemoveNote(c *gin.Context) {
	err := a.notes.Delete(c.Request.Context(), currentActor(c), c.Param("slug"))
	a.observe(c, "delete", err)
	if err != nil {
		a.respondNoteError(c, err, "failed to delete note")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "note deleted"})
}

func (a *API) respondNoteError(c *gin.Context, err error, fallback string) {
	if field, message, ok := noteFieldError(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": message, "field": field})
		return
	}

	switch {
	case errors.Is(err, service.ErrNoteNotFound):
		respondError(c, http.StatusNotFound, "note not found")
	case errors.Is(err, service.ErrAnonymous):
		respondError(c, http.StatusUnauthorized, "authentication required")
	default:
		respondError(c, http.StatusInternalServerError, fallback)
	}
}
