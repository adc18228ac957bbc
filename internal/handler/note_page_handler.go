package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notekeeper/internal/db"
	"github.com/notekeeper/internal/service"
)

// SuccessPath is where successful note changes redirect to.
const SuccessPath = "/done/"

// noteForm carries submitted values and per-field errors back to the template.
type noteForm struct {
	Title  string
	Text   string
	Slug   string
	Errors map[string]string
}

func noteFormFromRequest(c *gin.Context) noteForm {
	return noteForm{
		Title: c.PostForm("title"),
		Text:  c.PostForm("text"),
		Slug:  c.PostForm("slug"),
	}
}

func (f noteForm) input() service.NoteInput {
	return service.NoteInput{Title: f.Title, Text: f.Text, Slug: f.Slug}
}

// ShowHome 渲染首页
func (a *API) ShowHome(c *gin.Context) {
	data := gin.H{"title": "Home"}

	actor := currentActor(c)
	if actor.Authenticated() {
		count, err := a.notes.CountFor(c.Request.Context(), actor)
		if err != nil {
			log.Printf("[%s] failed to count notes: %v", requestID(c), err)
		}
		data["noteCount"] = count
	}

	a.renderHTML(c, http.StatusOK, "home.html", data)
}

// ShowNoteList 渲染当前用户的笔记列表，按 id 升序
func (a *API) ShowNoteList(c *gin.Context) {
	notes, err := a.notes.ListFor(c.Request.Context(), currentActor(c))
	a.observe(c, "list", err)
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to list notes")
		return
	}

	a.renderHTML(c, http.StatusOK, "note_list.html", gin.H{
		"title": "My notes",
		"notes": notes,
	})
}

// ShowNoteAdd 渲染新建笔记表单
func (a *API) ShowNoteAdd(c *gin.Context) {
	a.renderNoteForm(c, http.StatusOK, "Add note", "/add/", noteForm{})
}

// AddNote 处理新建笔记表单提交
func (a *API) AddNote(c *gin.Context) {
	form := noteFormFromRequest(c)

	_, err := a.notes.Create(c.Request.Context(), currentActor(c), form.input())
	a.observe(c, "create", err)
	if err != nil {
		a.handleNoteFormError(c, err, "Add note", "/add/", form)
		return
	}

	c.Redirect(http.StatusFound, SuccessPath)
}

// ShowNoteDetail 渲染笔记详情；非作者访问返回 404
func (a *API) ShowNoteDetail(c *gin.Context) {
	note, ok := a.loadNote(c, "detail")
	if !ok {
		return
	}

	content, err := renderMarkdown(note.Text)
	if err != nil {
		log.Printf("[%s] failed to render note %q: %v", requestID(c), note.Slug, err)
		c.String(http.StatusInternalServerError, "failed to render note")
		return
	}

	a.renderHTML(c, http.StatusOK, "note_detail.html", gin.H{
		"title":   note.Title,
		"note":    note,
		"content": content,
	})
}

// ShowNoteEdit 渲染编辑表单
func (a *API) ShowNoteEdit(c *gin.Context) {
	note, ok := a.loadNote(c, "edit")
	if !ok {
		return
	}

	a.renderNoteForm(c, http.StatusOK, "Edit note", "/edit/"+note.Slug+"/", noteForm{
		Title: note.Title,
		Text:  note.Text,
		Slug:  note.Slug,
	})
}

// EditNote 处理编辑表单提交
func (a *API) EditNote(c *gin.Context) {
	slug := c.Param("slug")
	form := noteFormFromRequest(c)

	_, err := a.notes.Update(c.Request.Context(), currentActor(c), slug, form.input())
	a.observe(c, "update", err)
	if err != nil {
		if errors.Is(err, service.ErrNoteNotFound) {
			a.renderNotFound(c)
			return
		}
		a.handleNoteFormError(c, err, "Edit note", "/edit/"+slug+"/", form)
		return
	}

	c.Redirect(http.StatusFound, SuccessPath)
}

// ShowNoteDelete 渲染删除确认页
func (a *API) ShowNoteDelete(c *gin.Context) {
	note, ok := a.loadNote(c, "delete")
	if !ok {
		return
	}

	a.renderHTML(c, http.StatusOK, "note_delete.html", gin.H{
		"title": "Delete note",
		"note":  note,
	})
}

// DeleteNote 删除笔记，支持 POST 与 DELETE
func (a *API) DeleteNote(c *gin.Context) {
	err := a.notes.Delete(c.Request.Context(), currentActor(c), c.Param("slug"))
	a.observe(c, "delete", err)
	if err != nil {
		if errors.Is(err, service.ErrNoteNotFound) {
			a.renderNotFound(c)
			return
		}
		c.String(http.StatusInternalServerError, "failed to delete note")
		return
	}

	c.Redirect(http.StatusFound, SuccessPath)
}

// ShowSuccess 渲染操作成功页
func (a *API) ShowSuccess(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "success.html", gin.H{"title": "Done"})
}

// loadNote fetches the note named by the :slug parameter and writes a 404
// page when the actor cannot see it.
func (a *API) loadNote(c *gin.Context, operation string) (*db.Note, bool) {
	note, err := a.notes.Get(c.Request.Context(), currentActor(c), c.Param("slug"))
	a.observe(c, operation, err)
	if err != nil {
		if errors.Is(err, service.ErrNoteNotFound) {
			a.renderNotFound(c)
		} else {
			c.String(http.StatusInternalServerError, "failed to load note")
		}
		return nil, false
	}
	return note, true
}

func (a *API) renderNoteForm(c *gin.Context, status int, title, action string, form noteForm) {
	a.renderHTML(c, status, "note_form.html", gin.H{
		"title":  title,
		"action": action,
		"form":   form,
	})
}

// handleNoteFormError re-renders the form with a field error for validation
// failures, including slug conflicts.
func (a *API) handleNoteFormError(c *gin.Context, err error, title, action string, form noteForm) {
	field, message, ok := noteFieldError(err)
	if !ok {
		if errors.Is(err, service.ErrAnonymous) {
			c.Redirect(http.StatusFound, LoginPath)
			return
		}
		c.String(http.StatusInternalServerError, "failed to save note")
		return
	}

	form.Errors = map[string]string{field: message}
	a.renderNoteForm(c, http.StatusOK, title, action, form)
}
