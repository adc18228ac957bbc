package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notekeeper/internal/metrics"
	"github.com/notekeeper/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db      *gorm.DB
	notes   *service.NoteService
	users   *service.UserService
	metrics *metrics.Metrics
}

// NewAPI constructs a handler set with shared services.
// m may be nil when metrics are not collected.
func NewAPI(db *gorm.DB, m *metrics.Metrics) *API {
	return &API{
		db:      db,
		notes:   service.NewNoteService(db),
		users:   service.NewUserService(db),
		metrics: m,
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}

// renderHTML 在渲染模板前补充当前登录用户信息。
func (a *API) renderHTML(c *gin.Context, status int, template string, data gin.H) {
	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}

	actor := currentActor(c)
	if _, exists := payload["username"]; !exists && actor.Authenticated() {
		payload["username"] = actor.Username
	}

	c.HTML(status, template, payload)
}

func (a *API) renderNotFound(c *gin.Context) {
	a.renderHTML(c, http.StatusNotFound, "not_found.html", gin.H{"title": "Not found"})
}

// observe records the outcome of a note operation and logs unexpected failures.
func (a *API) observe(c *gin.Context, operation string, err error) {
	outcome := noteOutcome(err)
	a.metrics.ObserveNoteOperation(operation, outcome)
	if outcome == metrics.OutcomeError {
		log.Printf("[%s] note %s failed: %v", requestID(c), operation, err)
	}
}
