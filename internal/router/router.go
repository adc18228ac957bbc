package router

import (
	"html/template"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/notekeeper/internal/handler"
	"github.com/notekeeper/internal/metrics"
	"github.com/notekeeper/web"
	"gorm.io/gorm"
)

const sessionName = "notekeeper_session"

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(sessionSecret string, gdb *gorm.DB, m *metrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(handler.RequestID(), gin.Logger(), gin.Recovery())
	if m != nil {
		r.Use(m.Middleware())
	}

	// 配置会话中间件
	store := cookie.NewStore([]byte(sessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   14 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	api := handler.NewAPI(gdb, m)
	r.Use(sessions.Sessions(sessionName, store), api.LoadActor())

	r.SetHTMLTemplate(template.Must(template.ParseFS(web.Templates, "template/*.html")))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	r.GET("/", api.ShowHome)

	users := r.Group("/auth")
	{
		users.GET("/login/", api.ShowLoginPage)
		users.POST("/login/", api.Login)
		users.GET("/logout/", api.Logout)
		users.POST("/logout/", api.Logout)
		users.GET("/signup/", api.ShowSignupPage)
		users.POST("/signup/", api.Signup)
	}

	// 需要登录的笔记页面
	notes := r.Group("")
	notes.Use(handler.AuthRequired())
	{
		notes.GET("/notes/", api.ShowNoteList)
		notes.GET("/add/", api.ShowNoteAdd)
		notes.POST("/add/", api.AddNote)
		notes.GET("/done/", api.ShowSuccess)
		notes.GET("/note/:slug/", api.ShowNoteDetail)
		notes.GET("/edit/:slug/", api.ShowNoteEdit)
		notes.POST("/edit/:slug/", api.EditNote)
		notes.GET("/delete/:slug/", api.ShowNoteDelete)
		notes.POST("/delete/:slug/", api.DeleteNote)
		notes.DELETE("/delete/:slug/", api.DeleteNote)
	}

	// JSON API
	jsonAPI := r.Group("/api")
	jsonAPI.Use(handler.APIAuthRequired())
	{
		jsonAPI.GET("/notes", api.GetNotes)
		jsonAPI.POST("/notes", api.CreateNote)
		jsonAPI.GET("/notes/:slug", api.GetNote)
		jsonAPI.PUT("/notes/:slug", api.UpdateNote)
		jsonAPI.DELETE("/notes/:slug", api.RemoveNote)
	}

	return r
}
