package handler

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/notekeeper/internal/service"
)

const (
	sessionUserIDKey   = "user_id"
	sessionUsernameKey = "username"
	actorContextKey    = "__actor"

	LoginPath = "/auth/login/"
)

// LoadActor resolves the acting user from the session once per request.
// A session naming a user that no longer exists is cleared.
func (a *API) LoadActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := service.Anonymous
		session := sessions.Default(c)
		if id, ok := session.Get(sessionUserIDKey).(uint); ok && id != 0 {
			user, err := a.users.Get(c.Request.Context(), id)
			switch {
			case err == nil:
				actor = service.ActorFromUser(user)
			case errors.Is(err, service.ErrUserNotFound):
				session.Clear()
				if err := session.Save(); err != nil {
					log.Printf("[%s] failed to clear stale session: %v", requestID(c), err)
				}
			default:
				log.Printf("[%s] failed to load session user %d: %v", requestID(c), id, err)
			}
		}
		c.Set(actorContextKey, actor)
		c.Next()
	}
}

func currentActor(c *gin.Context) service.Actor {
	if value, exists := c.Get(actorContextKey); exists {
		if actor, ok := value.(service.Actor); ok {
			return actor
		}
	}
	return service.Anonymous
}

// AuthRequired 将匿名访问重定向到登录页，并通过 next 参数记录原始地址。
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentActor(c).Authenticated() {
			target := LoginPath + "?next=" + loginNext(c.Request.URL.RequestURI())
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}
		c.Next()
	}
}

// loginNext escapes uri for the next parameter but keeps path separators readable.
func loginNext(uri string) string {
	return strings.ReplaceAll(url.QueryEscape(uri), "%2F", "/")
}

// APIAuthRequired rejects anonymous JSON API calls with 401.
func APIAuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentActor(c).Authenticated() {
			respondError(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// ShowLoginPage 渲染登录页面
func (a *API) ShowLoginPage(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "login.html", gin.H{
		"title": "Log in",
		"next":  c.Query("next"),
	})
}

// Login 处理用户登录请求
func (a *API) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	next := c.PostForm("next")

	user, err := a.users.Authenticate(c.Request.Context(), username, password)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			log.Printf("[%s] login failed: %v", requestID(c), err)
		}
		a.renderHTML(c, http.StatusUnauthorized, "login.html", gin.H{
			"title":         "Log in",
			"error":         "Invalid username or password",
			"next":          next,
			"usernameValue": username,
		})
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserIDKey, user.ID)
	session.Set(sessionUsernameKey, user.Username)
	if err := session.Save(); err != nil {
		log.Printf("[%s] failed to save session: %v", requestID(c), err)
		a.renderHTML(c, http.StatusInternalServerError, "login.html", gin.H{
			"title": "Log in",
			"error": "Could not start a session",
			"next":  next,
		})
		return
	}

	c.Redirect(http.StatusFound, safeRedirectTarget(next, "/"))
}

// Logout 处理用户登出，并展示退出页面
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		log.Printf("[%s] failed to clear session: %v", requestID(c), err)
	}
	c.Set(actorContextKey, service.Anonymous)

	a.renderHTML(c, http.StatusOK, "logout.html", gin.H{"title": "Logged out"})
}

// ShowSignupPage renders the registration form.
func (a *API) ShowSignupPage(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "signup.html", gin.H{"title": "Sign up"})
}

// Signup registers a new account and sends the user to the login page.
func (a *API) Signup(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	if _, err := a.users.Register(c.Request.Context(), username, password); err != nil {
		status := http.StatusBadRequest
		message := err.Error()
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			message = "A user with that username already exists"
		case errors.Is(err, service.ErrCredentialsRequired):
			message = "Username and password are required"
		default:
			log.Printf("[%s] signup failed: %v", requestID(c), err)
			status = http.StatusInternalServerError
			message = "Could not create the account"
		}
		a.renderHTML(c, status, "signup.html", gin.H{
			"title":         "Sign up",
			"error":         message,
			"usernameValue": username,
		})
		return
	}

	c.Redirect(http.StatusFound, LoginPath)
}
