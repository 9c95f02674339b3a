package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"activities-server-go/store"
)

// SessionCookie is the cookie carrying the session token
const SessionCookie = "session_id"

// APIHandler holds the dependencies for API handlers
type APIHandler struct {
	Teachers   *store.TeacherStore
	Sessions   *store.SessionRegistry
	Activities *store.ActivityRegistry
	SessionTTL time.Duration
}

// NewAPIHandler creates a new APIHandler
func NewAPIHandler(teachers *store.TeacherStore, sessions *store.SessionRegistry, activities *store.ActivityRegistry, sessionTTL time.Duration) *APIHandler {
	return &APIHandler{
		Teachers:   teachers,
		Sessions:   sessions,
		Activities: activities,
		SessionTTL: sessionTTL,
	}
}

// RegisterRoutes attaches the API surface to the router. Static assets are
// mounted separately by the caller.
func (h *APIHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/", Root)
	router.GET("/ping", PingHandler)

	auth := router.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
		auth.GET("/status", h.AuthStatus)
	}

	router.GET("/activities", h.GetActivities)
	router.GET("/activities/export", h.RequireAuth(), h.ExportActivities)
	router.POST("/activities/:name/signup", h.RequireAuth(), h.SignupForActivity)
	router.DELETE("/activities/:name/unregister", h.RequireAuth(), h.UnregisterFromActivity)
}

// --- Auth Handlers ---

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Login handles POST /auth/login
func (h *APIHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body"})
		return
	}

	if !h.Teachers.VerifyCredentials(req.Username, req.Password) {
		// Same response for unknown username and wrong password
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid credentials"})
		return
	}

	token, err := h.Sessions.Create(req.Username)
	if err != nil {
		log.Printf("Error creating session for %s: %v", req.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create session"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, int(h.SessionTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"message":  "Logged in successfully",
		"username": req.Username,
	})
}

// Logout handles POST /auth/logout. It always succeeds, with or without a
// live session.
func (h *APIHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(SessionCookie); err == nil {
		h.Sessions.Destroy(token)
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// AuthStatus handles GET /auth/status
func (h *APIHandler) AuthStatus(c *gin.Context) {
	token, err := c.Cookie(SessionCookie)
	if err == nil {
		if username, ok := h.Sessions.Resolve(token); ok {
			c.JSON(http.StatusOK, gin.H{"authenticated": true, "username": username})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": false})
}

// RequireAuth is middleware guarding roster mutations. It resolves the
// session cookie and stores the username in the request context.
func (h *APIHandler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Authentication required"})
			return
		}
		username, ok := h.Sessions.Resolve(token)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Authentication required"})
			return
		}
		c.Set("username", username)
		c.Next()
	}
}

// --- Activity Handlers ---

// GetActivities handles GET /activities
func (h *APIHandler) GetActivities(c *gin.Context) {
	c.JSON(http.StatusOK, h.Activities.List())
}

type rosterRequest struct {
	Email string `json:"email" form:"email"`
}

// SignupForActivity handles POST /activities/:name/signup
func (h *APIHandler) SignupForActivity(c *gin.Context) {
	name := c.Param("name")

	var req rosterRequest
	if err := c.ShouldBind(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Missing 'email'"})
		return
	}

	if err := h.Activities.Signup(name, req.Email); err != nil {
		h.rosterError(c, name, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Signed up %s for %s", req.Email, name)})
}

// UnregisterFromActivity handles DELETE /activities/:name/unregister
func (h *APIHandler) UnregisterFromActivity(c *gin.Context) {
	name := c.Param("name")

	var req rosterRequest
	if err := c.ShouldBind(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Missing 'email'"})
		return
	}

	if err := h.Activities.Unregister(name, req.Email); err != nil {
		h.rosterError(c, name, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Unregistered %s from %s", req.Email, name)})
}

// rosterError maps registry errors onto the HTTP contract
func (h *APIHandler) rosterError(c *gin.Context, name string, err error) {
	switch {
	case errors.Is(err, store.ErrActivityNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Activity not found"})
	case errors.Is(err, store.ErrAlreadySignedUp):
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Student is already signed up"})
	case errors.Is(err, store.ErrNotSignedUp):
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Student is not signed up for this activity"})
	case errors.Is(err, store.ErrActivityFull):
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Activity is full"})
	default:
		log.Printf("Error mutating roster for %s: %v", name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal error"})
	}
}

// --- Export Handler ---

// ExportActivities handles GET /activities/export, streaming the catalog as
// an .xlsx workbook.
func (h *APIHandler) ExportActivities(c *gin.Context) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="activities.xlsx"`)
	if err := h.Activities.ExportExcel(c.Writer); err != nil {
		log.Printf("Error exporting activities workbook: %v", err)
		// Headers may already be out; nothing useful left to send
		c.Abort()
	}
}

// --- Root / Ping Handlers ---

// Root handles GET /, redirecting to the static front page
func Root(c *gin.Context) {
	c.Redirect(http.StatusFound, "/static/index.html")
}

// PingHandler is a trivial liveness probe
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Pong!"})
}
