package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/analytics"
	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/logger"
	"github.com/Zachkp/portfolio/internal/metrics"
	"github.com/Zachkp/portfolio/internal/preference"
	"github.com/Zachkp/portfolio/internal/telemetry"
	"github.com/Zachkp/portfolio/internal/view"
)

const healthCheckTimeout = 2 * time.Second

type handlers struct {
	deps      Dependencies
	retention time.Duration
	service   string
	version   string
	start     time.Time
}

func (s *Server) registerRoutes(h *handlers, admin *adminArea) {
	r := s.router
	h.service, h.version, h.start = s.cfg.Name, s.cfg.Version, s.start

	r.Static("/static", s.cfg.StaticDir)

	r.GET("/privacy", h.privacy)
	r.GET("/health", h.health)
	r.GET("/metrics", gin.WrapH(telemetry.Handler()))

	// Only routes that read or write view state or preferences open a session.
	session := sessionMiddleware(h.deps.Sessions, s.cfg.SessionTTL)
	r.GET("/", session, h.index)

	api := r.Group("/api")
	api.GET("/content/:doc", h.getContent)
	api.GET("/metrics", h.getMetrics)
	api.POST("/contact", h.submitContact)

	stateful := api.Group("", session)
	stateful.GET("/view", h.getView)
	stateful.POST("/view", h.selectView)
	stateful.POST("/view/home", h.home)
	stateful.GET("/preferences/widget", h.getWidget)
	stateful.POST("/preferences/widget/toggle", h.toggleWidget)
	stateful.POST("/events", h.trackEvent)

	admin.register(r)
}

type viewOption struct {
	ID     string
	Label  string
	Active bool
}

type pageData struct {
	Profile         content.Profile
	View            string
	Views           []viewOption
	Show            map[string]bool
	CoreSkills      []content.CoreSkillCategory
	RecruiterSkills []content.Skill
	Experience      []content.Experience
	Achievements    []content.Achievement
	TechStack       []content.TechStackCategory
	Projects        []content.Project
	Client          content.ClientData
	Testimonials    []content.Testimonial
	Metrics         metrics.Snapshot
	WidgetMinimized bool
	Year            int
}

var navViews = []struct {
	v     view.View
	label string
}{
	{view.Recruiter, "Recruiter"},
	{view.Developer, "Developer"},
	{view.Client, "Client"},
	{view.All, "All"},
}

func (h *handlers) index(c *gin.Context) {
	active := controller(c).Active()
	lib := h.deps.Content

	show := make(map[string]bool)
	for _, s := range view.Sections(active) {
		show[string(s)] = true
	}
	options := make([]viewOption, 0, len(navViews))
	for _, nv := range navViews {
		options = append(options, viewOption{ID: nv.v.String(), Label: nv.label, Active: nv.v == active})
	}

	c.HTML(http.StatusOK, "index.html", pageData{
		Profile:         lib.Profile(),
		View:            active.String(),
		Views:           options,
		Show:            show,
		CoreSkills:      lib.CoreSkills().Categories,
		RecruiterSkills: lib.RecruiterSkills(),
		Experience:      lib.Experience(),
		Achievements:    lib.Achievements(),
		TechStack:       lib.TechStack(),
		Projects:        lib.Projects(false),
		Client:          lib.ClientData(),
		Testimonials:    lib.Testimonials(true),
		Metrics:         h.deps.Metrics.Snapshot(),
		WidgetMinimized: h.widget(c).Load(c.Request.Context()),
		Year:            time.Now().Year(),
	})
}

func (h *handlers) privacy(c *gin.Context) {
	c.HTML(http.StatusOK, "privacy.html", gin.H{
		"title":           "Privacy Policy",
		"retentionMonths": int(h.retention.Hours() / 24 / 30),
	})
}

func (h *handlers) health(c *gin.Context) {
	status, code := "healthy", http.StatusOK
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	checks := gin.H{}
	if h.deps.DB != nil {
		if err := h.deps.DB.PingContext(ctx); err != nil {
			status, code = "unhealthy", http.StatusServiceUnavailable
			checks["database"] = gin.H{"status": "unhealthy", "message": err.Error()}
		} else {
			checks["database"] = gin.H{"status": "healthy"}
		}
	}

	c.JSON(code, gin.H{
		"status":  status,
		"service": h.service,
		"version": h.version,
		"uptime":  time.Since(h.start).Round(time.Second).String(),
		"checks":  checks,
	})
}

type viewResponse struct {
	View     string         `json:"view"`
	Sections []view.Section `json:"sections"`
}

func newViewResponse(v view.View) viewResponse {
	return viewResponse{View: v.String(), Sections: view.Sections(v)}
}

func (h *handlers) getView(c *gin.Context) {
	c.JSON(http.StatusOK, newViewResponse(controller(c).Active()))
}

type selectViewRequest struct {
	View string `form:"view" json:"view"`
}

func (h *handlers) selectView(c *gin.Context) {
	var req selectViewRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	v, err := view.ParseView(req.View)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctrl := controller(c)
	ctrl.Select(v)
	c.JSON(http.StatusOK, newViewResponse(ctrl.Active()))
}

func (h *handlers) home(c *gin.Context) {
	ctrl := controller(c)
	ctrl.Home()
	c.JSON(http.StatusOK, newViewResponse(ctrl.Active()))
}

func (h *handlers) getContent(c *gin.Context) {
	doc, ok := h.deps.Content.Document(c.Param("doc"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *handlers) getMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.deps.Metrics.Snapshot())
}

func (h *handlers) widget(c *gin.Context) *preference.Widget {
	return preference.NewWidget(h.deps.Preferences.Scope(SessionID(c)), h.deps.Log)
}

func (h *handlers) getWidget(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"minimized": h.widget(c).Load(c.Request.Context())})
}

func (h *handlers) toggleWidget(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"minimized": h.widget(c).Toggle(c.Request.Context())})
}

const (
	contactSuccessMessage = "Thanks for reaching out. I'll get back to you soon."
	contactErrorMessage   = "Sorry, there was an error sending your message. Please try again later."
)

func (h *handlers) submitContact(c *gin.Context) {
	htmx := c.GetHeader("HX-Request") == "true"

	var msg contact.Message
	if err := c.ShouldBind(&msg); err != nil {
		if htmx {
			c.HTML(http.StatusOK, "contact-error.html", gin.H{"error": "Please fill in your name, a valid email and a message."})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	receipt, err := h.deps.Contact.Submit(c.Request.Context(), msg)
	if err != nil {
		h.deps.Log.Warn("Contact submission aborted", logger.Error(err))
		if htmx {
			c.HTML(http.StatusOK, "contact-error.html", gin.H{"error": contactErrorMessage})
			return
		}
		code := http.StatusServiceUnavailable
		if errors.Is(err, context.Canceled) {
			code = http.StatusRequestTimeout
		}
		c.JSON(code, gin.H{"error": contactErrorMessage})
		return
	}

	if htmx {
		c.HTML(http.StatusOK, "contact-success.html", gin.H{"success": contactSuccessMessage})
		return
	}
	c.JSON(http.StatusOK, gin.H{"receipt": receipt, "message": contactSuccessMessage})
}

type eventRequest struct {
	Action string `json:"action" binding:"required"`
	Label  string `json:"label" binding:"required,max=200"`
}

// trackEvent records interactions reported by the page. View changes are
// recorded by the view controller and are not accepted here.
func (h *handlers) trackEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Action == analytics.ActionViewChange {
		c.JSON(http.StatusBadRequest, gin.H{"error": "view changes are recorded through /api/view"})
		return
	}

	event, err := analytics.NewEvent(req.Action, req.Label, SessionID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.deps.Events.Track(event)
	c.Status(http.StatusAccepted)
}
