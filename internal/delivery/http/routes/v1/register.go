package v1

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"screening-sync/internal/delivery/http/handler"
	"screening-sync/internal/delivery/http/middleware"
	"screening-sync/internal/ws"
)

type Deps struct {
	Workspaces     handler.WorkspaceProvider
	Session        *middleware.SessionMiddleware
	Hub            *ws.Hub
	Logger         *logrus.Logger
	Now            func() time.Time
	MaxResumeBytes int64
	MaxAudioBytes  int64
}

// Register mounts the workspace API. Every route runs behind the session
// middleware so handlers resolve their workspace from the request.
func Register(r fiber.Router, d Deps) {
	if r == nil || d.Workspaces == nil {
		return
	}

	session := d.Session
	if session == nil {
		session = middleware.NewSessionMiddleware(nil)
	}
	api := r.Group("", session.Middleware())

	handler.NewCandidatesHandler(d.Workspaces, d.MaxResumeBytes).RegisterRoutes(api)
	handler.NewJobsHandler(d.Workspaces, d.Now).RegisterRoutes(api)
	handler.NewAssignmentsHandler(d.Workspaces).RegisterRoutes(api)
	handler.NewInterviewsHandler(d.Workspaces, d.MaxAudioBytes).RegisterRoutes(api)
	handler.NewDashboardHandler(d.Workspaces).RegisterRoutes(api)
	handler.NewChatHandler(d.Workspaces).RegisterRoutes(api)

	if d.Hub != nil {
		ws.NewHandler(d.Hub, middleware.SessionID, d.Logger).RegisterRoutes(api)
	}
}
