package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/authsvc/account"
	"github.com/kbukum/authsvc/auth/authctx"
	"github.com/kbukum/authsvc/authn"
	"github.com/kbukum/authsvc/authz"
	"github.com/kbukum/authsvc/errors"
	"github.com/kbukum/authsvc/logger"
	"github.com/kbukum/authsvc/server"
	"github.com/kbukum/authsvc/server/middleware"
)

// Prefix is the mount point of the versioned API.
const Prefix = "/api/v1"

// Banner is the plain-text body of GET /.
const Banner = "authsvc is running"

// MsgInvalidBody is returned when the request body is not a JSON object.
const MsgInvalidBody = "Request body must be a valid JSON object"

// Handler serves the account routes.
type Handler struct {
	engine *authn.Engine
	gate   *authz.Gate
	log    *logger.Logger
}

// NewHandler creates a Handler.
func NewHandler(engine *authn.Engine, gate *authz.Gate, log *logger.Logger) *Handler {
	return &Handler{engine: engine, gate: gate, log: log.WithComponent("api")}
}

// Mount registers the banner and every account route on r.
func (h *Handler) Mount(r gin.IRouter) {
	r.GET("/", h.banner)

	g := r.Group(Prefix + "/auth")
	g.POST("/register", h.register)
	g.POST("/login", h.login)
	g.POST("/google", h.google)
	g.GET("/me", middleware.Authenticate(h.gate), h.me)
	g.GET("/users/:id",
		middleware.Authenticate(h.gate),
		middleware.RequireRoles(h.gate, account.RoleAdmin),
		h.userByID)
}

func (h *Handler) banner(c *gin.Context) {
	c.String(http.StatusOK, Banner)
}

func (h *Handler) register(c *gin.Context) {
	var in authn.RegisterInput
	if !h.bind(c, &in) {
		return
	}
	res, err := h.engine.Register(c.Request.Context(), in)
	if err != nil {
		h.fail(c, http.StatusBadRequest, err)
		return
	}
	server.RespondCreated(c, res.Message, res)
}

func (h *Handler) login(c *gin.Context) {
	var in authn.LoginInput
	if !h.bind(c, &in) {
		return
	}
	res, err := h.engine.Login(c.Request.Context(), in)
	if err != nil {
		h.fail(c, http.StatusUnauthorized, err)
		return
	}
	server.RespondOK(c, res.Message, res)
}

func (h *Handler) google(c *gin.Context) {
	var in authn.FederatedInput
	if !h.bind(c, &in) {
		return
	}
	res, err := h.engine.FederatedLogin(c.Request.Context(), in)
	if err != nil {
		h.fail(c, http.StatusBadRequest, err)
		return
	}
	server.RespondOK(c, res.Message, res)
}

func (h *Handler) me(c *gin.Context) {
	claims, err := authctx.GetOrError(c.Request.Context())
	if err != nil {
		server.RespondWithError(c, errors.Unauthorized(authz.MsgNotAuthenticated).WithCause(err))
		return
	}
	h.profile(c, claims.ID)
}

func (h *Handler) userByID(c *gin.Context) {
	h.profile(c, c.Param("id"))
}

func (h *Handler) profile(c *gin.Context, id string) {
	a, err := h.engine.GetByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, http.StatusNotFound, err)
		return
	}
	server.RespondOK(c, "", gin.H{"user": a.Profile()})
}

// bind decodes a JSON body. An empty body decodes to the zero input so the
// engine reports the missing fields.
func (h *Handler) bind(c *gin.Context, dst any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		server.RespondWithStatus(c, http.StatusBadRequest, errors.Validation(MsgInvalidBody).WithCause(err))
		return false
	}
	return true
}

// fail maps engine errors onto the route's failure status. Validation
// errors are always 400 and infrastructure errors always 500.
func (h *Handler) fail(c *gin.Context, routeStatus int, err error) {
	appErr := errors.Wrap(err)
	status := routeStatus
	switch {
	case appErr.Code == errors.ErrCodeInvalidInput:
		status = http.StatusBadRequest
	case errors.IsInfrastructure(appErr.Code):
		status = http.StatusInternalServerError
		h.log.WithContext(c.Request.Context()).Error("Request failed", map[string]interface{}{
			logger.FieldPath:  c.FullPath(),
			logger.FieldError: err.Error(),
		})
	}
	server.RespondWithStatus(c, status, appErr)
}
