package controller

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/mzhirov/tasklist/internal/models"
	"github.com/mzhirov/tasklist/internal/service"
)

type Controller struct {
	zapLogger   *zap.SugaredLogger
	authService *service.AuthService
	taskService *service.TaskService
}

func NewController(logger *zap.SugaredLogger, authService *service.AuthService, taskService *service.TaskService) *Controller {
	return &Controller{
		zapLogger:   logger,
		authService: authService,
		taskService: taskService,
	}
}

func (c *Controller) RegisterRoutes(g *echo.Group, authGuard echo.MiddlewareFunc) {
	g.GET("/ping", c.CheckServer)

	auth := g.Group("/auth")
	auth.POST("/register", c.Register)
	auth.POST("/login", c.Login)
	auth.POST("/refresh", c.Refresh)

	todos := g.Group("/todos", authGuard)
	todos.GET("", c.ListTasks)
	todos.POST("", c.CreateTask)
	todos.PUT("/:id", c.UpdateTask)
	todos.DELETE("/:id", c.DeleteTask)
}

// (GET /api/ping).
func (c *Controller) CheckServer(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, "ok")
}

// (POST /api/auth/register).
func (c *Controller) Register(ctx echo.Context) error {
	var req models.AuthRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}

	pair, err := c.authService.Register(ctx.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, authResponse(pair))
}

// (POST /api/auth/login).
func (c *Controller) Login(ctx echo.Context) error {
	var req models.AuthRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}

	pair, err := c.authService.Login(ctx.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, authResponse(pair))
}

// (POST /api/auth/refresh).
func (c *Controller) Refresh(ctx echo.Context) error {
	var req models.RefreshRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.RefreshToken == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "refresh token is required")
	}

	pair, err := c.authService.Refresh(ctx.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, authResponse(pair))
}

// (GET /api/todos).
func (c *Controller) ListTasks(ctx echo.Context) error {
	claims := mustClaims(ctx)

	tasks, err := c.taskService.List(ctx.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, tasks)
}

// (POST /api/todos).
func (c *Controller) CreateTask(ctx echo.Context) error {
	claims := mustClaims(ctx)

	var req models.CreateTaskRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	task, err := c.taskService.Create(ctx.Request().Context(), claims.UserID, req.Title)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, task)
}

// (PUT /api/todos/:id).
func (c *Controller) UpdateTask(ctx echo.Context) error {
	claims := mustClaims(ctx)

	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid todo ID")
	}

	var req models.UpdateTaskRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	task, err := c.taskService.Update(ctx.Request().Context(), id, claims.UserID, req)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, task)
}

// (DELETE /api/todos/:id).
func (c *Controller) DeleteTask(ctx echo.Context) error {
	claims := mustClaims(ctx)

	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid todo ID")
	}

	if err := c.taskService.Delete(ctx.Request().Context(), id, claims.UserID); err != nil {
		return err
	}

	return ctx.NoContent(http.StatusNoContent)
}

func authResponse(pair *service.TokenPair) models.AuthResponse {
	return models.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         pair.User,
	}
}

// mustClaims достает claims, положенные bearer-guard'ом; guard стоит на
// всех маршрутах, которые сюда приходят.
func mustClaims(ctx echo.Context) *service.Claims {
	return ctx.Get(models.ClaimsContextKey).(*service.Claims)
}
