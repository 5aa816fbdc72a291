// Package http exposes the management API of the workflow engine over echo.
// The API serves the status directory, preset imports and the transition
// log; it is the surface the admin UI and the host order system's lifecycle
// notifier talk to.
package http

import (
	"errors"
	"net/http"

	"statusflow/internal/core/application/usecases/commands"
	"statusflow/internal/core/application/usecases/queries"
	"statusflow/internal/core/domain/model/kernel"
	"statusflow/internal/core/domain/model/status"
	"statusflow/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var validate = validator.New()

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createStatusHandler     commands.CreateStatusCommandHandler
	updateStatusHandler     commands.UpdateStatusCommandHandler
	deleteStatusHandler     commands.DeleteStatusCommandHandler
	importStatusesHandler   commands.ImportStatusesCommandHandler
	recordTransitionHandler commands.RecordTransitionCommandHandler

	// Query handlers
	getAllStatusesHandler   queries.GetAllStatusesQueryHandler
	getTransitionLogHandler queries.GetTransitionLogQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createStatusHandler commands.CreateStatusCommandHandler,
	updateStatusHandler commands.UpdateStatusCommandHandler,
	deleteStatusHandler commands.DeleteStatusCommandHandler,
	importStatusesHandler commands.ImportStatusesCommandHandler,
	recordTransitionHandler commands.RecordTransitionCommandHandler,
	getAllStatusesHandler queries.GetAllStatusesQueryHandler,
	getTransitionLogHandler queries.GetTransitionLogQueryHandler,
) *Server {
	return &Server{
		createStatusHandler:     createStatusHandler,
		updateStatusHandler:     updateStatusHandler,
		deleteStatusHandler:     deleteStatusHandler,
		importStatusesHandler:   importStatusesHandler,
		recordTransitionHandler: recordTransitionHandler,
		getAllStatusesHandler:   getAllStatusesHandler,
		getTransitionLogHandler: getTransitionLogHandler,
	}
}

// RegisterRoutes wires the management API routes onto the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")
	api.GET("/statuses", s.GetStatuses)
	api.POST("/statuses", s.CreateStatus)
	api.PUT("/statuses/:id", s.UpdateStatus)
	api.DELETE("/statuses/:id", s.DeleteStatus)
	api.POST("/statuses/import", s.ImportStatuses)
	api.POST("/transitions", s.RecordTransition)
	api.GET("/transitions", s.GetTransitions)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// GetStatuses handles GET /api/v1/statuses - lists the status directory.
func (s *Server) GetStatuses(ctx echo.Context) error {
	query := queries.NewGetAllStatusesQuery()

	statuses, err := s.getAllStatusesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]StatusResponse, len(statuses))
	for i, row := range statuses {
		response[i] = statusResponseFromReadModel(row)
	}

	return ctx.JSON(http.StatusOK, response)
}

// CreateStatus handles POST /api/v1/statuses - adds a custom status.
func (s *Server) CreateStatus(ctx echo.Context) error {
	var request CreateStatusRequest
	if err := bind(ctx, &request); err != nil {
		return writeError(ctx, err)
	}

	statusID := kernel.NewUUID()
	cmd, err := commands.NewCreateStatusCommand(
		statusID,
		request.Slug,
		request.Name,
		request.Description,
		request.DaysEstimation,
	)
	if err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("status", err))
	}

	if err = s.createStatusHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, map[string]string{
		"id":   statusID.String(),
		"slug": status.NormalizeSlug(request.Slug),
	})
}

// UpdateStatus handles PUT /api/v1/statuses/:id - replaces the editable
// configuration of a status. The slug and kind stay immutable.
func (s *Server) UpdateStatus(ctx echo.Context) error {
	statusID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("status id", err))
	}

	var request UpdateStatusRequest
	if err = bind(ctx, &request); err != nil {
		return writeError(ctx, err)
	}

	attrs, err := request.toAttrs()
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewUpdateStatusCommand(statusID, attrs)
	if err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("status", err))
	}

	if err = s.updateStatusHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// DeleteStatus handles DELETE /api/v1/statuses/:id. When the status still
// holds orders, the reassign_to query parameter names the status that
// receives them; without it the delete is refused.
func (s *Server) DeleteStatus(ctx echo.Context) error {
	statusID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("status id", err))
	}

	var reassignTo *kernel.UUID
	if raw := ctx.QueryParam("reassign_to"); raw != "" {
		target, parseErr := kernel.UUIDFromString(raw)
		if parseErr != nil {
			return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("reassign_to", parseErr))
		}
		reassignTo = &target
	}

	cmd, err := commands.NewDeleteStatusCommand(statusID, reassignTo)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.deleteStatusHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ImportStatuses handles POST /api/v1/statuses/import - merges a preset
// bundle into the directory.
func (s *Server) ImportStatuses(ctx echo.Context) error {
	var request ImportStatusesRequest
	if err := bind(ctx, &request); err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewImportStatusesCommand(status.Preset(request.Preset))
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.importStatusesHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RecordTransition handles POST /api/v1/transitions - the callback the host
// order system fires on every status change.
func (s *Server) RecordTransition(ctx echo.Context) error {
	var request RecordTransitionRequest
	if err := bind(ctx, &request); err != nil {
		return writeError(ctx, err)
	}

	orderID, err := kernel.UUIDFromString(request.OrderID)
	if err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("order id", err))
	}

	cmd, err := commands.NewRecordTransitionCommand(orderID, request.From, request.To, request.OverwriteOrDefault())
	if err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("transition", err))
	}

	event, err := s.recordTransitionHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, transitionResponseFromEvent(event))
}

// GetTransitions handles GET /api/v1/transitions - the filterable event log.
func (s *Server) GetTransitions(ctx echo.Context) error {
	var orderID *kernel.UUID
	if raw := ctx.QueryParam("order_id"); raw != "" {
		parsed, err := kernel.UUIDFromString(raw)
		if err != nil {
			return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("order_id", err))
		}
		orderID = &parsed
	}

	limit := 0
	if raw := ctx.QueryParam("limit"); raw != "" {
		if err := echo.QueryParamsBinder(ctx).Int("limit", &limit).BindError(); err != nil {
			return writeError(ctx, errs.NewValueIsInvalidError("limit"))
		}
	}

	query, err := queries.NewGetTransitionLogQuery(orderID, limit)
	if err != nil {
		return writeError(ctx, err)
	}

	events, err := s.getTransitionLogHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]TransitionResponse, len(events))
	for i, row := range events {
		response[i] = transitionResponseFromReadModel(row)
	}

	return ctx.JSON(http.StatusOK, response)
}

func bind(ctx echo.Context, request any) error {
	if err := ctx.Bind(request); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("request body", err)
	}
	if err := validate.Struct(request); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("request body", err)
	}
	return nil
}

// writeError maps domain errors onto HTTP statuses.
func writeError(ctx echo.Context, err error) error {
	code := http.StatusInternalServerError

	switch {
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		code = http.StatusBadRequest
	case errors.Is(err, errs.ErrObjectNotFound):
		code = http.StatusNotFound
	case errors.Is(err, errs.ErrOperationForbidden):
		code = http.StatusForbidden
	case errors.Is(err, errs.ErrConflict):
		code = http.StatusConflict
	}

	return ctx.JSON(code, ErrorResponse{
		Code:    code,
		Message: err.Error(),
	})
}
