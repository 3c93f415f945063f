package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gan-shmuel/weight-service/internal/domain/dto"
	"github.com/gan-shmuel/weight-service/internal/domain/model"
	"github.com/gan-shmuel/weight-service/internal/i18n"
	"github.com/gan-shmuel/weight-service/internal/middleware"
	"github.com/gan-shmuel/weight-service/internal/service"
	"github.com/gin-gonic/gin"
)

// Handler serves the weighing, item, session and container routes.
type Handler struct {
	weighing service.WeighingService
	registry service.ContainerRegistry
	batch    service.BatchImporter
	logging  service.LoggingService
	now      func() time.Time
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithLoggingService persists audit entries for every ledger change.
func WithLoggingService(ls service.LoggingService) HandlerOption {
	return func(h *Handler) {
		h.logging = ls
	}
}

// WithClock overrides the clock used for default query ranges.
func WithClock(now func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.now = now
	}
}

// NewHandler creates a new Handler instance.
func NewHandler(weighing service.WeighingService, registry service.ContainerRegistry, batch service.BatchImporter, opts ...HandlerOption) *Handler {
	h := &Handler{
		weighing: weighing,
		registry: registry,
		batch:    batch,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// PostWeight handles POST /weight requests.
//
// @Summary      Record a weighing
// @Description  Records an in, out or standalone (none) weighing. An in opens a session for the truck, an out closes it and computes the net cargo weight. Containers without a registered tare count as zero. Supports idempotency via Idempotency-Key header.
// @Tags         Weighing
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Idempotency key for request deduplication"
// @Param        request body dto.WeightRequest true "Weighing event"
// @Success      200 {object} model.EntryResult "in and none"
// @Failure      400 {object} dto.ErrorResponse "Missing or invalid field"
// @Failure      404 {object} dto.ErrorResponse "No open in session for an out"
// @Failure      409 {object} dto.ErrorResponse "An in session is already open"
// @Failure      415 {object} dto.ErrorResponse "Body is not JSON"
// @Failure      429 {object} dto.ErrorResponse "Too many requests - rate limit exceeded"
// @Failure      500 {object} dto.ErrorResponse "Ledger ordering, computation or store failure"
// @Router       /weight [post]
func (h *Handler) PostWeight(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := bindJSON[dto.WeightRequest](c)
	if err != nil {
		builder.BadRequest(err)
		return
	}

	weighing, err := req.ToWeighing()
	if err != nil {
		builder.Fail(model.Validationf("record weighing", "%v", err))
		return
	}

	event := middleware.AuditEvent{
		Action: model.ActionForDirection(weighing.Direction),
		Truck:  weighing.Truck,
		Fields: map[string]interface{}{
			"weight":     weighing.Weight,
			"containers": weighing.Containers,
			"force":      weighing.Force,
			"produce":    weighing.Produce,
		},
	}

	result, err := h.weighing.Record(c.Request.Context(), weighing)
	if err != nil {
		event.Message = "weighing rejected"
		middleware.AuditLogError(h.logging, c, event, err)
		builder.Fail(err)
		return
	}

	event.Message = "weighing recorded"
	switch {
	case result.Exit != nil:
		event.SessionID = result.Exit.SessionID
		event.Fields["truck_tara"] = result.Exit.TruckTara
		event.Fields["neto"] = result.Exit.Neto
	case result.Entry != nil:
		event.SessionID = result.Entry.SessionID
	}
	middleware.AuditLog(h.logging, c, event)

	builder.OK(result.Body())
}

// ListWeighings handles GET /weight requests.
//
// @Summary      List weighings
// @Description  Lists ledger events between from and to (yyyymmddhhmmss), filtered by direction.
// @Tags         Weighing
// @Produce      json
// @Param        from   query string false "Start, yyyymmddhhmmss (default: first day of the month)"
// @Param        to     query string false "End, yyyymmddhhmmss (default: now)"
// @Param        filter query string false "Comma separated directions (default: in,out,none)"
// @Success      200 {array}  model.WeighingView
// @Failure      400 {object} dto.ErrorResponse "Malformed range or filter"
// @Failure      500 {object} dto.ErrorResponse "Store failure"
// @Router       /weight [get]
func (h *Handler) ListWeighings(c *gin.Context) {
	builder := NewResponseBuilder(c)

	rng, err := model.ParseTimeRange(c.Query("from"), c.Query("to"), h.now())
	if err != nil {
		builder.Fail(err)
		return
	}
	directions, err := parseDirections(c.Query("filter"))
	if err != nil {
		builder.Fail(err)
		return
	}

	views, err := h.weighing.ListWeighings(c.Request.Context(), rng, directions)
	if err != nil {
		builder.Fail(err)
		return
	}
	if views == nil {
		views = []model.WeighingView{}
	}
	builder.OK(views)
}

// parseDirections parses a comma separated filter. Empty means all.
func parseDirections(filter string) ([]model.Direction, error) {
	if strings.TrimSpace(filter) == "" {
		return nil, nil
	}
	seen := make(map[model.Direction]bool, 3)
	var out []model.Direction
	for _, part := range strings.Split(filter, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := model.ParseDirection(part)
		if err != nil {
			return nil, model.Validationf("parse filter", "unknown direction %q in filter", part)
		}
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	return out, nil
}

// GetItem handles GET /item/:id requests.
//
// @Summary      Get a truck or container
// @Description  Returns the last known tare of a truck, or the registered tare of a container, and the sessions it took part in between from and to. Tara is "na" when unknown.
// @Tags         Items
// @Produce      json
// @Param        id   path  string true  "Truck license or container id"
// @Param        from query string false "Start, yyyymmddhhmmss (default: first day of the month)"
// @Param        to   query string false "End, yyyymmddhhmmss (default: now)"
// @Success      200 {object} model.ItemView
// @Failure      400 {object} dto.ErrorResponse "Malformed range"
// @Failure      404 {object} dto.ErrorResponse "Unknown item"
// @Failure      500 {object} dto.ErrorResponse "Store failure"
// @Router       /item/{id} [get]
func (h *Handler) GetItem(c *gin.Context) {
	builder := NewResponseBuilder(c)

	rng, err := model.ParseTimeRange(c.Query("from"), c.Query("to"), h.now())
	if err != nil {
		builder.Fail(err)
		return
	}

	item, err := h.weighing.GetItem(c.Request.Context(), c.Param("id"), rng)
	if err != nil {
		builder.Fail(err)
		return
	}
	builder.OK(item)
}

// GetSession handles GET /session/:id requests.
//
// @Summary      Get a session
// @Description  Returns the merged view of a session. truckTara and neto are present once the truck has weighed out.
// @Tags         Weighing
// @Produce      json
// @Param        id path int true "Session id"
// @Success      200 {object} model.SessionView
// @Failure      400 {object} dto.ErrorResponse "Session id is not a number"
// @Failure      404 {object} dto.ErrorResponse "Unknown session"
// @Failure      500 {object} dto.ErrorResponse "Store failure"
// @Router       /session/{id} [get]
func (h *Handler) GetSession(c *gin.Context) {
	builder := NewResponseBuilder(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidSession, nil)
		return
	}

	session, err := h.weighing.GetSession(c.Request.Context(), id)
	if err != nil {
		builder.Fail(err)
		return
	}
	builder.OK(session)
}

// GetUnknown handles GET /unknown requests.
//
// @Summary      List containers with unknown tare
// @Description  Returns the ids of registered containers whose weight was never measured.
// @Tags         Containers
// @Produce      json
// @Success      200 {array}  string
// @Failure      500 {object} dto.ErrorResponse "Store failure"
// @Router       /unknown [get]
func (h *Handler) GetUnknown(c *gin.Context) {
	builder := NewResponseBuilder(c)

	ids, err := h.registry.ListUnknown(c.Request.Context())
	if err != nil {
		builder.Fail(err)
		return
	}
	builder.OK(ids)
}

// PostBatchWeight handles POST /batch-weight requests.
//
// @Summary      Import container tares
// @Description  Loads a .csv ("id,kg" or "id,lbs" header) or .json ([{"id","weight","unit"}]) file from the input directory into the container registry. Weights are stored in kilograms; last write wins.
// @Tags         Containers
// @Accept       json
// @Produce      json
// @Param        request body dto.BatchWeightRequest true "File in the input directory"
// @Param        X-API-Key header string false "API key (required if auth enabled)"
// @Param        Authorization header string false "Bearer token (alternative to API key)"
// @Success      200 {object} dto.BatchWeightResponse
// @Failure      400 {object} dto.ErrorResponse "Invalid file name or content"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized"
// @Failure      404 {object} dto.ErrorResponse "File not found"
// @Failure      415 {object} dto.ErrorResponse "Body is not JSON"
// @Failure      500 {object} dto.ErrorResponse "Store failure"
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /batch-weight [post]
func (h *Handler) PostBatchWeight(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := bindJSON[dto.BatchWeightRequest](c)
	if err != nil {
		var ve *dto.ValidationError
		if errors.As(err, &ve) {
			builder.Fail(model.Validationf("import batch", "%v", ve))
			return
		}
		builder.BadRequest(err)
		return
	}

	event := middleware.AuditEvent{
		Action: model.ActionBatchImport,
		Fields: map[string]interface{}{"file": req.File},
	}

	imported, err := h.batch.ImportBatch(c.Request.Context(), req.File)
	if err != nil {
		event.Message = "container batch rejected"
		middleware.AuditLogError(h.logging, c, event, err)
		builder.Fail(err)
		return
	}

	event.Message = "container batch imported"
	event.Fields["imported"] = imported
	middleware.AuditLog(h.logging, c, event)

	builder.OK(dto.BatchWeightResponse{File: req.File, Imported: imported})
}

// GetAudit handles GET /audit requests.
//
// @Summary      Audit history
// @Description  Returns persisted audit and request log entries, newest first. Filters by truck, session, action, request id and level within from and to. Requires the MongoDB log sink.
// @Tags         Audit
// @Produce      json
// @Param        truck      query string false "Truck license"
// @Param        session    query int    false "Session id"
// @Param        action     query string false "Audit action" Enums(weight_in, weight_out, weight_none, batch_import)
// @Param        request_id query string false "Request id"
// @Param        level      query string false "Log level"
// @Param        from       query string false "Start, yyyymmddhhmmss (default: first day of the month)"
// @Param        to         query string false "End, yyyymmddhhmmss (default: now)"
// @Param        limit      query int    false "Page size (default 50, max 500)"
// @Param        offset     query int    false "Entries to skip"
// @Param        X-API-Key  header string false "API key (required if auth enabled)"
// @Success      200 {object} model.LogPage
// @Failure      400 {object} dto.ErrorResponse "Malformed query"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized"
// @Failure      404 {object} dto.ErrorResponse "Log sink not configured"
// @Failure      500 {object} dto.ErrorResponse "Store failure"
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /audit [get]
func (h *Handler) GetAudit(c *gin.Context) {
	builder := NewResponseBuilder(c)
	const op = "audit history"

	if h.logging == nil {
		builder.Fail(model.NotFoundf(op, "audit log sink is not enabled"))
		return
	}

	var q dto.AuditQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		builder.Fail(model.Validationf(op, "invalid query: %v", err))
		return
	}
	rng, err := model.ParseTimeRange(q.From, q.To, h.now())
	if err != nil {
		builder.Fail(err)
		return
	}
	opts, err := q.ToOptions(rng)
	if err != nil {
		builder.Fail(err)
		return
	}

	page, err := h.logging.History(c.Request.Context(), opts)
	if err != nil {
		builder.Fail(err)
		return
	}
	builder.OK(page)
}
