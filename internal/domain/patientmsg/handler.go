package patientmsg

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const genericErrorMessage = "An error occurred while processing the message."

// Handler exposes the parser over HTTP.
type Handler struct {
	svc     *Service
	checker *ProjectionChecker
	logger  zerolog.Logger
}

// NewHandler creates a handler. checker may be nil, in which case FHIR
// projections are returned unchecked.
func NewHandler(svc *Service, checker *ProjectionChecker, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, checker: checker, logger: logger}
}

// RegisterRoutes registers the parse endpoints on the provided group.
//
//	POST /parse-message   - parse one message to a PatientRecord
//	POST /parse-messages  - parse a blank-line separated batch
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/parse-message", h.ParseMessage)
	g.POST("/parse-messages", h.ParseMessages)
}

// ParseMessage handles POST /parse-message. With ?format=fhir the record is
// returned as a FHIR Bundle.
func (h *Handler) ParseMessage(c echo.Context) error {
	message, err := readMessage(c)
	if err != nil {
		return badRequest(c, err)
	}

	rec, _, err := h.svc.ParseAndSave(c.Request().Context(), message)
	if err != nil {
		return h.errorResponse(c, err)
	}

	if c.QueryParam("format") == "fhir" {
		return c.JSON(http.StatusOK, h.fhirBundle(c, rec))
	}
	return c.JSON(http.StatusOK, rec)
}

// ParseMessages handles POST /parse-messages.
func (h *Handler) ParseMessages(c echo.Context) error {
	message, err := readMessage(c)
	if err != nil {
		return badRequest(c, err)
	}

	results, err := h.svc.ParseBatch(c.Request().Context(), message)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"results": results})
}

func badRequest(c echo.Context, err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}
	return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
}

func (h *Handler) errorResponse(c echo.Context, err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": ve.Message,
			"kind":  ve.Kind.String(),
		})
	}

	rid, _ := c.Get("request_id").(string)
	h.logger.Error().Err(err).Str("request_id", rid).Msg("an error occurred")
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": genericErrorMessage})
}

func (h *Handler) fhirBundle(c echo.Context, rec *PatientRecord) map[string]interface{} {
	bundle := ToFHIRBundle(rec)
	if h.checker == nil {
		return bundle
	}

	failed, err := h.checker.Check(ToFHIRPatient(rec))
	if err != nil {
		h.logger.Warn().Err(err).Msg("fhir projection check failed")
	} else if len(failed) > 0 {
		rid, _ := c.Get("request_id").(string)
		h.logger.Warn().Strs("invariants", failed).Str("request_id", rid).Msg("fhir projection incomplete")
	}
	return bundle
}

var (
	errBodyNotJSON    = errors.New("request body must be a JSON object")
	errMissingMessage = errors.New("message is required")
	errMessageType    = errors.New("message must be a string")
	errEmptyMessage   = errors.New("message must not be empty")
)

// readMessage extracts the "message" string field from the JSON body.
func readMessage(c echo.Context) (string, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return "", he
		}
		return "", errors.New("failed to read request body")
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil || payload == nil {
		return "", errBodyNotJSON
	}

	raw, ok := payload["message"]
	if !ok || raw == nil {
		return "", errMissingMessage
	}
	message, ok := raw.(string)
	if !ok {
		return "", errMessageType
	}
	if message == "" {
		return "", errEmptyMessage
	}
	return message, nil
}
