package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/viant/vecnode/logging"
	"github.com/viant/vecnode/service"
	"github.com/viant/vecnode/vector"
)

// upsertBody is the JSON body of POST /vectors/upsert. Vector elements are
// pointers so that a null component fails binding instead of decoding as 0.
type upsertBody struct {
	ID       *string    `json:"id" binding:"required"`
	Vector   []*float32 `json:"vector" binding:"required,dive,required"`
	Metadata metadata   `json:"metadata"`
	Cascade  bool       `json:"cascade"`
}

var errNullMetadata = errors.New("metadata: must be an object, got null")

// metadata is the optional metadata object. It may be omitted but not null.
type metadata map[string]any

func (m *metadata) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return errNullMetadata
	}
	var v map[string]any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = v
	return nil
}

func (b *upsertBody) values() []float32 {
	out := make([]float32, len(b.Vector))
	for i, v := range b.Vector {
		out[i] = *v
	}
	return out
}

type errorBody struct {
	Detail string `json:"detail"`
}

type handlers struct {
	svc    *service.Service
	logger *logging.Logger
}

func (h *handlers) health(c *gin.Context) {
	res, err := h.svc.Health(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handlers) upsert(c *gin.Context) {
	var body upsertBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusUnprocessableEntity, errorBody{Detail: err.Error()})
		return
	}
	res, err := h.svc.Upsert(c.Request.Context(), service.UpsertRequest{
		ID:       *body.ID,
		Vector:   body.values(),
		Metadata: body.Metadata,
		Cascade:  body.Cascade,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handlers) count(c *gin.Context) {
	res, err := h.svc.Count(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// writeError maps service and storage errors onto status codes. Fatal
// storage errors are logged but not echoed to the client.
func (h *handlers) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, errorBody{Detail: err.Error()})
	case service.IsInvalidArgument(err):
		c.JSON(http.StatusBadRequest, errorBody{Detail: err.Error()})
	case vector.IsTransient(err):
		h.logger.WarnContext(c.Request.Context(), "transient storage failure",
			"request_id", c.GetString("requestID"), "error", err)
		c.JSON(http.StatusServiceUnavailable, errorBody{Detail: "storage busy, retry later"})
	default:
		h.logger.ErrorContext(c.Request.Context(), "request failed",
			"request_id", c.GetString("requestID"), "error", err)
		c.JSON(http.StatusInternalServerError, errorBody{Detail: "Internal Server Error"})
	}
}
