package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pintrail/pintrail/internal/dto"
	"github.com/pintrail/pintrail/internal/service"
)

// PinHandler handles pin requests
type PinHandler struct {
	pinService service.PinService
	logger     *zap.Logger
}

// NewPinHandler creates a new pin handler
func NewPinHandler(pinService service.PinService, logger *zap.Logger) *PinHandler {
	return &PinHandler{pinService: pinService, logger: logger}
}

// List returns every pin of the authenticated user
// @Summary List own pins
// @Tags pins
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.Response
// @Router /pins [get]
func (h *PinHandler) List(c *gin.Context) {
	pins, err := h.pinService.List(c.Request.Context(), currentUserUUID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK("", pins))
}

// Create saves a pin. Accepts either a JSON body or a multipart form with a
// "data" JSON part plus optional "images" file parts; binaries are uploaded
// to external storage out of band and referenced through media metadata.
// @Summary Create a pin
// @Tags pins
// @Security BearerAuth
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} dto.Response
// @Failure 400 {object} dto.Response
// @Router /pins [post]
func (h *PinHandler) Create(c *gin.Context) {
	req, err := h.bindPinCreate(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	pin, err := h.pinService.Create(c.Request.Context(), currentUserUUID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.OK("pin created", pin))
}

// Update applies a partial update to an owned pin
// @Summary Update a pin
// @Tags pins
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param uuid path string true "Pin UUID"
// @Success 200 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /pins/{uuid} [patch]
func (h *PinHandler) Update(c *gin.Context) {
	var req dto.PinUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	pin, err := h.pinService.Update(c.Request.Context(), currentUserUUID(c), c.Param("uuid"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK("pin updated", pin))
}

// Delete removes an owned pin
// @Summary Delete a pin
// @Tags pins
// @Security BearerAuth
// @Produce json
// @Param uuid path string true "Pin UUID"
// @Success 200 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /pins/{uuid} [delete]
func (h *PinHandler) Delete(c *gin.Context) {
	if err := h.pinService.Delete(c.Request.Context(), currentUserUUID(c), c.Param("uuid")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK("pin deleted", nil))
}

func (h *PinHandler) bindPinCreate(c *gin.Context) (*dto.PinCreateRequest, error) {
	contentType := c.GetHeader("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		var req dto.PinCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, err
		}
		return &req, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}

	var req dto.PinCreateRequest
	data := c.PostForm("data")
	if err := json.Unmarshal([]byte(data), &req); err != nil {
		return nil, err
	}

	// The files themselves go to external storage; their presence is only
	// logged here, the persisted metadata comes from req.Media.
	if files := form.File["images"]; len(files) > 0 {
		h.logger.Debug("pin create received image parts", zap.Int("count", len(files)))
	}

	return &req, nil
}
