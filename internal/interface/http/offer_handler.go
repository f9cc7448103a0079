package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-marketplace-api/internal/application"
	"github.com/oksasatya/go-marketplace-api/internal/domain/entity"
	"github.com/oksasatya/go-marketplace-api/internal/interface/middleware"
	"github.com/oksasatya/go-marketplace-api/pkg/response"
)

type OfferHandler struct {
	Svc    *application.OfferService
	Logger *logrus.Logger
}

func NewOfferHandler(svc *application.OfferService, logger *logrus.Logger) *OfferHandler {
	return &OfferHandler{Svc: svc, Logger: logger}
}

type publishRequest struct {
	Title       string  `form:"title" binding:"required"`
	Description string  `form:"description" binding:"required"`
	Price       float64 `form:"price" binding:"required"`
	Brand       string  `form:"brand"`
	Size        string  `form:"size"`
	Condition   string  `form:"condition"`
	Color       string  `form:"color"`
	City        string  `form:"city"`
}

// Publish handles POST /offer/publish (auth required, multipart form).
func (h *OfferHandler) Publish(c *gin.Context) {
	var req publishRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Message(c, http.StatusBadRequest, "Please provide valid parameters")
		return
	}

	picture, closePicture, err := openUpload(c, "picture")
	if err != nil {
		response.Message(c, http.StatusBadRequest, "invalid picture upload")
		return
	}
	defer closePicture()

	o, err := h.Svc.Publish(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), application.PublishInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Details: entity.Details{
			Brand:     req.Brand,
			Size:      req.Size,
			Condition: req.Condition,
			Color:     req.Color,
			Location:  req.City,
		},
		Picture: picture,
	})
	if err != nil {
		if errors.Is(err, application.ErrInvalidOffer) {
			response.Message(c, http.StatusBadRequest, "Please provide valid parameters")
			return
		}
		h.Logger.WithError(err).Error("publish failed")
		response.Message(c, http.StatusBadRequest, err.Error())
		return
	}
	response.JSON(c, http.StatusCreated, o)
}

// List handles GET /offers with filters, sorting and pagination.
func (h *OfferHandler) List(c *gin.Context) {
	params := application.SearchParams{
		Title: c.Query("title"),
		Sort:  c.Query("sort"),
	}
	if v, ok := parseFloatQuery(c, "priceMin"); ok {
		params.PriceMin = &v
	}
	if v, ok := parseFloatQuery(c, "priceMax"); ok {
		params.PriceMax = &v
	}
	params.Limit, _ = strconv.Atoi(c.Query("limit"))
	params.Page, _ = strconv.Atoi(c.Query("page"))

	res, err := h.Svc.Search(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, application.ErrPageNotFound) {
			response.Message(c, http.StatusNotFound, "This page doesn't exist.")
			return
		}
		h.Logger.WithError(err).Error("offer search failed")
		response.Message(c, http.StatusBadRequest, err.Error())
		return
	}
	response.JSON(c, http.StatusOK, res)
}

// Get handles GET /offer/:id.
func (h *OfferHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.Message(c, http.StatusBadRequest, "Please provide an ID.")
		return
	}
	o, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, application.ErrOfferNotFound) {
			response.Message(c, http.StatusNotFound, "This offer doesn't exist.")
			return
		}
		h.Logger.WithError(err).Error("offer lookup failed")
		response.Message(c, http.StatusBadRequest, err.Error())
		return
	}
	response.JSON(c, http.StatusOK, o)
}

type updateRequest struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	Price       string `form:"price"`
	Brand       string `form:"brand"`
	Size        string `form:"size"`
	Condition   string `form:"condition"`
	Color       string `form:"color"`
	City        string `form:"city"`
}

// Update handles PUT /offer/update and /offer/update/:id. Only fields
// present in the form overwrite the stored values.
func (h *OfferHandler) Update(c *gin.Context) {
	id := mutationID(c)
	if id == "" {
		response.Message(c, http.StatusBadRequest, "Please provide an ID.")
		return
	}

	var req updateRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Message(c, http.StatusBadRequest, "Please provide valid parameters")
		return
	}

	in := application.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Details: entity.Details{
			Brand:     req.Brand,
			Size:      req.Size,
			Condition: req.Condition,
			Color:     req.Color,
			Location:  req.City,
		},
	}
	if req.Price != "" {
		p, err := strconv.ParseFloat(req.Price, 64)
		if err != nil {
			response.Message(c, http.StatusBadRequest, "Please provide valid parameters")
			return
		}
		in.Price = &p
	}

	picture, closePicture, err := openUpload(c, "picture")
	if err != nil {
		response.Message(c, http.StatusBadRequest, "invalid picture upload")
		return
	}
	defer closePicture()
	in.Picture = picture

	o, err := h.Svc.Update(c.Request.Context(), id, c.GetString(middleware.CtxTokenKey), in)
	if err != nil {
		h.writeMutationError(c, err, "offer update failed")
		return
	}
	response.JSON(c, http.StatusOK, o)
}

// Delete handles DELETE /offer/delete and /offer/delete/:id (owner only).
func (h *OfferHandler) Delete(c *gin.Context) {
	id := mutationID(c)
	if id == "" {
		response.Message(c, http.StatusBadRequest, "Please provide an ID.")
		return
	}

	if err := h.Svc.Delete(c.Request.Context(), id, c.GetString(middleware.CtxTokenKey)); err != nil {
		h.writeMutationError(c, err, "offer delete failed")
		return
	}
	response.Message(c, http.StatusOK, "Offer successfully deleted.")
}

// Search handles GET /offers/search, the Elasticsearch full-text endpoint.
func (h *OfferHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Message(c, http.StatusBadRequest, "Please provide a query.")
		return
	}
	size, _ := strconv.Atoi(c.Query("limit"))
	hits, err := h.Svc.FullText(c.Request.Context(), q, size)
	if err != nil {
		h.Logger.WithError(err).Error("full-text search failed")
		response.Message(c, http.StatusBadRequest, err.Error())
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"count": len(hits), "offers": hits})
}

// writeMutationError maps update/delete failures: unknown offer stays a 400
// like the legacy API, a failed ownership gate is always 401.
func (h *OfferHandler) writeMutationError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, application.ErrOfferNotFound):
		response.Message(c, http.StatusBadRequest, "This offer doesn't exist.")
	case errors.Is(err, application.ErrNotOwner):
		response.Unauthorized(c)
	default:
		h.Logger.WithError(err).Error(logMsg)
		response.Message(c, http.StatusBadRequest, err.Error())
	}
}

// mutationID resolves the offer id from the path, falling back to the id
// form field for the path-less route variants.
func mutationID(c *gin.Context) string {
	if id := c.Param("id"); id != "" {
		return id
	}
	if id := c.PostForm("id"); id != "" {
		return id
	}
	return c.Query("id")
}

func parseFloatQuery(c *gin.Context, name string) (float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
