package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/carsphere/carsphere-api/internal/application"
	"github.com/carsphere/carsphere-api/pkg/response"
)

const maxPhotoSize = 5 << 20 // 5 MiB

type CarHandler struct {
	Svc    *application.CarService
	Logger *logrus.Logger
}

func NewCarHandler(svc *application.CarService, logger *logrus.Logger) *CarHandler {
	return &CarHandler{Svc: svc, Logger: logger}
}

func carID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "invalid car id", nil)
		return 0, false
	}
	return id, true
}

// List GET /api/cars
func (h *CarHandler) List(c *gin.Context) {
	cars, err := h.Svc.GetAll(c.Request.Context())
	if err != nil {
		serviceError(c, err, http.StatusBadRequest)
		return
	}
	response.Success(c, http.StatusOK, cars, "cars")
}

// Search GET /api/cars/search?q=&size=
func (h *CarHandler) Search(c *gin.Context) {
	q := c.Query("q")
	size, _ := strconv.Atoi(c.Query("size"))
	hits, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		serviceError(c, err, http.StatusBadRequest)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results")
}

// Get GET /api/cars/:id
func (h *CarHandler) Get(c *gin.Context) {
	id, ok := carID(c)
	if !ok {
		return
	}
	car, err := h.Svc.GetByID(c.Request.Context(), id)
	if err != nil {
		serviceError(c, err, http.StatusNotFound)
		return
	}
	response.Success(c, http.StatusOK, car, "car")
}

// Create POST /api/cars
func (h *CarHandler) Create(c *gin.Context) {
	var in application.CarInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", nil)
		return
	}
	car, err := h.Svc.Create(c.Request.Context(), in)
	if err != nil {
		serviceError(c, err, http.StatusBadRequest)
		return
	}
	h.Logger.WithFields(logrus.Fields{"car_id": car.ID, "model": car.Model}).Info("car created")
	response.Success(c, http.StatusCreated, car, "car created")
}

// Update PUT /api/cars/:id
func (h *CarHandler) Update(c *gin.Context) {
	id, ok := carID(c)
	if !ok {
		return
	}
	var in application.CarInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", nil)
		return
	}
	car, err := h.Svc.Update(c.Request.Context(), id, in)
	if err != nil {
		serviceError(c, err, http.StatusBadRequest)
		return
	}
	response.Success(c, http.StatusOK, car, "car updated")
}

// Delete DELETE /api/cars/:id
func (h *CarHandler) Delete(c *gin.Context) {
	id, ok := carID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		serviceError(c, err, http.StatusBadRequest)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadPhoto POST /api/cars/:id/photo (multipart field "photo")
func (h *CarHandler) UploadPhoto(c *gin.Context) {
	id, ok := carID(c)
	if !ok {
		return
	}
	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "missing photo file", nil)
		return
	}
	defer func() { _ = file.Close() }()
	if header.Size > maxPhotoSize {
		response.Error(c, http.StatusBadRequest, "photo too large", nil)
		return
	}

	url, err := h.Svc.UploadPhoto(c.Request.Context(), id, file, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		serviceError(c, err, http.StatusBadRequest)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"photo_url": url}, "photo uploaded")
}
