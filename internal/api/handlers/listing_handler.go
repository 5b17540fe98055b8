package handlers

import (
	"errors"
	"net/http"

	"github.com/mlopezuch/fila-backend/internal/domain"
	"github.com/mlopezuch/fila-backend/internal/services"
	"github.com/mlopezuch/fila-backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

type ListingHandler struct {
	listingService *services.ListingService
	log            logger.Logger
}

type CreateListingRequest struct {
	Title     string   `json:"title" validate:"required"`
	Price     *int     `json:"price" validate:"required"`
	Lat       *float64 `json:"lat" validate:"required"`
	Lng       *float64 `json:"lng" validate:"required"`
	UserID    string   `json:"user_id"`
	UserName  string   `json:"user_name"`
	UserPhoto string   `json:"user_photo"`
}

type BookListingRequest struct {
	ClientID string `json:"client_id"`
}

func NewListingHandler(listingService *services.ListingService, log logger.Logger) *ListingHandler {
	return &ListingHandler{
		listingService: listingService,
		log:            log,
	}
}

func (h *ListingHandler) ListListings(c echo.Context) error {
	listings := h.listingService.ListListings(c.Request().Context())
	return c.JSON(http.StatusOK, listings)
}

func (h *ListingHandler) CreateListing(c echo.Context) error {
	var req CreateListingRequest
	if err := c.Bind(&req); err != nil {
		h.log.Error("Failed to bind request", "error", err)
		return c.JSON(http.StatusBadRequest, errorEnvelope("Datos inválidos"))
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorEnvelope("Datos inválidos"))
	}

	listing, err := h.listingService.CreateListing(c.Request().Context(), services.CreateListingParams{
		Title:     req.Title,
		Price:     *req.Price,
		Lat:       *req.Lat,
		Lng:       *req.Lng,
		UserID:    req.UserID,
		UserName:  req.UserName,
		UserPhoto: req.UserPhoto,
	})
	if err != nil {
		h.log.Error("Failed to create listing", "error", err)
		return c.JSON(http.StatusInternalServerError, errorEnvelope("Error interno"))
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Oferta guardada",
		"listing": listing,
	})
}

func (h *ListingHandler) BookListing(c echo.Context) error {
	listingID := c.Param("id")

	// Body is optional; anonymous bookings carry no client identity.
	var req BookListingRequest
	if err := c.Bind(&req); err != nil {
		h.log.Error("Failed to bind request", "error", err)
		return c.JSON(http.StatusBadRequest, errorEnvelope("Datos inválidos"))
	}

	err := h.listingService.BookListing(c.Request().Context(), listingID, req.ClientID)
	switch {
	case errors.Is(err, domain.ErrListingNotFound):
		return c.JSON(http.StatusOK, errorEnvelope("Oferta no encontrada"))
	case errors.Is(err, domain.ErrAlreadyBooked):
		return c.JSON(http.StatusOK, errorEnvelope("Ya está reservado"))
	case errors.Is(err, domain.ErrSelfBooking):
		return c.JSON(http.StatusForbidden, errorEnvelope("No puedes reservar tu propia oferta"))
	case err != nil:
		h.log.Error("Failed to book listing", "listing_id", listingID, "error", err)
		return c.JSON(http.StatusInternalServerError, errorEnvelope("Error interno"))
	}

	return c.JSON(http.StatusOK, successEnvelope("¡Contratado exitosamente!"))
}

func (h *ListingHandler) CompleteListing(c echo.Context) error {
	listingID := c.Param("id")

	err := h.listingService.CompleteListing(c.Request().Context(), listingID)
	switch {
	case errors.Is(err, domain.ErrListingNotFound):
		return c.JSON(http.StatusOK, errorEnvelope("Código QR no válido"))
	case errors.Is(err, domain.ErrAlreadyCompleted):
		return c.JSON(http.StatusOK, errorEnvelope("Ya fue pagado"))
	case errors.Is(err, domain.ErrNotBooked):
		return c.JSON(http.StatusOK, errorEnvelope("La oferta aún no está reservada"))
	case err != nil:
		h.log.Error("Failed to complete listing", "listing_id", listingID, "error", err)
		return c.JSON(http.StatusInternalServerError, errorEnvelope("Error interno"))
	}

	return c.JSON(http.StatusOK, successEnvelope("¡Servicio validado! Pago liberado."))
}

func (h *ListingHandler) DeleteListing(c echo.Context) error {
	listingID := c.Param("id")

	err := h.listingService.DeleteListing(c.Request().Context(), listingID)
	switch {
	case errors.Is(err, domain.ErrListingNotFound):
		return c.JSON(http.StatusOK, errorEnvelope("No existe esa oferta"))
	case err != nil:
		h.log.Error("Failed to delete listing", "listing_id", listingID, "error", err)
		return c.JSON(http.StatusInternalServerError, errorEnvelope("Error interno"))
	}

	return c.JSON(http.StatusOK, successEnvelope("Oferta eliminada"))
}

func successEnvelope(message string) map[string]string {
	return map[string]string{"status": "success", "message": message}
}

func errorEnvelope(message string) map[string]string {
	return map[string]string{"status": "error", "message": message}
}
