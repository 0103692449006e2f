package handler

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/Demba-Soumare/birthdate/internal/domain"
	"github.com/Demba-Soumare/birthdate/internal/middleware"
	"github.com/Demba-Soumare/birthdate/internal/models"
	"github.com/Demba-Soumare/birthdate/internal/repository"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	eventRepo      *repository.EventRepository
	fundraiserRepo *repository.FundraiserRepository
}

func NewEventHandler(eventRepo *repository.EventRepository, fundraiserRepo *repository.FundraiserRepository) *EventHandler {
	return &EventHandler{eventRepo: eventRepo, fundraiserRepo: fundraiserRepo}
}

type CreateEventRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	EventType   string `json:"event_type" binding:"required,oneof=BIRTHDAY WEDDING ANNIVERSARY GRADUATION OTHER"`
	Date        string `json:"date" binding:"required"` // ISO date
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

func (h *EventHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format (use YYYY-MM-DD)"})
		return
	}
	e := &models.Event{
		UserID:      userID,
		Title:       req.Title,
		EventType:   req.EventType,
		Date:        date,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}
	if err := h.eventRepo.Create(e); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create event"})
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *EventHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var (
		events []models.Event
		err    error
	)
	if c.Query("upcoming") == "true" {
		events, err = h.eventRepo.ListUpcoming(userID, time.Now())
	} else {
		events, err = h.eventRepo.ListByOwner(userID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch events"})
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}
	e, err := h.eventRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}
	c.JSON(http.StatusOK, e)
}

type UpdateEventRequest struct {
	Title       string  `json:"title"`
	EventType   string  `json:"event_type"`
	Date        string  `json:"date"`
	Description *string `json:"description"`
	ImageURL    string  `json:"image_url"`
}

func (h *EventHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}
	e, err := h.eventRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}
	if e.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your event"})
		return
	}
	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Title != "" {
		e.Title = req.Title
	}
	if req.EventType != "" {
		switch req.EventType {
		case domain.EventTypeBirthday, domain.EventTypeWedding, domain.EventTypeAnniversary, domain.EventTypeGraduation, domain.EventTypeOther:
			e.EventType = req.EventType
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event_type"})
			return
		}
	}
	if req.Date != "" {
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format (use YYYY-MM-DD)"})
			return
		}
		e.Date = date
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.ImageURL != "" {
		e.ImageURL = req.ImageURL
	}
	if err := h.eventRepo.Update(e); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update event"})
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *EventHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}
	e, err := h.eventRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}
	if e.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your event"})
		return
	}
	if err := h.eventRepo.Delete(uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete event"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "event deleted", "id": id})
}

type CreateFundraiserRequest struct {
	TargetAmount float64 `json:"target_amount" binding:"required,gt=0"` // euros
	Description  string  `json:"description"`
	EndDate      string  `json:"end_date"` // ISO date, optional
}

// CreateFundraiser opens the fundraiser on an event the caller owns.
// One fundraiser per event; a second opt-in is rejected.
func (h *EventHandler) CreateFundraiser(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}
	e, err := h.eventRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}
	if e.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your event"})
		return
	}
	var req CreateFundraiserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	f := &models.Fundraiser{
		EventID:           uint(id),
		TargetAmountCents: int64(math.Round(req.TargetAmount * 100)),
		Description:       req.Description,
	}
	if req.EndDate != "" {
		end, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date format (use YYYY-MM-DD)"})
			return
		}
		f.EndDate = &end
	}
	if err := h.fundraiserRepo.Create(f); err != nil {
		if err == repository.ErrFundraiserExists {
			c.JSON(http.StatusConflict, gin.H{"error": "event already has a fundraiser"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create fundraiser"})
		return
	}
	c.JSON(http.StatusCreated, f)
}

// GetFundraiser returns the fundraiser with its contribution list, in
// webhook arrival order.
func (h *EventHandler) GetFundraiser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("eventId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}
	f, err := h.fundraiserRepo.GetByEventID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "fundraiser not found"})
		return
	}
	c.JSON(http.StatusOK, f)
}
