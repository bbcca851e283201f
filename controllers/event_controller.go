package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"whosnight/models"
	"whosnight/utils"
)

type EventController struct {
	DB       *gorm.DB
	Audit    *utils.ActionLogger
	Approval *utils.Approval
	Logger   *log.Logger
}

func NewEventController(db *gorm.DB, audit *utils.ActionLogger, approval *utils.Approval, logger *log.Logger) *EventController {
	return &EventController{
		DB:       db,
		Audit:    audit,
		Approval: approval,
		Logger:   logger,
	}
}

// Create adds a family event, pending review.
func (ec *EventController) Create(c *fiber.Ctx) error {
	user := sessionUser(c)

	var input struct {
		Title       string `json:"title" validate:"required,max=200"`
		Description string `json:"description" validate:"omitempty,max=1000"`
		Date        string `json:"date" validate:"required,dateday"`
		StartTime   string `json:"start_time" validate:"omitempty,len=5"`
		EndTime     string `json:"end_time" validate:"omitempty,len=5"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}
	if err := requireCreatePermission(ec.DB, user, models.KindEvent); err != nil {
		return utils.ErrorResponse(c, utils.StatusForError(err), "Permission denied", err)
	}

	event := models.Event{
		Title:       input.Title,
		Description: input.Description,
		Date:        input.Date,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Status:      models.StatusPending,
		CreatedBy:   user.ID,
	}
	if err := ec.DB.Create(&event).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create event", err)
	}

	ec.Audit.Append(&models.ActionLogEntry{
		UserID:      user.ID,
		Action:      models.ActionCreateEvent,
		EntityType:  utils.Pointer(models.KindEvent),
		EntityID:    utils.Pointer(event.ID),
		Details:     "created event " + event.Title + " on " + event.Date,
		RequestedBy: utils.Pointer(user.ID),
	})

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(event))
}

// List returns events, optionally filtered by exact date and status.
func (ec *EventController) List(c *fiber.Ctx) error {
	query := ec.DB.Order("date ASC")
	if date := c.Query("date"); date != "" {
		query = query.Where("date = ?", date)
	}
	if status := c.Query("status"); status != "" {
		if !models.Status(status).Valid() {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "unknown status filter", nil)
		}
		query = query.Where("status = ?", status)
	}

	var events []models.Event
	if err := query.Find(&events).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list events", err)
	}

	return c.JSON(utils.SuccessResponse(events))
}

// UpdateStatus accepts, declines or cancels an event. Cancellation requires
// a reason, which is kept on the log entry and shown in the detail view.
func (ec *EventController) UpdateStatus(c *fiber.Ctx) error {
	user := sessionUser(c)
	id := utils.ParseUint(c.Params("id"))

	var input statusUpdateInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if models.Status(input.Status) == models.StatusCancelled {
		event, err := ec.Approval.CancelEvent(id, user.ID, input.Reason)
		if err != nil {
			return utils.ErrorResponse(c, utils.StatusForError(err), "Failed to cancel event", err)
		}
		return c.JSON(utils.SuccessResponse(event))
	}

	target, ok := reviewTarget(input.Status)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "status must be confirmed, declined or cancelled", nil)
	}

	event, err := ec.Approval.Transition(models.KindEvent, id, user.ID, target)
	if err != nil {
		return utils.ErrorResponse(c, utils.StatusForError(err), "Failed to update event status", err)
	}

	return c.JSON(utils.SuccessResponse(event))
}

// Detail returns one event together with its cancellation reason, if any.
func (ec *EventController) Detail(c *fiber.Ctx) error {
	id := utils.ParseUint(c.Params("id"))

	var event models.Event
	if err := ec.DB.First(&event, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Event not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load event", err)
	}

	response := fiber.Map{"event": event}
	if event.Status == models.StatusCancelled {
		var entry models.ActionLogEntry
		err := ec.DB.
			Where("entity_type = ? AND entity_id = ? AND action = ?", models.KindEvent, event.ID, models.ActionCancelEvent).
			Order("timestamp DESC, id DESC").
			First(&entry).Error
		if err == nil && entry.Reason != nil {
			response["cancellation_reason"] = *entry.Reason
		}
	}

	return c.JSON(utils.SuccessResponse(response))
}
