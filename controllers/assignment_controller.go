package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"whosnight/models"
	"whosnight/utils"
)

type AssignmentController struct {
	DB       *gorm.DB
	Audit    *utils.ActionLogger
	Approval *utils.Approval
	Logger   *log.Logger
}

func NewAssignmentController(db *gorm.DB, audit *utils.ActionLogger, approval *utils.Approval, logger *log.Logger) *AssignmentController {
	return &AssignmentController{
		DB:       db,
		Audit:    audit,
		Approval: approval,
		Logger:   logger,
	}
}

// CreateOrUpdate posts a custody assignment for a night. One row per date:
// posting an existing date merges the fields, resets the row to pending and
// logs an update entry carrying the pre-mutation snapshot so the edit can be
// undone.
func (ac *AssignmentController) CreateOrUpdate(c *fiber.Ctx) error {
	user := sessionUser(c)

	var input struct {
		Date       string `json:"date" validate:"required,dateday"`
		AssignedTo uint   `json:"assigned_to" validate:"required"`
		Note       string `json:"note" validate:"omitempty,max=500"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}
	if err := requireCreatePermission(ac.DB, user, models.KindCalendarAssignment); err != nil {
		return utils.ErrorResponse(c, utils.StatusForError(err), "Permission denied", err)
	}

	var existing models.CalendarAssignment
	err := ac.DB.Where("date = ?", input.Date).First(&existing).Error
	if err == nil {
		snapshot := utils.Snapshot(&existing)

		existing.AssignedTo = input.AssignedTo
		existing.Note = input.Note
		existing.Status = models.StatusPending
		existing.CreatedBy = user.ID
		if err := ac.DB.Save(&existing).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update assignment", err)
		}

		ac.Audit.Append(&models.ActionLogEntry{
			UserID:        user.ID,
			Action:        models.ActionUpdateAssignment,
			EntityType:    utils.Pointer(models.KindCalendarAssignment),
			EntityID:      utils.Pointer(existing.ID),
			Details:       "updated assignment for " + existing.Date,
			PreviousState: snapshot,
			RequestedBy:   utils.Pointer(user.ID),
		})

		return c.JSON(utils.SuccessResponse(existing))
	}
	if err != gorm.ErrRecordNotFound {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to look up assignment", err)
	}

	assignment := models.CalendarAssignment{
		Date:       input.Date,
		AssignedTo: input.AssignedTo,
		Note:       input.Note,
		Status:     models.StatusPending,
		CreatedBy:  user.ID,
	}
	if err := ac.DB.Create(&assignment).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create assignment", err)
	}

	ac.Audit.Append(&models.ActionLogEntry{
		UserID:      user.ID,
		Action:      models.ActionCreateAssignment,
		EntityType:  utils.Pointer(models.KindCalendarAssignment),
		EntityID:    utils.Pointer(assignment.ID),
		Details:     "created assignment for " + assignment.Date,
		RequestedBy: utils.Pointer(user.ID),
	})

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(assignment))
}

// List returns the month's assignments, date ascending. ?month=YYYY-MM
func (ac *AssignmentController) List(c *fiber.Ctx) error {
	month := c.Query("month")
	if month == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "month query parameter is required", nil)
	}

	var assignments []models.CalendarAssignment
	if err := ac.DB.
		Where("date LIKE ?", month+"%").
		Order("date ASC").
		Find(&assignments).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list assignments", err)
	}

	return c.JSON(utils.SuccessResponse(assignments))
}

// UpdateStatus accepts or declines a pending assignment.
func (ac *AssignmentController) UpdateStatus(c *fiber.Ctx) error {
	user := sessionUser(c)
	id := utils.ParseUint(c.Params("id"))

	var input statusUpdateInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	target, ok := reviewTarget(input.Status)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "status must be confirmed or declined", nil)
	}

	assignment, err := ac.Approval.Transition(models.KindCalendarAssignment, id, user.ID, target)
	if err != nil {
		return utils.ErrorResponse(c, utils.StatusForError(err), "Failed to update assignment status", err)
	}

	return c.JSON(utils.SuccessResponse(assignment))
}
