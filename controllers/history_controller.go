package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"whosnight/models"
	"whosnight/utils"
)

type HistoryController struct {
	DB       *gorm.DB
	Audit    *utils.ActionLogger
	Approval *utils.Approval
	Logger   *log.Logger
}

func NewHistoryController(db *gorm.DB, audit *utils.ActionLogger, approval *utils.Approval, logger *log.Logger) *HistoryController {
	return &HistoryController{
		DB:       db,
		Audit:    audit,
		Approval: approval,
		Logger:   logger,
	}
}

// EntityHistory returns one entity's audit trail, newest first.
func (hc *HistoryController) EntityHistory(c *fiber.Ctx) error {
	kind, ok := models.ParseEntityKind(c.Params("entityType"))
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "unknown entity type", nil)
	}
	entityID := utils.ParseUint(c.Params("entityId"))

	entries, err := hc.Audit.ForEntity(kind, entityID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load history", err)
	}

	return c.JSON(utils.SuccessResponse(entries))
}

// MyRequests returns the session user's own activity: entries they authored
// or that were requested by them.
func (hc *HistoryController) MyRequests(c *fiber.Ctx) error {
	user := sessionUser(c)

	entries, err := hc.Audit.ForUser(user.ID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load activity", err)
	}

	return c.JSON(utils.SuccessResponse(entries))
}

// Undo replays the snapshot captured by a log entry. Only the original
// requester may undo, and each entry is undoable at most once.
func (hc *HistoryController) Undo(c *fiber.Ctx) error {
	user := sessionUser(c)
	logID := utils.ParseUint(c.Params("logId"))

	entry, err := hc.Approval.Undo(logID, user.ID)
	if err != nil {
		return utils.ErrorResponse(c, utils.StatusForError(err), "Failed to undo action", err)
	}

	utils.LogEvent("action_undone", map[string]interface{}{
		"user_id":       user.ID,
		"undoes_log_id": logID,
	})

	return c.JSON(utils.SuccessResponse(entry))
}
