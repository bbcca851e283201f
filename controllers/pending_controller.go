package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"whosnight/models"
	"whosnight/utils"
)

type PendingController struct {
	DB       *gorm.DB
	Approval *utils.Approval
	Logger   *log.Logger
}

func NewPendingController(db *gorm.DB, approval *utils.Approval, logger *log.Logger) *PendingController {
	return &PendingController{
		DB:       db,
		Approval: approval,
		Logger:   logger,
	}
}

// GetPending returns everything awaiting the session user's review: all
// pending entities someone else created. Clients poll this endpoint; there
// is no push channel, so the staleness window equals the poll interval.
func (pc *PendingController) GetPending(c *fiber.Ctx) error {
	user := sessionUser(c)

	items, err := pc.Approval.PendingFor(user.ID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to compute pending items", err)
	}

	return c.JSON(utils.SuccessResponse(items))
}

// AcceptAll bulk-confirms pending items of the requested kinds. Partial
// failure leaves earlier kinds confirmed; the response reports the counts
// that did commit.
func (pc *PendingController) AcceptAll(c *fiber.Ctx) error {
	user := sessionUser(c)

	var input struct {
		Kinds []string `json:"kinds" validate:"required,min=1"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	kinds := make([]models.EntityKind, 0, len(input.Kinds))
	for _, raw := range input.Kinds {
		kind, ok := models.ParseEntityKind(raw)
		if !ok {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "unknown entity kind: "+raw, nil)
		}
		kinds = append(kinds, kind)
	}

	counts, err := pc.Approval.AcceptAll(user.ID, kinds)
	if err != nil {
		pc.Logger.Printf("accept-all partially failed for user %d: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Some items could not be accepted",
			"counts":  counts,
		})
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{"counts": counts}))
}
