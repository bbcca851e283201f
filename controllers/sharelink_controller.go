package controller

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"whosnight/config"
	"whosnight/models"
	"whosnight/utils"
)

type ShareLinkController struct {
	DB     *gorm.DB
	Audit  *utils.ActionLogger
	Logger *log.Logger
}

func NewShareLinkController(db *gorm.DB, audit *utils.ActionLogger, logger *log.Logger) *ShareLinkController {
	return &ShareLinkController{
		DB:     db,
		Audit:  audit,
		Logger: logger,
	}
}

// Create issues a read-only share link for the family calendar.
func (sc *ShareLinkController) Create(c *fiber.Ctx) error {
	user := sessionUser(c)

	var input struct {
		Message string `json:"message" validate:"omitempty,max=500"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	link := models.ShareLink{
		Token:     uuid.NewString(),
		CreatedBy: user.ID,
		Message:   input.Message,
		ExpiresAt: time.Now().UTC().Add(time.Duration(config.AppConfig.ShareTTLHours) * time.Hour),
	}
	if err := sc.DB.Create(&link).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create share link", err)
	}

	sc.Audit.Append(&models.ActionLogEntry{
		UserID:  user.ID,
		Action:  models.ActionCreateShareLink,
		Details: "created share link",
	})

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(link))
}

// Get resolves a share link by token. Expired links are gone, not found:
// there is no revocation beyond expiry.
func (sc *ShareLinkController) Get(c *fiber.Ctx) error {
	token := c.Params("token")

	var link models.ShareLink
	if err := sc.DB.Where("token = ?", token).First(&link).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Share link not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load share link", err)
	}
	if link.Expired(time.Now().UTC()) {
		return utils.ErrorResponse(c, fiber.StatusGone, "Share link has expired", nil)
	}

	return c.JSON(utils.SuccessResponse(link))
}
