package controller

import (
	"log"
	"time"

	"github.com/badoux/checkmail"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"whosnight/config"
	"whosnight/models"
	"whosnight/utils"
)

type FamilyController struct {
	DB     *gorm.DB
	Audit  *utils.ActionLogger
	Mailer *utils.Mailer
	Logger *log.Logger
}

func NewFamilyController(db *gorm.DB, audit *utils.ActionLogger, mailer *utils.Mailer, logger *log.Logger) *FamilyController {
	return &FamilyController{
		DB:     db,
		Audit:  audit,
		Mailer: mailer,
		Logger: logger,
	}
}

// CreateInvitation issues an invite code for a new family member and mails
// the link. Parent-only (route middleware). The mail send is best-effort:
// the invitation row is the source of truth.
func (fc *FamilyController) CreateInvitation(c *fiber.Ctx) error {
	user := sessionUser(c)

	var input struct {
		Email string `json:"email" validate:"required,email"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}
	if err := checkmail.ValidateFormat(input.Email); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid email address", err)
	}

	var family models.Family
	if err := fc.DB.First(&family, user.FamilyID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Family not found", nil)
	}

	invitation := models.FamilyInvitation{
		FamilyID:  family.ID,
		Email:     input.Email,
		Token:     uuid.NewString(),
		CreatedBy: user.ID,
		ExpiresAt: time.Now().UTC().Add(time.Duration(config.AppConfig.InviteTTLHours) * time.Hour),
	}
	if err := fc.DB.Create(&invitation).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create invitation", err)
	}

	if err := fc.Mailer.SendFamilyInvite(invitation.Email, user.Name, family.Name, invitation.Token, invitation.ExpiresAt); err != nil {
		fc.Logger.Printf("invite mail to %s failed: %v", invitation.Email, err)
	}

	fc.Audit.Append(&models.ActionLogEntry{
		UserID:  user.ID,
		Action:  models.ActionCreateInvitation,
		Details: "invited " + invitation.Email,
	})

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(invitation))
}

// UseInvitation redeems an invite token for the session user, attaching
// them to the inviting family. A token works once, until it expires.
func (fc *FamilyController) UseInvitation(c *fiber.Ctx) error {
	user := sessionUser(c)

	var input struct {
		Token string `json:"token" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var invitation models.FamilyInvitation
	if err := fc.DB.Where("token = ?", input.Token).First(&invitation).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Invitation not found", nil)
	}
	if invitation.Used {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Invitation was already used", nil)
	}
	if time.Now().UTC().After(invitation.ExpiresAt) {
		return utils.ErrorResponse(c, fiber.StatusGone, "Invitation has expired", nil)
	}

	user.FamilyID = invitation.FamilyID
	if err := fc.DB.Save(user).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to join family", err)
	}
	invitation.Used = true
	if err := fc.DB.Save(&invitation).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to mark invitation used", err)
	}

	fc.Audit.Append(&models.ActionLogEntry{
		UserID:  user.ID,
		Action:  models.ActionUseInvitation,
		Details: user.Name + " joined the family",
	})

	return c.JSON(utils.SuccessResponse(user))
}
