package controller

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"whosnight/models"
	"whosnight/utils"
)

type PermissionController struct {
	DB     *gorm.DB
	Audit  *utils.ActionLogger
	Logger *log.Logger
}

func NewPermissionController(db *gorm.DB, audit *utils.ActionLogger, logger *log.Logger) *PermissionController {
	return &PermissionController{
		DB:     db,
		Audit:  audit,
		Logger: logger,
	}
}

// Get returns the permission record for a teen, creating the read-only
// default row if the teen has never been evaluated.
func (pc *PermissionController) Get(c *fiber.Ctx) error {
	teenID := utils.ParseUint(c.Params("teenId"))

	var teen models.User
	if err := pc.DB.First(&teen, teenID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "User not found", nil)
	}
	if teen.Role != models.RoleTeen {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "User is not a teen account", nil)
	}

	var perms models.TeenPermissions
	err := pc.DB.Where("user_id = ?", teenID).First(&perms).Error
	if err == gorm.ErrRecordNotFound {
		perms = models.TeenPermissions{UserID: teenID, IsReadOnly: true}
		if err := pc.DB.Create(&perms).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create permissions", err)
		}
	} else if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load permissions", err)
	}

	return c.JSON(utils.SuccessResponse(perms))
}

// Update rewrites a teen's permissions. Parent-only (enforced by route
// middleware); the model hook keeps read-only and specific flags mutually
// exclusive.
func (pc *PermissionController) Update(c *fiber.Ctx) error {
	user := sessionUser(c)
	teenID := utils.ParseUint(c.Params("teenId"))

	var input struct {
		CanModifyAssignments bool `json:"can_modify_assignments"`
		CanAddEvents         bool `json:"can_add_events"`
		CanAddTasks          bool `json:"can_add_tasks"`
		CanAddExpenses       bool `json:"can_add_expenses"`
		IsReadOnly           bool `json:"is_read_only"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	var teen models.User
	if err := pc.DB.First(&teen, teenID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "User not found", nil)
	}
	if teen.Role != models.RoleTeen {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "User is not a teen account", nil)
	}

	var perms models.TeenPermissions
	err := pc.DB.Where("user_id = ?", teenID).First(&perms).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load permissions", err)
	}

	perms.UserID = teenID
	perms.CanModifyAssignments = input.CanModifyAssignments
	perms.CanAddEvents = input.CanAddEvents
	perms.CanAddTasks = input.CanAddTasks
	perms.CanAddExpenses = input.CanAddExpenses
	perms.IsReadOnly = input.IsReadOnly
	perms.ModifiedBy = user.ID
	perms.ModifiedAt = time.Now().UTC()

	if err := pc.DB.Save(&perms).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update permissions", err)
	}

	pc.Audit.Append(&models.ActionLogEntry{
		UserID:  user.ID,
		Action:  models.ActionUpdatePermissions,
		Details: "updated permissions for " + teen.Name,
	})

	return c.JSON(utils.SuccessResponse(perms))
}
