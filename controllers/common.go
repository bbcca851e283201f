package controller

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"whosnight/models"
	"whosnight/utils"
)

func sessionUser(c *fiber.Ctx) *models.User {
	return c.Locals("user").(*models.User)
}

// requireCreatePermission gates teen sessions on their TeenPermissions row.
// Parents are never restricted. A teen with no row yet gets read-only
// defaults created on the spot.
func requireCreatePermission(db *gorm.DB, user *models.User, kind models.EntityKind) error {
	if user.IsParent() {
		return nil
	}

	var perms models.TeenPermissions
	err := db.Where("user_id = ?", user.ID).First(&perms).Error
	if err == gorm.ErrRecordNotFound {
		perms = models.TeenPermissions{UserID: user.ID, IsReadOnly: true}
		if err := db.Create(&perms).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	if !perms.Allows(kind) {
		return fmt.Errorf("%w: your account cannot add %s records", utils.ErrUnauthorized, kind)
	}
	return nil
}

// statusUpdateInput is the body of every PUT :id/status endpoint. Reason is
// only meaningful for event cancellation.
type statusUpdateInput struct {
	Status string `json:"status" validate:"required"`
	Reason string `json:"reason"`
}

// reviewTarget maps the request body onto a Status the approval engine will
// take. Only confirmed/declined are reviews; cancelled is handled separately
// by the event controller.
func reviewTarget(s string) (models.Status, bool) {
	status := models.Status(s)
	if status == models.StatusConfirmed || status == models.StatusDeclined {
		return status, true
	}
	return "", false
}
