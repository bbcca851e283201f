package controller

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"whosnight/models"
	"whosnight/utils"
)

type ExpenseController struct {
	DB       *gorm.DB
	Audit    *utils.ActionLogger
	Approval *utils.Approval
	Logger   *log.Logger
}

func NewExpenseController(db *gorm.DB, audit *utils.ActionLogger, approval *utils.Approval, logger *log.Logger) *ExpenseController {
	return &ExpenseController{
		DB:       db,
		Audit:    audit,
		Approval: approval,
		Logger:   logger,
	}
}

// Create adds a shared expense, pending review.
func (xc *ExpenseController) Create(c *fiber.Ctx) error {
	user := sessionUser(c)

	var input struct {
		Description string `json:"description" validate:"required,max=500"`
		AmountCents int64  `json:"amount_cents" validate:"required,gt=0"`
		Date        string `json:"date" validate:"required,dateday"`
		PaidBy      uint   `json:"paid_by" validate:"required"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}
	if err := requireCreatePermission(xc.DB, user, models.KindExpense); err != nil {
		return utils.ErrorResponse(c, utils.StatusForError(err), "Permission denied", err)
	}

	expense := models.Expense{
		Description: input.Description,
		AmountCents: input.AmountCents,
		Date:        input.Date,
		PaidBy:      input.PaidBy,
		Status:      models.StatusPending,
		CreatedBy:   user.ID,
	}
	if err := xc.DB.Create(&expense).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create expense", err)
	}

	xc.Audit.Append(&models.ActionLogEntry{
		UserID:      user.ID,
		Action:      models.ActionCreateExpense,
		EntityType:  utils.Pointer(models.KindExpense),
		EntityID:    utils.Pointer(expense.ID),
		Details:     fmt.Sprintf("created expense %s (%d cents)", expense.Description, expense.AmountCents),
		RequestedBy: utils.Pointer(user.ID),
	})

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(expense))
}

// List returns the month's expenses, newest first. ?month=YYYY-MM
func (xc *ExpenseController) List(c *fiber.Ctx) error {
	month := c.Query("month")
	if month == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "month query parameter is required", nil)
	}

	var expenses []models.Expense
	if err := xc.DB.
		Where("date LIKE ?", month+"%").
		Order("created_at DESC").
		Find(&expenses).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list expenses", err)
	}

	return c.JSON(utils.SuccessResponse(expenses))
}

// UpdateStatus accepts or declines a pending expense.
func (xc *ExpenseController) UpdateStatus(c *fiber.Ctx) error {
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

	expense, err := xc.Approval.Transition(models.KindExpense, id, user.ID, target)
	if err != nil {
		return utils.ErrorResponse(c, utils.StatusForError(err), "Failed to update expense status", err)
	}

	return c.JSON(utils.SuccessResponse(expense))
}
