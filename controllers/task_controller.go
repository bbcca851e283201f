package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"whosnight/models"
	"whosnight/utils"
)

type TaskController struct {
	DB       *gorm.DB
	Audit    *utils.ActionLogger
	Approval *utils.Approval
	Logger   *log.Logger
}

func NewTaskController(db *gorm.DB, audit *utils.ActionLogger, approval *utils.Approval, logger *log.Logger) *TaskController {
	return &TaskController{
		DB:       db,
		Audit:    audit,
		Approval: approval,
		Logger:   logger,
	}
}

// Create adds a to-do item, pending review.
func (tc *TaskController) Create(c *fiber.Ctx) error {
	user := sessionUser(c)

	var input struct {
		Title   string `json:"title" validate:"required,max=200"`
		DueDate string `json:"due_date" validate:"required,dateday"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}
	if err := requireCreatePermission(tc.DB, user, models.KindTask); err != nil {
		return utils.ErrorResponse(c, utils.StatusForError(err), "Permission denied", err)
	}

	task := models.Task{
		Title:     input.Title,
		DueDate:   input.DueDate,
		Status:    models.StatusPending,
		CreatedBy: user.ID,
	}
	if err := tc.DB.Create(&task).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create task", err)
	}

	tc.Audit.Append(&models.ActionLogEntry{
		UserID:      user.ID,
		Action:      models.ActionCreateTask,
		EntityType:  utils.Pointer(models.KindTask),
		EntityID:    utils.Pointer(task.ID),
		Details:     "created task " + task.Title + " due " + task.DueDate,
		RequestedBy: utils.Pointer(user.ID),
	})

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(task))
}

// List returns tasks, optionally filtered by exact due date and status.
func (tc *TaskController) List(c *fiber.Ctx) error {
	query := tc.DB.Order("due_date ASC")
	if date := c.Query("date"); date != "" {
		query = query.Where("due_date = ?", date)
	}
	if status := c.Query("status"); status != "" {
		if !models.Status(status).Valid() {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "unknown status filter", nil)
		}
		query = query.Where("status = ?", status)
	}

	var tasks []models.Task
	if err := query.Find(&tasks).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list tasks", err)
	}

	return c.JSON(utils.SuccessResponse(tasks))
}

// UpdateStatus accepts or declines a pending task.
func (tc *TaskController) UpdateStatus(c *fiber.Ctx) error {
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

	task, err := tc.Approval.Transition(models.KindTask, id, user.ID, target)
	if err != nil {
		return utils.ErrorResponse(c, utils.StatusForError(err), "Failed to update task status", err)
	}

	return c.JSON(utils.SuccessResponse(task))
}

// Complete marks a task done. Completion is not a review: any family member
// can complete any task, and the previous snapshot makes it undoable.
func (tc *TaskController) Complete(c *fiber.Ctx) error {
	user := sessionUser(c)
	id := utils.ParseUint(c.Params("id"))

	var task models.Task
	if err := tc.DB.First(&task, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Task not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load task", err)
	}
	if task.Completed {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Task is already completed", nil)
	}

	snapshot := utils.Snapshot(&task)
	task.Completed = true
	if err := tc.DB.Save(&task).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to complete task", err)
	}

	tc.Audit.Append(&models.ActionLogEntry{
		UserID:        user.ID,
		Action:        models.ActionCompleteTask,
		EntityType:    utils.Pointer(models.KindTask),
		EntityID:      utils.Pointer(task.ID),
		Details:       "completed task " + task.Title,
		PreviousState: snapshot,
		RequestedBy:   utils.Pointer(user.ID),
	})

	return c.JSON(utils.SuccessResponse(task))
}
