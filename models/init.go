package models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MigrateAll runs AutoMigrate for every table in dependency order.
func MigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&Family{},
		&User{},
		&FamilyInvitation{},
		&CalendarAssignment{},
		&Event{},
		&Task{},
		&Expense{},
		&ActionLogEntry{},
		&TeenPermissions{},
		&ShareLink{},
	)
}

// CreateDefaultFamily seeds the single family and its three members on first
// boot. Seeding order matters: mom, dad, teen get IDs 1, 2, 3.
func CreateDefaultFamily(db *gorm.DB, defaultPassword string) error {
	family := Family{Name: "Our Family", OwnerID: 1}
	if err := db.FirstOrCreate(&family, "name = ?", family.Name).Error; err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	defaultUsers := []User{
		{
			Email:        "mom@family.local",
			PasswordHash: string(hash),
			Name:         "Mom",
			Role:         RoleParent,
			FamilyID:     family.ID,
		},
		{
			Email:        "dad@family.local",
			PasswordHash: string(hash),
			Name:         "Dad",
			Role:         RoleParent,
			FamilyID:     family.ID,
		},
		{
			Email:        "teen@family.local",
			PasswordHash: string(hash),
			Name:         "Teen",
			Role:         RoleTeen,
			FamilyID:     family.ID,
		},
	}
	for _, user := range defaultUsers {
		if err := db.FirstOrCreate(&user, "email = ?", user.Email).Error; err != nil {
			return err
		}
	}

	// Teen accounts start read-only until a parent opens anything up.
	var teen User
	if err := db.First(&teen, "role = ?", RoleTeen).Error; err != nil {
		return err
	}
	perms := TeenPermissions{UserID: teen.ID, IsReadOnly: true}
	return db.FirstOrCreate(&perms, "user_id = ?", teen.ID).Error
}
