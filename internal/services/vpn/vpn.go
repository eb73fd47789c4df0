// Package vpn manages remote-access user records. The gateway owns the
// actual tunnels; the panel only keeps the roster.
package vpn

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ngfw-panel/internal/database"
	"ngfw-panel/internal/models"
)

type Filters struct {
	Page      int
	Limit     int
	Search    string // substring over username, full name, email
	Status    string // "enabled" or "disabled"
	Connected *bool
}

type CreateUserInput struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Enabled  *bool  `json:"enabled"`
}

type UpdateUserInput struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Enabled  *bool   `json:"enabled"`
}

func query(f Filters) *gorm.DB {
	q := database.DB.Model(&models.VPNUser{})
	if f.Search != "" {
		like := database.LikePattern(f.Search)
		q = q.Where("username LIKE ? ESCAPE '|' OR full_name LIKE ? ESCAPE '|' OR email LIKE ? ESCAPE '|'", like, like, like)
	}
	switch f.Status {
	case "enabled":
		q = q.Where("enabled = ?", true)
	case "disabled":
		q = q.Where("enabled = ?", false)
	}
	if f.Connected != nil {
		q = q.Where("connected = ?", *f.Connected)
	}
	return q
}

// List returns one page of users ordered by username, id as tie-break.
func List(f Filters) ([]models.VPNUser, int64, error) {
	if !database.Ready() {
		return nil, 0, database.ErrNotConnected
	}

	page, limit := models.ClampWindow(f.Page, f.Limit)

	var total int64
	if err := query(f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	users := []models.VPNUser{}
	err := query(f).
		Order("username asc, id asc").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Create validates and inserts a user record.
func Create(in CreateUserInput) (*models.VPNUser, error) {
	if !database.Ready() {
		return nil, database.ErrNotConnected
	}
	if strings.TrimSpace(in.Username) == "" {
		return nil, models.NewValidationError("username", "must not be empty")
	}
	if in.Password == "" {
		return nil, models.NewValidationError("password", "must not be empty")
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user := models.VPNUser{
		ID:        id.String(),
		Username:  in.Username,
		FullName:  in.FullName,
		Email:     in.Email,
		Enabled:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Enabled != nil {
		user.Enabled = *in.Enabled
	}
	if err := user.SetPassword(in.Password); err != nil {
		return nil, err
	}

	if err := database.DB.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Update merges the partial input onto the stored user.
func Update(id string, in UpdateUserInput) (*models.VPNUser, error) {
	if !database.Ready() {
		return nil, database.ErrNotConnected
	}

	var user models.VPNUser
	err := database.DB.Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if in.FullName != nil {
		user.FullName = *in.FullName
	}
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.Enabled != nil {
		user.Enabled = *in.Enabled
	}
	if in.Password != nil {
		if *in.Password == "" {
			return nil, models.NewValidationError("password", "must not be empty")
		}
		if err := user.SetPassword(*in.Password); err != nil {
			return nil, err
		}
	}
	user.UpdatedAt = time.Now().UTC()

	if err := database.DB.Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Toggle flips enabled with a store-side statement, same contract as rule
// toggling.
func Toggle(id string) (*models.VPNUser, error) {
	if !database.Ready() {
		return nil, database.ErrNotConnected
	}

	res := database.DB.Model(&models.VPNUser{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"enabled":    gorm.Expr("NOT enabled"),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, models.ErrNotFound
	}

	var user models.VPNUser
	if err := database.DB.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete hard-removes a user record.
func Delete(id string) error {
	if !database.Ready() {
		return database.ErrNotConnected
	}
	res := database.DB.Delete(&models.VPNUser{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}
