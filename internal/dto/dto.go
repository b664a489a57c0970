// Package dto holds the JSON bodies accepted by the gateway and the server
// together with their validation rules.
package dto

import (
	"shareit/internal/models"
)

type UserCreate struct {
	Name  string `json:"name" validate:"required,notblank"`
	Email string `json:"email" validate:"required,email"`
}

func (u UserCreate) Model() *models.User {
	return &models.User{Name: u.Name, Email: u.Email}
}

type UserUpdate struct {
	Name  *string `json:"name" validate:"omitnil,notblank"`
	Email *string `json:"email" validate:"omitnil,email"`
}

func (u UserUpdate) Patch() models.UserPatch {
	return models.UserPatch{Name: u.Name, Email: u.Email}
}

type ItemCreate struct {
	Name        string `json:"name" validate:"required,notblank"`
	Description string `json:"description" validate:"required,notblank"`
	Available   *bool  `json:"available" validate:"required"`
	RequestID   *int64 `json:"requestId" validate:"omitnil,gt=0"`
}

func (i ItemCreate) Model() *models.Item {
	return &models.Item{
		Name:        i.Name,
		Description: i.Description,
		Available:   *i.Available,
		RequestID:   i.RequestID,
	}
}

type ItemUpdate struct {
	Name        *string `json:"name" validate:"omitnil,notblank"`
	Description *string `json:"description" validate:"omitnil,notblank"`
	Available   *bool   `json:"available"`
	RequestID   *int64  `json:"requestId" validate:"omitnil,gt=0"`
}

func (i ItemUpdate) Patch() models.ItemPatch {
	return models.ItemPatch{Name: i.Name, Description: i.Description, Available: i.Available}
}

type BookingCreate struct {
	ItemID int64            `json:"itemId" validate:"required,gt=0"`
	Start  *models.DateTime `json:"start" validate:"required"`
	End    *models.DateTime `json:"end" validate:"required"`
}

type CommentCreate struct {
	Text string `json:"text" validate:"required,notblank"`
}

type RequestCreate struct {
	Description string `json:"description" validate:"required,notblank"`
}
