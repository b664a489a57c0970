package database

import (
	"context"
	"fmt"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/doug-martin/goqu/v9"
)

var userColumns = []interface{}{"id", "name", "email"}

func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	id, err := db.insert(ctx, "users", goqu.Record{
		"name":  user.Name,
		"email": user.Email,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict(fmt.Sprintf("email %s is already registered", user.Email))
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = id
	return nil
}

func (db *DB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query, args, err := build(db.from("users").Select(userColumns...).Where(goqu.Ex{"id": id}))
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := db.GetContext(ctx, &user, query, args...); err != nil {
		return nil, notFound(err, "user %d", id)
	}
	return &user, nil
}

func (db *DB) ListUsers(ctx context.Context) ([]*models.User, error) {
	query, args, err := build(db.from("users").Select(userColumns...).Order(goqu.C("id").Asc()))
	if err != nil {
		return nil, err
	}
	users := []*models.User{}
	if err := db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (db *DB) UpdateUser(ctx context.Context, user *models.User) error {
	rows, err := db.exec(ctx, db.dialect.Update("users").Prepared(true).
		Set(goqu.Record{"name": user.Name, "email": user.Email}).
		Where(goqu.Ex{"id": user.ID}))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict(fmt.Sprintf("email %s is already registered", user.Email))
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if rows == 0 {
		return domain.NotFound(fmt.Sprintf("user %d not found", user.ID))
	}
	return nil
}

func (db *DB) DeleteUser(ctx context.Context, id int64) error {
	rows, err := db.exec(ctx, db.dialect.Delete("users").Prepared(true).Where(goqu.Ex{"id": id}))
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if rows == 0 {
		return domain.NotFound(fmt.Sprintf("user %d not found", id))
	}
	return nil
}

func (db *DB) UserExists(ctx context.Context, id int64) (bool, error) {
	ok, err := db.exists(ctx, "users", id)
	if err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return ok, nil
}
