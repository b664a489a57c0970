package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"shareit/internal/config"
	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/models"
	"shareit/internal/service"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// CatalogConfig lists users together with the items they share.
type CatalogConfig struct {
	Users []struct {
		Name  string `yaml:"name"`
		Email string `yaml:"email"`
		Items []struct {
			Name        string `yaml:"name"`
			Description string `yaml:"description"`
			Available   bool   `yaml:"available"`
		} `yaml:"items"`
	} `yaml:"users"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	var (
		catalogPath = flag.String("catalog", "configs/catalog.yaml", "path to catalog.yaml")
		configPath  = flag.String("config", "configs/config.yaml", "path to config.yaml")
	)
	flag.Parse()

	data, err := os.ReadFile(*catalogPath)
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}
	var catalog CatalogConfig
	if err = yaml.Unmarshal(data, &catalog); err != nil {
		return fmt.Errorf("parse catalog: %w", err)
	}
	if len(catalog.Users) == 0 {
		return fmt.Errorf("no users in yaml")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	db, err := database.NewDB(cfg.Database, &logger)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	users := service.NewUserService(db, &logger)
	items := service.NewItemService(db, db, db, db, db, service.SystemClock{}, &logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	created := 0
	updated := 0
	for _, u := range catalog.Users {
		owner, err := users.Create(ctx, &models.User{Name: u.Name, Email: u.Email})
		if errors.Is(err, domain.ErrConflict) {
			owner, err = findUserByEmail(ctx, users, u.Email)
		}
		if err != nil {
			return fmt.Errorf("user %s: %w", u.Email, err)
		}

		existing, err := db.ListItemsByOwner(ctx, owner.ID, nil)
		if err != nil {
			return fmt.Errorf("list items of %s: %w", u.Email, err)
		}
		byName := make(map[string]*models.Item, len(existing))
		for _, it := range existing {
			byName[it.Name] = it
		}

		for _, it := range u.Items {
			if it.Name == "" {
				continue
			}
			available := it.Available
			description := it.Description
			if prev, ok := byName[it.Name]; ok {
				patch := models.ItemPatch{Description: &description, Available: &available}
				if _, err = items.Update(ctx, owner.ID, prev.ID, patch, nil); err != nil {
					return fmt.Errorf("update %s: %w", it.Name, err)
				}
				updated++
				continue
			}
			item := &models.Item{Name: it.Name, Description: it.Description, Available: it.Available}
			if _, err = items.Create(ctx, owner.ID, item); err != nil {
				return fmt.Errorf("create %s: %w", it.Name, err)
			}
			created++
		}
	}

	fmt.Printf("done: created=%d updated=%d\n", created, updated)
	return nil
}

func findUserByEmail(ctx context.Context, users *service.UserService, email string) (*models.User, error) {
	all, err := users.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range all {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, domain.NotFound(fmt.Sprintf("user %s not found", email))
}
