package menu

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var allowedImageExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// ImageStore uploads a menu image and returns its public URL.
// Satisfied by storage.R2Client.
type ImageStore interface {
	Upload(ctx context.Context, key string, file multipart.File, contentType string) (string, error)
}

type Service struct {
	repo   Repository
	images ImageStore
}

func NewService(repo Repository, images ImageStore) *Service {
	return &Service{repo: repo, images: images}
}

func (s *Service) List(ctx context.Context, search string) ([]*Item, error) {
	return s.repo.List(ctx, search)
}

func (s *Service) Get(ctx context.Context, id int) (*Item, error) {
	return s.repo.Get(ctx, id)
}

func validateItem(name string, price float64, recipe []RecipeLine) error {
	if name == "" {
		return errors.New("menu name is required")
	}
	if price <= 0 {
		return errors.New("price must be positive")
	}
	for _, line := range recipe {
		if line.InventoryID <= 0 {
			return errors.New("recipe line missing inventory item")
		}
		if line.Qty <= 0 {
			return errors.New("recipe qty must be positive")
		}
	}
	return nil
}

func (s *Service) Create(ctx context.Context, name string, price float64, recipe []RecipeLine) (*Item, error) {
	if err := validateItem(name, price, recipe); err != nil {
		return nil, err
	}

	item := &Item{
		Name:   name,
		Price:  price,
		Recipe: recipe,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) Update(ctx context.Context, id int, name string, price float64, recipe []RecipeLine) (*Item, error) {
	if err := validateItem(name, price, recipe); err != nil {
		return nil, err
	}

	item := &Item{
		ID:     id,
		Name:   name,
		Price:  price,
		Recipe: recipe,
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

// --------------------------------------------------
// Image upload
// --------------------------------------------------
func (s *Service) UploadImage(ctx context.Context, id int, header *multipart.FileHeader) (string, error) {
	if s.images == nil {
		return "", errors.New("image storage not configured")
	}

	if _, err := s.repo.Get(ctx, id); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExt[ext] {
		return "", errors.New("image type not allowed")
	}

	f, err := header.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	key := fmt.Sprintf("menu/%d/%s%s", id, uuid.New().String(), ext)

	url, err := s.images.Upload(ctx, key, f, header.Header.Get("Content-Type"))
	if err != nil {
		return "", err
	}

	if err := s.repo.SetImageURL(ctx, id, url); err != nil {
		return "", err
	}
	return url, nil
}
