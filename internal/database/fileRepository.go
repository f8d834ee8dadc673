package database

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/user/hebrew-imagegen/internal/entity"
	"github.com/user/hebrew-imagegen/internal/pkg/storage"
)

type fileImageRepository struct {
	storage storage.FileStorage
}

// NewFileImageRepository stores images as PNG files on disk, so results
// survive a restart. Selected with storage.backend: file.
func NewFileImageRepository(fs storage.FileStorage) ImageRepository {
	return &fileImageRepository{storage: fs}
}

func imagePath(id string) string {
	return filepath.Join("images", id+".png")
}

func (r *fileImageRepository) Put(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", entity.ErrEmptyImage
	}

	id := uuid.New().String()
	if err := r.storage.Save(imagePath(id), bytes.NewReader(data)); err != nil {
		return "", err
	}
	return id, nil
}

func (r *fileImageRepository) Get(ctx context.Context, id string) ([]byte, error) {
	reader, err := r.storage.Get(imagePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, entity.ErrImageNotFound
		}
		return nil, err
	}
	defer reader.Close()

	return io.ReadAll(reader)
}

func (r *fileImageRepository) Replace(ctx context.Context, id string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", entity.ErrEmptyImage
	}
	if !r.storage.Exists(imagePath(id)) {
		return "", entity.ErrImageNotFound
	}

	if err := r.storage.Save(imagePath(id), bytes.NewReader(data)); err != nil {
		return "", err
	}
	return id, nil
}

func (r *fileImageRepository) Delete(ctx context.Context, id string) error {
	if err := r.storage.Delete(imagePath(id)); err != nil {
		if os.IsNotExist(err) {
			return entity.ErrImageNotFound
		}
		return err
	}
	return nil
}
