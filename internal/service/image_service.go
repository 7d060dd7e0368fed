package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/blob"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/logger"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/store"
)

// ImageFile is an image record together with its base64 encoded content.
type ImageFile struct {
	domain.Image
	Base64 string
}

// ImageInput carries the client supplied fields of an image. Base64 may be
// empty on update to keep the current content.
type ImageInput struct {
	Title    string
	Alt      string
	Base64   string
	MimeType string
}

// ImageService manages images and their blobs.
type ImageService interface {
	GetAll(ctx context.Context) ([]*ImageFile, error)
	GetByID(ctx context.Context, id int) (*ImageFile, error)
	// GetByStreetcodeID returns the gallery images linked to a streetcode.
	GetByStreetcodeID(ctx context.Context, streetcodeID int) ([]*ImageFile, error)
	Create(ctx context.Context, in ImageInput) (*ImageFile, error)
	Update(ctx context.Context, id int, in ImageInput) (*ImageFile, error)
	// Delete unlinks the image from streetcodes and facts and removes it.
	// Images used by arts, partners, team members or source categories
	// cannot be deleted.
	Delete(ctx context.Context, id int) error
}

type imageService struct {
	w      store.Wrapper
	blobs  blob.Store
	logger *slog.Logger
}

// NewImageService creates an ImageService.
func NewImageService(w store.Wrapper, blobs blob.Store, logger *slog.Logger) (ImageService, error) {
	if w == nil {
		return nil, errors.New("store wrapper cannot be nil")
	}
	if blobs == nil {
		return nil, errors.New("blob store cannot be nil")
	}
	return &imageService{w: w, blobs: blobs, logger: componentLogger(logger, "image_service")}, nil
}

func (s *imageService) withContent(ctx context.Context, images []*domain.Image) ([]*ImageFile, error) {
	out := make([]*ImageFile, 0, len(images))
	for _, img := range images {
		content, err := loadBlob(ctx, s.blobs, s.logger, img.BlobName)
		if err != nil {
			return nil, err
		}
		out = append(out, &ImageFile{Image: *img, Base64: content})
	}
	return out, nil
}

func (s *imageService) GetAll(ctx context.Context) ([]*ImageFile, error) {
	images, err := s.w.Images().GetAll(ctx, store.OrderBy(store.KeyColumn))
	if err != nil {
		return nil, storeError("image", "get_all", err)
	}
	return s.withContent(ctx, images)
}

func (s *imageService) GetByID(ctx context.Context, id int) (*ImageFile, error) {
	img, err := s.w.Images().GetByID(ctx, id)
	if err != nil {
		return nil, storeError("image", "get", err)
	}
	files, err := s.withContent(ctx, []*domain.Image{img})
	if err != nil {
		return nil, err
	}
	return files[0], nil
}

func (s *imageService) GetByStreetcodeID(ctx context.Context, streetcodeID int) ([]*ImageFile, error) {
	if err := ensureStreetcode(ctx, s.w, streetcodeID); err != nil {
		return nil, storeError("image", "get_by_streetcode", err)
	}
	links, err := s.w.StreetcodeImages().GetAll(ctx, store.Eq("streetcode_id", streetcodeID))
	if err != nil {
		return nil, storeError("image", "get_by_streetcode", err)
	}
	ids := make([]int, len(links))
	for i, l := range links {
		ids[i] = l.ImageID
	}
	images, err := s.w.Images().GetAll(ctx, store.In(store.KeyColumn, ids...), store.OrderBy(store.KeyColumn))
	if err != nil {
		return nil, storeError("image", "get_by_streetcode", err)
	}
	return s.withContent(ctx, images)
}

func (s *imageService) Create(ctx context.Context, in ImageInput) (*ImageFile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	ext, err := extensionFor(in.MimeType, "image")
	if err != nil {
		return nil, err
	}
	img := &domain.Image{Title: in.Title, Alt: in.Alt, MimeType: in.MimeType, BlobName: "pending"}
	if err := img.Validate(); err != nil {
		return nil, err
	}

	img.BlobName, err = saveBlob(ctx, s.blobs, in.Base64, in.Title, ext)
	if err != nil {
		return nil, err
	}
	if err := s.w.Images().Create(ctx, img); err != nil {
		removeBlob(ctx, s.blobs, s.logger, img.BlobName)
		log.Error("failed to create image", slog.String("error", err.Error()))
		return nil, storeError("image", "create", err)
	}

	log.Info("image created", slog.Int("image_id", img.ID))
	return &ImageFile{Image: *img, Base64: in.Base64}, nil
}

func (s *imageService) Update(ctx context.Context, id int, in ImageInput) (*ImageFile, error) {
	img, err := s.w.Images().GetByID(ctx, id)
	if err != nil {
		return nil, storeError("image", "update", err)
	}
	ext, err := extensionFor(in.MimeType, "image")
	if err != nil {
		return nil, err
	}
	img.Title = in.Title
	img.Alt = in.Alt
	img.MimeType = in.MimeType
	if err := img.Validate(); err != nil {
		return nil, err
	}

	err = replaceBlob(ctx, s.blobs, s.logger, img.BlobName, in.Base64, in.Title, ext, func(blobName string) error {
		img.BlobName = blobName
		return storeError("image", "update", s.w.Images().Update(ctx, img))
	})
	if err != nil {
		return nil, err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("image updated", slog.Int("image_id", img.ID))
	return s.GetByID(ctx, id)
}

func (s *imageService) Delete(ctx context.Context, id int) error {
	img, err := s.w.Images().GetByID(ctx, id)
	if err != nil {
		return storeError("image", "delete", err)
	}

	err = s.w.RunInTx(ctx, func(ctx context.Context, tx store.Wrapper) error {
		if err := imageInUse(ctx, tx, id); err != nil {
			return err
		}
		if _, err := tx.StreetcodeImages().DeleteWhere(ctx, store.Eq("image_id", id)); err != nil {
			return err
		}
		facts, err := tx.Facts().GetAll(ctx, store.Eq("image_id", id))
		if err != nil {
			return err
		}
		for _, f := range facts {
			f.ImageID = nil
			if err := tx.Facts().Update(ctx, f); err != nil {
				return err
			}
		}
		return tx.Images().Delete(ctx, id)
	})
	if err != nil {
		return storeError("image", "delete", err)
	}

	removeBlob(ctx, s.blobs, s.logger, img.BlobName)
	logger.FromContextOrDefault(ctx, s.logger).Info("image deleted", slog.Int("image_id", id))
	return nil
}

func imageInUse(ctx context.Context, w store.Wrapper, id int) error {
	checks := []struct {
		owner  string
		exists func() (bool, error)
	}{
		{"art", func() (bool, error) { return w.Arts().Exists(ctx, store.Eq("image_id", id)) }},
		{"partner", func() (bool, error) { return w.Partners().Exists(ctx, store.Eq("logo_id", id)) }},
		{"team member", func() (bool, error) { return w.TeamMembers().Exists(ctx, store.Eq("image_id", id)) }},
		{"source link category", func() (bool, error) {
			return w.SourceCategories().Exists(ctx, store.Eq("image_id", id))
		}},
	}
	for _, c := range checks {
		used, err := c.exists()
		if err != nil {
			return err
		}
		if used {
			return fmt.Errorf("%w: image %d is used by a %s", ErrConflict, id, c.owner)
		}
	}
	return nil
}
