package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"maps"
	"path"
	"regexp"
	"slices"
	"strings"
	"time"

	"cultivation-service/internal/models"
	"cultivation-service/internal/repository"
	"cultivation-service/internal/utils"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

const MaxImageBytes = 10 << 20

var allowedImageTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

var allowedImageMIMETypes = slices.Sorted(maps.Keys(allowedImageTypes))

// ObjectStore is the subset of the object storage client the image service uses.
type ObjectStore interface {
	UploadBytes(ctx context.Context, bucketName, objectName string, data []byte, contentType string) error
	DeleteFile(ctx context.Context, bucketName, objectName string) error
	PublicURL(bucketName, objectName string) string
}

type IImageService interface {
	Upload(ctx context.Context, userID string, req models.UploadImageRequest) (*models.CultivationImage, error)
	ListByEvent(ctx context.Context, userID, eventID string) ([]models.CultivationImage, error)
}

type ImageService struct {
	cultivationRepo repository.ICultivationRepository
	eventRepo       repository.IEventRepository
	imageRepo       repository.IImageRepository
	store           ObjectStore
	bucket          string
	now             func() time.Time
}

func NewImageService(
	cultivationRepo repository.ICultivationRepository,
	eventRepo repository.IEventRepository,
	imageRepo repository.IImageRepository,
	store ObjectStore,
	bucket string,
) IImageService {
	return &ImageService{
		cultivationRepo: cultivationRepo,
		eventRepo:       eventRepo,
		imageRepo:       imageRepo,
		store:           store,
		bucket:          bucket,
		now:             time.Now,
	}
}

// DecodedImage is an uploaded image after validation.
type DecodedImage struct {
	Data     []byte
	MIMEType string
	Format   string
	Width    *int
	Height   *int
}

// DecodeImage validates a base64 data URL. The content type is taken from the
// bytes, not from the declared header.
func DecodeImage(dataURL string) (*DecodedImage, error) {
	parsed, err := utils.ParseDataURL(dataURL, MaxImageBytes)
	if errors.Is(err, utils.ErrDataURLTooLarge) {
		return nil, badRequest("image exceeds %d MiB", MaxImageBytes>>20)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	mimeType := utils.DetectMIMEType(parsed.Data, allowedImageMIMETypes...)
	format, ok := allowedImageTypes[mimeType]
	if !ok {
		return nil, badRequest("unsupported image type, allowed: jpeg, png, gif, webp")
	}

	img := &DecodedImage{Data: parsed.Data, MIMEType: mimeType, Format: format}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(parsed.Data)); err == nil {
		img.Width, img.Height = &cfg.Width, &cfg.Height
	}
	return img, nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// SanitizeFilename keeps the base name and replaces anything outside
// [a-zA-Z0-9._-] so it is safe inside an object key.
func SanitizeFilename(name, format string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	base = strings.Trim(unsafeFilenameChars.ReplaceAllString(base, "_"), "_.")
	if base == "" {
		return "image." + format
	}
	return base
}

func ImageObjectKey(userID string, cultivationID uuid.UUID, at time.Time, filename string) string {
	return fmt.Sprintf("%s/%s/%d_%s", userID, cultivationID, at.UnixMilli(), filename)
}

func (s *ImageService) Upload(ctx context.Context, userID string, req models.UploadImageRequest) (*models.CultivationImage, error) {
	if s.store == nil {
		return nil, ErrStorageUnavailable
	}

	c, err := loadOwned(ctx, s.cultivationRepo, userID, req.CultivationID)
	if err != nil {
		return nil, err
	}

	var eventID *uuid.UUID
	if req.EventID != nil {
		id, err := parseID("event id", *req.EventID)
		if err != nil {
			return nil, err
		}
		e, err := s.eventRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if e.CultivationID != c.ID {
			return nil, badRequest("event does not belong to this cultivation")
		}
		eventID = &id
	}

	decoded, err := DecodeImage(req.Image)
	if err != nil {
		return nil, err
	}

	filename := SanitizeFilename(req.Filename, decoded.Format)
	key := ImageObjectKey(userID, c.ID, s.now(), filename)

	if err := s.store.UploadBytes(ctx, s.bucket, key, decoded.Data, decoded.MIMEType); err != nil {
		return nil, errors.Join(ErrStorageUnavailable, err)
	}

	img := &models.CultivationImage{
		CultivationID: c.ID,
		EventID:       eventID,
		UserID:        userID,
		ObjectKey:     key,
		URL:           s.store.PublicURL(s.bucket, key),
		Filename:      filename,
		FileSize:      int64(len(decoded.Data)),
		MIMEType:      decoded.MIMEType,
		Width:         decoded.Width,
		Height:        decoded.Height,
		Format:        decoded.Format,
	}
	if err := s.imageRepo.Create(ctx, img); err != nil {
		if delErr := s.store.DeleteFile(ctx, s.bucket, key); delErr != nil {
			slog.Error("Failed to remove orphaned image", "object_key", key, "error", delErr)
		}
		return nil, err
	}

	slog.Info("Image uploaded",
		"cultivation_id", c.ID,
		"object_key", key,
		"size", img.FileSize)
	return img, nil
}

func (s *ImageService) ListByEvent(ctx context.Context, userID, eventID string) ([]models.CultivationImage, error) {
	id, err := parseID("event id", eventID)
	if err != nil {
		return nil, err
	}
	e, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.UserID != userID {
		return nil, ErrForbidden
	}
	return s.imageRepo.ListByEvent(ctx, id)
}
