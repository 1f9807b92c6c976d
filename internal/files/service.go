package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/serroba/shortdrop/internal/cleanup"
	"github.com/serroba/shortdrop/internal/messaging"
	"github.com/serroba/shortdrop/internal/sharing"
	"go.uber.org/zap"
)

// UploadInput describes an incoming file. Body is rewound before each store
// attempt, so a retried code reuses the same reader.
type UploadInput struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.ReadSeeker
	ExpiresDays int
}

// Uploaded is a stored share plus the download URL minted for it.
type Uploaded struct {
	Share
	DownloadURL string
}

// Service implements upload and lookup of shared files.
type Service struct {
	repo           Repository
	blobs          BlobStore
	registry       *sharing.Registry
	now            sharing.Clock
	publishExpired messaging.Publish[cleanup.BlobExpiredEvent]
	logger         *zap.Logger
}

func NewService(
	repo Repository,
	blobs BlobStore,
	registry *sharing.Registry,
	now sharing.Clock,
	publishExpired messaging.Publish[cleanup.BlobExpiredEvent],
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:           repo,
		blobs:          blobs,
		registry:       registry,
		now:            now,
		publishExpired: publishExpired,
		logger:         logger,
	}
}

// BlobPath is where a file lives in the bucket.
func BlobPath(code sharing.Code, fileName string) string {
	return fmt.Sprintf("shared/%s/%s", code, fileName)
}

// Upload stores the blob under a fresh code and records its metadata.
//
// The blob and the metadata row are not written atomically. A failed signing
// or metadata insert deletes the blob again; a crash in between can still
// leave an orphan blob behind.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*Uploaded, error) {
	name := cleanFileName(in.FileName)
	if name == "" {
		return nil, sharing.BadRequest("filename required")
	}

	if in.Size > MaxFileSize {
		return nil, sharing.TooLarge("file too large")
	}

	if in.ExpiresDays < 1 || in.ExpiresDays > MaxExpiryDays {
		return nil, sharing.BadRequest(fmt.Sprintf("expires_days must be between 1 and %d", MaxExpiryDays))
	}

	if err := s.blobs.EnsureBucket(ctx); err != nil {
		return nil, sharing.Storage("storage configuration error", err)
	}

	ttl := time.Duration(in.ExpiresDays) * 24 * time.Hour
	share := &Share{
		FileName:    name,
		FileSize:    in.Size,
		ContentType: in.ContentType,
		Lifetime:    sharing.NewLifetime(s.now(), ttl),
	}

	var downloadURL string

	_, err := s.registry.Claim(ctx, sharing.LiveProbe(s.lookup), func(ctx context.Context, code sharing.Code) error {
		share.Code = code
		share.FilePath = BlobPath(code, name)

		url, err := s.store(ctx, share, in.Body, ttl)
		downloadURL = url

		return err
	})
	if err != nil {
		return nil, err
	}

	return &Uploaded{Share: *share, DownloadURL: downloadURL}, nil
}

func (s *Service) store(ctx context.Context, share *Share, body io.ReadSeeker, ttl time.Duration) (string, error) {
	if _, err := body.Seek(0, io.SeekStart); err != nil {
		return "", sharing.Storage("failed to read upload", err)
	}

	if err := s.blobs.Put(ctx, share.FilePath, body, share.FileSize, share.ContentType); err != nil {
		// A leftover object under this code's prefix makes the code unusable.
		if errors.Is(err, sharing.ErrBlobExists) {
			return "", sharing.ErrDuplicateCode
		}

		return "", sharing.Storage("file upload failed", err)
	}

	url, err := s.blobs.SignURL(ctx, share.FilePath, ttl)
	if err != nil {
		s.discard(ctx, share)

		return "", sharing.Storage("failed to sign download url", err)
	}

	if err := s.repo.Save(ctx, share); err != nil {
		s.discard(ctx, share)

		if errors.Is(err, sharing.ErrDuplicateCode) {
			return "", err
		}

		return "", sharing.Storage("database insert failed", err)
	}

	return url, nil
}

// discard is the compensating delete for a blob whose metadata never landed.
func (s *Service) discard(ctx context.Context, share *Share) {
	if err := s.blobs.Delete(context.WithoutCancel(ctx), share.FilePath); err != nil {
		s.logger.Error("failed to remove orphan blob",
			zap.String("code", string(share.Code)),
			zap.String("path", share.FilePath),
			zap.Error(err),
		)
	}
}

// GetByCode returns the share with a freshly signed one hour download URL.
func (s *Service) GetByCode(ctx context.Context, code sharing.Code) (*Uploaded, error) {
	if !sharing.IsNumericCode(string(code)) {
		return nil, sharing.BadRequest("invalid share code format")
	}

	share, err := s.live(ctx, code)
	if err != nil {
		return nil, err
	}

	url, err := s.blobs.SignURL(ctx, share.FilePath, LookupURLTTL)
	if err != nil {
		return nil, sharing.Storage("failed to sign download url", err)
	}

	return &Uploaded{Share: *share, DownloadURL: url}, nil
}

// live returns the share under code. An expired share loses its row here and
// its blob is handed to the reaper.
func (s *Service) live(ctx context.Context, code sharing.Code) (*Share, error) {
	share, err := s.repo.GetByCode(ctx, code)
	if errors.Is(err, sharing.ErrRecordNotFound) {
		return nil, sharing.NotFound("file not found")
	}

	if err != nil {
		return nil, sharing.Storage("failed to load file share", err)
	}

	now := s.now()
	if share.LiveAt(now) {
		return share, nil
	}

	log := s.logger.With(zap.String("code", string(code)), zap.String("path", share.FilePath))

	if err := s.repo.Delete(ctx, code); err != nil {
		log.Warn("failed to delete expired file share", zap.Error(err))
	}

	event := &cleanup.BlobExpiredEvent{Code: string(code), Path: share.FilePath, ExpiredAt: now}
	if err := s.publishExpired(ctx, event); err != nil {
		log.Error("failed to publish blob expired event", zap.Error(err))
	}

	return nil, sharing.Expired("file link has expired")
}

func (s *Service) lookup(ctx context.Context, code sharing.Code) error {
	_, err := s.live(ctx, code)
	return err
}

// cleanFileName keeps only the last path element of a client supplied name.
func cleanFileName(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	if name == "" {
		return ""
	}

	base := path.Base(name)
	if base == "." || base == "/" || base == ".." {
		return ""
	}

	return base
}
