package cleanup

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// BlobDeleter removes a blob by path. Deleting a missing blob is not an error.
type BlobDeleter interface {
	Delete(ctx context.Context, path string) error
}

// Reaper deletes blobs whose share has expired.
type Reaper struct {
	blobs  BlobDeleter
	logger *zap.Logger
}

func NewReaper(blobs BlobDeleter, logger *zap.Logger) *Reaper {
	return &Reaper{blobs: blobs, logger: logger}
}

// HandleBlobExpired is a messaging.Handler for TopicBlobExpired. A failed
// delete is returned so the message is redelivered.
func (r *Reaper) HandleBlobExpired(ctx context.Context, event *BlobExpiredEvent) error {
	if event.Path == "" {
		return errors.New("blob expired event without path")
	}

	if err := r.blobs.Delete(ctx, event.Path); err != nil {
		return fmt.Errorf("delete blob %s: %w", event.Path, err)
	}

	r.logger.Info("expired blob removed",
		zap.String("code", event.Code),
		zap.String("path", event.Path),
		zap.Time("expiredAt", event.ExpiredAt),
	)

	return nil
}
