package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortdrop/internal/middleware"
	"github.com/serroba/shortdrop/internal/sharing"
	"go.uber.org/zap"
)

var kindStatus = map[sharing.Kind]int{
	sharing.KindBadRequest:       http.StatusBadRequest,
	sharing.KindNotFound:         http.StatusNotFound,
	sharing.KindExpired:          http.StatusGone,
	sharing.KindConflict:         http.StatusBadRequest,
	sharing.KindKeyRequired:      http.StatusBadRequest,
	sharing.KindDecryptionFailed: http.StatusBadRequest,
	sharing.KindTooLarge:         http.StatusRequestEntityTooLarge,
	sharing.KindStorage:          http.StatusInternalServerError,
}

// StatusFor returns the HTTP status a failure kind is reported with.
func StatusFor(kind sharing.Kind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}

	return http.StatusInternalServerError
}

// toHTTPError converts a service error into a huma status error. Storage
// failures are logged with their cause and reported with a generic message.
func toHTTPError(ctx context.Context, logger *zap.Logger, err error, fields ...zap.Field) error {
	kind := sharing.KindOf(err)
	status := StatusFor(kind)

	fields = append(fields,
		zap.String("kind", string(kind)),
		zap.String("requestId", middleware.MetaFromContext(ctx).RequestID),
		zap.Error(err),
	)

	if status >= http.StatusInternalServerError {
		logger.Error("request failed", fields...)

		return huma.NewError(status, "internal storage error")
	}

	logger.Debug("request rejected", fields...)

	message := err.Error()

	var se *sharing.Error
	if errors.As(err, &se) {
		message = se.Message
	}

	return huma.NewError(status, message)
}
