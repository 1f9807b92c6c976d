package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/serroba/shortdrop/internal/sharing"
	"github.com/serroba/shortdrop/internal/shortener"
	"go.uber.org/zap"
)

// URLHandler handles URL shortening operations.
type URLHandler struct {
	svc     *shortener.Service
	baseURL string
	logger  *zap.Logger
}

// NewURLHandler creates a new URL handler.
func NewURLHandler(svc *shortener.Service, baseURL string, logger *zap.Logger) *URLHandler {
	return &URLHandler{
		svc:     svc,
		baseURL: baseURL,
		logger:  logger,
	}
}

// ShortURL is the public link for a short path.
func (h *URLHandler) ShortURL(code sharing.Code) string {
	return fmt.Sprintf("%s/urls/%s", h.baseURL, code)
}

func (h *URLHandler) CreateShortURL(ctx context.Context, req *CreateShortURLRequest) (*CreateShortURLResponse, error) {
	shortURL, err := h.svc.Shorten(ctx, req.Body.URL, req.Body.CustomPath)
	if err != nil {
		return nil, toHTTPError(ctx, h.logger, err, zap.String("customPath", req.Body.CustomPath))
	}

	full := h.ShortURL(shortURL.Code)

	resp := &CreateShortURLResponse{}
	resp.Location = full
	resp.Body.ShortURL = full
	resp.Body.OriginalURL = shortURL.OriginalURL
	resp.Body.ExpiresAt = shortURL.ExpiresAt

	return resp, nil
}

func (h *URLHandler) RedirectToURL(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	shortURL, err := h.svc.Resolve(ctx, sharing.Code(req.ShortPath))
	if err != nil {
		return nil, toHTTPError(ctx, h.logger, err, zap.String("code", req.ShortPath))
	}

	return &RedirectResponse{
		Status:   http.StatusTemporaryRedirect,
		Location: shortURL.OriginalURL,
	}, nil
}
