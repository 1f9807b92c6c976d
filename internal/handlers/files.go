package handlers

import (
	"context"

	"github.com/serroba/shortdrop/internal/files"
	"github.com/serroba/shortdrop/internal/sharing"
	"go.uber.org/zap"
)

const defaultContentType = "application/octet-stream"

// FileHandler serves file upload and lookup.
type FileHandler struct {
	svc    *files.Service
	logger *zap.Logger
}

func NewFileHandler(svc *files.Service, logger *zap.Logger) *FileHandler {
	return &FileHandler{svc: svc, logger: logger}
}

func (h *FileHandler) Upload(ctx context.Context, req *UploadFileRequest) (*UploadFileResponse, error) {
	form := req.RawBody.Data()
	if form == nil || !form.File.IsSet {
		return nil, toHTTPError(ctx, h.logger, sharing.BadRequest("file required"))
	}

	file := form.File
	defer file.Close()

	contentType := file.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	up, err := h.svc.Upload(ctx, files.UploadInput{
		FileName:    file.Filename,
		ContentType: contentType,
		Size:        file.Size,
		Body:        file.File,
		ExpiresDays: req.ExpiresDays,
	})
	if err != nil {
		return nil, toHTTPError(ctx, h.logger, err, zap.String("fileName", file.Filename))
	}

	resp := &UploadFileResponse{}
	resp.Body.ShareCode = string(up.Code)
	resp.Body.DownloadURL = up.DownloadURL
	resp.Body.ExpiresAt = up.ExpiresAt
	resp.Body.FileName = up.FileName
	resp.Body.FileSize = up.FileSize
	resp.Body.FilePath = up.FilePath
	resp.Body.ContentType = up.ContentType

	return resp, nil
}

func (h *FileHandler) GetShare(ctx context.Context, req *GetFileRequest) (*GetFileResponse, error) {
	share, err := h.svc.GetByCode(ctx, sharing.Code(req.ShareCode))
	if err != nil {
		return nil, toHTTPError(ctx, h.logger, err, zap.String("code", req.ShareCode))
	}

	resp := &GetFileResponse{}
	resp.Body.FileName = share.FileName
	resp.Body.FileSize = share.FileSize
	resp.Body.DownloadURL = share.DownloadURL
	resp.Body.ExpiresAt = share.ExpiresAt
	resp.Body.ContentType = share.ContentType

	return resp, nil
}
