package handlers

import (
	"context"
	"fmt"

	"github.com/serroba/shortdrop/internal/clipboard"
	"github.com/serroba/shortdrop/internal/sharing"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

const qrSize = 256

// ClipboardHandler serves the clipboard send, receive and QR endpoints.
type ClipboardHandler struct {
	svc     *clipboard.Service
	baseURL string
	logger  *zap.Logger
}

func NewClipboardHandler(svc *clipboard.Service, baseURL string, logger *zap.Logger) *ClipboardHandler {
	return &ClipboardHandler{svc: svc, baseURL: baseURL, logger: logger}
}

func (h *ClipboardHandler) Send(ctx context.Context, req *SendClipboardRequest) (*SendClipboardResponse, error) {
	receipt, err := h.svc.Send(ctx, clipboard.SendInput{
		Content:        req.Body.Content,
		ContentType:    req.Body.ContentType,
		IsConfidential: req.Body.IsConfidential,
		EncryptionKey:  req.Body.EncryptionKey,
	})
	if err != nil {
		return nil, toHTTPError(ctx, h.logger, err)
	}

	resp := &SendClipboardResponse{}
	resp.Body.Code = string(receipt.Code)
	resp.Body.ExpiresAt = receipt.ExpiresAt
	resp.Body.QRCodeURL = fmt.Sprintf("%s/qr/%s", h.baseURL, receipt.Code)

	return resp, nil
}

func (h *ClipboardHandler) Receive(ctx context.Context, req *ReceiveClipboardRequest) (*ReceiveClipboardResponse, error) {
	got, err := h.svc.Receive(ctx, sharing.Code(req.Body.Code), req.Body.DecryptionKey)
	if err != nil {
		return nil, toHTTPError(ctx, h.logger, err, zap.String("code", req.Body.Code))
	}

	resp := &ReceiveClipboardResponse{}
	resp.Body.Content = got.Content
	resp.Body.ContentType = got.ContentType
	resp.Body.IsConfidential = got.IsConfidential
	resp.Body.CreatedAt = got.CreatedAt

	return resp, nil
}

// QRCode renders the share code as a PNG. It does not look the code up, so
// the image can be printed before or after the content is sent.
func (h *ClipboardHandler) QRCode(ctx context.Context, req *QRRequest) (*QRResponse, error) {
	if !sharing.IsNumericCode(req.Code) {
		return nil, toHTTPError(ctx, h.logger, sharing.BadRequest("invalid code format"))
	}

	png, err := qrcode.Encode(req.Code, qrcode.Medium, qrSize)
	if err != nil {
		return nil, toHTTPError(ctx, h.logger, sharing.Storage("failed to render qr code", err))
	}

	return &QRResponse{
		ContentType:  "image/png",
		CacheControl: "public, max-age=86400",
		Body:         png,
	}, nil
}
