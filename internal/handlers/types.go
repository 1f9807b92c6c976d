package handlers

import (
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// SendClipboardRequest is the request body for storing clipboard content.
type SendClipboardRequest struct {
	Body struct {
		Content        string `doc:"Text to share"                               example:"hello"  json:"content"`
		ContentType    string `doc:"Free-form content type label"                example:"text"   json:"content_type,omitempty"`
		IsConfidential bool   `doc:"Encrypt the content at rest"                                  json:"is_confidential,omitempty"`
		EncryptionKey  string `doc:"Secret required to read confidential content" example:"k1"     json:"encryption_key,omitempty"`
	}
}

// SendClipboardResponse tells the sender which code to hand out.
type SendClipboardResponse struct {
	Body struct {
		Code      string    `doc:"Four digit share code"       example:"4821"                          json:"code"`
		ExpiresAt time.Time `doc:"When the content expires"                                            json:"expires_at"`
		QRCodeURL string    `doc:"PNG QR code for the share"   example:"http://localhost:8888/qr/4821" json:"qr_code_url"`
	}
}

// ReceiveClipboardRequest is the request body for reading clipboard content.
type ReceiveClipboardRequest struct {
	Body struct {
		Code          string `doc:"Four digit share code"                 example:"4821" json:"code"`
		DecryptionKey string `doc:"Secret the content was encrypted with" example:"k1"   json:"decryption_key,omitempty"`
	}
}

// ReceiveClipboardResponse is the decrypted clipboard content.
type ReceiveClipboardResponse struct {
	Body struct {
		Content        string    `json:"content"`
		ContentType    string    `json:"content_type"`
		IsConfidential bool      `json:"is_confidential"`
		CreatedAt      time.Time `json:"created_at"`
	}
}

// QRRequest is the request for a share code QR image.
type QRRequest struct {
	Code string `doc:"Four digit share code" example:"4821" path:"code"`
}

// QRResponse is a PNG image.
type QRResponse struct {
	ContentType  string `header:"Content-Type"`
	CacheControl string `header:"Cache-Control"`
	Body         []byte
}

// UploadFileForm is the multipart form of a file upload.
type UploadFileForm struct {
	File huma.FormFile `form:"file" required:"true"`
}

// UploadFileRequest carries the file and its requested lifetime.
type UploadFileRequest struct {
	ExpiresDays int `default:"7" doc:"Days until the share expires (1-365)" query:"expires_days"`
	RawBody     huma.MultipartFormFiles[UploadFileForm]
}

// UploadFileResponse describes the stored share.
type UploadFileResponse struct {
	Body struct {
		ShareCode   string    `doc:"Four digit share code"            example:"0421"                   json:"share_code"`
		DownloadURL string    `doc:"Presigned download URL"                                            json:"download_url"`
		ExpiresAt   time.Time `doc:"When the share expires"                                            json:"expires_at"`
		FileName    string    `doc:"Stored file name"                 example:"report.pdf"             json:"file_name"`
		FileSize    int64     `doc:"Size in bytes"                    example:"52133"                  json:"file_size"`
		FilePath    string    `doc:"Object path inside the bucket"    example:"shared/0421/report.pdf" json:"file_path"`
		ContentType string    `doc:"Content type reported on upload"  example:"application/pdf"        json:"content_type"`
	}
}

// GetFileRequest is the request for share metadata.
type GetFileRequest struct {
	ShareCode string `doc:"Four digit share code" example:"0421" path:"share_code"`
}

// GetFileResponse is share metadata with a fresh download URL.
type GetFileResponse struct {
	Body struct {
		FileName    string    `json:"file_name"`
		FileSize    int64     `json:"file_size"`
		DownloadURL string    `json:"download_url"`
		ExpiresAt   time.Time `json:"expires_at"`
		ContentType string    `json:"content_type"`
	}
}

// CreateShortURLRequest is the request body for creating a short URL.
type CreateShortURLRequest struct {
	Body struct {
		URL        string `doc:"The URL to shorten"                    example:"https://example.com/very/long/path" json:"url"`
		CustomPath string `doc:"Alphanumeric path, 3 to 64 characters" example:"docs"                               json:"custom_path,omitempty"`
	}
}

// CreateShortURLResponse is the response for a successfully created short URL.
type CreateShortURLResponse struct {
	Location string `doc:"The short URL location" header:"Location"`
	Body     struct {
		ShortURL    string    `doc:"The full short URL" example:"http://localhost:8888/urls/abc123" json:"short_url"`
		OriginalURL string    `doc:"The original URL"   example:"https://example.com/very/long/path" json:"original_url"`
		ExpiresAt   time.Time `doc:"When the short URL stops resolving"                              json:"expires_at"`
	}
}

// RedirectRequest is the request for redirecting a short URL.
type RedirectRequest struct {
	ShortPath string `doc:"The short path" example:"abc123" path:"short_path"`
}

// RedirectResponse sends the client on to the original URL.
type RedirectResponse struct {
	Status   int
	Location string `header:"Location"`
}
