package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortdrop/internal/files"
)

// uploadBodyLimit leaves room for multipart framing around a maximum size file.
const uploadBodyLimit = files.MaxFileSize + 1<<20

// RegisterRoutes registers the clipboard, file and URL routes.
func RegisterRoutes(api huma.API, clip *ClipboardHandler, file *FileHandler, urls *URLHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "clipboard-send",
		Method:      http.MethodPost,
		Path:        "/clipboard/send",
		Summary:     "Share clipboard content",
		Description: "Stores text under a four digit code for 15 minutes, optionally encrypted.",
		Tags:        []string{"Clipboard"},
	}, clip.Send)

	huma.Register(api, huma.Operation{
		OperationID: "clipboard-receive",
		Method:      http.MethodPost,
		Path:        "/clipboard/receive",
		Summary:     "Read clipboard content",
		Description: "Returns the content stored under a code. Reading does not consume it.",
		Tags:        []string{"Clipboard"},
	}, clip.Receive)

	huma.Register(api, huma.Operation{
		OperationID: "clipboard-qr",
		Method:      http.MethodGet,
		Path:        "/qr/{code}",
		Summary:     "QR code for a share code",
		Tags:        []string{"Clipboard"},
		Responses: map[string]*huma.Response{
			"200": {
				Description: "PNG image",
				Content:     map[string]*huma.MediaType{"image/png": {}},
			},
		},
	}, clip.QRCode)

	huma.Register(api, huma.Operation{
		OperationID:  "files-upload",
		Method:       http.MethodPost,
		Path:         "/files/upload",
		Summary:      "Upload a file",
		Description:  "Stores a file of up to 50 MiB and returns a share code with a signed download URL.",
		Tags:         []string{"Files"},
		MaxBodyBytes: uploadBodyLimit,
	}, file.Upload)

	huma.Register(api, huma.Operation{
		OperationID: "files-get",
		Method:      http.MethodGet,
		Path:        "/files/files/{share_code}",
		Summary:     "Look up a shared file",
		Description: "Returns file metadata and a download URL valid for one hour.",
		Tags:        []string{"Files"},
	}, file.GetShare)

	huma.Register(api, huma.Operation{
		OperationID:   "urls-shorten",
		Method:        http.MethodPost,
		Path:          "/urls/shorten",
		Summary:       "Create short URL",
		Description:   "Maps a URL to a random token or a custom path for 365 days.",
		Tags:          []string{"URLs"},
		DefaultStatus: http.StatusCreated,
	}, urls.CreateShortURL)

	huma.Register(api, huma.Operation{
		OperationID: "urls-redirect",
		Method:      http.MethodGet,
		Path:        "/urls/{short_path}",
		Summary:     "Redirect to original URL",
		Description: "Redirects to the original URL associated with the short path.",
		Tags:        []string{"URLs"},
	}, urls.RedirectToURL)
}
