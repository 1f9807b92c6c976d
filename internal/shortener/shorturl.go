package shortener

import "github.com/serroba/shortdrop/internal/sharing"

const (
	MinCustomPathLength = 3
	MaxCustomPathLength = 64
)

// ShortURL maps a short path to its destination.
type ShortURL struct {
	Code        sharing.Code
	OriginalURL string
	Custom      bool
	sharing.Lifetime
}
