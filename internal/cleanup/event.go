package cleanup

import "time"

const TopicBlobExpired = "blob.expired"

// BlobExpiredEvent is emitted when a file share is observed expired and its
// metadata row is removed. The blob itself is deleted by the reaper.
type BlobExpiredEvent struct {
	Code      string    `json:"code"`
	Path      string    `json:"path"`
	ExpiredAt time.Time `json:"expiredAt"`
}
