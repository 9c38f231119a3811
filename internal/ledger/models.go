package ledger

import (
	"strings"
	"time"
)

// Status represents the lifecycle of one hash within a run.
type Status string

const (
	StatusPending       Status = "pending"
	StatusSegmentReady  Status = "segment_ready"
	StatusConcatReady   Status = "concat_ready"
	StatusFramesReady   Status = "frames_ready"
	StatusVideoReady    Status = "video_ready"
	StatusMetadataReady Status = "metadata_ready"
	StatusFailed        Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusSegmentReady,
	StatusConcatReady,
	StatusFramesReady,
	StatusVideoReady,
	StatusMetadataReady,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// Item is one hash's state within a run.
type Item struct {
	ID           int64
	RunID        string
	TxHash       string
	Seed         string
	Status       Status
	SegmentFile  string
	ConcatFile   string
	FramesDir    string
	FrameCount   int
	VideoFile    string
	MetadataFile string
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SetFailed marks the item as failed with the given message.
func (i *Item) SetFailed(message string) {
	i.Status = StatusFailed
	i.ErrorMessage = message
}

// Advance moves the item to a new lifecycle status and clears any stale
// failure message.
func (i *Item) Advance(status Status) {
	i.Status = status
	i.ErrorMessage = ""
}
