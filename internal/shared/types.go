package shared

// Asynq task types, "domain:action"
const (
	TypeProcessPostCover        = "post:process_cover"
	TypeDeletePostCover         = "post:delete_cover"
	TypeCleanupOrphanPostCovers = "post:cleanup_orphan_covers"
)

// Asynq queues and their worker weights
const (
	QueueMedia       = "media"
	QueueMaintenance = "maintenance"
)

var QueueWeights = map[string]int{
	QueueMedia:       10,
	QueueMaintenance: 2,
}

// ProcessPostCoverPayload points at an uploaded original awaiting variants
type ProcessPostCoverPayload struct {
	PostID      string `json:"post_id"`
	OriginalKey string `json:"original_key"`
}

// DeletePostCoverPayload removes the objects of a replaced or dropped cover
type DeletePostCoverPayload struct {
	PostID string   `json:"post_id"`
	Keys   []string `json:"keys"`
}

// CleanupOrphanCoversPayload bounds one cleanup run
type CleanupOrphanCoversPayload struct {
	Limit int `json:"limit"`
}
