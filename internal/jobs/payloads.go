package jobs

// ThumbnailPayload describes one thumbnail-generation job. Keep payloads
// minimal and ID-based; the worker loads the file record from the store.
type ThumbnailPayload struct {
	FileID  int64 `json:"fileId"`
	OwnerID int64 `json:"userId"`
}

// WelcomePayload describes one welcome-notification job enqueued on user
// registration.
type WelcomePayload struct {
	UserID int64 `json:"userId"`
}
