package constants

const (
	DefaultCollection = "default"

	StatusOK     = "ok"
	StatusQueued = "queued"

	DefaultQuality = 90
)
