package port

import "context"

// ClipArchiver copies a produced clip into object storage. Archival is
// best-effort and never affects the outcome of a run.
type ClipArchiver interface {
	ArchiveClip(ctx context.Context, objectKey string, clipPath string) error
}
