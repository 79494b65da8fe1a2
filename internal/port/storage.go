package port

import "context"

// FileStorage abstracts object storage for chapter and requirement
// files. The backend never moves file bytes; clients exchange them
// directly against presigned URLs and only opaque keys are stored.
type FileStorage interface {
	PresignUpload(ctx context.Context, key, contentType string, expirySeconds int64) (string, error)
	PresignDownload(ctx context.Context, key string, expirySeconds int64) (string, error)
}
