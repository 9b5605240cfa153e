package export

import "context"

// ObjectInfo represents metadata for a remote file/object.
type ObjectInfo struct {
	Key  string
	Size int64
}

// ObjectStorage captures the minimal S3-compatible operations result
// publishing needs.
type ObjectStorage interface {
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	UploadFile(ctx context.Context, key string, srcPath string) error
	DownloadObject(ctx context.Context, key string, destPath string) error
}
