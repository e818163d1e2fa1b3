package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	gcs "cloud.google.com/go/storage"

	"github.com/weatherops/cwa-forecast-export/internal/forecast"
)

var (
	// ErrStorage means the upload itself (or the CSV encoding feeding it)
	// failed.
	ErrStorage = errors.New("object store write failed")

	// ErrVerification means the object could not be confirmed to exist
	// after a write that reported no error.
	ErrVerification = errors.New("object could not be verified after write")
)

// ObjectBucket is the slice of bucket behaviour the writer needs. The GCS
// bucket handle satisfies it through gcsBucket; tests substitute a fake.
type ObjectBucket interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Size(ctx context.Context, key string) (int64, error)
}

// gcsBucket adapts a *storage.BucketHandle to ObjectBucket.
type gcsBucket struct {
	bucket *gcs.BucketHandle
}

// NewGCSBucket wraps a bucket of the given name from an initialized GCS
// client.
func NewGCSBucket(client *gcs.Client, name string) ObjectBucket {
	return &gcsBucket{bucket: client.Bucket(name)}
}

func (b *gcsBucket) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	w := b.bucket.Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func (b *gcsBucket) Size(ctx context.Context, key string) (int64, error) {
	attrs, err := b.bucket.Object(key).Attrs(ctx)
	if err != nil {
		return 0, err
	}
	return attrs.Size, nil
}

// Writer serializes region forecasts to CSV and writes them to an object
// bucket under a fixed prefix, verifying the object after the write. The
// store is treated as eventually-observable: the write acknowledgment alone
// is not trusted.
type Writer struct {
	bucket  ObjectBucket
	prefix  string
	timeout time.Duration
}

// NewWriter creates a Writer. The timeout bounds the upload plus its
// verification as one unit; zero disables the bound.
func NewWriter(bucket ObjectBucket, prefix string, timeout time.Duration) *Writer {
	return &Writer{
		bucket:  bucket,
		prefix:  prefix,
		timeout: timeout,
	}
}

// Write uploads the records as one CSV object named key under the writer's
// prefix. A single attempt, pass or fail.
func (w *Writer) Write(ctx context.Context, key string, records []forecast.RegionForecast) error {
	data, err := forecast.EncodeCSV(records)
	if err != nil {
		return fmt.Errorf("%w: encoding csv: %v", ErrStorage, err)
	}
	log.Printf("INFO: CSV data size: %d bytes", len(data))

	object := w.prefix + key

	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	if err := w.bucket.Upload(ctx, object, data, "text/csv"); err != nil {
		return fmt.Errorf("%w: uploading %s: %v", ErrStorage, object, err)
	}

	size, err := w.bucket.Size(ctx, object)
	if err != nil {
		log.Printf("ERROR: file upload verification failed for %s: %v", object, err)
		return fmt.Errorf("%w: %s: %v", ErrVerification, object, err)
	}

	log.Printf("INFO: successfully uploaded %s (size: %d bytes)", object, size)
	return nil
}
