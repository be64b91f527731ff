package util

import (
	"context"
	"fmt"
	"io"
	"os"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// newGCSClientHook is swapped out by tests to point at a fake server.
var newGCSClientHook = func(ctx context.Context) (*storage.Client, error) {
	return storage.NewClient(ctx)
}

// UploadFileToGCS copies a local file into the given bucket and returns the
// gs:// URL and the number of bytes written.
func UploadFileToGCS(ctx context.Context, bucketName, objectName, srcPath string) (string, int64, error) {
	client, err := newGCSClientHook(ctx)
	if err != nil {
		return "", 0, err
	}
	defer client.Close()

	src, err := os.Open(srcPath)
	if err != nil {
		return "", 0, err
	}
	defer src.Close()

	w := client.Bucket(bucketName).Object(objectName).NewWriter(ctx)
	n, err := io.Copy(w, src)
	if err != nil {
		_ = w.Close()
		return "", 0, err
	}
	if err := w.Close(); err != nil {
		return "", 0, err
	}

	return fmt.Sprintf("gs://%s/%s", bucketName, objectName), n, nil
}

// ListGCSObjects returns the object names under prefix in the bucket.
func ListGCSObjects(ctx context.Context, bucketName, prefix string) ([]string, error) {
	client, err := newGCSClientHook(ctx)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	var names []string
	it := client.Bucket(bucketName).Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		obj, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		names = append(names, obj.Name)
	}
	return names, nil
}

func DeleteGCSObject(ctx context.Context, bucketName, objectName string) error {
	client, err := newGCSClientHook(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	return client.Bucket(bucketName).Object(objectName).Delete(ctx)
}
