package repository

import (
	"context"
	"io"
	"log"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ImageStore keeps property image blobs in a GridFS bucket, addressed by
// storage path. The path doubles as the GridFS filename.
type ImageStore struct {
	bucket *gridfs.Bucket
}

func NewImageStore(db *mongo.Database) (*ImageStore, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName("images"))
	if err != nil {
		return nil, err
	}
	return &ImageStore{bucket: bucket}, nil
}

type imageMetadata struct {
	ContentType string `bson:"contentType"`
}

func (s *ImageStore) Upload(path, contentType string, r io.Reader) error {
	uploadOpts := options.GridFSUpload().SetMetadata(bson.M{"contentType": contentType})
	stream, err := s.bucket.OpenUploadStream(path, uploadOpts)
	if err != nil {
		return err
	}

	if _, err := io.Copy(stream, r); err != nil {
		stream.Close()
		return err
	}
	return stream.Close()
}

// Download returns the blob and its content type for a storage path.
func (s *ImageStore) Download(path string) ([]byte, string, error) {
	stream, err := s.bucket.OpenDownloadStreamByName(path)
	if err != nil {
		return nil, "", err
	}
	defer stream.Close()

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, "", err
	}

	contentType := "application/octet-stream"
	if file := stream.GetFile(); file != nil && file.Metadata != nil {
		var meta imageMetadata
		if err := bson.Unmarshal(file.Metadata, &meta); err == nil && meta.ContentType != "" {
			contentType = meta.ContentType
		}
	}
	return data, contentType, nil
}

// Delete removes every stored revision under the path. Deleting an absent
// path is a no-op.
func (s *ImageStore) Delete(ctx context.Context, path string) error {
	cursor, err := s.bucket.GetFilesCollection().Find(ctx, bson.M{"filename": path})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var file struct {
			ID interface{} `bson:"_id"`
		}
		if err := cursor.Decode(&file); err != nil {
			continue
		}
		if err := s.bucket.Delete(file.ID); err != nil && err != gridfs.ErrFileNotFound {
			return err
		}
	}
	return cursor.Err()
}

// DeleteAll removes the given paths concurrently, best-effort. Individual
// failures are logged and do not cancel siblings; orphaned blobs are an
// accepted tradeoff.
func (s *ImageStore) DeleteAll(ctx context.Context, paths []string) {
	var wg sync.WaitGroup
	for _, path := range paths {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			if err := s.Delete(ctx, path); err != nil {
				log.Printf("failed to delete image %s: %v", path, err)
			}
		}(path)
	}
	wg.Wait()
}
