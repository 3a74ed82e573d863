package minio

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"cultivation-service/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioClient struct {
	client *minio.Client
	config config.MinioConfig
}

var Storage = struct {
	CultivationImages string
}{
	CultivationImages: "cultivation-images",
}

var BucketNames = []string{
	Storage.CultivationImages,
}

func endpointFromURL(raw string) string {
	endpoint := strings.TrimPrefix(raw, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")
	return strings.TrimSuffix(endpoint, "/")
}

func NewMinioClient(cfg config.MinioConfig) (*MinioClient, error) {
	isSecure, err := strconv.ParseBool(cfg.MinioSecure)
	if err != nil {
		log.Printf("Invalid value for MinIO secure flag: %v. Defaulting to false.", err)
		isSecure = false
	}

	minioClient, err := minio.New(endpointFromURL(cfg.MinioURL), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: isSecure,
		Region: cfg.MinioLocation,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err = minioClient.ListBuckets(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to MinIO server: %w", err)
	}
	log.Printf("Successfully connected to MinIO at %s", cfg.MinioURL)

	mc := &MinioClient{
		client: minioClient,
		config: cfg,
	}
	if err := mc.ensureRequiredBuckets(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure required buckets: %w", err)
	}
	return mc, nil
}

func (mc *MinioClient) ensureRequiredBuckets(ctx context.Context) error {
	for _, bucketName := range BucketNames {
		if err := mc.ensureBucket(ctx, bucketName); err != nil {
			return fmt.Errorf("failed to ensure bucket %s: %w", bucketName, err)
		}
	}

	// Images are served straight from the bucket URL.
	if err := mc.SetPublicReadPolicy(ctx, Storage.CultivationImages); err != nil {
		log.Printf("Failed to set public policy for %s bucket: %v", Storage.CultivationImages, err)
	}
	return nil
}

func (mc *MinioClient) ensureBucket(ctx context.Context, bucketName string) error {
	exists, err := mc.client.BucketExists(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("error checking bucket existence: %w", err)
	}
	if exists {
		return nil
	}

	err = mc.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{
		Region: mc.config.MinioLocation,
	})
	if err != nil {
		return fmt.Errorf("error creating bucket %s: %w", bucketName, err)
	}
	log.Printf("Created bucket: %s", bucketName)
	return nil
}

func publicReadPolicy(bucketName string) string {
	return fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [
			{
				"Effect": "Allow",
				"Principal": {"AWS": "*"},
				"Action": ["s3:GetObject"],
				"Resource": ["arn:aws:s3:::%s/*"]
			}
		]
	}`, bucketName)
}

func (mc *MinioClient) SetPublicReadPolicy(ctx context.Context, bucketName string) error {
	if err := mc.client.SetBucketPolicy(ctx, bucketName, publicReadPolicy(bucketName)); err != nil {
		return fmt.Errorf("error setting public read policy for bucket %s: %w", bucketName, err)
	}
	return nil
}

func (mc *MinioClient) UploadBytes(ctx context.Context, bucketName, objectName string, data []byte, contentType string) error {
	_, err := mc.client.PutObject(ctx, bucketName, objectName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("failed to upload bytes to %s in bucket %s: %w", objectName, bucketName, err)
	}

	log.Printf("Successfully uploaded %d bytes to: %s in bucket: %s", len(data), objectName, bucketName)
	return nil
}

func (mc *MinioClient) DeleteFile(ctx context.Context, bucketName, objectName string) error {
	err := mc.client.RemoveObject(ctx, bucketName, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete file %s from bucket %s: %w", objectName, bucketName, err)
	}
	return nil
}

// PublicURL builds the address an uploaded object is served from.
func (mc *MinioClient) PublicURL(bucketName, objectName string) string {
	return PublicURL(mc.config.MinioResourceURL, bucketName, objectName)
}

func PublicURL(resourceURL, bucketName, objectName string) string {
	return strings.TrimSuffix(resourceURL, "/") + "/" + bucketName + "/" + objectName
}
