package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"taskhub/internal/pkg/logx"
)

// presignedURLDuration bounds how long a download redirect stays valid.
const presignedURLDuration = 15 * time.Minute

// s3Store keeps uploads in an S3-compatible bucket and serves them through
// presigned download redirects.
type s3Store struct {
	cfg      Config
	client   *s3.Client
	uploader *manager.Uploader
}

// newS3Store initializes the S3 client with a custom endpoint so that
// S3-compatible providers work alongside AWS itself.
func newS3Store(cfg Config) (*s3Store, error) {
	sdkCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKeyID,
			cfg.S3SecretAccessKey,
			"",
		)),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		logx.Error(err, "Failed to load AWS SDK config")
		return nil, errors.New("failed to initialize S3 client configuration")
	}

	client := s3.NewFromConfig(sdkCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		o.UsePathStyle = true
	})

	return &s3Store{
		cfg:      cfg,
		client:   client,
		uploader: manager.NewUploader(client),
	}, nil
}

func (s *s3Store) Save(ctx context.Context, originalName, contentType string, r io.Reader) (string, error) {
	key := storedName(originalName, time.Now())

	input := &s3.PutObjectInput{
		Bucket: &s.cfg.S3BucketName,
		Key:    &key,
		Body:   r,
	}
	if contentType != "" {
		input.ContentType = &contentType
	}

	if _, err := s.uploader.Upload(ctx, input); err != nil {
		logx.Error(err, "S3 upload failed", "key", key)
		return "", errors.New("failed to store file in S3")
	}

	return "uploads/" + key, nil
}

func (s *s3Store) List(ctx context.Context) ([]FileInfo, error) {
	var files []FileInfo

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: &s.cfg.S3BucketName,
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			logx.Error(err, "S3 list failed", "bucket", s.cfg.S3BucketName)
			return nil, errors.New("failed to list files in S3")
		}

		for _, obj := range page.Contents {
			if obj.Key == nil {
				continue
			}

			info := FileInfo{Name: *obj.Key}
			if obj.Size != nil {
				info.Size = *obj.Size
			}
			if obj.LastModified != nil {
				info.UploadDate = *obj.LastModified
			}

			files = append(files, info)
		}
	}

	return files, nil
}

func (s *s3Store) Serve(w http.ResponseWriter, r *http.Request, name string) {
	presignClient := s3.NewPresignClient(s.client)

	resp, err := presignClient.PresignGetObject(r.Context(), &s3.GetObjectInput{
		Bucket: &s.cfg.S3BucketName,
		Key:    &name,
	}, s3.WithPresignExpires(presignedURLDuration))

	if err != nil {
		logx.Error(err, "Failed to presign download URL", "key", name)
		http.NotFound(w, r)
		return
	}

	http.Redirect(w, r, resp.URL, http.StatusFound)
}
