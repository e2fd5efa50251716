package media

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"gochat/internal/common"
	"gochat/internal/config"
)

type uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3ImageHost implements common.ImageHost on an S3 bucket.
type S3ImageHost struct {
	uploader  uploader
	bucket    string
	publicURL string
	now       func() time.Time
}

func NewS3ImageHost(ctx context.Context, cfg config.MediaConfig) (*S3ImageHost, error) {
	awsConfig, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(cfg.S3Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return newS3ImageHost(manager.NewUploader(s3.NewFromConfig(awsConfig)), cfg), nil
}

func newS3ImageHost(up uploader, cfg config.MediaConfig) *S3ImageHost {
	publicURL := strings.TrimRight(cfg.S3PublicURL, "/")
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
	}
	return &S3ImageHost{uploader: up, bucket: cfg.S3Bucket, publicURL: publicURL, now: time.Now}
}

func (h *S3ImageHost) Upload(ctx context.Context, ownerID uint64, img *common.Image) (string, error) {
	key := h.key(ownerID, img.MIMEType)
	_, err := h.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(h.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(img.Data),
		ContentType:  aws.String(img.MIMEType),
		CacheControl: aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload %s: %w", key, err)
	}
	return h.publicURL + "/" + key, nil
}

// key groups images per owner and day: chat/<owner>/<yyyy-mm-dd>/<uuid><ext>
func (h *S3ImageHost) key(ownerID uint64, mimeType string) string {
	ext, _ := common.ExtensionFor(mimeType)
	return "chat/" + strconv.FormatUint(ownerID, 10) + "/" + h.now().UTC().Format("2006-01-02") + "/" + uuid.NewString() + ext
}
