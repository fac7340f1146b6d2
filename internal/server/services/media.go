package services

import (
	"context"
	"database/sql"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/dmitrijs2005/lubecatalog/internal/catalog"
	"github.com/dmitrijs2005/lubecatalog/internal/common"
	"github.com/dmitrijs2005/lubecatalog/internal/logging"
	sc "github.com/dmitrijs2005/lubecatalog/internal/server/config"
	"github.com/dmitrijs2005/lubecatalog/internal/server/models"
	"github.com/dmitrijs2005/lubecatalog/internal/server/repositories/repomanager"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// MaxMediaSize bounds a single upload.
const MaxMediaSize = 25 << 20

const presignExpiry = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

// MediaUpload describes a file the client is about to upload.
type MediaUpload struct {
	ProductID   string
	Kind        catalog.MediaKind
	FileName    string
	ContentType string
	Size        int64
}

// UploadTicket tells the client where to PUT the bytes and where they will
// be served from.
type UploadTicket struct {
	MediaID   string
	UploadURL string
	PublicURL string
}

// MediaService hands out presigned S3 uploads for product images and
// datasheets and records them in product_media.
type MediaService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	logger      logging.Logger
}

func NewMediaService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config, l logging.Logger) *MediaService {
	return &MediaService{
		db:          db,
		repomanager: m,
		config:      cfg,
		logger:      l.With("module", "media_service"),
	}
}

// StorageKey builds the object key of a new upload.
func StorageKey(productID string, kind catalog.MediaKind, mediaID, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	return fmt.Sprintf("products/%s/%s/%s%s", productID, kind, mediaID, ext)
}

func (s *MediaService) publicURL(key string) string {
	return strings.TrimRight(s.config.S3PublicBaseURL, "/") + "/" + key
}

func (s *MediaService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

func validateUpload(u MediaUpload) error {
	if !u.Kind.Valid() {
		return fmt.Errorf("%w: unknown media kind %q", common.ErrValidation, u.Kind)
	}
	if strings.TrimSpace(u.FileName) == "" {
		return fmt.Errorf("%w: file name required", common.ErrValidation)
	}
	if u.Size <= 0 || u.Size > MaxMediaSize {
		return fmt.Errorf("%w: size %d outside 1..%d bytes", common.ErrValidation, u.Size, MaxMediaSize)
	}

	ct := strings.ToLower(u.ContentType)
	switch u.Kind {
	case catalog.MediaImage:
		if !strings.HasPrefix(ct, "image/") {
			return fmt.Errorf("%w: image upload with content type %q", common.ErrValidation, u.ContentType)
		}
	case catalog.MediaDatasheet:
		if ct != "application/pdf" {
			return fmt.Errorf("%w: datasheet must be a PDF, got %q", common.ErrValidation, u.ContentType)
		}
	}
	return nil
}

// PresignUpload validates u, presigns a PUT for a fresh storage key and
// records a pending media row.
func (s *MediaService) PresignUpload(ctx context.Context, u MediaUpload) (*UploadTicket, error) {
	if err := validateUpload(u); err != nil {
		return nil, err
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("s3 config: %w", err)
	}

	id := newID()
	key := StorageKey(u.ProductID, u.Kind, id, u.FileName)
	bucket := s.config.S3Bucket

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: aws.String(u.ContentType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return nil, fmt.Errorf("presign: %w", err)
	}

	m := &models.Media{
		ID:          id,
		ProductID:   u.ProductID,
		Kind:        u.Kind,
		FileName:    u.FileName,
		ContentType: u.ContentType,
		Size:        u.Size,
		StorageKey:  key,
		PublicURL:   s.publicURL(key),
		Status:      models.UploadPending,
	}
	if err := s.repomanager.Media(s.db).Create(ctx, m); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "upload presigned", "product_id", u.ProductID, "media_id", id, "kind", u.Kind)
	return &UploadTicket{MediaID: id, UploadURL: req.URL, PublicURL: m.PublicURL}, nil
}

// CompleteUpload marks the upload as finished and returns where it is
// served. Completing twice is harmless.
func (s *MediaService) CompleteUpload(ctx context.Context, mediaID string) (*catalog.Media, error) {
	repo := s.repomanager.Media(s.db)

	m, err := repo.Get(ctx, mediaID)
	if err != nil {
		return nil, err
	}

	if m.Status != models.UploadCompleted {
		if err := repo.MarkUploaded(ctx, mediaID); err != nil {
			return nil, fmt.Errorf("error updating media: %w", err)
		}
		s.logger.Info(ctx, "upload completed", "product_id", m.ProductID, "media_id", m.ID)
	}

	return &catalog.Media{ID: m.ID, URL: m.PublicURL}, nil
}
