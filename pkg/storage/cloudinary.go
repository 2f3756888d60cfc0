package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// MediaStorage holds avatar images; the core only keeps the returned URL.
type MediaStorage interface {
	// UploadImage uploads an image and returns its public URL.
	UploadImage(ctx context.Context, r io.Reader, fileName string) (string, error)
	// DeleteImage removes an image previously returned by UploadImage.
	DeleteImage(ctx context.Context, fileURL string) error
}

type Options struct {
	URL       string
	CloudName string
	Folder    string
}

type cloudinaryStorage struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryStorage builds the Cloudinary client from CLOUDINARY_URL (or the SDK's
// environment lookup when opts.URL is empty).
func NewCloudinaryStorage(opts Options) (MediaStorage, error) {
	var (
		cld *cloudinary.Cloudinary
		err error
	)
	if opts.URL != "" {
		cld, err = cloudinary.NewFromURL(opts.URL)
	} else {
		cld, err = cloudinary.New()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary client: %w", err)
	}

	cld.Config.URL.Secure = true
	if opts.CloudName != "" {
		cld.Config.Cloud.CloudName = opts.CloudName
	}

	return &cloudinaryStorage{cld: cld, folder: opts.Folder}, nil
}

func (s *cloudinaryStorage) UploadImage(ctx context.Context, r io.Reader, fileName string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	params := uploader.UploadParams{
		Folder:         s.folder + "/avatars",
		PublicID:       fmt.Sprintf("%d-%s", time.Now().UnixNano(), base),
		UniqueFilename: api.Bool(true),
		Overwrite:      api.Bool(false),
		Format:         "webp",
		Transformation: "c_fill,g_face,w_256,h_256/q_auto",
	}

	resp, err := s.cld.Upload.Upload(ctx, r, params)
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar to cloudinary: %w", err)
	}
	if resp.SecureURL == "" {
		return "", fmt.Errorf("cloudinary upload succeeded but secure URL is empty")
	}

	return resp.SecureURL, nil
}

func (s *cloudinaryStorage) DeleteImage(ctx context.Context, fileURL string) error {
	publicID := PublicIDFromURL(fileURL)
	if publicID == "" {
		return fmt.Errorf("could not extract public ID from URL: %s", fileURL)
	}

	resp, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:   publicID,
		Invalidate: api.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("failed to delete avatar from cloudinary: %w", err)
	}
	if resp.Result != "ok" && resp.Result != "not found" {
		return fmt.Errorf("cloudinary destroy api returned result: %s", resp.Result)
	}

	return nil
}

// PublicIDFromURL turns .../image/upload/v123/folder/name.webp into folder/name.
func PublicIDFromURL(fileURL string) string {
	u, err := url.Parse(fileURL)
	if err != nil {
		return ""
	}

	parts := strings.Split(u.Path, "/")
	for i, p := range parts {
		if p != "upload" {
			continue
		}
		rest := parts[i+1:]
		if len(rest) > 0 && isVersionSegment(rest[0]) {
			rest = rest[1:]
		}
		if len(rest) == 0 {
			return ""
		}
		joined := strings.Join(rest, "/")
		return strings.TrimSuffix(joined, filepath.Ext(joined))
	}
	return ""
}

func isVersionSegment(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
