package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStore keeps proofs in a Cloudinary folder. The ref is the asset's
// public ID.
type CloudinaryStore struct {
	cld       *cloudinary.Cloudinary
	cloudName string
	folder    string
}

func NewCloudinaryStore(cloudName, apiKey, apiSecret, folder string) (*CloudinaryStore, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("cloudinary not configured")
	}
	cld, err := cloudinary.NewFromURL(fmt.Sprintf("cloudinary://%s:%s@%s", apiKey, apiSecret, cloudName))
	if err != nil {
		return nil, err
	}
	return &CloudinaryStore{cld: cld, cloudName: cloudName, folder: folder}, nil
}

func (s *CloudinaryStore) Save(ctx context.Context, r io.Reader, originalName string) (string, error) {
	publicID := strings.TrimSuffix(GenerateRef(originalName), filepath.Ext(originalName))

	overwrite := false
	unique := true
	up, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:         s.folder,
		PublicID:       publicID,
		Overwrite:      &overwrite,
		UniqueFilename: &unique,
		ResourceType:   "auto", // proofs may be images or PDFs
	})
	if err != nil {
		return "", err
	}
	return up.PublicID, nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, ref string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: ref})
	return err
}

func (s *CloudinaryStore) URL(ref string) string {
	return fmt.Sprintf("https://res.cloudinary.com/%s/image/upload/%s", s.cloudName, ref)
}
