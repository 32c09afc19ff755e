// ABOUTME: Place image listing and multipart upload with a JSON-encoded caption array
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/tripnara/tripnara-go/internal/httpclient"
	"github.com/tripnara/tripnara-go/internal/models"
)

type UploadService struct {
	c *httpclient.Client
}

// Image is one file to upload.
type Image struct {
	Name    string
	Content []byte
}

func placeImagesPath(placeID int64) string {
	return "/upload/place/" + strconv.FormatInt(placeID, 10) + "/images"
}

func (s *UploadService) PlaceImages(ctx context.Context, placeID int64) (*models.PlaceImages, error) {
	return ptr(httpclient.JSON[models.PlaceImages](ctx, s.c, httpclient.Get(placeImagesPath(placeID))))
}

// UploadPlaceImages sends every image as a "files" part. Captions, when given, pair with images by index.
func (s *UploadService) UploadPlaceImages(ctx context.Context, placeID int64, images []Image, captions []string) (*models.UploadedImages, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("no images to upload")
	}
	if len(captions) > len(images) {
		return nil, fmt.Errorf("%d captions for %d images", len(captions), len(images))
	}
	form := &httpclient.Multipart{Fields: map[string]string{}}
	for _, img := range images {
		form.Files = append(form.Files, httpclient.File{Field: "files", Name: img.Name, Content: img.Content})
	}
	if len(captions) > 0 {
		encoded, err := json.Marshal(captions)
		if err != nil {
			return nil, err
		}
		form.Fields["captions"] = string(encoded)
	}
	req := httpclient.Post(placeImagesPath(placeID), nil).WithMultipart(form).WithTimeout(EngineTimeout)
	return ptr(httpclient.JSON[models.UploadedImages](ctx, s.c, req))
}
