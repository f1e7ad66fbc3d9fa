// Package assets opens the images and font faces that layers refer to.
package assets

import (
	"bytes"
	"context"
	"image"
	"os"
	"strings"

	// Register decoders for the formats layer images come in.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/lmeier/layermix/pkg/cache"
	"github.com/lmeier/layermix/pkg/errors"
	"github.com/lmeier/layermix/pkg/httputil"
)

// Images opens layer images from local paths or http(s) URLs. Remote
// fetches go through the cache so a reused image downloads once.
type Images struct {
	client *httputil.Client
	cache  cache.Cache
}

// NewImages builds an Images store backed by c.
func NewImages(c cache.Cache) *Images {
	return &Images{client: httputil.NewClient(), cache: c}
}

// Open reads and decodes the image at path.
func (s *Images) Open(ctx context.Context, path string) (image.Image, error) {
	raw, err := s.read(ctx, path)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecode, err, "image %s cannot be decoded", path)
	}
	return img, nil
}

func (s *Images) read(ctx context.Context, path string) ([]byte, error) {
	if !isRemote(path) {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeDecode, err, "image %s cannot be read", path)
		}
		return raw, nil
	}

	raw, hit, err := s.cache.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	if hit {
		return raw, nil
	}
	raw, err = s.client.Fetch(ctx, path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecode, err, "image %s cannot be fetched", path)
	}
	if err := s.cache.Set(ctx, path, raw, cache.AssetTTL); err != nil {
		return nil, err
	}
	return raw, nil
}

func isRemote(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}
