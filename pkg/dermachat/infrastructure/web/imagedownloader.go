package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"time"

	"github.com/PuerkitoBio/goquery"

	"kgeyst.com/dermachat/pkg/common"
	"kgeyst.com/dermachat/pkg/dermachat/domain"
	"kgeyst.com/dermachat/pkg/dermachat/infrastructure/filesystem"
)

const maxPageSize = 2 * 1024 * 1024

var ErrNoImageFound = errors.New("no image found on the page")

// ImageDownloader fetches an image by URL. Links to HTML pages are followed to the image the page advertises for
// previews (og:image or twitter:image).
type ImageDownloader struct {
	imageLoader *filesystem.ImageLoader
	timeout     time.Duration
}

// NewImageDownloader limits a whole download (page and image together) to `timeout`.
func NewImageDownloader(imageLoader *filesystem.ImageLoader, timeout time.Duration) *ImageDownloader {
	return &ImageDownloader{
		imageLoader: imageLoader,
		timeout:     timeout,
	}
}

func (d *ImageDownloader) Download(ctx context.Context, rawURL string) (*domain.CapturedImage, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	imageURL, err := d.ResolveImageURL(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	data, err := common.ReadAllFromURL(ctx, imageURL, d.imageLoader.MaxImageSize())
	if err != nil {
		return nil, err
	}
	return d.imageLoader.NewImage(fileNameOf(imageURL), data)
}

// ResolveImageURL returns the URL as is if it looks like an image, otherwise the preview image of the page.
func (d *ImageDownloader) ResolveImageURL(ctx context.Context, rawURL string) (string, error) {
	if common.IsImageURL(rawURL) {
		return rawURL, nil
	}
	page, err := common.ReadAllFromURL(ctx, rawURL, maxPageSize)
	if err != nil {
		return "", err
	}
	document, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return "", err
	}
	for _, selector := range []string{`meta[property="og:image"]`, `meta[name="twitter:image"]`} {
		content, ok := document.Find(selector).First().Attr("content")
		if ok && content != "" {
			return resolveReference(rawURL, content)
		}
	}
	return "", fmt.Errorf("%s: %w", rawURL, ErrNoImageFound)
}

func resolveReference(pageURL, reference string) (string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", err
	}
	resolved, err := base.Parse(reference)
	if err != nil {
		return "", err
	}
	return resolved.String(), nil
}

func fileNameOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "download"
	}
	name := path.Base(parsed.Path)
	if name == "/" || name == "." {
		return "download"
	}
	return name
}
