// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

// Package blob stores uploaded design assets (logos, favicons) and serves
// them back under a public URL prefix.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/biozilla/internal/logging"
	"github.com/tomtom215/biozilla/internal/metrics"
)

// MaxImageSize is the largest accepted upload in bytes.
const MaxImageSize = 2 * 1024 * 1024

// Upload rejections
var (
	ErrNotImage    = errors.New("not an image")
	ErrTooLarge    = errors.New("image exceeds 2MB")
	ErrInvalidPath = errors.New("invalid upload path")
)

// Message returns the admin-facing text for an upload error.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrNotImage):
		return "Please select a valid image file."
	case errors.Is(err, ErrTooLarge):
		return "File size should not exceed 2MB."
	default:
		return "Image upload failed. Please try again."
	}
}

// Store accepts uploads and returns their public URL.
type Store interface {
	Upload(ctx context.Context, dir, name, contentType string, size int64, r io.Reader) (string, error)
}

// ValidateImage checks the declared MIME type and size before any I/O.
func ValidateImage(contentType string, size int64) error {
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/") {
		return ErrNotImage
	}
	if size > MaxImageSize {
		return ErrTooLarge
	}
	return nil
}

var (
	dirPattern  = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)
	nameUnsafe  = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
	defaultName = "upload"
)

// ObjectName returns the stored name of an upload: the sanitized base name
// followed by an underscore and the upload time in Unix milliseconds.
func ObjectName(name string, at time.Time) string {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	base = strings.Trim(nameUnsafe.ReplaceAllString(base, "_"), "._")
	if base == "" {
		base = defaultName
	}
	return base + "_" + strconv.FormatInt(at.UnixMilli(), 10)
}

// FS is a Store writing into a directory on the local filesystem.
type FS struct {
	root      *os.Root
	urlPrefix string
	now       func() time.Time
}

// NewFS opens (creating if needed) the directory dir. Stored objects are
// addressed as urlPrefix/<dir>/<object>.
func NewFS(dir, urlPrefix string) (*FS, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create blob directory: %w", err)
	}
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("open blob directory: %w", err)
	}
	return &FS{
		root:      root,
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
		now:       time.Now,
	}, nil
}

// Upload validates and writes r to dir/<ObjectName(name)>. Reads are capped
// at MaxImageSize so a lying size header cannot exceed the limit.
func (f *FS) Upload(ctx context.Context, dir, name, contentType string, size int64, r io.Reader) (string, error) {
	if err := ValidateImage(contentType, size); err != nil {
		return "", err
	}
	if !dirPattern.MatchString(dir) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, dir)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	object := ObjectName(name, f.now())
	written, err := f.write(dir, object, r)
	metrics.RecordUpload(dir, written, err)
	if err != nil {
		return "", err
	}

	logging.Ctx(ctx).Info().
		Str("dir", dir).
		Str("object", object).
		Int64("bytes", written).
		Msg("Stored uploaded asset")
	return f.urlPrefix + "/" + dir + "/" + url.PathEscape(object), nil
}

func (f *FS) write(dir, object string, r io.Reader) (int64, error) {
	if err := f.root.Mkdir(dir, 0o750); err != nil && !errors.Is(err, fs.ErrExist) {
		return 0, fmt.Errorf("create %s: %w", dir, err)
	}

	rel := dir + "/" + object
	out, err := f.root.OpenFile(rel, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", rel, err)
	}

	n, err := io.Copy(out, io.LimitReader(r, MaxImageSize+1))
	closeErr := out.Close()
	switch {
	case err == nil && n > MaxImageSize:
		err = ErrTooLarge
	case err == nil && closeErr != nil:
		err = fmt.Errorf("close %s: %w", rel, closeErr)
	case err != nil:
		err = fmt.Errorf("write %s: %w", rel, err)
	}
	if err != nil {
		_ = f.root.Remove(rel)
		return 0, err
	}
	return n, nil
}

// Handler serves stored objects. Mount it under the URL prefix.
func (f *FS) Handler() http.Handler {
	return http.StripPrefix(f.urlPrefix, http.FileServerFS(noDirFS{f.root.FS()}))
}

// Close releases the directory handle.
func (f *FS) Close() error {
	return f.root.Close()
}

// noDirFS hides directory listings.
type noDirFS struct {
	fs.FS
}

func (n noDirFS) Open(name string) (fs.File, error) {
	file, err := n.FS.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, fs.ErrNotExist
	}
	return file, nil
}
