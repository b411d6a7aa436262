package utils

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	ErrFileTooLarge    = errors.New("file is too large")
	ErrUnsupportedFile = errors.New("unsupported file type")
)

var (
	ImageExtensions  = []string{".jpg", ".jpeg", ".png", ".gif"}
	ResumeExtensions = []string{".pdf", ".doc", ".docx"}
)

func hasExt(name string, allowed []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}

// SaveUploadedFile stores file under destDir with a random name and returns the path.
func SaveUploadedFile(file *multipart.FileHeader, destDir string, allowed []string) (string, error) {
	if len(allowed) > 0 && !hasExt(file.Filename, allowed) {
		return "", ErrUnsupportedFile
	}

	src, err := file.Open()
	if err != nil {
		return "", errors.Wrap(err, "open upload")
	}
	defer src.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", errors.Wrap(err, "create upload dir")
	}

	filePath := filepath.Join(destDir, uuid.NewString()+strings.ToLower(filepath.Ext(file.Filename)))
	dst, err := os.Create(filePath)
	if err != nil {
		return "", errors.Wrap(err, "create file")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", errors.Wrap(err, "copy upload")
	}
	return filePath, nil
}

// SaveImage stores an uploaded image no larger than maxSize bytes and fits it
// inside maxW x maxH, keeping the aspect ratio.
func SaveImage(file *multipart.FileHeader, destDir string, maxSize int64, maxW, maxH int) (string, error) {
	if maxSize > 0 && file.Size > maxSize {
		return "", ErrFileTooLarge
	}
	path, err := SaveUploadedFile(file, destDir, ImageExtensions)
	if err != nil {
		return "", err
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		_ = os.Remove(path)
		return "", errors.Wrap(ErrUnsupportedFile, err.Error())
	}
	b := img.Bounds()
	if b.Dx() > maxW || b.Dy() > maxH {
		img = imaging.Fit(img, maxW, maxH, imaging.Lanczos)
		if err := imaging.Save(img, path); err != nil {
			_ = os.Remove(path)
			return "", errors.Wrap(err, "save resized image")
		}
	}
	return path, nil
}

// RemoveFile deletes a previously stored upload; a missing file is not an error.
func RemoveFile(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove file")
	}
	return nil
}

// GetFileURL maps a stored path under uploadDir to its public /uploads URL.
func GetFileURL(uploadDir, filePath string) string {
	if filePath == "" {
		return ""
	}
	rel, err := filepath.Rel(uploadDir, filePath)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(filePath)
	}
	return "/uploads/" + filepath.ToSlash(rel)
}
