package handlers

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// BlobStore accepts an uploaded file and a folder hint and returns a public
// URL plus an opaque identifier that can later delete the blob.
type BlobStore interface {
	Save(file *multipart.FileHeader, folder string) (url string, publicID string, err error)
	Remove(folder, publicID string) error
}

// DiskStorage writes uploads under Root and serves them under BaseURL.
type DiskStorage struct {
	Root    string
	BaseURL string
}

func (s DiskStorage) Save(file *multipart.FileHeader, folder string) (string, string, error) {
	extension := strings.ToLower(filepath.Ext(file.Filename))

	// The extension rides along in the public ID so Remove needs no lookup.
	publicID := uuid.NewString() + extension

	dir := filepath.Join(s.Root, filepath.FromSlash(folder))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("[UPLOAD] Save: failed to create directory %s: %v", dir, err)
		return "", "", err
	}

	fullPath := filepath.Join(dir, publicID)

	out, err := os.Create(fullPath)
	if err != nil {
		log.Printf("[UPLOAD] Save: failed to create file %s: %v", fullPath, err)
		return "", "", err
	}
	defer out.Close()

	in, err := file.Open()
	if err != nil {
		log.Printf("[UPLOAD] Save: failed to open upload %s: %v", file.Filename, err)
		return "", "", err
	}
	defer in.Close()

	if _, err := io.Copy(out, in); err != nil {
		log.Printf("[UPLOAD] Save: failed to write file %s: %v", fullPath, err)
		return "", "", err
	}

	url := strings.TrimSuffix(s.BaseURL, "/") + "/" + path.Join(folder, publicID)
	return url, publicID, nil
}

func (s DiskStorage) Remove(folder, publicID string) error {
	trimmed := strings.TrimSpace(publicID)
	if trimmed == "" {
		return nil
	}

	cleanRel := path.Clean("/" + path.Join(folder, trimmed))
	cleanRel = strings.TrimPrefix(cleanRel, "/")

	cleanBase := filepath.Clean(s.Root)
	targetPath := filepath.Join(cleanBase, filepath.FromSlash(cleanRel))
	cleanTarget := filepath.Clean(targetPath)
	if cleanTarget == cleanBase || !strings.HasPrefix(cleanTarget, cleanBase+string(os.PathSeparator)) {
		return fmt.Errorf("refusing to delete path outside upload root: %s", publicID)
	}

	if err := os.Remove(cleanTarget); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return nil
}
