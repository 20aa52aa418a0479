package gateway

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"

	"go.uber.org/zap"
)

// uploadFieldName is the form field the storage service expects for
// multi-file image uploads
const uploadFieldName = "files[]"

// File is one file staged for upload
type File struct {
	Name        string
	ContentType string
	Content     []byte
}

// IsImage reports whether the file's content type declares an image
func (f File) IsImage() bool {
	return strings.HasPrefix(f.ContentType, "image/")
}

// UploadFiles posts files as multipart form data. Non-image files are
// rejected before any network call is made.
func (c *Client) UploadFiles(ctx context.Context, path string, files []File) *Envelope {
	if len(files) == 0 {
		return errorEnvelope(0, "Files are required")
	}

	for _, f := range files {
		if !f.IsImage() {
			return errorEnvelope(0, fmt.Sprintf("File %q is not an image", f.Name))
		}
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name=%q; filename=%q`, uploadFieldName, f.Name))
		hdr.Set("Content-Type", f.ContentType)
		part, err := mw.CreatePart(hdr)
		if err != nil {
			c.log.Error("failed to build multipart body", zap.String("file", f.Name), zap.Error(err))
			return errorEnvelope(0, connectFailureMessage)
		}
		if _, err := part.Write(f.Content); err != nil {
			c.log.Error("failed to write multipart body", zap.String("file", f.Name), zap.Error(err))
			return errorEnvelope(0, connectFailureMessage)
		}
	}
	if err := mw.Close(); err != nil {
		c.log.Error("failed to finalize multipart body", zap.Error(err))
		return errorEnvelope(0, connectFailureMessage)
	}

	return c.call(ctx, "POST", path, &buf, mw.FormDataContentType())
}
