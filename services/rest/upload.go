package rest

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/pkg/errors"

	"github.com/somalms/soma/core"
)

type progressReader struct {
	r        io.Reader
	total    int64
	sent     int64
	progress core.ProgressFunc
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	if n > 0 {
		pr.sent += int64(n)
		if pr.progress != nil {
			pr.progress(pr.sent, pr.total)
		}
	}
	return n, err
}

// Upload sends a multipart form with the longer upload timeout and no retry.
func (c *Client) Upload(
	ctx context.Context,
	path string,
	fields map[string]string,
	files []core.UploadFile,
	out interface{},
	progress core.ProgressFunc,
) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for name, val := range fields {
		if err := w.WriteField(name, val); err != nil {
			return errors.Wrapf(err, "writing field %q", name)
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.Field, f.FileName)
		if err != nil {
			return errors.Wrapf(err, "creating form file %q", f.Field)
		}
		if _, err := io.Copy(part, f.Reader); err != nil {
			return errors.Wrapf(err, "copying file %q", f.FileName)
		}
	}
	if err := w.Close(); err != nil {
		return errors.Wrap(err, "closing multipart writer")
	}

	body := &progressReader{r: &buf, total: int64(buf.Len()), progress: progress}
	return c.do(ctx, http.MethodPost, path, nil, body, w.FormDataContentType(), out, c.upload)
}
