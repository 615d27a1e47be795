package api

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/dmitrijs2005/certshowcase/internal/common"
)

// UploadedFile is the server's answer to an upload.
type UploadedFile struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Upload streams r as the multipart "file" part named filename.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (*UploadedFile, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", filename)
		if err == nil {
			_, err = io.Copy(part, r)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	var out UploadedFile
	err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/api/files",
		raw:         pr,
		contentType: mw.FormDataContentType(),
		auth:        true,
	}, &out)
	pr.Close()
	if err != nil {
		return nil, err
	}
	if out.URL == "" {
		return nil, fmt.Errorf("%w: upload without url", common.ErrUnexpectedShape)
	}
	return &out, nil
}
