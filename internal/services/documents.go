// internal/services/documents.go
package services

import (
	"context"
	nethttp "net/http"

	"formalization-guide/internal/common/config"
	"formalization-guide/internal/common/errors"
	"formalization-guide/internal/common/logger"
	"formalization-guide/internal/common/observability"
	"formalization-guide/internal/models"
)

// DocumentClient talks to the remote document service. Upload constraints
// are checked locally so invalid files never reach the presign endpoint.
type DocumentClient struct {
	rest   *restClient
	upload config.UploadConfig
}

func NewDocumentClient(cfg config.ServiceEndpoint, upload config.UploadConfig, log logger.Logger, obs *observability.Observability) *DocumentClient {
	return &DocumentClient{
		rest:   newRESTClient(cfg, log.WithFields(map[string]interface{}{"service": "documents"}), obs),
		upload: upload,
	}
}

type presignRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	SizeBytes   int64  `json:"sizeBytes"`
}

func (c *DocumentClient) PresignUpload(ctx context.Context, filename, contentType string, sizeBytes int64) (PresignedUpload, error) {
	if err := c.validateUpload(contentType, sizeBytes); err != nil {
		return PresignedUpload{}, err
	}

	req := presignRequest{Filename: filename, ContentType: contentType, SizeBytes: sizeBytes}
	var grant PresignedUpload
	if err := c.rest.doJSON(ctx, nethttp.MethodPost, "/documents/presign", req, &grant); err != nil {
		return PresignedUpload{}, err
	}
	return grant, nil
}

type registerDocumentRequest struct {
	DocType  string `json:"docType"`
	FileURL  string `json:"fileUrl"`
	FileKey  string `json:"fileKey"`
	Filename string `json:"filename"`
}

func (c *DocumentClient) RegisterDocument(ctx context.Context, docType, fileURL, fileKey, filename string) (models.Document, error) {
	req := registerDocumentRequest{DocType: docType, FileURL: fileURL, FileKey: fileKey, Filename: filename}
	var doc models.Document
	if err := c.rest.doJSON(ctx, nethttp.MethodPost, "/documents", req, &doc); err != nil {
		return models.Document{}, err
	}
	return doc, nil
}

func (c *DocumentClient) validateUpload(contentType string, sizeBytes int64) error {
	if sizeBytes > c.upload.MaxSizeBytes {
		return errors.NewFileTooLargeError(sizeBytes, c.upload.MaxSizeBytes)
	}
	for _, accepted := range c.upload.AcceptedTypes {
		if contentType == accepted {
			return nil
		}
	}
	return errors.NewUnsupportedFileTypeError(contentType)
}
