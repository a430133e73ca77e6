package gateway

import (
	"context"
	"net/http"
)

// UploadImage attaches a base64 encoded image to a product.
func (c *Client) UploadImage(ctx context.Context, token string, req ImageUpload) error {
	return c.do(ctx, request{
		endpoint: "images.upload",
		method:   http.MethodPost,
		path:     "/images/upload",
		token:    token,
		body:     req,
	})
}
