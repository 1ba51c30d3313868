// Package catalogapi talks to the catalog API over HTTP. Client implements
// productedit.Remote.
package catalogapi

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Kariqs/amexan-catalog/productedit"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const defaultTimeout = 20 * time.Second

// APIError is a non-2xx answer from the catalog API.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	Detail     string `json:"error"`
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Detail != "" {
		return fmt.Sprintf("%d %s: %s", e.StatusCode, msg, e.Detail)
	}
	return fmt.Sprintf("%d %s", e.StatusCode, msg)
}

type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

var _ productedit.Remote = (*Client)(nil)

func New(baseURL string, logger *zap.Logger) *Client {
	return NewWithClient(resty.New().SetBaseURL(strings.TrimRight(baseURL, "/")).SetTimeout(defaultTimeout), logger)
}

// NewWithClient wraps a configured resty client.
func NewWithClient(rc *resty.Client, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	rc.SetHeader("Accept", "application/json")
	rc.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		logger.Debug("catalog api call",
			zap.String("method", resp.Request.Method),
			zap.String("url", resp.Request.URL),
			zap.Int("status", resp.StatusCode()),
			zap.Duration("took", resp.Time()),
		)
		return nil
	})
	return &Client{http: rc, logger: logger}
}

func (c *Client) request(ctx context.Context, credential string) *resty.Request {
	return c.http.R().
		SetContext(ctx).
		SetAuthToken(credential).
		SetError(&APIError{})
}

func check(op string, resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("catalogapi: %s: %w", op, err)
	}
	if resp.IsSuccess() {
		return nil
	}
	apiErr, _ := resp.Error().(*APIError)
	if apiErr == nil {
		apiErr = &APIError{}
	}
	apiErr.StatusCode = resp.StatusCode()
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(resp.Body()))
	}
	return fmt.Errorf("catalogapi: %s: %w", op, apiErr)
}

func (c *Client) CreateProduct(ctx context.Context, credential string, payload productedit.CreateProductPayload) (productedit.ProductResult, error) {
	var out productedit.ProductResult
	resp, err := c.request(ctx, credential).
		SetBody(payload).
		SetResult(&out).
		Post("/product")
	if err := check("create product", resp, err); err != nil {
		return productedit.ProductResult{}, err
	}
	return out, nil
}

func (c *Client) UpdateProduct(ctx context.Context, credential, productID string, payload productedit.UpdateProductPayload) (productedit.ProductResult, error) {
	var out productedit.ProductResult
	resp, err := c.request(ctx, credential).
		SetPathParam("id", productID).
		SetBody(payload).
		SetResult(&out).
		Put("/product/{id}")
	if err := check("update product", resp, err); err != nil {
		return productedit.ProductResult{}, err
	}
	return out, nil
}

func (c *Client) GetProduct(ctx context.Context, credential, productID string) (productedit.Product, error) {
	var out productedit.Product
	resp, err := c.request(ctx, credential).
		SetPathParam("id", productID).
		SetResult(&out).
		Get("/product/{id}")
	if err := check("get product", resp, err); err != nil {
		return productedit.Product{}, err
	}
	return out, nil
}

func (c *Client) DeleteProductImage(ctx context.Context, credential, productID, imageID string) error {
	return c.deleteImage(ctx, credential, "/product/{id}/images/{imageId}", productID, imageID)
}

func (c *Client) DeleteVariantImage(ctx context.Context, credential, variantID, imageID string) error {
	return c.deleteImage(ctx, credential, "/variant/{id}/images/{imageId}", variantID, imageID)
}

func (c *Client) deleteImage(ctx context.Context, credential, path, ownerID, imageID string) error {
	resp, err := c.request(ctx, credential).
		SetPathParams(map[string]string{"id": ownerID, "imageId": imageID}).
		Delete(path)
	return check("delete image "+imageID, resp, err)
}

func (c *Client) UploadProductImage(ctx context.Context, credential, productID string, upload productedit.ImageUpload) (productedit.ImageRef, error) {
	return c.uploadImage(ctx, credential, "/product/{id}/images", productID, upload)
}

func (c *Client) UploadVariantImage(ctx context.Context, credential, variantID string, upload productedit.ImageUpload) (productedit.ImageRef, error) {
	return c.uploadImage(ctx, credential, "/variant/{id}/images", variantID, upload)
}

func (c *Client) uploadImage(ctx context.Context, credential, path, ownerID string, upload productedit.ImageUpload) (productedit.ImageRef, error) {
	form := map[string]string{}
	if upload.AltText != "" {
		form["altText"] = upload.AltText
	}
	if upload.Position != nil {
		form["position"] = strconv.Itoa(*upload.Position)
	}

	var out productedit.ImageRef
	resp, err := c.request(ctx, credential).
		SetPathParam("id", ownerID).
		SetFileReader("image", upload.File.Name, bytes.NewReader(upload.File.Data)).
		SetFormData(form).
		SetResult(&out).
		Post(path)
	if err := check("upload image "+upload.File.Name, resp, err); err != nil {
		return productedit.ImageRef{}, err
	}
	return out, nil
}

type reorderBody struct {
	Items []productedit.ReorderItem `json:"items"`
}

func (c *Client) ReorderProductImages(ctx context.Context, credential, productID string, items []productedit.ReorderItem) error {
	return c.reorder(ctx, credential, "/product/{id}/images/order", productID, items)
}

func (c *Client) ReorderVariantImages(ctx context.Context, credential, variantID string, items []productedit.ReorderItem) error {
	return c.reorder(ctx, credential, "/variant/{id}/images/order", variantID, items)
}

func (c *Client) reorder(ctx context.Context, credential, path, ownerID string, items []productedit.ReorderItem) error {
	if items == nil {
		items = []productedit.ReorderItem{}
	}
	resp, err := c.request(ctx, credential).
		SetPathParam("id", ownerID).
		SetBody(reorderBody{Items: items}).
		Put(path)
	return check("reorder images", resp, err)
}
