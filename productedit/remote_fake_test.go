package productedit

import (
	"context"
	"fmt"
	"sync"
)

type call struct {
	Op       string
	EntityID string
	ImageID  string
	Upload   ImageUpload
	Items    []ReorderItem
}

// fakeRemote records every call in order. failOn maps "op:entity:image"
// or "op:entity" keys to the error the call should return.
type fakeRemote struct {
	mu    sync.Mutex
	calls []call

	created       []CreateProductPayload
	updated       []UpdateProductPayload
	createResult  ProductResult
	updateResult  ProductResult
	createErr     error
	updateErr     error
	getErr        error
	product       Product
	failOn        map[string]error
	uploadCounter int
}

func (f *fakeRemote) record(c call) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

func (f *fakeRemote) fail(keys ...string) error {
	for _, k := range keys {
		if err, ok := f.failOn[k]; ok {
			return err
		}
	}
	return nil
}

func (f *fakeRemote) CreateProduct(_ context.Context, _ string, p CreateProductPayload) (ProductResult, error) {
	f.record(call{Op: "createProduct"})
	f.created = append(f.created, p)
	return f.createResult, f.createErr
}

func (f *fakeRemote) UpdateProduct(_ context.Context, _ string, id string, p UpdateProductPayload) (ProductResult, error) {
	f.record(call{Op: "updateProduct", EntityID: id})
	f.updated = append(f.updated, p)
	return f.updateResult, f.updateErr
}

func (f *fakeRemote) GetProduct(_ context.Context, _ string, id string) (Product, error) {
	f.record(call{Op: "getProduct", EntityID: id})
	if f.getErr != nil {
		return Product{}, f.getErr
	}
	p := f.product
	p.ID = id
	return p, nil
}

func (f *fakeRemote) DeleteProductImage(_ context.Context, _ string, productID, imageID string) error {
	f.record(call{Op: "deleteProductImage", EntityID: productID, ImageID: imageID})
	return f.fail("deleteProductImage:" + productID + ":" + imageID)
}

func (f *fakeRemote) DeleteVariantImage(_ context.Context, _ string, variantID, imageID string) error {
	f.record(call{Op: "deleteVariantImage", EntityID: variantID, ImageID: imageID})
	return f.fail("deleteVariantImage:" + variantID + ":" + imageID)
}

func (f *fakeRemote) UploadProductImage(_ context.Context, _ string, productID string, u ImageUpload) (ImageRef, error) {
	f.record(call{Op: "uploadProductImage", EntityID: productID, Upload: u})
	if err := f.fail("uploadProductImage:"+productID+":"+u.File.Name, "uploadProductImage:"+productID); err != nil {
		return ImageRef{}, err
	}
	return f.uploaded(u), nil
}

func (f *fakeRemote) UploadVariantImage(_ context.Context, _ string, variantID string, u ImageUpload) (ImageRef, error) {
	f.record(call{Op: "uploadVariantImage", EntityID: variantID, Upload: u})
	if err := f.fail("uploadVariantImage:"+variantID+":"+u.File.Name, "uploadVariantImage:"+variantID); err != nil {
		return ImageRef{}, err
	}
	return f.uploaded(u), nil
}

func (f *fakeRemote) uploaded(u ImageUpload) ImageRef {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploadCounter++
	return ImageRef{
		ID:      fmt.Sprintf("img-new-%d", f.uploadCounter),
		URL:     "https://cdn.example.com/" + u.File.Name,
		AltText: u.AltText,
	}
}

func (f *fakeRemote) ReorderProductImages(_ context.Context, _ string, productID string, items []ReorderItem) error {
	f.record(call{Op: "reorderProductImages", EntityID: productID, Items: items})
	return f.fail("reorderProductImages:" + productID)
}

func (f *fakeRemote) ReorderVariantImages(_ context.Context, _ string, variantID string, items []ReorderItem) error {
	f.record(call{Op: "reorderVariantImages", EntityID: variantID, Items: items})
	return f.fail("reorderVariantImages:" + variantID)
}

func (f *fakeRemote) ops() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.Op
	}
	return out
}

func (f *fakeRemote) callsFor(op string) []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []call
	for _, c := range f.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeRemote) imageCalls() int {
	n := 0
	for _, op := range f.ops() {
		switch op {
		case "uploadProductImage", "uploadVariantImage", "deleteProductImage", "deleteVariantImage":
			n++
		}
	}
	return n
}
