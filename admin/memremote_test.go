package admin

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Kariqs/amexan-catalog/productedit"
)

var errNotFound = errors.New("404 not found")

// memRemote is an in-memory catalog: enough state for an editor to create,
// update and reload products.
type memRemote struct {
	mu       sync.Mutex
	nextID   int
	products map[string]*productedit.Product
	owners   map[string]string // variant id -> product id
	reorders int
}

func newMemRemote() *memRemote {
	return &memRemote{products: map[string]*productedit.Product{}, owners: map[string]string{}}
}

func (m *memRemote) id() string {
	m.nextID++
	return fmt.Sprintf("%d", m.nextID)
}

func (m *memRemote) upsertVariants(p *productedit.Product, in []productedit.VariantPayload) []productedit.VariantResult {
	for _, v := range in {
		if v.ID != "" {
			for i := range p.Variants {
				if p.Variants[i].ID == v.ID {
					images := p.Variants[i].Images
					p.Variants[i] = productedit.Variant{ID: v.ID, Title: v.Title, Price: v.Price, SKU: v.SKU, InventoryPolicy: v.InventoryPolicy, Images: images}
				}
			}
			continue
		}
		id := m.id()
		m.owners[id] = p.ID
		p.Variants = append(p.Variants, productedit.Variant{ID: id, Title: v.Title, Price: v.Price, SKU: v.SKU, InventoryPolicy: v.InventoryPolicy})
	}
	out := make([]productedit.VariantResult, 0, len(p.Variants))
	for _, v := range p.Variants {
		out = append(out, productedit.VariantResult{ID: v.ID, Title: v.Title})
	}
	return out
}

func (m *memRemote) CreateProduct(_ context.Context, _ string, payload productedit.CreateProductPayload) (productedit.ProductResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := &productedit.Product{ID: m.id(), Title: payload.Title, Status: payload.Status, Tags: payload.Tags}
	m.products[p.ID] = p
	return productedit.ProductResult{ID: p.ID, Variants: m.upsertVariants(p, payload.Variants)}, nil
}

func (m *memRemote) UpdateProduct(_ context.Context, _ string, productID string, payload productedit.UpdateProductPayload) (productedit.ProductResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[productID]
	if !ok {
		return productedit.ProductResult{}, errNotFound
	}
	p.Title, p.Status, p.Tags = payload.Title, payload.Status, payload.Tags
	return productedit.ProductResult{ID: p.ID, Variants: m.upsertVariants(p, payload.Variants)}, nil
}

func (m *memRemote) GetProduct(_ context.Context, _ string, productID string) (productedit.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[productID]
	if !ok {
		return productedit.Product{}, errNotFound
	}
	out := *p
	out.Images = append([]productedit.ImageRef(nil), p.Images...)
	out.Variants = append([]productedit.Variant(nil), p.Variants...)
	return out, nil
}

func (m *memRemote) images(ownerID string, variant bool) (*[]productedit.ImageRef, error) {
	if !variant {
		p, ok := m.products[ownerID]
		if !ok {
			return nil, errNotFound
		}
		return &p.Images, nil
	}
	p, ok := m.products[m.owners[ownerID]]
	if !ok {
		return nil, errNotFound
	}
	for i := range p.Variants {
		if p.Variants[i].ID == ownerID {
			return &p.Variants[i].Images, nil
		}
	}
	return nil, errNotFound
}

func (m *memRemote) upload(ownerID string, variant bool, u productedit.ImageUpload) (productedit.ImageRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list, err := m.images(ownerID, variant)
	if err != nil {
		return productedit.ImageRef{}, err
	}
	ref := productedit.ImageRef{ID: m.id(), URL: "https://cdn.test/" + u.File.Name, AltText: u.AltText}
	*list = append(*list, ref)
	return ref, nil
}

func (m *memRemote) remove(ownerID string, variant bool, imageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list, err := m.images(ownerID, variant)
	if err != nil {
		return err
	}
	for i, img := range *list {
		if img.ID == imageID {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return nil
		}
	}
	return errNotFound
}

func (m *memRemote) DeleteProductImage(_ context.Context, _ string, productID, imageID string) error {
	return m.remove(productID, false, imageID)
}

func (m *memRemote) DeleteVariantImage(_ context.Context, _ string, variantID, imageID string) error {
	return m.remove(variantID, true, imageID)
}

func (m *memRemote) UploadProductImage(_ context.Context, _ string, productID string, u productedit.ImageUpload) (productedit.ImageRef, error) {
	return m.upload(productID, false, u)
}

func (m *memRemote) UploadVariantImage(_ context.Context, _ string, variantID string, u productedit.ImageUpload) (productedit.ImageRef, error) {
	return m.upload(variantID, true, u)
}

func (m *memRemote) ReorderProductImages(_ context.Context, _ string, productID string, items []productedit.ReorderItem) error {
	return m.reorder(productID, false, items)
}

func (m *memRemote) ReorderVariantImages(_ context.Context, _ string, variantID string, items []productedit.ReorderItem) error {
	return m.reorder(variantID, true, items)
}

func (m *memRemote) reorder(ownerID string, variant bool, items []productedit.ReorderItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list, err := m.images(ownerID, variant)
	if err != nil {
		return err
	}
	ordered := make([]productedit.ImageRef, len(*list))
	placed := 0
	for _, item := range items {
		for _, img := range *list {
			if img.ID == item.ImageID && item.Position < len(ordered) {
				ordered[item.Position] = img
				placed++
			}
		}
	}
	if placed != len(*list) {
		return fmt.Errorf("reorder: %d of %d images placed", placed, len(*list))
	}
	*list = ordered
	m.reorders++
	return nil
}
