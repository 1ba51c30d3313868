package productedit

import (
	"fmt"
	"strings"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusDraft    Status = "draft"
	StatusArchived Status = "archived"
)

func (s Status) valid() bool {
	switch s {
	case StatusActive, StatusDraft, StatusArchived:
		return true
	}
	return false
}

type InventoryPolicy string

const (
	InventoryDeny     InventoryPolicy = "deny"
	InventoryContinue InventoryPolicy = "continue"
)

func (p InventoryPolicy) valid() bool {
	return p == InventoryDeny || p == InventoryContinue
}

// ImageRef is an image as shown in the edit form. ID is empty until the
// backend has persisted the image.
type ImageRef struct {
	ID       string `json:"id,omitempty"`
	URL      string `json:"url"`
	AltText  string `json:"altText,omitempty"`
	Position *int   `json:"position,omitempty"`
}

// ProductDraft is the in-memory product being edited. An empty ID selects
// the create path on commit.
type ProductDraft struct {
	ID          string
	Title       string `validate:"required"`
	Description string
	ProductType string
	Vendor      string
	Status      Status `validate:"oneof=active draft archived"`
	// Tags is the raw comma separated input.
	Tags     string
	Media    Ledger
	Variants []VariantDraft `validate:"min=1,dive"`
}

type VariantDraft struct {
	ID              string
	Title           string          `validate:"required"`
	Price           float64         `validate:"gte=0"`
	SKU             string          `validate:"required"`
	InventoryPolicy InventoryPolicy `validate:"oneof=deny continue"`
	Option1         string
	Available       int     `validate:"gte=0"`
	Cost            float64 `validate:"gte=0"`
	Media           Ledger
}

// NewDraft returns an empty draft for a product that does not exist yet.
func NewDraft() *ProductDraft {
	return &ProductDraft{Status: StatusDraft}
}

// NewDraftFromProduct seeds a draft from server state. The images of each
// scope become both the accepted list and the originals used by undo.
func NewDraftFromProduct(p Product) *ProductDraft {
	d := &ProductDraft{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		ProductType: p.ProductType,
		Vendor:      p.Vendor,
		Status:      p.Status,
		Tags:        strings.Join(p.Tags, ", "),
		Media:       newLedger(p.Images),
	}
	for _, v := range p.Variants {
		d.Variants = append(d.Variants, VariantDraft{
			ID:              v.ID,
			Title:           v.Title,
			Price:           v.Price,
			SKU:             v.SKU,
			InventoryPolicy: v.InventoryPolicy,
			Option1:         v.Option1,
			Available:       v.Available,
			Cost:            v.Cost,
			Media:           newLedger(v.Images),
		})
	}
	return d
}

// IsNew reports whether the product has never been persisted.
func (d *ProductDraft) IsNew() bool {
	return d.ID == ""
}

func (d *ProductDraft) AddVariant(v VariantDraft) int {
	v.ID = ""
	v.Media = Ledger{}
	if v.InventoryPolicy == "" {
		v.InventoryPolicy = InventoryDeny
	}
	d.Variants = append(d.Variants, v)
	return len(d.Variants) - 1
}

// RemoveVariant drops a variant that has not been created yet. Persisted
// variants cannot be removed from the form because the backend offers no
// variant delete.
func (d *ProductDraft) RemoveVariant(index int) error {
	if index < 0 || index >= len(d.Variants) {
		return fmt.Errorf("%w: variant %d", ErrInvalidScope, index)
	}
	if d.Variants[index].ID != "" {
		return fmt.Errorf("%w: variant %q", ErrVariantPersisted, d.Variants[index].Title)
	}
	d.Variants = append(d.Variants[:index], d.Variants[index+1:]...)
	return nil
}

// ParseTags splits comma separated input, trims entries, drops empties and
// keeps the first occurrence of each tag.
func ParseTags(raw string) []string {
	tags := []string{}
	seen := make(map[string]struct{})
	for _, part := range strings.Split(raw, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

// ledger returns the ledger owning scope.
func (d *ProductDraft) ledger(scope Scope) (*Ledger, error) {
	if scope.IsProduct() {
		return &d.Media, nil
	}
	i := scope.VariantIndex()
	if i < 0 || i >= len(d.Variants) {
		return nil, fmt.Errorf("%w: variant %d", ErrInvalidScope, i)
	}
	return &d.Variants[i].Media, nil
}

// entityID is the server identifier of the entity owning scope, or "".
func (d *ProductDraft) entityID(scope Scope) (string, error) {
	if scope.IsProduct() {
		return d.ID, nil
	}
	i := scope.VariantIndex()
	if i < 0 || i >= len(d.Variants) {
		return "", fmt.Errorf("%w: variant %d", ErrInvalidScope, i)
	}
	return d.Variants[i].ID, nil
}

func (d *ProductDraft) clearLedgers() {
	d.Media.clear()
	for i := range d.Variants {
		d.Variants[i].Media.clear()
	}
}

func (d *ProductDraft) hasPending() bool {
	if d.Media.HasPending() {
		return true
	}
	for _, v := range d.Variants {
		if v.Media.HasPending() {
			return true
		}
	}
	return false
}
