package productedit

import "fmt"

// FieldUpdate changes one scalar field of a product draft. The set of
// implementations is closed; each field has its own type.
type FieldUpdate interface {
	applyTo(d *ProductDraft) error
}

type (
	TitleUpdate       string
	DescriptionUpdate string
	ProductTypeUpdate string
	VendorUpdate      string
	StatusUpdate      Status
	// TagsUpdate carries the raw comma separated tag input.
	TagsUpdate string
)

func (u TitleUpdate) applyTo(d *ProductDraft) error       { d.Title = string(u); return nil }
func (u DescriptionUpdate) applyTo(d *ProductDraft) error { d.Description = string(u); return nil }
func (u ProductTypeUpdate) applyTo(d *ProductDraft) error { d.ProductType = string(u); return nil }
func (u VendorUpdate) applyTo(d *ProductDraft) error      { d.Vendor = string(u); return nil }
func (u TagsUpdate) applyTo(d *ProductDraft) error        { d.Tags = string(u); return nil }

func (u StatusUpdate) applyTo(d *ProductDraft) error {
	if !Status(u).valid() {
		return fmt.Errorf("%w: status %q", ErrInvalidField, string(u))
	}
	d.Status = Status(u)
	return nil
}

// VariantFieldUpdate changes one scalar field of a variant draft.
type VariantFieldUpdate interface {
	applyTo(v *VariantDraft) error
}

type (
	VariantTitleUpdate    string
	PriceUpdate           float64
	SKUUpdate             string
	InventoryPolicyUpdate InventoryPolicy
	Option1Update         string
	AvailableUpdate       int
	CostUpdate            float64
)

func (u VariantTitleUpdate) applyTo(v *VariantDraft) error { v.Title = string(u); return nil }
func (u SKUUpdate) applyTo(v *VariantDraft) error          { v.SKU = string(u); return nil }
func (u Option1Update) applyTo(v *VariantDraft) error      { v.Option1 = string(u); return nil }

func (u PriceUpdate) applyTo(v *VariantDraft) error {
	if u < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidField)
	}
	v.Price = float64(u)
	return nil
}

func (u CostUpdate) applyTo(v *VariantDraft) error {
	if u < 0 {
		return fmt.Errorf("%w: cost must not be negative", ErrInvalidField)
	}
	v.Cost = float64(u)
	return nil
}

func (u AvailableUpdate) applyTo(v *VariantDraft) error {
	if u < 0 {
		return fmt.Errorf("%w: available must not be negative", ErrInvalidField)
	}
	v.Available = int(u)
	return nil
}

func (u InventoryPolicyUpdate) applyTo(v *VariantDraft) error {
	if !InventoryPolicy(u).valid() {
		return fmt.Errorf("%w: inventory policy %q", ErrInvalidField, string(u))
	}
	v.InventoryPolicy = InventoryPolicy(u)
	return nil
}

// Apply applies a product field update.
func (d *ProductDraft) Apply(u FieldUpdate) error {
	return u.applyTo(d)
}

// ApplyVariant applies a field update to the variant at index.
func (d *ProductDraft) ApplyVariant(index int, u VariantFieldUpdate) error {
	if index < 0 || index >= len(d.Variants) {
		return fmt.Errorf("%w: variant %d", ErrInvalidScope, index)
	}
	return u.applyTo(&d.Variants[index])
}
