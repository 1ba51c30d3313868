package admin

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/Kariqs/amexan-catalog/productedit"
)

// ErrUnknownField is returned for a field name the form does not have.
var ErrUnknownField = fmt.Errorf("%w: unknown field", productedit.ErrInvalidField)

func decodeField[T any](name string, raw json.RawMessage) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("%w: %s: %v", productedit.ErrInvalidField, name, err)
	}
	return v, nil
}

func productFieldUpdate(name string, raw json.RawMessage) (productedit.FieldUpdate, error) {
	switch name {
	case "title", "description", "productType", "vendor", "status", "tags":
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownField, name)
	}
	s, err := decodeField[string](name, raw)
	if err != nil {
		return nil, err
	}
	switch name {
	case "title":
		return productedit.TitleUpdate(s), nil
	case "description":
		return productedit.DescriptionUpdate(s), nil
	case "productType":
		return productedit.ProductTypeUpdate(s), nil
	case "vendor":
		return productedit.VendorUpdate(s), nil
	case "status":
		return productedit.StatusUpdate(s), nil
	default:
		return productedit.TagsUpdate(s), nil
	}
}

func variantFieldUpdate(name string, raw json.RawMessage) (productedit.VariantFieldUpdate, error) {
	switch name {
	case "title":
		s, err := decodeField[string](name, raw)
		return productedit.VariantTitleUpdate(s), err
	case "sku":
		s, err := decodeField[string](name, raw)
		return productedit.SKUUpdate(s), err
	case "option1":
		s, err := decodeField[string](name, raw)
		return productedit.Option1Update(s), err
	case "inventoryPolicy":
		s, err := decodeField[string](name, raw)
		return productedit.InventoryPolicyUpdate(s), err
	case "price":
		f, err := decodeField[float64](name, raw)
		return productedit.PriceUpdate(f), err
	case "cost":
		f, err := decodeField[float64](name, raw)
		return productedit.CostUpdate(f), err
	case "available":
		n, err := decodeField[int](name, raw)
		return productedit.AvailableUpdate(n), err
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownField, name)
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// applyProductFields parses every field before applying any, so a bad
// field leaves the draft untouched.
func applyProductFields(d *productedit.ProductDraft, fields map[string]json.RawMessage) error {
	updates := make([]productedit.FieldUpdate, 0, len(fields))
	for _, name := range sortedKeys(fields) {
		u, err := productFieldUpdate(name, fields[name])
		if err != nil {
			return err
		}
		updates = append(updates, u)
	}
	for _, u := range updates {
		if err := d.Apply(u); err != nil {
			return err
		}
	}
	return nil
}

func applyVariantFields(d *productedit.ProductDraft, index int, fields map[string]json.RawMessage) error {
	updates := make([]productedit.VariantFieldUpdate, 0, len(fields))
	for _, name := range sortedKeys(fields) {
		u, err := variantFieldUpdate(name, fields[name])
		if err != nil {
			return err
		}
		updates = append(updates, u)
	}
	for _, u := range updates {
		if err := d.ApplyVariant(index, u); err != nil {
			return err
		}
	}
	return nil
}
