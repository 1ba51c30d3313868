package productedit

import "context"

// Remote is the catalog backend. Every call signals failure through its
// error; only the batch executor tolerates per-item errors.
type Remote interface {
	CreateProduct(ctx context.Context, credential string, payload CreateProductPayload) (ProductResult, error)
	UpdateProduct(ctx context.Context, credential, productID string, payload UpdateProductPayload) (ProductResult, error)
	GetProduct(ctx context.Context, credential, productID string) (Product, error)

	DeleteProductImage(ctx context.Context, credential, productID, imageID string) error
	DeleteVariantImage(ctx context.Context, credential, variantID, imageID string) error

	UploadProductImage(ctx context.Context, credential, productID string, upload ImageUpload) (ImageRef, error)
	UploadVariantImage(ctx context.Context, credential, variantID string, upload ImageUpload) (ImageRef, error)

	ReorderProductImages(ctx context.Context, credential, productID string, items []ReorderItem) error
	ReorderVariantImages(ctx context.Context, credential, variantID string, items []ReorderItem) error
}

// ProductFields are the scalar fields sent on create and update.
type ProductFields struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ProductType string   `json:"productType"`
	Vendor      string   `json:"vendor"`
	Status      Status   `json:"status"`
	Tags        []string `json:"tags"`
}

type VariantPayload struct {
	ID              string          `json:"id,omitempty"`
	Title           string          `json:"title"`
	Price           float64         `json:"price"`
	SKU             string          `json:"sku"`
	InventoryPolicy InventoryPolicy `json:"inventoryPolicy"`
	Option1         string          `json:"option1"`
	Available       int             `json:"available"`
	Cost            float64         `json:"cost"`
	Images          []ImageRef      `json:"images,omitempty"`
}

// CreateProductPayload never carries images inline: Images is always empty
// and so is every variant's image list.
type CreateProductPayload struct {
	ProductFields
	Images   []ImageRef       `json:"images"`
	Variants []VariantPayload `json:"variants"`
}

// UpdateProductPayload carries no image fields at all.
type UpdateProductPayload struct {
	ProductFields
	Variants []VariantPayload `json:"variants"`
}

type VariantResult struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ProductResult is what create and update return: the product identifier
// and the identifiers the backend assigned to its variants.
type ProductResult struct {
	ID       string          `json:"id"`
	Variants []VariantResult `json:"variants"`
}

type ImageUpload struct {
	File     LocalFile
	AltText  string
	Position *int
}

type ReorderItem struct {
	ImageID  string `json:"imageId"`
	Position int    `json:"position"`
}

// Product is the server state of a product, used to seed and reload drafts.
type Product struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ProductType string     `json:"productType"`
	Vendor      string     `json:"vendor"`
	Status      Status     `json:"status"`
	Tags        []string   `json:"tags"`
	Images      []ImageRef `json:"images"`
	Variants    []Variant  `json:"variants"`
}

type Variant struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Price           float64         `json:"price"`
	SKU             string          `json:"sku"`
	InventoryPolicy InventoryPolicy `json:"inventoryPolicy"`
	Option1         string          `json:"option1"`
	Available       int             `json:"available"`
	Cost            float64         `json:"cost"`
	Images          []ImageRef      `json:"images"`
}
