package admin

import "github.com/Kariqs/amexan-catalog/productedit"

type uploadView struct {
	Key     string               `json:"key"`
	Name    string               `json:"name"`
	Size    int                  `json:"size"`
	Preview productedit.ImageRef `json:"preview"`
}

type deletionView struct {
	RemoteID string `json:"remoteId"`
	URL      string `json:"url"`
}

type mediaView struct {
	Images    []productedit.ImageRef `json:"images"`
	Uploads   []uploadView           `json:"uploads"`
	Deletions []deletionView         `json:"deletions"`
}

type variantView struct {
	ID              string                      `json:"id,omitempty"`
	Title           string                      `json:"title"`
	Price           float64                     `json:"price"`
	SKU             string                      `json:"sku"`
	InventoryPolicy productedit.InventoryPolicy `json:"inventoryPolicy"`
	Option1         string                      `json:"option1"`
	Available       int                         `json:"available"`
	Cost            float64                     `json:"cost"`
	Media           mediaView                   `json:"media"`
}

// draftView is the form state sent to the back-office UI.
type draftView struct {
	Session     string                  `json:"session"`
	ID          string                  `json:"id,omitempty"`
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	ProductType string                  `json:"productType"`
	Vendor      string                  `json:"vendor"`
	Status      productedit.Status      `json:"status"`
	Tags        string                  `json:"tags"`
	Media       mediaView               `json:"media"`
	Variants    []variantView           `json:"variants"`
	State       productedit.CommitState `json:"state"`
}

func newMediaView(l productedit.Ledger) mediaView {
	v := mediaView{
		Images:    append([]productedit.ImageRef{}, l.Images...),
		Uploads:   make([]uploadView, 0, len(l.Uploads)),
		Deletions: make([]deletionView, 0, len(l.Deletions)),
	}
	for _, u := range l.Uploads {
		v.Uploads = append(v.Uploads, uploadView{Key: u.Key, Name: u.File.Name, Size: len(u.File.Data), Preview: u.Preview()})
	}
	for _, d := range l.Deletions {
		v.Deletions = append(v.Deletions, deletionView{RemoteID: d.RemoteID, URL: d.URL})
	}
	return v
}

func newDraftView(s *Session) draftView {
	d := s.editor.Draft()
	view := draftView{
		Session:     s.ID,
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		ProductType: d.ProductType,
		Vendor:      d.Vendor,
		Status:      d.Status,
		Tags:        d.Tags,
		Media:       newMediaView(d.Media),
		Variants:    make([]variantView, 0, len(d.Variants)),
		State:       s.editor.State(),
	}
	for _, v := range d.Variants {
		view.Variants = append(view.Variants, variantView{
			ID:              v.ID,
			Title:           v.Title,
			Price:           v.Price,
			SKU:             v.SKU,
			InventoryPolicy: v.InventoryPolicy,
			Option1:         v.Option1,
			Available:       v.Available,
			Cost:            v.Cost,
			Media:           newMediaView(v.Media),
		})
	}
	return view
}
