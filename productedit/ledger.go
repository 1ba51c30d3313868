package productedit

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// pendingURLPrefix marks preview URLs of uploads that only exist locally.
const pendingURLPrefix = "pending://"

// Scope selects the product itself or one variant by its position in the
// draft's variant list. The zero value is the product scope.
type Scope struct {
	variant int
}

// ProductScope addresses the product's own images.
var ProductScope = Scope{}

// VariantScope addresses the variant at index in the draft.
func VariantScope(index int) Scope {
	if index < 0 {
		return Scope{variant: -1}
	}
	return Scope{variant: index + 1}
}

func (s Scope) IsProduct() bool { return s.variant == 0 }

// VariantIndex returns the variant position, or -1 for the product scope
// and invalid scopes.
func (s Scope) VariantIndex() int {
	if s.variant <= 0 {
		return -1
	}
	return s.variant - 1
}

func (s Scope) String() string {
	if s.IsProduct() {
		return "product"
	}
	return fmt.Sprintf("variant[%d]", s.VariantIndex())
}

// LocalFile is an image picked by the operator that has not been sent anywhere.
type LocalFile struct {
	Name string
	Data []byte
}

type PendingUpload struct {
	Key     string
	File    LocalFile
	AltText string
}

// Preview is the ImageRef the form renders for the pending upload.
func (u PendingUpload) Preview() ImageRef {
	return ImageRef{URL: pendingURLPrefix + u.Key, AltText: u.AltText}
}

type PendingDeletion struct {
	RemoteID string
	URL      string
}

// Ledger holds one scope's accepted images and its pending changes.
type Ledger struct {
	Images    []ImageRef
	Uploads   []PendingUpload
	Deletions []PendingDeletion

	// original is the image list as last fetched from the server.
	original []ImageRef
}

func newLedger(images []ImageRef) Ledger {
	return Ledger{
		Images:   append([]ImageRef(nil), images...),
		original: append([]ImageRef(nil), images...),
	}
}

func (l *Ledger) HasPending() bool {
	return len(l.Uploads) > 0 || len(l.Deletions) > 0
}

func (l *Ledger) markForUpload(file LocalFile, altText string) PendingUpload {
	u := PendingUpload{Key: uuid.NewString(), File: file, AltText: altText}
	l.Uploads = append(l.Uploads, u)
	return u
}

// markForDeletion moves an accepted image to the deletion list. A preview
// of a pending upload has no remote ID; the upload is cancelled instead.
func (l *Ledger) markForDeletion(img ImageRef) (cancelled bool, err error) {
	if img.ID == "" {
		key := strings.TrimPrefix(img.URL, pendingURLPrefix)
		for i, u := range l.Uploads {
			if u.Key == key {
				return true, l.cancelUpload(i)
			}
		}
		return false, fmt.Errorf("%w: %s", ErrImageNotFound, img.URL)
	}
	for i, existing := range l.Images {
		if existing.ID != img.ID {
			continue
		}
		l.Images = append(l.Images[:i], l.Images[i+1:]...)
		l.Deletions = append(l.Deletions, PendingDeletion{RemoteID: existing.ID, URL: existing.URL})
		return false, nil
	}
	return false, fmt.Errorf("%w: %s", ErrImageNotFound, img.ID)
}

func (l *Ledger) cancelUpload(index int) error {
	if index < 0 || index >= len(l.Uploads) {
		return fmt.Errorf("%w: upload %d", ErrIndexOutOfRange, index)
	}
	l.Uploads = append(l.Uploads[:index], l.Uploads[index+1:]...)
	return nil
}

// undoDeletion restores a marked image from the original server list,
// keeping its original position relative to the other accepted images.
func (l *Ledger) undoDeletion(index int) (ImageRef, error) {
	if index < 0 || index >= len(l.Deletions) {
		return ImageRef{}, fmt.Errorf("%w: deletion %d", ErrIndexOutOfRange, index)
	}
	pending := l.Deletions[index]
	oi := indexByURL(l.original, pending.URL)
	if oi < 0 {
		return ImageRef{}, fmt.Errorf("%w: %s", ErrNoOriginalImage, pending.URL)
	}
	restored := l.original[oi]

	insertAt := len(l.Images)
	for j, img := range l.Images {
		if k := indexByURL(l.original, img.URL); k > oi {
			insertAt = j
			break
		}
	}
	l.Images = append(l.Images, ImageRef{})
	copy(l.Images[insertAt+1:], l.Images[insertAt:])
	l.Images[insertAt] = restored

	l.Deletions = append(l.Deletions[:index], l.Deletions[index+1:]...)
	return restored, nil
}

// clear drops pending state. The accepted list becomes the new baseline.
func (l *Ledger) clear() {
	l.Uploads = nil
	l.Deletions = nil
	l.original = append([]ImageRef(nil), l.Images...)
}

func indexByURL(images []ImageRef, url string) int {
	for i, img := range images {
		if img.URL == url {
			return i
		}
	}
	return -1
}

// MarkForUpload queues a local file for upload to scope.
func (d *ProductDraft) MarkForUpload(scope Scope, file LocalFile, altText string) (PendingUpload, error) {
	l, err := d.ledger(scope)
	if err != nil {
		return PendingUpload{}, err
	}
	return l.markForUpload(file, altText), nil
}

// MarkForDeletion marks an accepted image of scope for deletion on commit.
// It reports whether the image was a pending upload that got cancelled.
func (d *ProductDraft) MarkForDeletion(scope Scope, img ImageRef) (bool, error) {
	l, err := d.ledger(scope)
	if err != nil {
		return false, err
	}
	return l.markForDeletion(img)
}

func (d *ProductDraft) CancelUpload(scope Scope, index int) error {
	l, err := d.ledger(scope)
	if err != nil {
		return err
	}
	return l.cancelUpload(index)
}

func (d *ProductDraft) UndoDeletion(scope Scope, index int) (ImageRef, error) {
	l, err := d.ledger(scope)
	if err != nil {
		return ImageRef{}, err
	}
	return l.undoDeletion(index)
}
