package productedit

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// SetFeatured moves the image at index to the front, keeping the relative
// order of the others, and renumbers positions from 0. The reorder payload
// only lists images the backend already knows.
func SetFeatured(images []ImageRef, index int) ([]ImageRef, []ReorderItem, error) {
	if index < 0 || index >= len(images) {
		return nil, nil, fmt.Errorf("%w: image %d", ErrIndexOutOfRange, index)
	}
	out := promote(images, index)
	items := make([]ReorderItem, 0, len(out))
	for i := range out {
		pos := i
		out[i].Position = &pos
		if out[i].ID == "" {
			continue
		}
		items = append(items, ReorderItem{ImageID: out[i].ID, Position: pos})
	}
	return out, items, nil
}

func promote[T any](list []T, index int) []T {
	out := make([]T, 0, len(list))
	out = append(out, list[index])
	out = append(out, list[:index]...)
	return append(out, list[index+1:]...)
}

// SetFeatured promotes an image of scope to the cover position right away,
// outside of any commit. For an entity the backend knows, the accepted
// images are reordered and the new order is sent immediately; otherwise
// the pending uploads are reordered locally and will be uploaded in that
// order.
func (e *Editor) SetFeatured(ctx context.Context, credential string, scope Scope, index int) error {
	l, err := e.draft.ledger(scope)
	if err != nil {
		return err
	}
	entityID, err := e.draft.entityID(scope)
	if err != nil {
		return err
	}

	if entityID == "" {
		if index < 0 || index >= len(l.Uploads) {
			return fmt.Errorf("%w: upload %d", ErrIndexOutOfRange, index)
		}
		l.Uploads = promote(l.Uploads, index)
		return nil
	}

	if credential == "" {
		return ErrUnauthorized
	}
	images, items, err := SetFeatured(l.Images, index)
	if err != nil {
		return err
	}
	items = append(items, l.pendingDeletionTail(images)...)
	previous := l.Images
	l.Images = images

	if len(items) > 0 {
		err = e.reorder(ctx, credential, scope, entityID, items)
	}
	if err != nil {
		l.Images = previous
		e.logger.Warn("reorder failed",
			zap.String("scope", scope.String()),
			zap.String("entityId", entityID),
			zap.Error(err))
		e.notify.Error(fmt.Sprintf("Failed to set featured image: %v", err))
		return fmt.Errorf("%w: %w", ErrReorderFailed, err)
	}

	l.rebase(images)
	e.notify.Success("Featured image updated")
	return nil
}

func (e *Editor) reorder(ctx context.Context, credential string, scope Scope, entityID string, items []ReorderItem) error {
	if scope.IsProduct() {
		return e.remote.ReorderProductImages(ctx, credential, entityID, items)
	}
	return e.remote.ReorderVariantImages(ctx, credential, entityID, items)
}

// pendingDeletionTail positions the images marked for deletion after the
// accepted ones, in baseline order, so an undo finds the server order equal
// to the rebased baseline.
func (l *Ledger) pendingDeletionTail(accepted []ImageRef) []ReorderItem {
	var items []ReorderItem
	pos := len(accepted)
	for _, img := range l.original {
		if img.ID == "" || indexByURL(accepted, img.URL) >= 0 {
			continue
		}
		items = append(items, ReorderItem{ImageID: img.ID, Position: pos})
		pos++
	}
	return items
}

// rebase reorders the server baseline after the server accepted a new order.
// Images pending deletion keep their old relative order at the end.
func (l *Ledger) rebase(order []ImageRef) {
	next := make([]ImageRef, 0, len(l.original))
	for _, img := range order {
		if indexByURL(l.original, img.URL) >= 0 {
			next = append(next, img)
		}
	}
	for _, img := range l.original {
		if indexByURL(next, img.URL) < 0 {
			next = append(next, img)
		}
	}
	l.original = next
}
