package productedit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serverProduct() Product {
	return Product{
		Title:  "Linen shirt",
		Status: StatusActive,
		Images: sampleImages(),
		Variants: []Variant{
			{ID: "var-1", Title: "Red", SKU: "SHIRT-RED", InventoryPolicy: InventoryDeny, Images: sampleImages()},
		},
	}
}

func newProductDraft(t *testing.T) *ProductDraft {
	t.Helper()
	d := NewDraft()
	require.NoError(t, d.Apply(TitleUpdate("Linen shirt")))
	require.NoError(t, d.Apply(TagsUpdate("linen, summer, linen")))
	d.AddVariant(VariantDraft{Title: "Red", SKU: "SHIRT-RED", Price: 20})
	d.AddVariant(VariantDraft{Title: "Blue", SKU: "SHIRT-BLUE", Price: 20})
	return d
}

func TestCommit_CreateSendsNoInlineImages(t *testing.T) {
	remote := &fakeRemote{
		createResult: ProductResult{ID: "prod-9", Variants: []VariantResult{{ID: "v1", Title: "Red"}, {ID: "v2", Title: "Blue"}}},
		product:      serverProduct(),
	}
	notes := &MessageBuffer{}
	d := newProductDraft(t)
	editor, err := NewEditor(d, EditorDeps{Remote: remote, Notifier: notes})
	require.NoError(t, err)

	_, err = editor.MarkForUpload(ProductScope, LocalFile{Name: "cover.jpg"}, "cover")
	require.NoError(t, err)
	_, err = editor.MarkForUpload(ProductScope, LocalFile{Name: "back.jpg"}, "")
	require.NoError(t, err)
	_, err = editor.MarkForUpload(VariantScope(1), LocalFile{Name: "blue.jpg"}, "")
	require.NoError(t, err)

	report, err := editor.Commit(context.Background(), "token")
	require.NoError(t, err)

	require.Len(t, remote.created, 1)
	payload := remote.created[0]
	assert.NotNil(t, payload.Images)
	assert.Empty(t, payload.Images)
	for _, v := range payload.Variants {
		assert.Empty(t, v.Images)
		assert.Empty(t, v.ID)
	}
	assert.Equal(t, []string{"linen", "summer"}, payload.Tags)

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"images":[]`)

	productUploads := remote.callsFor("uploadProductImage")
	require.Len(t, productUploads, 2)
	assert.Equal(t, "prod-9", productUploads[0].EntityID)
	assert.Equal(t, "cover.jpg", productUploads[0].Upload.File.Name)

	variantUploads := remote.callsFor("uploadVariantImage")
	require.Len(t, variantUploads, 1)
	assert.Equal(t, "v2", variantUploads[0].EntityID)

	assert.Equal(t, "prod-9", report.ProductID)
	assert.True(t, report.Created)
	assert.Equal(t, StateSuccess, report.State)
	assert.Len(t, report.Batches, 2)
	assert.Equal(t, StateIdle, editor.State())

	assert.Equal(t, "getProduct", remote.ops()[len(remote.ops())-1])
	assert.Equal(t, "prod-9", editor.Draft().ID)
	assert.False(t, editor.Draft().hasPending())
	assert.Contains(t, notes.Drain(), Message{Level: "success", Text: "Product created"})
}

func TestCommit_CreateFailureKeepsLedgers(t *testing.T) {
	remote := &fakeRemote{createErr: errors.New("500 internal")}
	d := newProductDraft(t)
	editor, err := NewEditor(d, EditorDeps{Remote: remote})
	require.NoError(t, err)
	_, err = editor.MarkForUpload(ProductScope, LocalFile{Name: "cover.jpg"}, "")
	require.NoError(t, err)

	_, err = editor.Commit(context.Background(), "token")
	assert.ErrorIs(t, err, ErrCreateFailed)

	assert.Equal(t, []string{"createProduct"}, remote.ops())
	assert.Len(t, d.Media.Uploads, 1)
	assert.True(t, d.IsNew())
	assert.Equal(t, StateIdle, editor.State())
}

func TestCommit_UpdateRunsDeletesThenUploadsThenUpsert(t *testing.T) {
	remote := &fakeRemote{product: serverProduct()}
	d := existingDraft()
	editor, err := NewEditor(d, EditorDeps{Remote: remote})
	require.NoError(t, err)

	images := d.Variants[0].Media.Images
	require.NoError(t, editor.MarkForDeletion(VariantScope(0), images[0]))
	require.NoError(t, editor.MarkForDeletion(VariantScope(0), images[0]))
	_, err = editor.MarkForUpload(VariantScope(0), LocalFile{Name: "red-new.jpg"}, "")
	require.NoError(t, err)

	report, err := editor.Commit(context.Background(), "token")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"deleteVariantImage",
		"deleteVariantImage",
		"uploadVariantImage",
		"updateProduct",
		"getProduct",
	}, remote.ops())
	deletes := remote.callsFor("deleteVariantImage")
	assert.Equal(t, "img-a", deletes[0].ImageID)
	assert.Equal(t, "img-b", deletes[1].ImageID)

	require.Len(t, remote.updated, 1)
	for _, v := range remote.updated[0].Variants {
		assert.Nil(t, v.Images)
	}
	raw, err := json.Marshal(remote.updated[0])
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"images"`)

	assert.Equal(t, StateSuccess, report.State)
	assert.False(t, report.Created)
}

func TestCommit_UpdatePartialFailureIsReported(t *testing.T) {
	remote := &fakeRemote{
		product: serverProduct(),
		failOn:  map[string]error{"deleteProductImage:prod-1:img-b": errors.New("404 image not found")},
	}
	notes := &MessageBuffer{}
	d := existingDraft()
	editor, err := NewEditor(d, EditorDeps{Remote: remote, Notifier: notes})
	require.NoError(t, err)

	for _, img := range append([]ImageRef(nil), d.Media.Images...) {
		require.NoError(t, editor.MarkForDeletion(ProductScope, img))
	}

	report, err := editor.Commit(context.Background(), "token")
	require.NoError(t, err)

	assert.Len(t, remote.callsFor("deleteProductImage"), 3)
	assert.Equal(t, StatePartialFailure, report.State)
	require.Len(t, report.Batches, 1)
	assert.Equal(t, 2, report.Batches[0].SuccessCount)
	assert.Equal(t, 1, report.Batches[0].FailCount)
	assert.Equal(t, []string{"404 image not found"}, report.Batches[0].Errors)

	msgs := notes.Drain()
	assert.Contains(t, msgs, Message{Level: "success", Text: "Deleted 2 image(s) for product"})
	assert.Contains(t, msgs, Message{Level: "error", Text: "Failed to delete 1 image(s) for product"})
}

func TestCommit_UpdateFailureClearsLedgers(t *testing.T) {
	remote := &fakeRemote{updateErr: errors.New("422 invalid sku")}
	d := existingDraft()
	editor, err := NewEditor(d, EditorDeps{Remote: remote})
	require.NoError(t, err)

	_, err = editor.MarkForUpload(ProductScope, LocalFile{Name: "extra.jpg"}, "")
	require.NoError(t, err)
	require.NoError(t, editor.MarkForDeletion(ProductScope, d.Media.Images[0]))

	report, err := editor.Commit(context.Background(), "token")
	assert.ErrorIs(t, err, ErrUpdateFailed)
	assert.Equal(t, "prod-1", report.ProductID)
	assert.NotContains(t, remote.ops(), "getProduct")

	assert.False(t, d.hasPending())
	assert.Equal(t, []string{
		"https://cdn.example.com/b.jpg",
		"https://cdn.example.com/c.jpg",
		"https://cdn.example.com/extra.jpg",
	}, urls(d.Media.Images))

	before := remote.imageCalls()
	_, err = editor.Commit(context.Background(), "token")
	assert.ErrorIs(t, err, ErrUpdateFailed)
	assert.Equal(t, before, remote.imageCalls())
}

func TestCommit_SecondCommitAfterCreateIssuesNoImageCalls(t *testing.T) {
	remote := &fakeRemote{
		createResult: ProductResult{ID: "prod-9", Variants: []VariantResult{{ID: "v1", Title: "Red"}, {ID: "v2", Title: "Blue"}}},
		product:      serverProduct(),
	}
	editor, err := NewEditor(newProductDraft(t), EditorDeps{Remote: remote})
	require.NoError(t, err)
	_, err = editor.MarkForUpload(VariantScope(0), LocalFile{Name: "red.jpg"}, "")
	require.NoError(t, err)

	_, err = editor.Commit(context.Background(), "token")
	require.NoError(t, err)
	before := remote.imageCalls()
	assert.Equal(t, 1, before)

	_, err = editor.Commit(context.Background(), "token")
	require.NoError(t, err)
	assert.Equal(t, before, remote.imageCalls())
	assert.Len(t, remote.callsFor("createProduct"), 1)
	assert.Len(t, remote.callsFor("updateProduct"), 1)
}

func TestCommit_UpdateAttachesImagesOfNewVariants(t *testing.T) {
	remote := &fakeRemote{
		product:      serverProduct(),
		updateResult: ProductResult{ID: "prod-1", Variants: []VariantResult{{ID: "var-1", Title: "Red"}, {ID: "var-2", Title: "Blue"}}},
	}
	d := existingDraft()
	editor, err := NewEditor(d, EditorDeps{Remote: remote})
	require.NoError(t, err)

	idx := d.AddVariant(VariantDraft{Title: "Blue", SKU: "SHIRT-BLUE"})
	_, err = editor.MarkForUpload(VariantScope(idx), LocalFile{Name: "blue.jpg"}, "")
	require.NoError(t, err)

	_, err = editor.Commit(context.Background(), "token")
	require.NoError(t, err)

	assert.Equal(t, []string{"updateProduct", "uploadVariantImage", "getProduct"}, remote.ops())
	assert.Equal(t, "var-2", remote.callsFor("uploadVariantImage")[0].EntityID)
	assert.Equal(t, "", remote.updated[0].Variants[1].ID)
}

func TestCommit_UpdateNewVariantSharingTitleSkipsExistingVariant(t *testing.T) {
	remote := &fakeRemote{
		product:      serverProduct(),
		updateResult: ProductResult{ID: "prod-1", Variants: []VariantResult{{ID: "var-1", Title: "Red"}, {ID: "var-2", Title: "Red"}}},
	}
	d := existingDraft()
	editor, err := NewEditor(d, EditorDeps{Remote: remote})
	require.NoError(t, err)

	idx := d.AddVariant(VariantDraft{Title: "Red", SKU: "SHIRT-RED-2"})
	_, err = editor.MarkForUpload(VariantScope(idx), LocalFile{Name: "red-2.jpg"}, "")
	require.NoError(t, err)

	_, err = editor.Commit(context.Background(), "token")
	require.NoError(t, err)

	uploads := remote.callsFor("uploadVariantImage")
	require.Len(t, uploads, 1)
	assert.Equal(t, "var-2", uploads[0].EntityID)
}

func TestCommit_ReloadFailureStillRecordsProduct(t *testing.T) {
	remote := &fakeRemote{
		createResult: ProductResult{ID: "prod-9"},
		getErr:       errors.New("timeout"),
	}
	d := newProductDraft(t)
	editor, err := NewEditor(d, EditorDeps{Remote: remote})
	require.NoError(t, err)

	report, err := editor.Commit(context.Background(), "token")
	assert.ErrorIs(t, err, ErrReloadFailed)
	assert.Equal(t, "prod-9", report.ProductID)
	assert.Equal(t, "prod-9", d.ID)
}

func TestCommit_Preconditions(t *testing.T) {
	t.Run("credential", func(t *testing.T) {
		remote := &fakeRemote{}
		editor, err := NewEditor(newProductDraft(t), EditorDeps{Remote: remote})
		require.NoError(t, err)
		_, err = editor.Commit(context.Background(), "")
		assert.ErrorIs(t, err, ErrUnauthorized)
		assert.Empty(t, remote.ops())
	})
	t.Run("variants", func(t *testing.T) {
		remote := &fakeRemote{}
		d := NewDraft()
		d.Title = "Empty"
		editor, err := NewEditor(d, EditorDeps{Remote: remote})
		require.NoError(t, err)
		_, err = editor.Commit(context.Background(), "token")
		assert.ErrorIs(t, err, ErrNoVariants)
		assert.Empty(t, remote.ops())
	})
	t.Run("sku", func(t *testing.T) {
		remote := &fakeRemote{}
		d := newProductDraft(t)
		d.Variants[1].SKU = ""
		editor, err := NewEditor(d, EditorDeps{Remote: remote})
		require.NoError(t, err)
		_, err = editor.Commit(context.Background(), "token")
		assert.ErrorIs(t, err, ErrInvalidDraft)
		assert.Empty(t, remote.ops())
	})
}

type blockingRemote struct {
	*fakeRemote
	entered chan struct{}
	release chan struct{}
}

func (b *blockingRemote) CreateProduct(ctx context.Context, credential string, p CreateProductPayload) (ProductResult, error) {
	close(b.entered)
	<-b.release
	return b.fakeRemote.CreateProduct(ctx, credential, p)
}

func TestCommit_RejectsReentry(t *testing.T) {
	remote := &blockingRemote{
		fakeRemote: &fakeRemote{createResult: ProductResult{ID: "prod-9"}, product: serverProduct()},
		entered:    make(chan struct{}),
		release:    make(chan struct{}),
	}
	editor, err := NewEditor(newProductDraft(t), EditorDeps{Remote: remote})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := editor.Commit(context.Background(), "token")
		done <- err
	}()

	select {
	case <-remote.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("commit did not reach the create call")
	}
	assert.True(t, editor.Submitting())
	_, err = editor.Commit(context.Background(), "token")
	assert.ErrorIs(t, err, ErrCommitInProgress)

	close(remote.release)
	require.NoError(t, <-done)
	assert.Equal(t, StateIdle, editor.State())
}
