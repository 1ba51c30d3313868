package productedit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleImages() []ImageRef {
	return []ImageRef{
		{ID: "img-a", URL: "https://cdn.example.com/a.jpg"},
		{ID: "img-b", URL: "https://cdn.example.com/b.jpg"},
		{ID: "img-c", URL: "https://cdn.example.com/c.jpg"},
	}
}

func urls(images []ImageRef) []string {
	out := make([]string, len(images))
	for i, img := range images {
		out[i] = img.URL
	}
	return out
}

func existingDraft() *ProductDraft {
	return NewDraftFromProduct(Product{
		ID:     "prod-1",
		Title:  "Linen shirt",
		Status: StatusActive,
		Images: sampleImages(),
		Variants: []Variant{
			{ID: "var-1", Title: "Red", SKU: "SHIRT-RED", InventoryPolicy: InventoryDeny, Images: sampleImages()},
		},
	})
}

func TestLedger_DeleteThenUndoRestoresImages(t *testing.T) {
	for i := range sampleImages() {
		for _, scope := range []Scope{ProductScope, VariantScope(0)} {
			d := existingDraft()
			l, err := d.ledger(scope)
			require.NoError(t, err)
			before := urls(l.Images)

			_, err = d.MarkForDeletion(scope, l.Images[i])
			require.NoError(t, err)
			assert.Len(t, l.Images, 2)
			require.Len(t, l.Deletions, 1)

			restored, err := d.UndoDeletion(scope, 0)
			require.NoError(t, err)
			assert.Equal(t, before[i], restored.URL)
			assert.Equal(t, before, urls(l.Images), "scope %s index %d", scope, i)
			assert.Empty(t, l.Deletions)
		}
	}
}

func TestLedger_UndoOutOfOrderKeepsOriginalOrder(t *testing.T) {
	d := existingDraft()
	images := sampleImages()

	for _, img := range []ImageRef{images[2], images[0]} {
		_, err := d.MarkForDeletion(ProductScope, img)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{images[1].URL}, urls(d.Media.Images))

	_, err := d.UndoDeletion(ProductScope, 0)
	require.NoError(t, err)
	_, err = d.UndoDeletion(ProductScope, 0)
	require.NoError(t, err)
	assert.Equal(t, urls(images), urls(d.Media.Images))
}

func TestLedger_MarkForDeletionRequiresAcceptedImage(t *testing.T) {
	d := existingDraft()
	_, err := d.MarkForDeletion(ProductScope, ImageRef{ID: "img-unknown", URL: "https://cdn.example.com/x.jpg"})
	assert.ErrorIs(t, err, ErrImageNotFound)
	assert.Len(t, d.Media.Images, 3)
	assert.Empty(t, d.Media.Deletions)
}

func TestLedger_DeletingPendingPreviewCancelsUpload(t *testing.T) {
	d := existingDraft()
	first, err := d.MarkForUpload(ProductScope, LocalFile{Name: "new-1.jpg"}, "front")
	require.NoError(t, err)
	_, err = d.MarkForUpload(ProductScope, LocalFile{Name: "new-2.jpg"}, "")
	require.NoError(t, err)

	cancelled, err := d.MarkForDeletion(ProductScope, first.Preview())
	require.NoError(t, err)
	assert.True(t, cancelled)
	require.Len(t, d.Media.Uploads, 1)
	assert.Equal(t, "new-2.jpg", d.Media.Uploads[0].File.Name)
	assert.Empty(t, d.Media.Deletions)
}

func TestLedger_UndoWithoutOriginalIsNoop(t *testing.T) {
	d := existingDraft()
	d.Media.Deletions = append(d.Media.Deletions, PendingDeletion{RemoteID: "img-z", URL: "https://cdn.example.com/z.jpg"})

	_, err := d.UndoDeletion(ProductScope, 0)
	assert.ErrorIs(t, err, ErrNoOriginalImage)
	assert.Len(t, d.Media.Deletions, 1)
	assert.Len(t, d.Media.Images, 3)
}

func TestLedger_IndexAndScopeErrors(t *testing.T) {
	d := existingDraft()

	assert.ErrorIs(t, d.CancelUpload(ProductScope, 0), ErrIndexOutOfRange)
	_, err := d.UndoDeletion(ProductScope, 3)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = d.MarkForUpload(VariantScope(4), LocalFile{Name: "x.jpg"}, "")
	assert.ErrorIs(t, err, ErrInvalidScope)
	_, err = d.MarkForUpload(VariantScope(-2), LocalFile{Name: "x.jpg"}, "")
	assert.ErrorIs(t, err, ErrInvalidScope)
}

func TestEditor_UploadThenCancelIsLocalOnly(t *testing.T) {
	remote := &fakeRemote{}
	editor, err := NewEditor(existingDraft(), EditorDeps{Remote: remote})
	require.NoError(t, err)

	_, err = editor.MarkForUpload(VariantScope(0), LocalFile{Name: "detail.jpg", Data: []byte{0xff}}, "")
	require.NoError(t, err)
	require.NoError(t, editor.CancelUpload(VariantScope(0), 0))

	assert.Empty(t, remote.ops())
	assert.False(t, editor.Draft().hasPending())
}

func TestParseTags(t *testing.T) {
	cases := []struct {
		raw  string
		want []string
	}{
		{"", []string{}},
		{"linen, summer ,, linen,  ", []string{"linen", "summer"}},
		{"a,b,c", []string{"a", "b", "c"}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseTags(tc.raw), tc.raw)
	}
}

func TestDraft_FieldUpdates(t *testing.T) {
	d := existingDraft()

	require.NoError(t, d.Apply(TitleUpdate("Linen shirt v2")))
	require.NoError(t, d.Apply(StatusUpdate(StatusArchived)))
	assert.ErrorIs(t, d.Apply(StatusUpdate("deleted")), ErrInvalidField)
	assert.Equal(t, "Linen shirt v2", d.Title)
	assert.Equal(t, StatusArchived, d.Status)

	require.NoError(t, d.ApplyVariant(0, PriceUpdate(19.5)))
	assert.ErrorIs(t, d.ApplyVariant(0, AvailableUpdate(-1)), ErrInvalidField)
	assert.ErrorIs(t, d.ApplyVariant(0, InventoryPolicyUpdate("backorder")), ErrInvalidField)
	assert.ErrorIs(t, d.ApplyVariant(3, SKUUpdate("X")), ErrInvalidScope)
	assert.Equal(t, 19.5, d.Variants[0].Price)
}

func TestDraft_RemoveVariantOnlyWhenUnsaved(t *testing.T) {
	d := existingDraft()
	idx := d.AddVariant(VariantDraft{ID: "ignored", Title: "Blue", SKU: "SHIRT-BLUE"})
	assert.Equal(t, 1, idx)
	assert.Empty(t, d.Variants[1].ID)
	assert.Equal(t, InventoryDeny, d.Variants[1].InventoryPolicy)

	assert.ErrorIs(t, d.RemoveVariant(0), ErrVariantPersisted)
	require.NoError(t, d.RemoveVariant(1))
	assert.Len(t, d.Variants, 1)
}
