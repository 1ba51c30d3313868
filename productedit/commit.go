package productedit

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// CommitReport describes what a commit did. State is StateSuccess or
// StatePartialFailure once the product call itself went through.
type CommitReport struct {
	ProductID string        `json:"productId"`
	Created   bool          `json:"created"`
	State     CommitState   `json:"state"`
	Batches   []BatchReport `json:"batches"`
}

func (r *CommitReport) add(b ...BatchReport) {
	r.Batches = append(r.Batches, b...)
}

func (r *CommitReport) finish() {
	r.State = StateSuccess
	for _, b := range r.Batches {
		if b.FailCount > 0 {
			r.State = StatePartialFailure
			return
		}
	}
}

// Commit turns the draft's pending state into remote calls. A draft without
// an identifier is created; otherwise it is updated. Per-image failures are
// reported in the returned CommitReport and do not fail the commit; a
// failing create or update call does.
func (e *Editor) Commit(ctx context.Context, credential string) (CommitReport, error) {
	if credential == "" {
		return CommitReport{}, ErrUnauthorized
	}
	if !e.state.CompareAndSwap(int32(StateIdle), int32(StateSubmitting)) {
		return CommitReport{}, ErrCommitInProgress
	}
	defer e.state.Store(int32(StateIdle))

	if err := e.validateDraft(); err != nil {
		e.notify.Error(err.Error())
		return CommitReport{}, err
	}

	log := e.logger.With(zap.String("productId", e.draft.ID), zap.Bool("create", e.draft.IsNew()))
	log.Info("commit started")

	var (
		report CommitReport
		err    error
	)
	if e.draft.IsNew() {
		report, err = e.commitCreate(ctx, credential)
	} else {
		report, err = e.commitUpdate(ctx, credential)
	}
	if err != nil && report.ProductID == "" {
		log.Warn("commit failed", zap.Error(err))
		return report, err
	}

	log.Info("commit finished",
		zap.String("state", report.State.String()),
		zap.Int("batches", len(report.Batches)),
		zap.Error(err))
	return report, err
}

func (e *Editor) validateDraft() error {
	if len(e.draft.Variants) == 0 {
		return ErrNoVariants
	}
	if err := e.validate.Struct(e.draft); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s failed on %q", ErrInvalidDraft, verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %w", ErrInvalidDraft, err)
	}
	return nil
}

func (e *Editor) commitCreate(ctx context.Context, credential string) (CommitReport, error) {
	d := e.draft
	payload := buildCreatePayload(d)
	titles := newVariantTitles(d.Variants, false)

	res, err := e.remote.CreateProduct(ctx, credential, payload)
	if err != nil {
		e.notify.Error(fmt.Sprintf("Failed to create product: %v", err))
		return CommitReport{}, fmt.Errorf("%w: %w", ErrCreateFailed, err)
	}
	report := CommitReport{ProductID: res.ID, Created: true}

	if len(d.Media.Uploads) > 0 {
		batch := RunBatch(ctx, uploadsFrom(d.Media.Uploads, true), func(ctx context.Context, u ImageUpload) error {
			_, err := e.remote.UploadProductImage(ctx, credential, res.ID, u)
			return err
		})
		report.add(e.report(BatchReport{Target: productTarget, Action: ActionUpload, BatchResult: batch}))
	}
	report.add(e.attachNewVariantImages(ctx, credential, d.Variants, res.Variants, titles)...)

	d.clearLedgers()
	d.ID = res.ID
	report.finish()
	e.notify.Success("Product created")

	return report, e.reload(ctx, credential, res.ID)
}

func (e *Editor) commitUpdate(ctx context.Context, credential string) (CommitReport, error) {
	d := e.draft
	report := CommitReport{ProductID: d.ID}

	if len(d.Media.Deletions) > 0 {
		batch := RunBatch(ctx, d.Media.Deletions, func(ctx context.Context, p PendingDeletion) error {
			return e.remote.DeleteProductImage(ctx, credential, d.ID, p.RemoteID)
		})
		report.add(e.report(BatchReport{Target: productTarget, Action: ActionDelete, BatchResult: batch}))
	}
	for _, v := range d.Variants {
		if v.ID == "" || len(v.Media.Deletions) == 0 {
			continue
		}
		variantID := v.ID
		batch := RunBatch(ctx, v.Media.Deletions, func(ctx context.Context, p PendingDeletion) error {
			return e.remote.DeleteVariantImage(ctx, credential, variantID, p.RemoteID)
		})
		report.add(e.report(BatchReport{Target: variantTarget(v), Action: ActionDelete, BatchResult: batch}))
	}

	if len(d.Media.Uploads) > 0 {
		var uploaded []ImageRef
		batch := RunBatch(ctx, uploadsFrom(d.Media.Uploads, false), func(ctx context.Context, u ImageUpload) error {
			img, err := e.remote.UploadProductImage(ctx, credential, d.ID, u)
			if err == nil {
				uploaded = append(uploaded, img)
			}
			return err
		})
		d.Media.Images = append(d.Media.Images, uploaded...)
		report.add(e.report(BatchReport{Target: productTarget, Action: ActionUpload, BatchResult: batch}))
	}
	for i := range d.Variants {
		v := &d.Variants[i]
		if v.ID == "" || len(v.Media.Uploads) == 0 {
			continue
		}
		var uploaded []ImageRef
		batch := RunBatch(ctx, uploadsFrom(v.Media.Uploads, false), func(ctx context.Context, u ImageUpload) error {
			img, err := e.remote.UploadVariantImage(ctx, credential, v.ID, u)
			if err == nil {
				uploaded = append(uploaded, img)
			}
			return err
		})
		v.Media.Images = append(v.Media.Images, uploaded...)
		report.add(e.report(BatchReport{Target: variantTarget(*v), Action: ActionUpload, BatchResult: batch}))
	}

	// New variants get their images after the update has created them.
	pendingNew := append([]VariantDraft(nil), d.Variants...)
	titles := newVariantTitles(d.Variants, true)
	d.clearLedgers()

	res, err := e.remote.UpdateProduct(ctx, credential, d.ID, buildUpdatePayload(d))
	if err != nil {
		report.finish()
		e.notify.Error(fmt.Sprintf("Failed to update product: %v", err))
		return report, fmt.Errorf("%w: %w", ErrUpdateFailed, err)
	}
	if len(titles) > 0 {
		report.add(e.attachNewVariantImages(ctx, credential, pendingNew, res.Variants, titles)...)
	}
	report.finish()
	e.notify.Success("Product updated")

	return report, e.reload(ctx, credential, d.ID)
}

func buildCreatePayload(d *ProductDraft) CreateProductPayload {
	variants := variantPayloads(d.Variants)
	for i := range variants {
		variants[i].ID = ""
		variants[i].Images = []ImageRef{}
	}
	return CreateProductPayload{
		ProductFields: productFields(d),
		Images:        []ImageRef{},
		Variants:      variants,
	}
}

func buildUpdatePayload(d *ProductDraft) UpdateProductPayload {
	return UpdateProductPayload{
		ProductFields: productFields(d),
		Variants:      variantPayloads(d.Variants),
	}
}

func productFields(d *ProductDraft) ProductFields {
	return ProductFields{
		Title:       d.Title,
		Description: d.Description,
		ProductType: d.ProductType,
		Vendor:      d.Vendor,
		Status:      d.Status,
		Tags:        ParseTags(d.Tags),
	}
}

func variantPayloads(variants []VariantDraft) []VariantPayload {
	out := make([]VariantPayload, len(variants))
	for i, v := range variants {
		out[i] = VariantPayload{
			ID:              v.ID,
			Title:           v.Title,
			Price:           v.Price,
			SKU:             v.SKU,
			InventoryPolicy: v.InventoryPolicy,
			Option1:         v.Option1,
			Available:       v.Available,
			Cost:            v.Cost,
		}
	}
	return out
}
