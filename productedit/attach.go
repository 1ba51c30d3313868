package productedit

import (
	"context"

	"go.uber.org/zap"
)

// MatchNewVariants pairs draft variants that had no identifier with the
// variants the backend just created, by exact title. The first returned
// variant whose title matches and was part of the call wins. The result
// maps draft index to the assigned identifier; unmatched drafts are absent.
//
// A returned variant whose identifier a draft already holds is never a
// candidate, so a new variant cannot be matched to an existing one of the
// same title. Two new variants sharing a title both match the first
// remaining candidate.
func MatchNewVariants(drafts []VariantDraft, created []VariantResult, createdTitles map[string]struct{}) map[int]string {
	known := make(map[string]struct{})
	for _, d := range drafts {
		if d.ID != "" {
			known[d.ID] = struct{}{}
		}
	}
	matched := make(map[int]string)
	for i, d := range drafts {
		if d.ID != "" {
			continue
		}
		if _, ok := createdTitles[d.Title]; !ok {
			continue
		}
		for _, c := range created {
			if _, ok := known[c.ID]; ok {
				continue
			}
			if c.Title == d.Title {
				matched[i] = c.ID
				break
			}
		}
	}
	return matched
}

// attachNewVariantImages uploads the pending images of freshly created
// variants against the identifiers the backend assigned to them. Variants
// that cannot be matched are skipped and their uploads are dropped.
func (e *Editor) attachNewVariantImages(ctx context.Context, credential string, drafts []VariantDraft, created []VariantResult, createdTitles map[string]struct{}) []BatchReport {
	matched := MatchNewVariants(drafts, created, createdTitles)

	var reports []BatchReport
	for i, d := range drafts {
		if d.ID != "" || len(d.Media.Uploads) == 0 {
			continue
		}
		variantID, ok := matched[i]
		if !ok {
			e.logger.Debug("no created variant matches draft, dropping its uploads",
				zap.String("title", d.Title),
				zap.Int("uploads", len(d.Media.Uploads)))
			continue
		}
		res := RunBatch(ctx, uploadsFrom(d.Media.Uploads, true), func(ctx context.Context, u ImageUpload) error {
			_, err := e.remote.UploadVariantImage(ctx, credential, variantID, u)
			return err
		})
		reports = append(reports, e.report(BatchReport{Target: variantTarget(d), Action: ActionUpload, BatchResult: res}))
	}
	return reports
}

// uploadsFrom turns pending uploads into upload requests. With positions set
// each file is sent with its index, so the local order becomes the stored one.
func uploadsFrom(pending []PendingUpload, withPositions bool) []ImageUpload {
	out := make([]ImageUpload, len(pending))
	for i, p := range pending {
		out[i] = ImageUpload{File: p.File, AltText: p.AltText}
		if withPositions {
			pos := i
			out[i].Position = &pos
		}
	}
	return out
}

func newVariantTitles(variants []VariantDraft, onlyNew bool) map[string]struct{} {
	titles := make(map[string]struct{})
	for _, v := range variants {
		if onlyNew && v.ID != "" {
			continue
		}
		titles[v.Title] = struct{}{}
	}
	return titles
}
