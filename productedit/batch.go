package productedit

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

type BatchResult struct {
	SuccessCount int      `json:"successCount"`
	FailCount    int      `json:"failCount"`
	Errors       []string `json:"errors,omitempty"`
}

// RunBatch runs op for every item in order, one at a time. A failing item
// is counted and its message kept; the remaining items still run.
func RunBatch[T any](ctx context.Context, items []T, op func(context.Context, T) error) BatchResult {
	var res BatchResult
	for _, item := range items {
		if err := op(ctx, item); err != nil {
			res.FailCount++
			res.Errors = append(res.Errors, err.Error())
			continue
		}
		res.SuccessCount++
	}
	return res
}

type BatchAction string

const (
	ActionUpload BatchAction = "upload"
	ActionDelete BatchAction = "delete"
)

// BatchReport is one executed batch, labelled with the entity it touched.
type BatchReport struct {
	Target string      `json:"target"`
	Action BatchAction `json:"action"`
	BatchResult
}

func (e *Editor) report(r BatchReport) BatchReport {
	done, verb := "Uploaded", "upload"
	if r.Action == ActionDelete {
		done, verb = "Deleted", "delete"
	}
	if r.SuccessCount > 0 {
		e.notify.Success(fmt.Sprintf("%s %d image(s) for %s", done, r.SuccessCount, r.Target))
	}
	if r.FailCount > 0 {
		e.notify.Error(fmt.Sprintf("Failed to %s %d image(s) for %s", verb, r.FailCount, r.Target))
		e.logger.Warn("image batch had failures",
			zap.String("target", r.Target),
			zap.String("action", string(r.Action)),
			zap.Int("succeeded", r.SuccessCount),
			zap.Int("failed", r.FailCount),
			zap.Strings("errors", r.Errors))
	}
	return r
}

const productTarget = "product"

func variantTarget(v VariantDraft) string {
	return fmt.Sprintf("variant %q", v.Title)
}
