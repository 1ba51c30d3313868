package productedit

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type CommitState int32

const (
	StateIdle CommitState = iota
	StateSubmitting
	StateSuccess
	StatePartialFailure
)

func (s CommitState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StatePartialFailure:
		return "partial_failure"
	}
	return fmt.Sprintf("CommitState(%d)", int32(s))
}

func (s CommitState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// EditorDeps wires the collaborators of an Editor.
type EditorDeps struct {
	Remote   Remote
	Notifier Notifier
	Logger   *zap.Logger
	Validate *validator.Validate
}

// Editor is one open product edit form: the draft, its pending image
// changes and the commit that reconciles them with the backend.
type Editor struct {
	draft    *ProductDraft
	remote   Remote
	notify   Notifier
	logger   *zap.Logger
	validate *validator.Validate
	state    atomic.Int32
}

func NewEditor(draft *ProductDraft, deps EditorDeps) (*Editor, error) {
	if deps.Remote == nil {
		return nil, errors.New("productedit: remote is required")
	}
	if draft == nil {
		draft = NewDraft()
	}
	notify := deps.Notifier
	if notify == nil {
		notify = nopNotifier{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	validate := deps.Validate
	if validate == nil {
		validate = validator.New()
	}
	return &Editor{
		draft:    draft,
		remote:   deps.Remote,
		notify:   notify,
		logger:   logger,
		validate: validate,
	}, nil
}

// Open fetches a product and returns a draft seeded from it.
func Open(ctx context.Context, remote Remote, credential, productID string) (*ProductDraft, error) {
	if credential == "" {
		return nil, ErrUnauthorized
	}
	if productID == "" {
		return nil, ErrMissingProductID
	}
	p, err := remote.GetProduct(ctx, credential, productID)
	if err != nil {
		return nil, err
	}
	return NewDraftFromProduct(p), nil
}

func (e *Editor) Draft() *ProductDraft { return e.draft }

func (e *Editor) State() CommitState { return CommitState(e.state.Load()) }

// Submitting reports whether a commit is running; the form disables its
// submit control while it is.
func (e *Editor) Submitting() bool { return e.State() == StateSubmitting }

func (e *Editor) MarkForUpload(scope Scope, file LocalFile, altText string) (PendingUpload, error) {
	return e.draft.MarkForUpload(scope, file, altText)
}

func (e *Editor) MarkForDeletion(scope Scope, img ImageRef) error {
	cancelled, err := e.draft.MarkForDeletion(scope, img)
	if err != nil {
		return err
	}
	if cancelled {
		e.notify.Success("Pending upload removed")
	}
	return nil
}

func (e *Editor) CancelUpload(scope Scope, index int) error {
	if err := e.draft.CancelUpload(scope, index); err != nil {
		return err
	}
	e.notify.Success("Pending upload removed")
	return nil
}

// UndoDeletion puts a marked image back. When the image cannot be found in
// the server list the ledger is left alone and the problem is reported.
func (e *Editor) UndoDeletion(scope Scope, index int) (ImageRef, error) {
	img, err := e.draft.UndoDeletion(scope, index)
	if err != nil {
		if errors.Is(err, ErrNoOriginalImage) {
			e.notify.Error("Could not restore image")
		}
		return ImageRef{}, err
	}
	e.notify.Success("Image restored")
	return img, nil
}

// reload replaces the draft with server state, keeping the pointer stable
// for whoever holds it.
func (e *Editor) reload(ctx context.Context, credential, productID string) error {
	p, err := e.remote.GetProduct(ctx, credential, productID)
	if err != nil {
		e.logger.Warn("reload after commit failed", zap.String("productId", productID), zap.Error(err))
		e.notify.Error(fmt.Sprintf("Saved, but reloading the product failed: %v", err))
		return fmt.Errorf("%w: %w", ErrReloadFailed, err)
	}
	*e.draft = *NewDraftFromProduct(p)
	return nil
}
