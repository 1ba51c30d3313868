package productedit

import "errors"

var (
	// ErrUnauthorized indicates no bearer credential was supplied.
	ErrUnauthorized = errors.New("productedit: unauthorized")
	// ErrMissingProductID indicates a remote-only action on a product that does not exist yet.
	ErrMissingProductID = errors.New("productedit: product has no identifier")
	// ErrCommitInProgress is returned when a commit is already running for the draft.
	ErrCommitInProgress = errors.New("productedit: commit already in progress")
	// ErrNoVariants indicates the draft has no variants at commit time.
	ErrNoVariants = errors.New("productedit: at least one variant is required")
	// ErrInvalidDraft wraps validation failures found before commit.
	ErrInvalidDraft = errors.New("productedit: invalid draft")
	// ErrInvalidField indicates a field update carried an unacceptable value.
	ErrInvalidField = errors.New("productedit: invalid field value")
	// ErrInvalidScope indicates the scope does not name an existing variant.
	ErrInvalidScope = errors.New("productedit: invalid scope")
	// ErrIndexOutOfRange indicates a ledger or image index outside its list.
	ErrIndexOutOfRange = errors.New("productedit: index out of range")
	// ErrImageNotFound indicates the image is not among the scope's accepted images.
	ErrImageNotFound = errors.New("productedit: image not found in scope")
	// ErrNoOriginalImage indicates an undo could not find the image in the server list.
	ErrNoOriginalImage = errors.New("productedit: original image not found")
	// ErrVariantPersisted indicates a persisted variant cannot be removed from the form.
	ErrVariantPersisted = errors.New("productedit: variant already exists")
	// ErrCreateFailed wraps a failure of the product create call.
	ErrCreateFailed = errors.New("productedit: create product failed")
	// ErrUpdateFailed wraps a failure of the product update call.
	ErrUpdateFailed = errors.New("productedit: update product failed")
	// ErrReloadFailed wraps a failure to reload the product after a commit.
	ErrReloadFailed = errors.New("productedit: reload failed")
	// ErrReorderFailed wraps a failure of an eager reorder call.
	ErrReorderFailed = errors.New("productedit: reorder failed")
)
