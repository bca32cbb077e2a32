package revision

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Defaults used when no configuration overrides them.
const (
	DefaultMinInterval   = 900 * time.Second
	DefaultMaxRevisions  = 20
	DefaultMaxContent    = 100 * 1024 * 1024
	DefaultMaxDocumentID = 256
)

// ErrInvalidOptions is returned by Validate and New for out-of-range options.
var ErrInvalidOptions = errors.New("invalid revision options")

// Options are the engine tunables.
type Options struct {
	// MinInterval is the coalescing window. Edits arriving sooner than this
	// after the latest revision amend it instead of appending.
	MinInterval time.Duration `validate:"gte=0s"`

	// MaxRevisions bounds the number of revisions kept per document. A chain
	// needs a root plus one interior revision before anything can be pruned.
	MaxRevisions int `validate:"gte=2,lte=10000"`

	// MaxContent limits the size of recorded text in bytes. 0 disables it.
	MaxContent int64 `validate:"gte=0"`

	// MaxDocumentID limits document ID length in bytes. 0 disables it.
	MaxDocumentID int `validate:"gte=0"`
}

// DefaultOptions returns the default tunables.
func DefaultOptions() Options {
	return Options{
		MinInterval:   DefaultMinInterval,
		MaxRevisions:  DefaultMaxRevisions,
		MaxContent:    DefaultMaxContent,
		MaxDocumentID: DefaultMaxDocumentID,
	}
}

var optionsValidate = validator.New()

// Validate checks every field is in range.
func (o Options) Validate() error {
	err := optionsValidate.Struct(o)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s (got %v)", e.Field(), e.Tag(), e.Param(), e.Value()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidOptions, strings.Join(msgs, "; "))
}
