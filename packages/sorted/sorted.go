// Package sorted verifies that consecutive elements of a sequence are in
// order. Sequences are consumed once, front to back, so single-pass sources
// such as channels and iter.Seq work as well as slices.
package sorted

import (
	"cmp"
	"iter"

	"github.com/abdul-hamid-achik/hitexpect/packages/equality"
	"github.com/abdul-hamid-achik/hitexpect/packages/failure"
	"github.com/abdul-hamid-achik/hitexpect/packages/value"
)

const (
	defaultMessage = "Collection is not sorted"
	detail         = "%s: at pos %d, %s and %s are in the wrong order"
)

// Option configures a sortedness check.
type Option func(*config)

type config struct {
	message string
}

// WithMessage replaces the default "Collection is not sorted" lead.
func WithMessage(msg string) Option {
	return func(c *config) {
		c.message = msg
	}
}

func newConfig(opts []Option) *config {
	c := &config{message: defaultMessage}
	for _, opt := range opts {
		opt(c)
	}
	if c.message == "" {
		c.message = defaultMessage
	}
	return c
}

// IsSortedBy requires inOrder(prev, curr) for every consecutive pair of seq.
// The first violation stops the walk and is reported with the position of
// the second element of the pair. Sequences shorter than two elements never
// call inOrder.
func IsSortedBy[T any](seq iter.Seq[T], inOrder func(a, b T) bool, opts ...Option) error {
	c := newConfig(opts)

	var (
		prev    T
		hasPrev bool
		index   int
		err     error
	)
	for curr := range seq {
		if hasPrev && !inOrder(prev, curr) {
			err = c.fail(index, prev, curr)
			break
		}
		prev, hasPrev = curr, true
		index++
	}
	return err
}

// IsSortedByKey is IsSortedBy with the non-strict natural order of the keys
// extracted by key. Equal keys are in order.
func IsSortedByKey[T any, K cmp.Ordered](seq iter.Seq[T], key func(T) K, opts ...Option) error {
	return IsSortedBy(seq, func(a, b T) bool {
		return cmp.Compare(key(a), key(b)) <= 0
	}, opts...)
}

// Verify is IsSortedBy for a subject of unknown type. The subject must be
// iterable in the sense of value.Each.
func Verify(subject any, inOrder func(a, b any) bool, opts ...Option) error {
	if !value.CanIterate(subject) {
		return failure.Invalid("sorted", "subject must be an iterable collection, got %s", value.TypeName(subject))
	}
	return IsSortedBy(each(subject), inOrder, opts...)
}

// VerifyByKey is IsSortedByKey for a subject of unknown type. Keys are
// ordered with equality.Compare; keys that cannot be ordered are an
// *failure.InvalidArgument.
func VerifyByKey(subject any, key func(any) any, opts ...Option) error {
	var cmpErr error
	err := Verify(subject, func(a, b any) bool {
		n, err := equality.Compare(key(a), key(b))
		if err != nil {
			cmpErr = err
			return false
		}
		return n <= 0
	}, opts...)
	if cmpErr != nil {
		return cmpErr
	}
	return err
}

// Ascending is the non-strict natural order used by VerifyByKey.
func Ascending(a, b any) bool {
	n, err := equality.Compare(a, b)
	return err == nil && n <= 0
}

// Descending is the reverse of Ascending.
func Descending(a, b any) bool {
	n, err := equality.Compare(a, b)
	return err == nil && n >= 0
}

func each(subject any) iter.Seq[any] {
	return func(yield func(any) bool) {
		_ = value.Each(subject, yield)
	}
}

func (c *config) fail(index int, prev, curr any) error {
	return failure.Fail(detail, []any{c.message, index, value.Export(prev), value.Export(curr)})
}
