package expect

import (
	"errors"

	"github.com/abdul-hamid-achik/hitexpect/packages/equality"
)

// CodedError is an error that carries a numeric error code. Errors may also
// expose an API-facing code through APIErrorCode() int and a payload through
// ErrorData() any.
type CodedError interface {
	error
	ErrorCode() int
}

type apiCoder interface {
	APIErrorCode() int
}

type dataCarrier interface {
	ErrorData() any
}

// CodeOption adds a check to ToThrowCodedError.
type CodeOption func(*codedWant)

type codedWant struct {
	code    int
	apiCode *int
	data    any
	hasData bool
}

// WithAPICode requires the coded error to report apiCode from APIErrorCode.
func WithAPICode(apiCode int) CodeOption {
	return func(w *codedWant) {
		w.apiCode = &apiCode
	}
}

// WithErrorData requires the coded error's ErrorData to equal data in value.
func WithErrorData(data any) CodeOption {
	return func(w *codedWant) {
		w.data = data
		w.hasData = true
	}
}

// ToThrowCodedError calls the subject with no arguments and passes when it
// throws an error whose chain holds a CodedError with the given code.
func (e *Expectation) ToThrowCodedError(code int, opts ...CodeOption) error {
	return e.ToThrowCodedErrorWhenCalledWith(nil, code, opts...)
}

// ToThrowCodedErrorWhenCalledWith is ToThrowCodedError with args passed to
// the subject.
func (e *Expectation) ToThrowCodedErrorWhenCalledWith(args []any, code int, opts ...CodeOption) error {
	want := codedWant{code: code}
	for _, opt := range opts {
		opt(&want)
	}
	return e.run("toThrowCodedError", func() error {
		return e.throwsCoded(args, want)
	})
}

func (e *Expectation) throwsCoded(args []any, want codedWant) error {
	thrown, err := callSubject(e.actual, args)
	if err != nil {
		return err
	}
	if thrown == nil {
		return e.fail("CodedError %d wasn't thrown", []any{want.code})
	}

	var coded CodedError
	if !errors.As(thrown, &coded) {
		return e.fail(`Expected to throw CodedError %d, but instead got <%s> with message "%s"`, []any{want.code, errorTypeName(thrown), thrown.Error()})
	}

	if !equality.ValueEqual(want.code, coded.ErrorCode()) {
		return e.mismatch("A CodedError was thrown, but it didn't have the expected error code.", want.code, coded.ErrorCode())
	}

	if want.apiCode != nil {
		ac, ok := coded.(apiCoder)
		if !ok {
			return e.fail("The CodedError <%s> has no API code", []any{errorTypeName(coded)})
		}
		if !equality.ValueEqual(*want.apiCode, ac.APIErrorCode()) {
			return e.mismatch("The CodedError didn't have the expected api code.", *want.apiCode, ac.APIErrorCode())
		}
	}

	if want.hasData {
		dc, ok := coded.(dataCarrier)
		if !ok {
			return e.fail("The CodedError <%s> carries no error data", []any{errorTypeName(coded)})
		}
		if !equality.ValueEqual(want.data, dc.ErrorData()) {
			return e.mismatch("The CodedError didn't have the expected error data.", want.data, dc.ErrorData())
		}
	}
	return nil
}
