package expect

import (
	"testing"

	"github.com/abdul-hamid-achik/hitexpect/packages/failure"
	"github.com/abdul-hamid-achik/hitexpect/packages/snapshot"
	"github.com/abdul-hamid-achik/hitexpect/packages/spy"
	"github.com/abdul-hamid-achik/hitexpect/packages/typecheck"
	"github.com/abdul-hamid-achik/hitexpect/packages/uri"
)

// Option configures an Expectation.
type Option func(*config)

type config struct {
	message      string
	snapshots    snapshot.Store
	snapshotID   string
	snapshotMode snapshot.Mode
	calls        spy.CallRecorder
	uriParser    uri.Parser
	baseDir      string
	registry     *typecheck.Registry
	t            testing.TB
}

func newConfig(opts []Option) *config {
	c := &config{
		uriParser: uri.URLParser{},
		registry:  typecheck.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithMessage sets a custom message that leads every failure. The template
// accepts %s, %d and %f, filled from args in order.
func WithMessage(template string, args ...any) Option {
	return func(c *config) {
		c.message = failure.Format(template, args)
	}
}

// WithSnapshots names the store and id used by ToMatchSnapshot.
func WithSnapshots(store snapshot.Store, id string) Option {
	return func(c *config) {
		c.snapshots = store
		c.snapshotID = id
	}
}

// WithSnapshotMode decides how ToMatchSnapshot treats missing and stale
// snapshots. The default is snapshot.ModeRecordNew.
func WithSnapshotMode(mode snapshot.Mode) Option {
	return func(c *config) {
		c.snapshotMode = mode
	}
}

// WithCalls sets the recorder consulted by call matchers.
func WithCalls(recorder spy.CallRecorder) Option {
	return func(c *config) {
		c.calls = recorder
	}
}

// WithURIParser replaces uri.URLParser for ToEqualURI.
func WithURIParser(p uri.Parser) Option {
	return func(c *config) {
		c.uriParser = p
	}
}

// WithBaseDir resolves relative schema paths and confines them to dir.
func WithBaseDir(dir string) Option {
	return func(c *config) {
		c.baseDir = dir
	}
}

// WithRegistry replaces the default type registry used by ToBeType.
func WithRegistry(r *typecheck.Registry) Option {
	return func(c *config) {
		c.registry = r
	}
}

func withReporter(t testing.TB) Option {
	return func(c *config) {
		c.t = t
	}
}
