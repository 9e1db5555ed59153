// Package expect is the fluent entry point to the matcher engine.
//
//	err := expect.That(got).ToEqual(want)
//	err = expect.That(users).Not().ToContain("admin")
//	err = expect.Calls(recorder, "store.Save").WasCalledOnceWith("ada")
//
// Every matcher returns nil when it holds, a *failure.Failure when it does
// not and a *failure.InvalidArgument when it was called with arguments it
// cannot work with. Inside tests, New(t) reports those errors to t as well:
// failures with t.Errorf and misuse with t.Fatalf.
//
// Dispatch runs a matcher by name, which is how check files reach the
// engine.
package expect
