// Package clock provides a tiny time abstraction.
//
// OTP expiry is logical: records carry an absolute expiry that is compared to
// Clocker.Now on read. Depending on Clocker instead of time.Now lets tests move
// time forward with a Frozen clock.
package clock
