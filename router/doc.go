// Package router executes guard decisions against a back stack and a
// caller-supplied renderer. It holds no authorization policy: every Navigate
// and Back call asks the guard exactly once and does what the decision says,
// including the decision's back-stack truncation. That split is what keeps
// protected screens unreachable through history after a logout or a denial.
package router
