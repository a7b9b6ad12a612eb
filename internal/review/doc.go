// Package review exports corpus sentences for manual review and runs an
// optional automated review through a chat model. The automated review
// produces a fix list that the apply-fixes pass consumes.
package review
