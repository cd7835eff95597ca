package engine

import "errors"

// #region errors

// ErrInvalidState reports a lifecycle method called out of order. Caller
// misuse, never swallowed.
var ErrInvalidState = errors.New("invalid lifecycle state")

// ErrInvalidArgument reports an override with a category outside the closed
// set or a confidence outside [0,1]. The cycle state is left unchanged.
var ErrInvalidArgument = errors.New("invalid argument")

// #endregion errors
