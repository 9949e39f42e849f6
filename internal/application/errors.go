package application

import "errors"

var ErrNotFound = errors.New("not found")
var ErrBadRequest = errors.New("bad request")

// ErrNoFixing is returned by fixing providers when no fixing was published
// for the requested date (weekends, holidays).
var ErrNoFixing = errors.New("no fixing for date")
