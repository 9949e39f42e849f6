package domain

import "errors"

var ErrUnsupportedMetal = errors.New("unsupported metal")
