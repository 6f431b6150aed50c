package mem

import (
	"errors"

	"github.com/pcastellazzi/ulc3/translate"
)

var f = translate.From

var (
	// Image errors
	ErrImageTruncated = errors.New(f("image truncated"))
	ErrImageEmpty     = errors.New(f("image empty"))

	// Device errors
	ErrDeviceBound = errors.New(f("device already bound"))
)
