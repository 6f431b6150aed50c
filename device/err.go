package device

import (
	"errors"

	"github.com/pcastellazzi/ulc3/translate"
)

var f = translate.From

var (
	ErrScript = errors.New(f("device script failed"))
)
