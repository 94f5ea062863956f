package protocol

import "errors"

var (
	ErrInvalidHexEncoding      = errors.New("invalid hex encoding")
	ErrHeaderTooShort          = errors.New("header too short")
	ErrHeaderIndeterminate     = errors.New("header format indeterminate")
	ErrBufferTooShortForHeader = errors.New("buffer too short for header")
	ErrPayloadTooShort         = errors.New("payload too short")
	ErrContainerOverflow       = errors.New("container exceeds payload")
	ErrShortRead               = errors.New("not enough data")
)
