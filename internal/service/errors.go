package service

import "errors"

var (
	ErrNoImageProvided    = errors.New("no image provided")
	ErrInvalidImageData   = errors.New("image data not valid")
	ErrStorageWriteFailed = errors.New("unable to upload image to storage")
	ErrInvalidListing     = errors.New("invalid listing data")
	ErrPersistenceFailed  = errors.New("unable to save listing")
)
