package domain

import "errors"

// ErrValidation is an error thrown when an upload request is malformed or misses required fields
var ErrValidation = errors.New("validation error")

// ErrConversion is an error thrown when a video could not be converted to a browser-safe mp4
var ErrConversion = errors.New("conversion error")

// ErrStorageUnavailable is an error thrown when the object store cannot be reached or a read/write failed
var ErrStorageUnavailable = errors.New("storage unavailable")

// ErrObjectNotFound is an error thrown when an object does not exist in the store
var ErrObjectNotFound = errors.New("object not found")

// ErrInvalidTransition is an error thrown when a conversion job is moved to a stage it cannot reach
var ErrInvalidTransition = errors.New("invalid stage transition")

// ErrLessonNotFound is an error thrown when a lesson record is not found
var ErrLessonNotFound = errors.New("lesson not found")
