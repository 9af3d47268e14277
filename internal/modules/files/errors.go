package files

import "errors"

var (
	ErrMissingName     = errors.New("missing name")
	ErrInvalidType     = errors.New("missing or invalid type")
	ErrMissingData     = errors.New("missing data")
	ErrInvalidData     = errors.New("data is not valid base64")
	ErrParentNotFound  = errors.New("parent not found")
	ErrParentNotFolder = errors.New("parent is not a folder")
	ErrNotFound        = errors.New("file not found")
	ErrFolderNoContent = errors.New("a folder doesn't have content")
)
