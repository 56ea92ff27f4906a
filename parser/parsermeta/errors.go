package parsermeta

import "errors"

var (
	ErrExpectedMapping = errors.New("metadata root must be a mapping")
	ErrNoRootElement   = errors.New("metadata document has no root element")
	ErrUnsupportedNode = errors.New("unsupported metadata node")
)
