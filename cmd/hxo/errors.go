package main

import "errors"

// Sentinel errors for command operations
var (
	ErrInputFileNotExist = errors.New("input file does not exist")
	ErrConfigExists      = errors.New("configuration file already exists")
	ErrCheckFailed       = errors.New("components have errors")
)
