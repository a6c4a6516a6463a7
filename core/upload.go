package core

import "io"

// UploadFile is one multipart attachment headed for the backend.
type UploadFile struct {
	Field    string
	FileName string
	Reader   io.Reader
}

// ProgressFunc reports upload progress as (bytes sent, total bytes).
type ProgressFunc func(sent, total int64)
