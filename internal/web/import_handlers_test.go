package web

import (
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
)

func fileHeader(filename, contentType string) *multipart.FileHeader {
	h := &multipart.FileHeader{Filename: filename}
	if contentType != "" {
		h.Header = textproto.MIMEHeader{"Content-Type": {contentType}}
	} else {
		h.Header = textproto.MIMEHeader{}
	}
	return h
}

func TestIsCSVUpload_AcceptsCSVExtensionRegardlessOfContentType(t *testing.T) {
	assert.True(t, isCSVUpload(fileHeader("statement.csv", "application/octet-stream")))
	assert.True(t, isCSVUpload(fileHeader("STATEMENT.CSV", "")))
}

func TestIsCSVUpload_AcceptsDeclaredCSVContentTypeWithoutExtension(t *testing.T) {
	assert.True(t, isCSVUpload(fileHeader("statement", "text/csv")))
}

func TestIsCSVUpload_RejectsNonCSV(t *testing.T) {
	assert.False(t, isCSVUpload(fileHeader("statement.pdf", "application/pdf")))
	assert.False(t, isCSVUpload(fileHeader("statement.txt", "text/plain")))
}
