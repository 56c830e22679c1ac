package api

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
)

// FormField is one repeated-key text part of a multipart body.
type FormField struct {
	Key   string
	Value string
}

// FormFile is one binary part of a multipart body.
type FormFile struct {
	Field       string
	Name        string
	ContentType string
	Data        []byte
}

// FormData is an ordered multipart submission. Keys may repeat ("highlights[]").
type FormData struct {
	Fields []FormField
	Files  []FormFile
}

// Add appends a text field.
func (fd *FormData) Add(key, value string) {
	fd.Fields = append(fd.Fields, FormField{Key: key, Value: value})
}

// Get returns the first value for key.
func (fd FormData) Get(key string) (string, bool) {
	for _, f := range fd.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Values returns every value for key, in order.
func (fd FormData) Values(key string) []string {
	var out []string
	for _, f := range fd.Fields {
		if f.Key == key {
			out = append(out, f.Value)
		}
	}
	return out
}

func (fd FormData) request() (request, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range fd.Fields {
		if err := w.WriteField(f.Key, f.Value); err != nil {
			return request{}, fmt.Errorf("writing field %s: %w", f.Key, err)
		}
	}
	for _, f := range fd.Files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", multipart.FileContentDisposition(f.Field, f.Name))
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return request{}, fmt.Errorf("creating file part %s: %w", f.Field, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return request{}, fmt.Errorf("writing file part %s: %w", f.Field, err)
		}
	}
	if err := w.Close(); err != nil {
		return request{}, err
	}
	return request{body: &buf, contentType: w.FormDataContentType()}, nil
}
