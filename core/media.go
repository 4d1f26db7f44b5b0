package core

import (
	"context"
	"encoding/base64"
	"io"
	"strings"
)

// MediaObject references an uploaded asset on the external media host.
type MediaObject struct {
	Key string `json:"key"` // opaque object key on the host
	URL string `json:"url"` // public URL
}

// MediaService is any service that can store and remove binary assets.
type MediaService interface {
	// Upload stores the content under a host-generated key derived from name
	// and returns the stored object reference.
	Upload(ctx context.Context, name, contentType string, content io.Reader) (MediaObject, error)
	// Delete removes the object by key.
	Delete(ctx context.Context, key string) error
}

// DecodeDataURI decodes a "data:<mediatype>;base64,<payload>" string.
// ok is false when s is not a data URI; a malformed payload returns an error.
func DecodeDataURI(s string) (contentType string, data []byte, ok bool, err error) {
	if !strings.HasPrefix(s, "data:") {
		return "", nil, false, nil
	}
	rest := strings.TrimPrefix(s, "data:")
	sep := strings.Index(rest, ",")
	if sep < 0 {
		return "", nil, true, base64.CorruptInputError(0)
	}
	meta, payload := rest[:sep], rest[sep+1:]
	contentType = strings.TrimSuffix(meta, ";base64")
	data, err = base64.StdEncoding.DecodeString(payload)
	return contentType, data, true, err
}
