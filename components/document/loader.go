package document

import (
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// NewLoader picks a loader for uri: http(s) URLs, s3://bucket/key objects
// (read with clt) or local file paths.
func NewLoader(uri string, clt *s3.Client) Loader {
	u, err := url.Parse(uri)
	if err != nil {
		return NewFile(uri)
	}
	switch u.Scheme {
	case "http", "https":
		return NewHttp(WithHttpURL(uri))
	case "s3":
		return NewS3(WithS3Bucket(u.Host), WithS3Key(strings.TrimPrefix(u.Path, "/")), WithS3Client(clt))
	}
	return NewFile(uri)
}
