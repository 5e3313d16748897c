package split

import (
	"context"

	"github.com/viant/afs/url"
)

// LocationSource dispatches on the location scheme: plain paths and file:// URLs
// are read with FileSource, so Seek is a real file seek, and every other scheme
// goes to a remote Source (an AFSSource by default).
type LocationSource struct {
	local  FileSource
	remote Source
}

var _ Source = (*LocationSource)(nil)

// NewLocationSource creates a LocationSource with afs handling remote schemes.
func NewLocationSource() *LocationSource {
	return NewLocationSourceWith(NewAFSSource())
}

// NewLocationSourceWith creates a LocationSource that sends non-local locations to remote.
func NewLocationSourceWith(remote Source) *LocationSource {
	return &LocationSource{remote: remote}
}

// Open opens location through the source responsible for its scheme.
func (s *LocationSource) Open(ctx context.Context, location string) (Stream, error) {
	src, p := s.route(location)

	return src.Open(ctx, p)
}

// Size returns the size of location through the source responsible for its scheme.
func (s *LocationSource) Size(ctx context.Context, location string) (int64, error) {
	src, p := s.route(location)

	return src.Size(ctx, p)
}

func (s *LocationSource) route(location string) (Source, string) {
	switch url.Scheme(location, "") {
	case "":
		return s.local, location
	case "file":
		return s.local, url.Path(location)
	default:
		return s.remote, location
	}
}
