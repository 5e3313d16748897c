package scanner

import (
	"fmt"

	"github.com/arloliu/tagsplit/errs"
)

// Property keys that carry the tags.
const (
	StartTagKey = "xmlinput.start"
	EndTagKey   = "xmlinput.end"
)

// Config supplies string properties by key.
type Config interface {
	Get(key string) (string, bool)
}

// MapConfig is a Config backed by a map.
type MapConfig map[string]string

// Get returns the value stored under key.
func (m MapConfig) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Tags builds a MapConfig holding the given start and end tags.
func Tags(startTag, endTag string) MapConfig {
	return MapConfig{StartTagKey: startTag, EndTagKey: endTag}
}

// lookupTags reads both tags from conf.
func lookupTags(conf Config) (startTag, endTag []byte, err error) {
	if conf == nil {
		return nil, nil, errs.ErrMissingStartTag
	}

	start, ok := conf.Get(StartTagKey)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", errs.ErrMissingStartTag, StartTagKey)
	}
	end, ok := conf.Get(EndTagKey)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", errs.ErrMissingEndTag, EndTagKey)
	}

	return []byte(start), []byte(end), nil
}

// ValidateConfig checks that conf provides both tags and that neither is empty.
func ValidateConfig(conf Config) error {
	startTag, endTag, err := lookupTags(conf)
	if err != nil {
		return err
	}
	if len(startTag) == 0 {
		return fmt.Errorf("%w: start tag", errs.ErrEmptyTag)
	}
	if len(endTag) == 0 {
		return fmt.Errorf("%w: end tag", errs.ErrEmptyTag)
	}

	return nil
}
