package bench

import (
	"strings"

	"github.com/pkg/errors"
)

// extLen is the length of the result file extension (".csv").
const extLen = 4

var ErrMalformedFilename = errors.New("malformed result filename")

// Name is the metadata encoded in a result file name:
//
//	<prefix><rawSuffix>_<title>.csv
type Name struct {
	Prefix    string // as it appears in the name, which may differ in case from the configured prefix
	RawSuffix string // build marker between prefix and the last underscore
	Title     string
}

// ParseName splits a result file name. The prefix is matched case-insensitively.
func ParseName(name, prefix string) (Name, error) {
	if !hasPrefixFold(name, prefix) {
		return Name{}, errors.Wrapf(ErrMalformedFilename, "%q lacks prefix %q", name, prefix)
	}
	title, err := ExtractTitle(name)
	if err != nil {
		return Name{}, err
	}
	n := Name{Prefix: name[:len(prefix)], Title: title}
	if i := strings.LastIndex(name, "_"); i > len(prefix) {
		n.RawSuffix = name[len(prefix):i]
	}
	return n, nil
}

// ExtractTitle returns the text after the last underscore of name,
// without the file extension.
func ExtractTitle(name string) (string, error) {
	i := strings.LastIndex(name, "_")
	if i < 0 {
		return "", errors.Wrapf(ErrMalformedFilename, "%q has no underscore", name)
	}
	rest := name[i+1:]
	if len(rest) < extLen {
		return "", errors.Wrapf(ErrMalformedFilename, "%q is too short after its last underscore", name)
	}
	return rest[:len(rest)-extLen], nil
}
