package util

import (
	"bytes"
	"compress/gzip"
	"io/ioutil"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh/terminal"
)

var gzipMagic = []byte{0x1f, 0x8b}

// DerefString returns the value of a string pointer or "" if nil
func DerefString(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

// SetupLogging switches to JSON output when not running in a TTY (colors
// are fun!) and enables debug output when asked.
func SetupLogging(debug bool) {
	if !terminal.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	if debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
}

// MaybeGunzip decompresses data if it carries a gzip header and returns it
// untouched otherwise.
func MaybeGunzip(data []byte) ([]byte, error) {
	if !bytes.HasPrefix(data, gzipMagic) {
		return data, nil
	}

	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "unable to create new gzip reader")
	}
	defer r.Close()

	out, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read data from gzip reader")
	}

	return out, nil
}
