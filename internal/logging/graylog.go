package logging

import (
	"fmt"
	"io"

	"github.com/Graylog2/go-gelf/gelf"
)

// NewGraylogWriter connects a GELF UDP writer for the given address. The
// returned writer is suitable as the remote argument to SlogManager.Setup.
func NewGraylogWriter(address, facility string) (io.Writer, error) {
	w, err := gelf.NewWriter(address)
	if err != nil {
		return nil, fmt.Errorf("connecting gelf writer to %s: %w", address, err)
	}
	w.Facility = facility
	return w, nil
}
