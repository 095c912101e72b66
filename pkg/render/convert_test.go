package render

import (
	"testing"

	verrors "github.com/matzehuels/vibegraph/pkg/errors"
)

func TestConvertSVGMissingBinary(t *testing.T) {
	old := rsvgBinary
	rsvgBinary = "vibegraph-no-such-converter"
	defer func() { rsvgBinary = old }()

	_, err := ToPDF([]byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`))
	if !verrors.Is(err, verrors.ErrCodeUnsupported) {
		t.Errorf("err = %v, want %s", err, verrors.ErrCodeUnsupported)
	}
}
