package render

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	apperr "github.com/matzehuels/ievis/pkg/errors"
)

// Converter is the external SVG rasterizer.
const Converter = "rsvg-convert"

var lookPath = exec.LookPath

// ToPDF converts an SVG diagram to PDF.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return convert(ctx, svg, "pdf")
}

// ToPNG rasterizes an SVG diagram. A zoom of 2 doubles the resolution;
// non-positive values render at 1.
func ToPNG(ctx context.Context, svg []byte, zoom float64) ([]byte, error) {
	if zoom <= 0 {
		zoom = 1
	}
	return convert(ctx, svg, "png", "--zoom", strconv.FormatFloat(zoom, 'f', 2, 64))
}

// Available reports whether the converter is installed.
func Available() bool {
	_, err := lookPath(Converter)
	return err == nil
}

func convert(ctx context.Context, svg []byte, format string, args ...string) ([]byte, error) {
	bin, err := lookPath(Converter)
	if err != nil {
		return nil, apperr.New(apperr.ErrCodeUnsupported,
			"%s export needs %s (apt install librsvg2-bin, brew install librsvg)", format, Converter)
	}

	cmd := exec.CommandContext(ctx, bin, append([]string{"--format", format}, args...)...)
	cmd.Stdin = bytes.NewReader(svg)
	var stdout, stderr bytes.Buffer
	cmd.Stdout, cmd.Stderr = &stdout, &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, apperr.Wrap(apperr.ErrCodeInternal, err, "%s: %s", Converter, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
