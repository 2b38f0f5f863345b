package decode

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nattapong-dev/tor-analyzer/constants"
)

// ImageDecoder runs tesseract over a raster image and returns the recognized
// text. The tesseract binary is an optional external dependency: if it is not
// installed, this branch fails with a DecodeError without affecting the other
// decoders.
type ImageDecoder struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewImageDecoder(cfg Config, logger *slog.Logger) *ImageDecoder {
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng+tha"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ImageDecoder{cfg: cfg, runner: execRunner{}, logger: logger}
}

// WithRunner returns a copy using r for command execution.
func (d *ImageDecoder) WithRunner(r Runner) *ImageDecoder {
	cp := *d
	cp.runner = r
	return &cp
}

func (d *ImageDecoder) Format() constants.Format { return constants.IMAGE }

func (d *ImageDecoder) Decode(ctx context.Context, data []byte) (string, error) {
	// tesseract reads from a file, so stage the bytes in a temp dir
	tmpDir, err := os.MkdirTemp("", "tor-ocr-*")
	if err != nil {
		return "", fmt.Errorf("temp dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			d.logger.Warn("ocr temp dir cleanup failed", "dir", tmpDir, "error", err)
		}
	}()

	imgPath := filepath.Join(tmpDir, "page")
	if err := os.WriteFile(imgPath, data, 0o600); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}

	args := []string{imgPath, "stdout", "-l", d.cfg.TesseractLang}
	if d.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", d.cfg.TessdataDir)
	}

	// tesseract <file> stdout -l <lang>
	out, errb, err := d.runner.Run(ctx, d.cfg.Tesseract, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w (%s)", err, truncate(string(errb), 512))
	}
	return string(out), nil
}
