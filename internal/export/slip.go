package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ledongthuc/pdf"
)

// SlipFailureText replaces the payment slip when it cannot be embedded.
const SlipFailureText = "Failed to load payment slip image."

const maxSlipSize = 10 << 20 // 10MB
const maxSlipTextLines = 40

// Slip is a payment slip ready for embedding. Exactly one of JPEG, Text or
// Err is meaningful.
type Slip struct {
	Source string
	JPEG   []byte
	Text   string
	Err    error
}

// Present reports whether the booking referenced a slip at all.
func (s Slip) Present() bool { return s.Source != "" }

// SlipFetcher downloads payment slips relative to the resources base URL.
type SlipFetcher struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Fetch never fails: download or decode problems end up in Slip.Err.
func (f *SlipFetcher) Fetch(ctx context.Context, slipPath string) Slip {
	if slipPath == "" {
		return Slip{}
	}
	logger := f.Logger
	if logger == nil {
		logger = slog.Default()
	}

	data, err := f.download(ctx, slipPath)
	if err != nil {
		logger.Warn("payment slip download failed", "slip", slipPath, "error", err)
		return Slip{Source: slipPath, Err: err}
	}
	slip := DecodeSlip(data)
	slip.Source = slipPath
	if slip.Err != nil {
		logger.Warn("payment slip unreadable", "slip", slipPath, "error", slip.Err)
	}
	return slip
}

func (f *SlipFetcher) download(ctx context.Context, slipPath string) ([]byte, error) {
	u := slipPath
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = f.BaseURL + slipPath
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	hc := f.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("slip returned status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxSlipSize))
}

// DecodeSlip turns raw slip bytes into an embeddable form. Images are
// re-encoded as JPEG; PDF slips contribute their text.
func DecodeSlip(data []byte) Slip {
	if bytes.HasPrefix(data, []byte("%PDF-")) {
		text, err := pdfText(data)
		if err != nil {
			return Slip{Err: fmt.Errorf("reading pdf slip: %w", err)}
		}
		if text == "" {
			return Slip{Err: errors.New("pdf slip has no text")}
		}
		return Slip{Text: text}
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Slip{Err: fmt.Errorf("decoding slip image: %w", err)}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return Slip{Err: fmt.Errorf("encoding slip jpeg: %w", err)}
	}
	return Slip{JPEG: buf.Bytes()}
}

func pdfText(data []byte) (text string, err error) {
	// The reader panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	raw, err := io.ReadAll(plain)
	if err != nil {
		return "", err
	}

	var lines []string
	for _, line := range strings.Split(string(raw), "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
		if len(lines) == maxSlipTextLines {
			break
		}
	}
	return strings.Join(lines, "\n"), nil
}
