//go:build !ocr

package ocr

// Client is the stub used when the ocr build tag is not set. Every
// operation reports ErrDisabled.
type Client struct{}

// New returns ErrDisabled. Rebuild with -tags ocr for a working client.
func New() (*Client, error) {
	return nil, ErrDisabled
}

// Close is a no-op. Safe on a nil client.
func (c *Client) Close() error {
	return nil
}

// Recognize returns ErrDisabled.
func (c *Client) Recognize(image []byte) (string, error) {
	return "", ErrDisabled
}

// SetLanguage returns ErrDisabled.
func (c *Client) SetLanguage(lang string) error {
	return ErrDisabled
}

// SetPageSegMode returns ErrDisabled.
func (c *Client) SetPageSegMode(mode PageSegMode) error {
	return ErrDisabled
}
