package domain

// TwoFactorEnrollResponse is returned when two-factor is enabled for an
// account. The QR code is a base64 PNG data URL for direct embedding.
type TwoFactorEnrollResponse struct {
	OTPAuthURL string `json:"otpauth_url"`
	QRCode     string `json:"qrCode"`
}
