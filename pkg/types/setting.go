package types

import "time"

// Well-known setting keys.
const (
	// SettingLocale holds the active display language code. It is read once
	// at process start by the localization layer.
	SettingLocale = "locale"

	// SettingInstallID holds a UUID generated on first initialization,
	// identifying this installation in backup envelopes.
	SettingInstallID = "install_id"
)

// Setting is one row of the global key/value configuration store.
type Setting struct {
	Key       string     `json:"key"`
	Value     string     `json:"value"`
	UpdatedAt *time.Time `json:"updatedAt"`
}

// Locale is one supported display language, seeded at initialization.
type Locale struct {
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
