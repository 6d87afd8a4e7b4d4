package calendar

// Settings 用户偏好设置（单用户部署，全局一份）
type Settings struct {
	Timezone             string `json:"timezone"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
	PreferredLanguage    string `json:"preferred_language"`
}

// DefaultSettings 默认设置
func DefaultSettings() *Settings {
	return &Settings{
		Timezone:             "UTC",
		NotificationsEnabled: true,
		PreferredLanguage:    "en",
	}
}
