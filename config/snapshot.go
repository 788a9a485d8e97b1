package config

// Snapshot 返回应用配置的快照，仅包含cache、queue、mail和app_env四项
func Snapshot(cfg *Config) map[string]interface{} {
	mail := cfg.Get("mail.default")
	if mail == nil {
		mail = cfg.Get("mail.mailers")
	}

	return map[string]interface{}{
		"cache":   cfg.Get("cache.default"),
		"queue":   cfg.Get("queue.default"),
		"mail":    mail,
		"app_env": cfg.Get("app.env"),
	}
}
