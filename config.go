package session

// SimpleConfig is a plain-struct Config implementation. Zero values fall
// back to sensible defaults through the getters.
type SimpleConfig struct {
	BaseURL           string
	RequestTimeout    int
	AuthScheme        string
	SessionStorageKey string
	PollInterval      int
	StoragePath       string
}

var _ Config = SimpleConfig{}

func (c SimpleConfig) GetBaseURL() string {
	return c.BaseURL
}

// GetRequestTimeout returns the HTTP timeout in seconds.
func (c SimpleConfig) GetRequestTimeout() int {
	if c.RequestTimeout <= 0 {
		return 15
	}
	return c.RequestTimeout
}

func (c SimpleConfig) GetAuthScheme() string {
	if c.AuthScheme == "" {
		return "Bearer"
	}
	return c.AuthScheme
}

func (c SimpleConfig) GetSessionStorageKey() string {
	if c.SessionStorageKey == "" {
		return DefaultSessionStorageKey
	}
	return c.SessionStorageKey
}

// GetPollInterval returns the join-status poll interval in seconds.
func (c SimpleConfig) GetPollInterval() int {
	if c.PollInterval <= 0 {
		return int(DefaultPollInterval.Seconds())
	}
	return c.PollInterval
}

func (c SimpleConfig) GetStoragePath() string {
	return c.StoragePath
}
