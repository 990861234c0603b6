package config

import "time"

// LLMConfig represents the configuration for the generative provider
type LLMConfig struct {
	Provider string
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// TriageConfig holds the decision-policy knobs
type TriageConfig struct {
	SpamThreshold      float64
	MaxPerSender       int
	RateLimitWindow    time.Duration
	WhitelistedDomains []string
}

// LedgerConfig holds the history-ledger settings
type LedgerConfig struct {
	Type          string
	Path          string
	RetentionDays int
	SQLitePath    string
	MySQLDSN      string
}

// IMAPConfig holds the mail-source settings
type IMAPConfig struct {
	Server     string
	Port       int
	Username   string
	Password   string
	Folder     string
	DaysBack   int
	FetchLimit int
	UnreadOnly bool
}

// SMTPConfig holds the mail-sender settings
type SMTPConfig struct {
	Server   string
	Port     int
	Username string
	Password string
	From     string
}

// ProcessorConfig holds the fetch-cycle settings
type ProcessorConfig struct {
	CheckInterval time.Duration
}

// GetLLM returns the generative provider configuration
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		Provider: c.GetString("llm.provider"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
		MaxBodySize: c.GetInt("gemini.max_body_size"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
		MaxBodySize: c.GetInt("openai.max_body_size"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
		MaxBodySize: c.GetInt("bedrock.max_body_size"),
	}
}

// GetTriage returns the triage policy configuration
func (c *Config) GetTriage() TriageConfig {
	return TriageConfig{
		SpamThreshold:      c.GetFloat64("triage.spam_threshold"),
		MaxPerSender:       c.GetInt("triage.max_per_sender"),
		RateLimitWindow:    c.v.GetDuration("triage.rate_limit_window"),
		WhitelistedDomains: c.GetStringSlice("triage.whitelisted_domains"),
	}
}

// GetLedger returns the history ledger configuration
func (c *Config) GetLedger() LedgerConfig {
	return LedgerConfig{
		Type:          c.GetString("ledger.type"),
		Path:          c.GetString("ledger.path"),
		RetentionDays: c.GetInt("ledger.retention_days"),
		SQLitePath:    c.GetString("ledger.sqlite_path"),
		MySQLDSN:      c.GetString("ledger.mysql_dsn"),
	}
}

// GetIMAP returns the mail source configuration
func (c *Config) GetIMAP() IMAPConfig {
	return IMAPConfig{
		Server:     c.GetString("imap.server"),
		Port:       c.GetInt("imap.port"),
		Username:   c.GetString("imap.username"),
		Password:   c.GetString("imap.password"),
		Folder:     c.GetString("imap.folder"),
		DaysBack:   c.GetInt("imap.days_back"),
		FetchLimit: c.GetInt("imap.fetch_limit"),
		UnreadOnly: c.GetBool("imap.unread_only"),
	}
}

// GetSMTP returns the mail sender configuration
func (c *Config) GetSMTP() SMTPConfig {
	return SMTPConfig{
		Server:   c.GetString("smtp.server"),
		Port:     c.GetInt("smtp.port"),
		Username: c.GetString("smtp.username"),
		Password: c.GetString("smtp.password"),
		From:     c.GetString("smtp.from"),
	}
}

// GetProcessor returns the fetch-cycle configuration
func (c *Config) GetProcessor() ProcessorConfig {
	return ProcessorConfig{
		CheckInterval: c.v.GetDuration("processor.check_interval"),
	}
}
