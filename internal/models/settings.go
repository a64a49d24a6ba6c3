package models

// Settings is the process-wide configuration edited through /settings.
// Every field is optional; an empty value means "not configured".
type Settings struct {
	TitlePrompt         string `json:"title_prompt" example:"タイトルには「？」を含めてください"`
	ContentPrompt       string `json:"content_prompt" example:"文章量は必ず2000文字以上にしてください"`
	APIEndpoint         string `json:"api_endpoint" example:"https://api.dify.ai/v1/chat-messages"`
	APIKey              string `json:"api_key" example:"app-xxxxxxxx"`
	Variable1           string `json:"variable1"`
	Variable2           string `json:"variable2"`
	WordpressUsername   string `json:"wordpress_username" example:"editor"`
	ApplicationPassword string `json:"application_password" example:"abcd efgh ijkl mnop"`
	SiteURL             string `json:"siteurl" example:"https://example.com"`
	KeywordGeneratorURL string `json:"keyword_generator_url"`
	XServerURL          string `json:"x_server_url"`
	RakkoKeywordURL     string `json:"rakkokeyword_url"`
}

// UpstreamDefaults are the built-in values used when the matching setting is empty.
type UpstreamDefaults struct {
	TitlePrompt   string `yaml:"title_prompt"`
	ContentPrompt string `yaml:"content_prompt"`
	APIEndpoint   string `yaml:"api_endpoint"`
	APIKey        string `yaml:"api_key"`
}

// ClearDefaults empties every field that currently holds its default value,
// so a default is only ever used for the call that resolved it.
func (s *Settings) ClearDefaults(d UpstreamDefaults) {
	if s.APIEndpoint == d.APIEndpoint {
		s.APIEndpoint = ""
	}
	if s.TitlePrompt == d.TitlePrompt {
		s.TitlePrompt = ""
	}
	if s.ContentPrompt == d.ContentPrompt {
		s.ContentPrompt = ""
	}
	if s.APIKey == d.APIKey {
		s.APIKey = ""
	}
}

// SettingsResponse is returned after settings have been saved
type SettingsResponse struct {
	Message string `json:"message" example:"Settings updated successfully"`
}
