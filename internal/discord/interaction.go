package discord

import (
	"encoding/json"
	"strings"
)

// InteractionType is the kind of interaction delivered to the webhook.
type InteractionType int

const (
	InteractionPing               InteractionType = 1
	InteractionApplicationCommand InteractionType = 2
)

// Interaction is the body Discord POSTs to the interactions endpoint.
type Interaction struct {
	ID            string          `json:"id"`
	ApplicationID string          `json:"application_id"`
	Type          InteractionType `json:"type"`
	Data          *CommandData    `json:"data,omitempty"`
	Member        *Member         `json:"member,omitempty"`
	User          *User           `json:"user,omitempty"`
	Token         string          `json:"token"`
	Attachments   []Attachment    `json:"attachments,omitempty"`
}

// Member is a guild member; it carries the user in guild contexts.
type Member struct {
	User *User `json:"user,omitempty"`
}

// UserID returns the invoking user, from the guild member in guilds and
// from the top-level user in DMs.
func (i Interaction) UserID() string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

type CommandData struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Options  []CommandDataOption `json:"options,omitempty"`
	Resolved *ResolvedData       `json:"resolved,omitempty"`
}

// CommandDataOption is an option value as sent by the client. Value is
// kept raw because its JSON type depends on the option type.
type CommandDataOption struct {
	Name  string          `json:"name"`
	Type  int             `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

type ResolvedData struct {
	Attachments map[string]Attachment `json:"attachments,omitempty"`
}

type Attachment struct {
	ID          string `json:"id"`
	Filename    string `json:"filename,omitempty"`
	URL         string `json:"url"`
	ProxyURL    string `json:"proxy_url,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

// Option returns the named option, if present.
func (d *CommandData) Option(name string) (CommandDataOption, bool) {
	if d == nil {
		return CommandDataOption{}, false
	}
	for _, opt := range d.Options {
		if opt.Name == name {
			return opt, true
		}
	}
	return CommandDataOption{}, false
}

// StringOption returns the trimmed string value of the named option, or ""
// when it is missing or not a string.
func (d *CommandData) StringOption(name string) string {
	opt, ok := d.Option(name)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(opt.Value, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// AttachmentOption resolves an attachment option. Clients have sent the
// attachment inline as the option value, as an ID into
// data.resolved.attachments, and as an ID into the top-level attachments
// list; all three are accepted.
func (i Interaction) AttachmentOption(name string) (Attachment, bool) {
	opt, ok := i.Data.Option(name)
	if !ok || len(opt.Value) == 0 {
		return Attachment{}, false
	}

	var inline Attachment
	if json.Unmarshal(opt.Value, &inline) == nil && inline.URL != "" {
		return inline, true
	}

	var id string
	if json.Unmarshal(opt.Value, &id) != nil || id == "" {
		return Attachment{}, false
	}
	if i.Data.Resolved != nil {
		if att, ok := i.Data.Resolved.Attachments[id]; ok {
			return att, true
		}
	}
	for _, att := range i.Attachments {
		if att.ID == id {
			return att, true
		}
	}
	return Attachment{}, false
}

// ResponseType is the kind of reply to an interaction.
type ResponseType int

const (
	ResponsePong                     ResponseType = 1
	ResponseChannelMessageWithSource ResponseType = 4
)

// MessageFlags are bit flags on a response message.
type MessageFlags int

const FlagEphemeral MessageFlags = 1 << 6

type InteractionResponse struct {
	Type ResponseType  `json:"type"`
	Data *ResponseData `json:"data,omitempty"`
}

type ResponseData struct {
	Content string       `json:"content,omitempty"`
	Embeds  []Embed      `json:"embeds,omitempty"`
	Flags   MessageFlags `json:"flags,omitempty"`
}

type Embed struct {
	Description string      `json:"description,omitempty"`
	Image       *EmbedImage `json:"image,omitempty"`
}

type EmbedImage struct {
	URL string `json:"url"`
}

// Pong answers a PING.
func Pong() InteractionResponse {
	return InteractionResponse{Type: ResponsePong}
}

// Reply is a message response, hidden from everyone but the invoker when
// ephemeral is set.
func Reply(content string, ephemeral bool) InteractionResponse {
	data := &ResponseData{Content: content}
	if ephemeral {
		data.Flags = FlagEphemeral
	}
	return InteractionResponse{Type: ResponseChannelMessageWithSource, Data: data}
}

// EmbedReply is a message response made of embeds.
func EmbedReply(embeds []Embed, ephemeral bool) InteractionResponse {
	data := &ResponseData{Embeds: embeds}
	if ephemeral {
		data.Flags = FlagEphemeral
	}
	return InteractionResponse{Type: ResponseChannelMessageWithSource, Data: data}
}
